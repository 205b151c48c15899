// Package ui is the terminal reader: a viewport over the document with a
// speech session highlighting and following the text as it plays.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dgnsrekt/readaloud/speech"
	"github.com/dgnsrekt/readaloud/speech/engines"
)

// Run opens path in the reader and blocks until the user quits.
func Run(path string, cfg speech.Config, logger *log.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	engine, err := engines.New(cfg, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	doc := newDocView(path, string(data))
	manager := speech.NewManager(logger)
	m := newModel(path, doc, manager, engine, cfg, logger)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	doc.send = p.Send

	watcher, werr := fsnotify.NewWatcher()
	if werr != nil {
		logger.Warn("file watching disabled", "err", werr)
	} else {
		defer watcher.Close()
		if aerr := watcher.Add(filepath.Dir(path)); aerr != nil {
			logger.Warn("file watching disabled", "err", aerr)
		} else {
			go watchLoop(watcher, path, p)
		}
	}

	_, err = p.Run()
	manager.Stop()
	return err
}

// watchLoop forwards on-disk changes of the document as reload messages.
// Watching the parent directory survives editors that replace the file.
func watchLoop(watcher *fsnotify.Watcher, path string, p *tea.Program) {
	target := filepath.Clean(path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				p.Send(fileChangedMsg{})
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
