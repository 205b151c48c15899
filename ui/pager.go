package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/readaloud/speech"
)

const statusBarHeight = 1

type model struct {
	cfg     speech.Config
	path    string
	doc     *docView
	manager *speech.Manager
	engine  speech.Engine
	cache   *speech.Cache
	logger  *log.Logger

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	lastErr error
}

func newModel(path string, doc *docView, manager *speech.Manager, engine speech.Engine, cfg speech.Config, logger *log.Logger) *model {
	return &model{
		cfg:     cfg,
		path:    path,
		doc:     doc,
		manager: manager,
		engine:  engine,
		cache:   speech.NewCache(cfg.CacheTTL),
		logger:  logger,
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-statusBarHeight)
			m.viewport.SetContent(m.doc.render())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - statusBarHeight
		}
		m.doc.setViewport(m.viewport.YOffset, m.viewport.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.doc.recordInput()
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.doc.setViewport(m.viewport.YOffset, m.viewport.Height)
		return m, cmd

	case refreshMsg:
		if m.ready {
			m.viewport.SetContent(m.doc.render())
		}
		return m, nil

	case scrollToMsg:
		if m.ready {
			m.viewport.SetYOffset(msg.top)
			m.doc.setViewport(m.viewport.YOffset, m.viewport.Height)
		}
		return m, nil

	case sessionStartedMsg:
		m.lastErr = nil
		return m, nil

	case sessionEndedMsg:
		m.lastErr = msg.err
		return m, nil

	case fileChangedMsg:
		return m, reloadCmd(m.path)

	case reloadedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.manager.Stop()
		m.doc.reload(msg.text)
		if m.ready {
			m.viewport.SetContent(m.doc.render())
			m.viewport.SetYOffset(0)
			m.doc.setViewport(0, m.viewport.Height)
		}
		return m, nil
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.manager.Interrupt()
		return m, tea.Quit

	case "s":
		// restart from the cursor, tearing down any live session first
		return m, m.speakCmd()

	case "esc", "x":
		m.manager.Interrupt()
		return m, nil

	case " ":
		if m.manager.Active() != nil {
			m.manager.Interrupt()
			return m, nil
		}
		return m, m.speakCmd()

	case "r":
		return m, reloadCmd(m.path)

	case "g", "home":
		m.doc.recordInput()
		m.viewport.GotoTop()
		m.doc.setViewport(m.viewport.YOffset, m.viewport.Height)
		return m, nil

	case "G", "end":
		m.doc.recordInput()
		m.viewport.GotoBottom()
		m.doc.setViewport(m.viewport.YOffset, m.viewport.Height)
		return m, nil

	default:
		m.doc.recordInput()
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.doc.setViewport(m.viewport.YOffset, m.viewport.Height)
		return m, cmd
	}
}

// speakCmd starts a session from the current cursor. Speak tears down any
// prior session first, so it runs off the event loop.
func (m *model) speakCmd() tea.Cmd {
	send := m.doc.send
	opts := speech.Options{
		View:   m.doc,
		Engine: m.engine,
		Config: m.cfg,
		Cache:  m.cache,
		Logger: m.logger,
		OnFinished: func() {
			send(sessionEndedMsg{})
		},
		OnError: func(err error) {
			send(sessionEndedMsg{err: err})
		},
	}
	return func() tea.Msg {
		if _, err := m.manager.Speak(opts); err != nil {
			return sessionEndedMsg{err: err}
		}
		return sessionStartedMsg{}
	}
}

func (m *model) View() string {
	if !m.ready {
		return "\n  loading..."
	}
	return m.viewport.View() + "\n" + m.statusView()
}

func (m *model) statusView() string {
	state := statusStateStyle.Render(m.stateText())
	percent := fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)

	middle := " " + filepath.Base(m.path)
	if m.lastErr != nil {
		middle += "  " + errorStyle.Render(m.lastErr.Error())
	}

	gap := m.width - lipgloss.Width(state) - runewidth.StringWidth(percent) - lipgloss.Width(middle)
	if gap < 0 {
		width := lipgloss.Width(middle) + gap
		if width < 0 {
			width = 0
		}
		middle = truncate.StringWithTail(middle, uint(width), "…")
		gap = 0
	}

	return state + statusBarStyle.Render(middle+strings.Repeat(" ", gap)+percent)
}

func (m *model) stateText() string {
	s := m.manager.Active()
	if s == nil {
		return "IDLE"
	}
	switch s.State() {
	case speech.StateFetching, speech.StatePlaying, speech.StateDelaying:
		return "READING"
	default:
		return "IDLE"
	}
}
