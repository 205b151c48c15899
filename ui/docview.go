package ui

import (
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/readaloud/speech"
)

// docView is the reading session's window onto the document. The session
// goroutine calls its speech.View methods; the bubbletea model mirrors
// viewport geometry into it and renders from it. A mutex covers both
// sides.
type docView struct {
	mu sync.Mutex

	path string
	text string

	// lineStarts[i] is the byte offset of line i.
	lineStarts []int

	cursor int

	marker struct {
		start, end int
		style      speech.MarkerStyle
		active     bool
	}

	// top and height mirror the viewport's visible line range.
	top    int
	height int

	lastInput time.Time

	// send posts a message to the program's event loop. Set once before
	// the program runs.
	send func(tea.Msg)
}

func newDocView(path, text string) *docView {
	d := &docView{
		path:   path,
		height: 1,
		send:   func(tea.Msg) {},
	}
	d.setText(text)
	return d
}

func (d *docView) setText(text string) {
	d.text = text
	d.lineStarts = d.lineStarts[:0]
	d.lineStarts = append(d.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
	if d.cursor > len(text) {
		d.cursor = 0
	}
	d.marker.active = false
}

// reload swaps in new document text, resetting progress.
func (d *docView) reload(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setText(text)
	d.cursor = 0
	d.top = 0
}

// lineFor maps a byte offset to its zero-based line number.
func (d *docView) lineFor(pos int) int {
	return sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > pos
	}) - 1
}

func (d *docView) ReadRange(start, end int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if start < 0 {
		start = 0
	}
	if end > len(d.text) {
		end = len(d.text)
	}
	if start >= end {
		return ""
	}
	return d.text[start:end]
}

func (d *docView) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.text)
}

func (d *docView) Cursor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

func (d *docView) SetCursor(pos int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = pos
}

func (d *docView) MoveMarker(start, end int, style speech.MarkerStyle) {
	d.mu.Lock()
	d.marker.start, d.marker.end = start, end
	d.marker.style = style
	d.marker.active = true
	send := d.send
	d.mu.Unlock()
	send(refreshMsg{})
}

func (d *docView) RemoveMarker() {
	d.mu.Lock()
	d.marker.active = false
	send := d.send
	d.mu.Unlock()
	send(refreshMsg{})
}

func (d *docView) IsVisible(pos int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	line := d.lineFor(pos)
	return line >= d.top && line < d.top+d.height
}

func (d *docView) ScrollIntoView(pos int, center bool) {
	d.mu.Lock()
	line := d.lineFor(pos)
	top := d.top
	switch {
	case center:
		top = line - d.height/2
	case line < d.top:
		top = line
	case line >= d.top+d.height:
		top = line - d.height + 1
	}
	if top < 0 {
		top = 0
	}
	d.top = top
	send := d.send
	d.mu.Unlock()
	send(scrollToMsg{top: top})
}

// Focused is true for the lifetime of the program; auto-scroll deference
// to the user is carried by IdleFor instead.
func (d *docView) Focused() bool { return true }

func (d *docView) IdleFor() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastInput.IsZero() {
		return time.Duration(1<<62 - 1)
	}
	return time.Since(d.lastInput)
}

// recordInput marks user activity, holding auto-scroll off for a while.
func (d *docView) recordInput() {
	d.mu.Lock()
	d.lastInput = time.Now()
	d.mu.Unlock()
}

// setViewport mirrors the viewport's scroll offset and height.
func (d *docView) setViewport(top, height int) {
	d.mu.Lock()
	d.top = top
	if height > 0 {
		d.height = height
	}
	d.mu.Unlock()
}

// render produces the full document with the active marker styled, one
// string for the viewport. Highlighting is applied per line so the styles
// reset at each line break.
func (d *docView) render() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.marker.active || d.marker.start >= d.marker.end {
		return d.text
	}

	style := highlightStyle(d.marker.style.Color)
	var b strings.Builder
	b.Grow(len(d.text) + 64)

	for i, start := range d.lineStarts {
		end := len(d.text)
		if i+1 < len(d.lineStarts) {
			end = d.lineStarts[i+1] - 1
		}
		b.WriteString(d.renderLine(start, end, style))
		if i+1 < len(d.lineStarts) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (d *docView) renderLine(start, end int, style markerRenderer) string {
	ms, me := d.marker.start, d.marker.end
	if me <= start || ms >= end {
		return d.text[start:end]
	}
	if ms < start {
		ms = start
	}
	if me > end {
		me = end
	}
	return d.text[start:ms] + style.Render(d.text[ms:me]) + d.text[me:end]
}
