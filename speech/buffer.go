package speech

import (
	"sync"
	"time"
)

// Buffer is a headless View over an in-memory document. It models the
// visible region as a byte window, which is enough for driving sessions
// without a terminal: tests and batch tools use it directly.
type Buffer struct {
	mu   sync.Mutex
	text string

	cursor int

	markerStart int
	markerEnd   int
	markerStyle MarkerStyle
	hasMarker   bool

	winStart int
	winSize  int

	focused   bool
	lastInput time.Time

	now func() time.Time
}

// NewBuffer wraps text with a visible window of winSize bytes. A
// non-positive winSize makes the whole document visible.
func NewBuffer(text string, winSize int) *Buffer {
	if winSize <= 0 {
		winSize = len(text) + 1
	}
	return &Buffer{
		text:    text,
		winSize: winSize,
		now:     time.Now,
	}
}

func (b *Buffer) ReadRange(start, end int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < 0 {
		start = 0
	}
	if end > len(b.text) {
		end = len(b.text)
	}
	if start >= end {
		return ""
	}
	return b.text[start:end]
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.text)
}

func (b *Buffer) Cursor() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

func (b *Buffer) SetCursor(pos int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = pos
}

func (b *Buffer) MoveMarker(start, end int, style MarkerStyle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markerStart, b.markerEnd = start, end
	b.markerStyle = style
	b.hasMarker = true
}

func (b *Buffer) RemoveMarker() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hasMarker = false
}

// Marker returns the current highlight range, or false when none is set.
func (b *Buffer) Marker() (start, end int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.markerStart, b.markerEnd, b.hasMarker
}

func (b *Buffer) IsVisible(pos int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return pos >= b.winStart && pos < b.winStart+b.winSize
}

func (b *Buffer) ScrollIntoView(pos int, center bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case center:
		b.winStart = pos - b.winSize/2
	case pos < b.winStart:
		b.winStart = pos
	case pos >= b.winStart+b.winSize:
		b.winStart = pos - b.winSize + 1
	}
	if b.winStart < 0 {
		b.winStart = 0
	}
}

// Window returns the visible byte range.
func (b *Buffer) Window() (start, end int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.winStart, b.winStart + b.winSize
}

func (b *Buffer) Focused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focused
}

// SetFocused marks whether the user's attention is on the buffer.
func (b *Buffer) SetFocused(focused bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = focused
}

func (b *Buffer) IdleFor() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastInput.IsZero() {
		return time.Duration(1<<62 - 1)
	}
	return b.now().Sub(b.lastInput)
}

// Touch records user input now, resetting the idle clock.
func (b *Buffer) Touch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastInput = b.now()
}
