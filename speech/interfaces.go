// Package speech reads a document aloud one segment at a time. A Session
// walks the document with a segmenter, renders each segment through an
// Engine, plays it, and keeps the owning View's highlight and scroll
// position in sync. A Manager guarantees at most one live session.
package speech

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/readaloud/speech/segment"
)

// Audio is one rendered utterance, ready for playback.
type Audio struct {
	// Data holds raw PCM samples, 16-bit little-endian.
	Data []byte

	SampleRate int
	Channels   int

	// Duration is the playback length, derived from the sample count.
	Duration time.Duration
}

// VoiceConfig selects how text is rendered to audio. Two configs with the
// same Key render identical audio for identical text, which is what the
// render cache relies on.
type VoiceConfig struct {
	Language string
	Voice    string
	Rate     float64
}

// Key returns a stable identity string for cache keying.
func (v VoiceConfig) Key() string {
	return fmt.Sprintf("%s|%s|%.2f", v.Language, v.Voice, v.Rate)
}

// CacheKey derives the render-cache key for text spoken with this voice.
func (v VoiceConfig) CacheKey(text string) string {
	sum := sha256.Sum256([]byte("v1|" + text + "|" + v.Key()))
	return fmt.Sprintf("%x", sum)
}

// Engine renders text to audio and plays it. Render and Play both honor
// context cancellation; a cancelled call returns the context's error.
// Implementations are used from a single session goroutine for Play, but
// Render may be invoked concurrently by the prefetcher.
type Engine interface {
	Render(ctx context.Context, text string, voice VoiceConfig) (*Audio, error)
	Play(ctx context.Context, audio *Audio) error
	Close() error
}

// MarkerStyle describes how the active segment is highlighted.
type MarkerStyle struct {
	Color string
}

// View is the document surface a session reads from and reports progress
// to. All methods are called from the session goroutine; implementations
// bridge to their own event loop as needed.
type View interface {
	segment.TextSource

	// Cursor returns the byte offset reading resumes from.
	Cursor() int

	// SetCursor records the offset of the next unread byte.
	SetCursor(pos int)

	// MoveMarker highlights [start, end). A collapsed range (start == end)
	// parks the marker without highlighting anything.
	MoveMarker(start, end int, style MarkerStyle)

	// RemoveMarker clears any highlight.
	RemoveMarker()

	// IsVisible reports whether the byte at pos is currently on screen.
	IsVisible(pos int) bool

	// ScrollIntoView brings pos on screen. With center set the position is
	// vertically centered, otherwise it is scrolled minimally.
	ScrollIntoView(pos int, center bool)

	// Focused reports whether the user's attention is on this view, in the
	// sense that auto-scrolling would not fight their input.
	Focused() bool

	// IdleFor returns how long the view has gone without user input.
	IdleFor() time.Duration
}

// Timer schedules callbacks, injectable so tests control time.
type Timer interface {
	Schedule(d time.Duration, fn func()) TimerHandle
}

// TimerHandle cancels a pending scheduled callback. Cancel after the
// callback has fired is a no-op.
type TimerHandle interface {
	Cancel()
}

type wallTimer struct{}

func (wallTimer) Schedule(d time.Duration, fn func()) TimerHandle {
	return wallHandle{t: time.AfterFunc(d, fn)}
}

type wallHandle struct{ t *time.Timer }

func (h wallHandle) Cancel() { h.t.Stop() }

// NewWallTimer returns a Timer backed by the system clock.
func NewWallTimer() Timer { return wallTimer{} }

// TextFilter rewrites segment text before rendering.
type TextFilter func(text string) string

// CollapseWhitespace is the default filter: runs of whitespace, including
// the newlines inside wrapped paragraphs, become single spaces.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// FinalAction runs once after a session reads its document to the end,
// after cleanup has completed. It may safely start a new session.
type FinalAction func()
