package speech

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInterrupted reports deliberate interruption of a session. It is a
	// normal outcome and is never surfaced to the user.
	ErrInterrupted = errors.New("speech: interrupted")

	// ErrBadTransition reports an illegal state machine transition.
	ErrBadTransition = errors.New("speech: invalid state transition")

	// ErrSessionActive reports that a session is already running.
	ErrSessionActive = errors.New("speech: session already active")

	// ErrEngineUnavailable reports that the configured engine cannot run.
	ErrEngineUnavailable = errors.New("speech: engine unavailable")

	// ErrNoAudio reports playback of an empty or nil audio buffer.
	ErrNoAudio = errors.New("speech: no audio data")
)

// FailureKind classifies where in the pipeline a session failure happened.
type FailureKind int

const (
	// KindCancel marks deliberate interruption. Silent.
	KindCancel FailureKind = iota

	// KindRender marks a synthesis failure for the current segment.
	KindRender

	// KindPlayback marks an audio output failure.
	KindPlayback
)

func (k FailureKind) String() string {
	switch k {
	case KindCancel:
		return "cancel"
	case KindRender:
		return "render"
	case KindPlayback:
		return "playback"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Failure wraps a pipeline error with its stage, so callers can decide
// whether to surface it without inspecting engine-specific errors.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("speech: %s failure: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure wraps err with kind. Cancellation errors keep KindCancel no
// matter what kind the caller passed.
func NewFailure(kind FailureKind, err error) *Failure {
	if IsCancel(err) {
		kind = KindCancel
	}
	return &Failure{Kind: kind, Err: err}
}

// IsCancel reports whether err represents deliberate interruption rather
// than a real failure.
func IsCancel(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled) {
		return true
	}
	var f *Failure
	return errors.As(err, &f) && f.Kind == KindCancel
}
