package speech

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsCancel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"interrupted", ErrInterrupted, true},
		{"context canceled", context.Canceled, true},
		{"wrapped interrupted", fmt.Errorf("outer: %w", ErrInterrupted), true},
		{"cancel failure", NewFailure(KindCancel, errors.New("stop")), true},
		{"render failure", NewFailure(KindRender, errors.New("boom")), false},
		{"playback failure", NewFailure(KindPlayback, errors.New("boom")), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCancel(tt.err); got != tt.want {
				t.Errorf("IsCancel(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewFailurePromotesCancellation(t *testing.T) {
	f := NewFailure(KindRender, context.Canceled)
	if f.Kind != KindCancel {
		t.Errorf("cancelled render wrapped as %s, want %s", f.Kind, KindCancel)
	}

	f = NewFailure(KindPlayback, fmt.Errorf("drain: %w", ErrInterrupted))
	if f.Kind != KindCancel {
		t.Errorf("interrupted playback wrapped as %s, want %s", f.Kind, KindCancel)
	}
}

func TestFailureUnwrap(t *testing.T) {
	base := errors.New("synth exploded")
	f := NewFailure(KindRender, base)

	if !errors.Is(f, base) {
		t.Error("Failure does not unwrap to its cause")
	}

	var got *Failure
	if !errors.As(error(f), &got) || got.Kind != KindRender {
		t.Errorf("errors.As failed or wrong kind: %v", got)
	}
}

func TestFailureError(t *testing.T) {
	f := NewFailure(KindPlayback, errors.New("device gone"))
	want := "speech: playback failure: device gone"
	if f.Error() != want {
		t.Errorf("Error() = %q, want %q", f.Error(), want)
	}
}
