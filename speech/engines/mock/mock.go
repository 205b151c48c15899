// Package mock provides a deterministic engine for tests and for running
// the reader without an audio device.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/dgnsrekt/readaloud/speech"
)

// Engine renders silence and plays nothing, with knobs for delays and
// injected failures. Safe for concurrent use; the prefetcher calls Render
// from multiple goroutines.
type Engine struct {
	mu sync.Mutex

	renderDelay time.Duration
	playDelay   time.Duration

	renderErr   error
	playErr     error
	renderErrOn map[int]error
	playErrOn   map[int]error

	renderCalls int
	playCalls   int
	rendered    []string
	played      []*speech.Audio

	closed bool
}

// New returns a mock engine with no delays and no failures.
func New() *Engine {
	return &Engine{
		renderErrOn: make(map[int]error),
		playErrOn:   make(map[int]error),
	}
}

// SetRenderDelay makes every Render take d, interruptible by context.
func (e *Engine) SetRenderDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderDelay = d
}

// SetPlayDelay makes every Play take d, interruptible by context.
func (e *Engine) SetPlayDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playDelay = d
}

// SetRenderError makes every subsequent Render fail with err.
func (e *Engine) SetRenderError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderErr = err
}

// SetPlayError makes every subsequent Play fail with err.
func (e *Engine) SetPlayError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playErr = err
}

// FailRenderOn makes the nth Render call (1-based) fail with err.
func (e *Engine) FailRenderOn(n int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderErrOn[n] = err
}

// FailPlayOn makes the nth Play call (1-based) fail with err.
func (e *Engine) FailPlayOn(n int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playErrOn[n] = err
}

// RenderCalls returns how many times Render has been invoked.
func (e *Engine) RenderCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderCalls
}

// PlayCalls returns how many times Play has been invoked.
func (e *Engine) PlayCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playCalls
}

// Rendered returns a copy of every text passed to Render, in call order.
func (e *Engine) Rendered() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.rendered))
	copy(out, e.rendered)
	return out
}

// Played returns a copy of every audio passed to Play, in call order.
func (e *Engine) Played() []*speech.Audio {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*speech.Audio, len(e.played))
	copy(out, e.played)
	return out
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Render produces silent PCM whose length tracks the input text, so
// durations stay plausible without synthesis.
func (e *Engine) Render(ctx context.Context, text string, voice speech.VoiceConfig) (*speech.Audio, error) {
	e.mu.Lock()
	e.renderCalls++
	call := e.renderCalls
	e.rendered = append(e.rendered, text)
	delay := e.renderDelay
	err := e.renderErr
	if stepErr, ok := e.renderErrOn[call]; ok {
		err = stepErr
	}
	e.mu.Unlock()

	if delay > 0 {
		if werr := sleepCtx(ctx, delay); werr != nil {
			return nil, werr
		}
	}
	if err != nil {
		return nil, err
	}
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}

	const sampleRate = 22050
	samples := len(text) * sampleRate / 50 // ~20ms of audio per byte
	return &speech.Audio{
		Data:       make([]byte, samples*2),
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   time.Duration(samples) * time.Second / sampleRate,
	}, nil
}

// Play consumes the audio without touching any device.
func (e *Engine) Play(ctx context.Context, audio *speech.Audio) error {
	if audio == nil || len(audio.Data) == 0 {
		return speech.ErrNoAudio
	}

	e.mu.Lock()
	e.playCalls++
	call := e.playCalls
	e.played = append(e.played, audio)
	delay := e.playDelay
	err := e.playErr
	if stepErr, ok := e.playErrOn[call]; ok {
		err = stepErr
	}
	e.mu.Unlock()

	if delay > 0 {
		if werr := sleepCtx(ctx, delay); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
