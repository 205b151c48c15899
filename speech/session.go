package speech

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/speech/segment"
)

// Options configures a Session. View and Engine are required; everything
// else has a sensible zero-value fallback.
type Options struct {
	View   View
	Engine Engine
	Config Config

	// Policy overrides the segmentation step policy.
	Policy segment.StepPolicy

	// Timer overrides the delay clock, used by tests.
	Timer Timer

	// Filter rewrites segment text before rendering.
	Filter TextFilter

	// Cache shares a render cache across sessions. A fresh one is created
	// when nil.
	Cache *Cache

	Logger *log.Logger

	// OnFinished runs after the document has been read to the end, unless
	// a FinalAction is configured.
	OnFinished func()

	// OnError runs after a render or playback failure. Interruptions do
	// not reach it.
	OnError func(error)

	// FinalAction replaces OnFinished when set. It runs after cleanup, so
	// it may start a new session.
	FinalAction FinalAction
}

// Session reads a document aloud from the view's cursor to the end. It
// owns a single goroutine; Interrupt is the only cross-goroutine input.
type Session struct {
	cfg      Config
	view     View
	engine   Engine
	pipeline *Pipeline
	seg      *segment.Segmenter
	machine  *StateMachine
	timer    Timer
	filter   TextFilter
	style    MarkerStyle
	logger   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	onFinished func()
	onError    func(error)
	final      FinalAction

	// detach unregisters the session from its manager before callbacks
	// run, so a final action can start a successor.
	detach func(*Session)

	done chan struct{}

	stateMu stateBox
}

type stateBox struct {
	mu    sync.Mutex
	state State
	err   error
}

// NewSession validates opts and prepares a session. Run does not start
// until Start is called.
func NewSession(opts Options) (*Session, error) {
	if opts.View == nil {
		return nil, errors.New("speech: session requires a view")
	}
	if opts.Engine == nil {
		return nil, errors.New("speech: session requires an engine")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	timer := opts.Timer
	if timer == nil {
		timer = NewWallTimer()
	}
	filter := opts.Filter
	if filter == nil {
		filter = CollapseWhitespace
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewCache(opts.Config.CacheTTL)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		cfg:        opts.Config,
		view:       opts.View,
		engine:     opts.Engine,
		pipeline:   NewPipeline(opts.Engine, cache, opts.Config.VoiceConfig(), logger),
		seg:        segment.New(opts.View, opts.Policy, opts.Config.MinSegmentLength),
		machine:    NewStateMachine(),
		timer:      timer,
		filter:     filter,
		style:      MarkerStyle{Color: opts.Config.HighlightColor},
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		onFinished: opts.OnFinished,
		onError:    opts.OnError,
		final:      opts.FinalAction,
		done:       make(chan struct{}),
	}
	s.stateMu.state = StateIdle

	for _, st := range []State{
		StateIdle, StateFetching, StatePlaying, StateDelaying,
		StateFinished, StateCancelled, StateError,
	} {
		st := st
		s.machine.OnEnter(st, func(State) { s.publish(st) })
	}
	return s, nil
}

// Start launches the reading goroutine. Call at most once.
func (s *Session) Start() {
	go s.run()
}

// Interrupt stops the session. Safe from any goroutine and idempotent;
// the session transitions to Cancelled and in-flight work is discarded.
func (s *Session) Interrupt() {
	s.cancel()
}

// Done closes after the session has reached a terminal state and all
// callbacks have returned.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the most recently published state.
func (s *Session) State() State {
	s.stateMu.mu.Lock()
	defer s.stateMu.mu.Unlock()
	return s.stateMu.state
}

// Err returns the failure that moved the session to StateError, nil on
// any other outcome.
func (s *Session) Err() error {
	s.stateMu.mu.Lock()
	defer s.stateMu.mu.Unlock()
	return s.stateMu.err
}

func (s *Session) publish(st State) {
	s.stateMu.mu.Lock()
	s.stateMu.state = st
	s.stateMu.mu.Unlock()
}

func (s *Session) run() {
	err := s.loop()
	s.finish(err)
}

// loop is the cooperative chain: fetch, play, delay, advance. Each
// blocking step watches the session context, so an interrupt lands at the
// next boundary no matter which phase is running.
func (s *Session) loop() error {
	pos := s.view.Cursor()

	for {
		if err := s.ctx.Err(); err != nil {
			return NewFailure(KindCancel, err)
		}
		if err := s.machine.Transition(StateFetching); err != nil {
			return err
		}

		bounds := s.seg.NextBounds(pos, s.cfg.PrefetchCount+1)
		if len(bounds) == 0 {
			return s.machine.Transition(StateFinished)
		}

		texts := make([]string, len(bounds))
		for i, b := range bounds {
			texts[i] = s.filter(s.view.ReadRange(b.Start, b.End))
		}
		cur := bounds[0]

		audio, err := s.pipeline.RenderFirst(s.ctx, texts[0])
		if err != nil {
			return NewFailure(KindRender, err)
		}
		if err := s.ctx.Err(); err != nil {
			// rendered after the interrupt landed; discard
			return NewFailure(KindCancel, err)
		}

		s.pipeline.PrefetchRest(s.ctx, texts[1:])
		s.syncView(cur)

		if err := s.machine.Transition(StatePlaying); err != nil {
			return err
		}
		if err := s.engine.Play(s.ctx, audio); err != nil {
			return NewFailure(KindPlayback, err)
		}

		s.pipeline.Clear()
		s.view.MoveMarker(cur.End, cur.End, s.style)

		if err := s.machine.Transition(StateDelaying); err != nil {
			return err
		}
		delay := s.cfg.Interval
		if s.seg.HardBreakAt(cur.End) {
			delay = s.cfg.LongInterval()
		}
		if err := s.wait(delay); err != nil {
			return err
		}

		pos = cur.End
		s.view.SetCursor(pos)
	}
}

// syncView scrolls and highlights for the segment about to play. The view
// is only scrolled when the user is not actively looking elsewhere.
func (s *Session) syncView(b segment.Bounds) {
	if !s.view.Focused() || s.view.IdleFor() >= s.cfg.IdleThreshold {
		center := !s.view.IsVisible(b.End)
		s.view.ScrollIntoView(b.End, center)
	}
	s.view.MoveMarker(b.Start, b.End, s.style)
}

// wait blocks for d or until interruption, whichever comes first.
func (s *Session) wait(d time.Duration) error {
	if d <= 0 {
		if err := s.ctx.Err(); err != nil {
			return NewFailure(KindCancel, err)
		}
		return nil
	}

	fired := make(chan struct{})
	handle := s.timer.Schedule(d, func() { close(fired) })

	select {
	case <-fired:
		return nil
	case <-s.ctx.Done():
		handle.Cancel()
		return NewFailure(KindCancel, s.ctx.Err())
	}
}

// finish classifies the loop outcome, cleans up, detaches from the
// manager, then runs callbacks. Done closes last so waiters observe every
// callback completed.
func (s *Session) finish(err error) {
	switch {
	case err == nil:
		// loop reached Finished on its own
	case IsCancel(err):
		if !s.machine.Current().Terminal() {
			_ = s.machine.Transition(StateCancelled)
		}
		s.logger.Debug("session interrupted", "state", s.machine.Current())
	default:
		if !s.machine.Current().Terminal() {
			_ = s.machine.Transition(StateError)
		}
		s.stateMu.mu.Lock()
		s.stateMu.err = err
		s.stateMu.mu.Unlock()
		s.logger.Error("session failed", "err", err)
	}

	s.view.RemoveMarker()
	s.cancel()

	if s.detach != nil {
		s.detach(s)
	}

	switch {
	case err == nil:
		if s.final != nil {
			s.final()
		} else if s.onFinished != nil {
			s.onFinished()
		}
	case !IsCancel(err):
		if s.onError != nil {
			s.onError(err)
		}
	}

	close(s.done)
}
