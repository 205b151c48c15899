package speech

import "fmt"

// State is one phase of a reading session's lifecycle.
type State int

const (
	// StateIdle is the initial state before the first segment is fetched.
	StateIdle State = iota

	// StateFetching covers segmentation plus rendering of the current
	// segment, cache hits included.
	StateFetching

	// StatePlaying covers audio output for the current segment.
	StatePlaying

	// StateDelaying is the inter-segment pause.
	StateDelaying

	// StateFinished is reached when no further segment exists. Terminal.
	StateFinished

	// StateCancelled is reached on interruption. Terminal.
	StateCancelled

	// StateError is reached on a render or playback failure. Terminal.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StatePlaying:
		return "playing"
	case StateDelaying:
		return "delaying"
	case StateFinished:
		return "finished"
	case StateCancelled:
		return "cancelled"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateCancelled || s == StateError
}

// StateMachine tracks the session state and enforces legal transitions.
// It is confined to the session goroutine and needs no locking.
type StateMachine struct {
	current     State
	transitions map[State][]State
	onEnter     map[State]func(from State)
}

// NewStateMachine returns a machine in StateIdle with the session's
// transition table installed.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[State][]State{
			StateIdle:     {StateFetching, StateFinished, StateCancelled},
			StateFetching: {StatePlaying, StateFinished, StateCancelled, StateError},
			StatePlaying:  {StateDelaying, StateFinished, StateCancelled, StateError},
			StateDelaying: {StateFetching, StateCancelled, StateError},
		},
		onEnter: make(map[State]func(from State)),
	}
}

// Current returns the present state.
func (m *StateMachine) Current() State { return m.current }

// OnEnter registers a callback invoked after each transition into s.
func (m *StateMachine) OnEnter(s State, fn func(from State)) {
	m.onEnter[s] = fn
}

// Transition moves the machine to next, or returns an error if the
// transition table does not allow it.
func (m *StateMachine) Transition(next State) error {
	if !m.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, m.current, next)
	}
	from := m.current
	m.current = next
	if fn, ok := m.onEnter[next]; ok {
		fn(from)
	}
	return nil
}

// CanTransition reports whether a move to next is legal from the current
// state.
func (m *StateMachine) CanTransition(next State) bool {
	for _, allowed := range m.transitions[m.current] {
		if allowed == next {
			return true
		}
	}
	return false
}
