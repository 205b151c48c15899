package speech

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Manager enforces the single-session rule: at most one session is live at
// a time, and starting a new one tears the old one down first.
type Manager struct {
	mu     sync.Mutex
	active *Session
	logger *log.Logger
}

// NewManager returns an empty manager. A nil logger falls back to the
// package default.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{logger: logger}
}

// Speak starts reading with opts. Any live session is interrupted and
// fully torn down before the new one starts, so a caller observing Speak
// return knows exactly one session is running. Blocks until the previous
// session has finished its cleanup.
func (m *Manager) Speak(opts Options) (*Session, error) {
	for {
		m.mu.Lock()
		if m.active == nil {
			s, err := NewSession(opts)
			if err != nil {
				m.mu.Unlock()
				return nil, err
			}
			s.detach = m.clear
			m.active = s
			m.mu.Unlock()

			m.logger.Debug("session starting", "cursor", opts.View.Cursor())
			s.Start()
			return s, nil
		}
		current := m.active
		m.mu.Unlock()

		// Interrupt without holding the lock; the session detaches
		// itself before Done closes.
		current.Interrupt()
		<-current.Done()
	}
}

// Interrupt stops the live session, if any, without waiting for teardown.
// Idempotent.
func (m *Manager) Interrupt() {
	m.mu.Lock()
	current := m.active
	m.mu.Unlock()
	if current != nil {
		current.Interrupt()
	}
}

// Stop interrupts the live session and waits for its teardown.
func (m *Manager) Stop() {
	m.mu.Lock()
	current := m.active
	m.mu.Unlock()
	if current != nil {
		current.Interrupt()
		<-current.Done()
	}
}

// Active returns the live session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// clear compare-and-clears the active slot so a session only unregisters
// itself, never a successor.
func (m *Manager) clear(s *Session) {
	m.mu.Lock()
	if m.active == s {
		m.active = nil
	}
	m.mu.Unlock()
}
