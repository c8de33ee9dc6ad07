package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artiako/landak-server/internal/game"
)

// Manager tracks live sessions and reaps the ones nobody plays anymore.
type Manager struct {
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	idleTimeout time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewManager creates a manager and starts its background reaper.
func NewManager(logger *zap.Logger, idleTimeout time.Duration) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if idleTimeout <= 0 {
		idleTimeout = 2 * time.Hour
	}
	m := &Manager{
		logger:      logger,
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		stop:        make(chan struct{}),
	}
	go m.reapLoop()
	return m
}

// Create builds a new session around the engine and registers it.
func (m *Manager) Create(engine *game.Engine, historyDepth int, botDelay time.Duration) *Session {
	s := New(uuid.NewString(), engine, m.logger, historyDepth, botDelay)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", s.ID))
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove closes and drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
		m.logger.Info("session removed", zap.String("session_id", id))
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown stops the reaper and closes every session.
func (m *Manager) Shutdown() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
}

func (m *Manager) reapLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.reapIdle()
		}
	}
}

func (m *Manager) reapIdle() {
	cutoff := time.Now().Add(-m.idleTimeout)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.LastActivity().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		m.logger.Info("reaped idle session", zap.String("session_id", s.ID))
	}
}
