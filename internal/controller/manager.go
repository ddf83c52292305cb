package controller

import (
	"sync"
	"time"

	"github.com/courtside/courtside-ai-go/internal/config"
	"github.com/courtside/courtside-ai-go/internal/resolver"
	"github.com/courtside/courtside-ai-go/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// session wraps a controller with its idle-tracking timestamp.
type session struct {
	controller *Controller
	lastSeen   time.Time
}

// Manager owns the per-session controllers. Sessions expire after the
// configured idle period; expiry is enforced lazily on access and by the
// periodic sweep.
type Manager struct {
	resolver   *resolver.Resolver
	cfg        config.AnalysisConfig
	idleExpiry time.Duration
	maxCount   int
	logger     *logrus.Entry

	mu       sync.Mutex
	sessions map[string]*session

	stopSweep chan struct{}
	sweepOnce sync.Once
}

// NewManager creates a session manager.
func NewManager(res *resolver.Resolver, analysisCfg config.AnalysisConfig, sessionCfg config.SessionConfig, logger *logrus.Logger) *Manager {
	return &Manager{
		resolver:   res,
		cfg:        analysisCfg,
		idleExpiry: config.DurationOr(sessionCfg.IdleExpiry, 30*time.Minute),
		maxCount:   sessionCfg.MaxSessions,
		logger:     logger.WithField("component", "session_manager"),
		sessions:   make(map[string]*session),
		stopSweep:  make(chan struct{}),
	}
}

// Create allocates a fresh session and returns its controller.
func (m *Manager) Create(logger *logrus.Logger) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked(time.Now())
	if m.maxCount > 0 && len(m.sessions) >= m.maxCount {
		return nil, utils.NewValidationError("session limit reached, retry later")
	}

	id := uuid.NewString()
	c := New(id, m.resolver, m.cfg, logger)
	m.sessions[id] = &session{controller: c, lastSeen: time.Now()}
	m.logger.WithField("session_id", id).Info("Session created")
	return c, nil
}

// Get returns the controller for a session id, refreshing its idle timer.
func (m *Manager) Get(id string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	now := time.Now()
	if now.Sub(s.lastSeen) > m.idleExpiry {
		m.dropLocked(id, s)
		return nil, false
	}
	s.lastSeen = now
	return s.controller, true
}

// Delete removes a session explicitly.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		m.dropLocked(id, s)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartSweeper launches the periodic idle-session sweep. Call Close to stop
// it.
func (m *Manager) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.mu.Lock()
				m.pruneLocked(time.Now())
				m.mu.Unlock()
			case <-m.stopSweep:
				return
			}
		}
	}()
}

// Close stops the sweeper and releases every session.
func (m *Manager) Close() {
	m.sweepOnce.Do(func() { close(m.stopSweep) })
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		m.dropLocked(id, s)
	}
}

func (m *Manager) pruneLocked(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.idleExpiry {
			m.dropLocked(id, s)
		}
	}
}

func (m *Manager) dropLocked(id string, s *session) {
	s.controller.Close()
	delete(m.sessions, id)
	m.logger.WithField("session_id", id).Debug("Session released")
}
