package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/debemdeboas/inkdraft/internal/metrics"
	"github.com/debemdeboas/inkdraft/internal/model"
	"github.com/debemdeboas/inkdraft/internal/notify"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session: not found")

// Manager owns the open sessions.
type Manager struct {
	cfg  Config
	deps Deps
	hub  *notify.Hub

	sessions sync.Map // id -> *entry
}

type entry struct {
	session *Session
	// lastAccess is the unix nano time of the last Create or Get.
	lastAccess atomic.Int64
}

// NewManager returns a Manager whose sessions also broadcast their toasts
// through hub. hub may be nil.
func NewManager(cfg Config, deps Deps, hub *notify.Hub) *Manager {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Manager{
		cfg:  cfg,
		deps: deps,
		hub:  hub,
	}
}

// Create opens a session for profile and mounts it.
func (m *Manager) Create(profile model.ProfileID) *Session {
	id := uuid.New().String()

	deps := m.deps
	if m.hub != nil {
		notifiers := notify.Multi{m.hub.For(id)}
		if deps.Notifier != nil {
			notifiers = append(notifiers, deps.Notifier)
		}
		deps.Notifier = notifiers
	}

	s := New(id, profile, m.cfg, deps)
	e := &entry{session: s}
	e.lastAccess.Store(m.deps.Now().UnixNano())
	m.sessions.Store(id, e)
	metrics.ActiveSessions.Inc()

	s.Mount()
	return s
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	v, ok := m.sessions.Load(id)
	if !ok {
		return nil, ErrNotFound
	}
	e := v.(*entry)
	e.lastAccess.Store(m.deps.Now().UnixNano())
	return e.session, nil
}

func (m *Manager) Close(id string) error {
	v, ok := m.sessions.LoadAndDelete(id)
	if !ok {
		return ErrNotFound
	}
	v.(*entry).session.Close()
	metrics.ActiveSessions.Dec()
	if m.hub != nil {
		m.hub.Close(id)
	}
	return nil
}

func (m *Manager) Len() int {
	n := 0
	m.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// CloseAll closes every session. Used on shutdown.
func (m *Manager) CloseAll() {
	m.sessions.Range(func(key, _ any) bool {
		_ = m.Close(key.(string))
		return true
	})
}

// ExpireIdle closes the sessions not used for longer than the configured
// idle timeout and returns how many it closed. Sessions with an open event
// stream are kept. A zero timeout disables expiry.
func (m *Manager) ExpireIdle() int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.deps.Now().Add(-m.cfg.IdleTimeout).UnixNano()

	closed := 0
	m.sessions.Range(func(key, v any) bool {
		id := key.(string)
		if v.(*entry).lastAccess.Load() > cutoff {
			return true
		}
		if m.hub != nil && m.hub.Connected(id) {
			return true
		}
		if m.Close(id) == nil {
			m.deps.Logger.Info().Str("session_id", id).Msg("Closed idle session")
			metrics.ExpiredSessions.Inc()
			closed++
		}
		return true
	})
	return closed
}

// Run calls ExpireIdle every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.cfg.IdleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ExpireIdle()
		}
	}
}
