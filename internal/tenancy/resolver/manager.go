package resolver

import (
	"context"
	"sync"

	"slingshot_backend/platform/logger"

	"github.com/google/uuid"
)

// Manager caches one resolved Session per user for the server's lifetime.
// Sessions are resolved on first use; membership or business mutations must
// call Invalidate so the next request re-resolves.
type Manager struct {
	store Store
	log   *logger.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager(store Store, log *logger.Logger) *Manager {
	return &Manager{
		store:    store,
		log:      log,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Session returns the user's resolved session, resolving a fresh one if none
// is cached. A failed resolution is not cached, so a transient store error is
// retried on the next request.
func (m *Manager) Session(ctx context.Context, userID uuid.UUID) (*Session, Outcome) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()

	if ok {
		if err := sess.Err(); err != nil {
			return sess, Failed{Reason: err}
		}
		snap := sess.Snapshot()
		return sess, Resolved{Businesses: snap.Businesses, Current: snap.CurrentBusiness, IsSuperAdmin: snap.IsSuperAdmin}
	}

	sess = NewSession(m.store, m.log, userID)
	outcome := sess.Resolve(ctx)

	if _, failed := outcome.(Failed); failed {
		sess.Close()
		return sess, outcome
	}

	m.mu.Lock()
	if existing, ok := m.sessions[userID]; ok {
		// Concurrent request resolved first; keep its session.
		m.mu.Unlock()
		sess.Close()
		snap := existing.Snapshot()
		return existing, Resolved{Businesses: snap.Businesses, Current: snap.CurrentBusiness, IsSuperAdmin: snap.IsSuperAdmin}
	}
	m.sessions[userID] = sess
	m.mu.Unlock()

	return sess, outcome
}

// Invalidate tears down the user's cached session.
func (m *Manager) Invalidate(userID uuid.UUID) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	if ok {
		sess.Close()
	}
}

// InvalidateAll tears down every cached session, used after business-level
// mutations that change visibility for many users at once.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
