package agent

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/charcochicken/goVoiceOrder/business/dialogue"
)

// Registry owns the session_id -> session mapping. Sessions are created
// on the first turn for a caller and swept after going idle.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*dialogue.Session
	logger   *zap.SugaredLogger
}

func NewRegistry(logger *zap.SugaredLogger) *Registry {
	return &Registry{
		sessions: make(map[string]*dialogue.Session),
		logger:   logger,
	}
}

// Acquire returns the live session for the id, creating one when the id
// is unknown, empty, or points at a terminal session. A stray turn on an
// expired session therefore opens a fresh conversation instead of
// failing.
func (r *Registry) Acquire(sessionID string) *dialogue.Session {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[sessionID]; exists {
		session.Lock()
		terminal := session.State.Terminal()
		session.Unlock()
		if !terminal {
			return session
		}
	}

	session := dialogue.NewSession(sessionID)
	r.sessions[sessionID] = session
	r.logger.Infow("registry: session opened", "session", sessionID)

	return session
}

func (r *Registry) Get(sessionID string) (*dialogue.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[sessionID]
	return session, exists
}

func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Sweep closes sessions idle past the timeout, discarding their drafts.
// Abandonment is an explicit path, not an error: no order is confirmed.
func (r *Registry) Sweep(idleTimeout time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var swept int

	for id, session := range r.sessions {
		session.Lock()
		idle := now.Sub(session.LastActivity) > idleTimeout
		if idle && !session.State.Terminal() {
			session.State = dialogue.StateClosed
			session.Draft = nil
		}
		terminal := session.State.Terminal()
		session.Unlock()

		if idle || terminal {
			delete(r.sessions, id)
			swept++
			r.logger.Infow("registry: session swept", "session", id, "idle", idle)
		}
	}

	return swept
}

// StartSweeper runs Sweep periodically until the context ends.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration, idleTimeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			r.Sweep(idleTimeout)
		}
	}
}
