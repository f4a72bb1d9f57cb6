package repository

import (
	"context"
	"sync"
	"time"

	"harapan-web/internal/domain"
)

type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// memorySessionRepository keeps sessions in process memory. It is used when
// Redis is not configured, so sessions do not survive a restart.
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemorySessionRepository creates an in-process session repository
func NewMemorySessionRepository() SessionRepository {
	return newMemorySessionRepository(time.Now)
}

func newMemorySessionRepository(now func() time.Time) *memorySessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]memoryEntry),
		now:      now,
	}
}

// Save stores a copy of the session
func (r *memorySessionRepository) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)
	r.sessions[session.ID] = memoryEntry{session: *session, expiresAt: now.Add(ttl)}
	return nil
}

// Get returns a copy of a live session
func (r *memorySessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[id]
	if !ok || !r.now().Before(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

// Delete removes a session
func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// sweep drops expired entries; callers hold the write lock
func (r *memorySessionRepository) sweep(now time.Time) {
	for id, entry := range r.sessions {
		if !now.Before(entry.expiresAt) {
			delete(r.sessions, id)
		}
	}
}
