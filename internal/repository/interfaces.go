package repository

import (
	"context"
	"errors"
	"time"

	"harapan-web/internal/domain"
)

// ErrSessionNotFound is returned when a session does not exist or has expired
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the interface for backend session storage
type SessionRepository interface {
	// Save stores a session until ttl elapses
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error

	// Get retrieves a live session by ID
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session; deleting a missing session is not an error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for persisted site user profiles
type UserRepository interface {
	// Upsert creates the profile or refreshes it and its last login time
	Upsert(ctx context.Context, user *domain.SiteUser) error

	// GetByUID retrieves a profile by provider UID
	GetByUID(ctx context.Context, uid string) (*domain.SiteUser, error)
}
