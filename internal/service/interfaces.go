package service

import (
	"context"

	"harapan-web/internal/domain"
)

// SessionService defines the interface for backend session operations
type SessionService interface {
	// Login records the signed-in user and returns a signed session token
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.Session, string, error)

	// Resolve validates a session token and returns the live session
	Resolve(ctx context.Context, token string) (*domain.Session, error)

	// Revoke ends the session behind a token. Unknown or expired tokens are ignored.
	Revoke(ctx context.Context, token string) error

	// Profile returns the stored site profile of uid, or nil when none is kept
	Profile(ctx context.Context, uid string) (*domain.SiteUser, error)
}

// Services aggregates all service interfaces
type Services struct {
	Session SessionService
}
