package domain

import "time"

// SessionCookieName is the cookie the backend keeps its session token in
const SessionCookieName = "harapan_session"

// Session is a backend session created by POST /api/auth/login
type Session struct {
	ID        string      `json:"id"`
	User      SessionUser `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
