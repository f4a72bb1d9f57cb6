package domain

import "time"

// SessionUser is the identity record handed over by the identity provider.
// DisplayName and PhotoURL are optional on the provider side and serialize as
// null when absent.
type SessionUser struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// Name returns the display name, or an empty string when the provider has none
func (u *SessionUser) Name() string {
	if u == nil || u.DisplayName == nil {
		return ""
	}
	return *u.DisplayName
}

// Photo returns the profile image URL, or an empty string when the provider has none
func (u *SessionUser) Photo() string {
	if u == nil || u.PhotoURL == nil {
		return ""
	}
	return *u.PhotoURL
}

// SameIdentity reports whether both users carry the same provider UID
func (u *SessionUser) SameIdentity(other *SessionUser) bool {
	if u == nil || other == nil {
		return false
	}
	return u.UID == other.UID
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest = SessionUser

// SiteUser is the persisted profile of a user that has signed in at least once
type SiteUser struct {
	UID         string    `json:"uid" db:"uid"`
	Email       string    `json:"email" db:"email"`
	DisplayName *string   `json:"displayName,omitempty" db:"display_name"`
	PhotoURL    *string   `json:"photoURL,omitempty" db:"photo_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	LastLoginAt time.Time `json:"last_login_at" db:"last_login_at"`
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
