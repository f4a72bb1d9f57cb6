package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"harapan-web/internal/container"
	"harapan-web/internal/domain"
	"harapan-web/internal/middleware"
	"harapan-web/pkg/errors"
)

// maxLoginBodyBytes bounds the login request body
const maxLoginBodyBytes = 64 << 10

// AuthHandler handles the session endpoints the auth bridge notifies
type AuthHandler struct {
	container *container.Container
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(container *container.Container) *AuthHandler {
	return &AuthHandler{
		container: container,
	}
}

// UserResponse is the body of a successful login or me request
type UserResponse struct {
	Success bool                `json:"success"`
	User    *domain.SessionUser `json:"user"`
}

// MeResponse is the body of a me request. Profile is present when the site
// user store knows the user.
type MeResponse struct {
	Success bool                `json:"success"`
	User    *domain.SessionUser `json:"user"`
	Profile *domain.SiteUser    `json:"profile,omitempty"`
}

// SuccessResponse is the body of a successful logout
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	recorder := h.container.Metrics

	var req domain.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)).Decode(&req); err != nil {
		recorder.RecordLogin(false)
		middleware.WriteError(w, r, errors.NewValidationError("Invalid JSON body", nil), logger)
		return
	}

	session, token, err := h.container.GetSessionService().Login(r.Context(), &req)
	if err != nil {
		recorder.RecordLogin(false)
		middleware.WriteError(w, r, errors.As(err), logger)
		return
	}
	recorder.RecordLogin(true)

	http.SetCookie(w, h.sessionCookie(token, session.ExpiresAt))
	writeJSON(w, r, http.StatusOK, UserResponse{Success: true, User: &session.User}, logger)
}

// Logout handles POST /api/auth/logout. It succeeds with or without a live
// session and always clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	http.SetCookie(w, h.expiredCookie())

	if token := middleware.TokenFromRequest(r); token != "" {
		if err := h.container.GetSessionService().Revoke(r.Context(), token); err != nil {
			middleware.WriteError(w, r, errors.As(err), logger)
			return
		}
	}
	h.container.Metrics.RecordLogout()

	writeJSON(w, r, http.StatusOK, SuccessResponse{Success: true}, logger)
}

// Me handles GET /api/auth/me. It runs behind RequireSession.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, r, errors.NewAuthenticationError("User not authenticated"), logger)
		return
	}

	profile, err := h.container.GetSessionService().Profile(r.Context(), session.User.UID)
	if err != nil {
		logger.WithError(err).Warn("Failed to load site profile")
		profile = nil
	}

	writeJSON(w, r, http.StatusOK, MeResponse{Success: true, User: &session.User, Profile: profile}, logger)
}

func (h *AuthHandler) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(h.container.Config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.container.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.container.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
