package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"harapan-web/internal/domain"
	"harapan-web/internal/service"
	"harapan-web/pkg/errors"
	"harapan-web/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// SessionContextKey is the key for the resolved session in context
	SessionContextKey ContextKey = "session"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// SessionCookieName is the cookie holding the session token
const SessionCookieName = domain.SessionCookieName

// TokenFromRequest returns the session token from the session cookie, or
// from an Authorization Bearer header when no cookie is sent
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// SessionFromContext returns the session stored by RequireSession or OptionalSession
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(*domain.Session)
	return session, ok && session != nil
}

// WithSession returns a copy of ctx carrying session
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

// RequireSession rejects requests without a valid session
func RequireSession(sessions service.SessionService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				WriteError(w, r, errors.NewAuthenticationError("Session is required"), logger)
				return
			}

			session, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				WriteError(w, r, errors.As(err), logger)
				return
			}

			logger.WithField("user_id", session.User.UID).Debug("Session resolved")
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// OptionalSession attaches the session when a valid one is presented and
// otherwise continues as a signed-out request
func OptionalSession(sessions service.SessionService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				logger.WithError(err).Debug("Ignoring invalid session")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequestID creates a middleware that adds a unique request ID to each request
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request ID set by RequestID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}
