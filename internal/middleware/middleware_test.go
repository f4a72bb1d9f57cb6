package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harapan-web/internal/domain"
	"harapan-web/pkg/errors"
	"harapan-web/pkg/logger"
)

type stubSessions struct {
	sessions map[string]*domain.Session
}

func (s *stubSessions) Login(ctx context.Context, req *domain.LoginRequest) (*domain.Session, string, error) {
	return nil, "", errors.NewInternalError("not implemented", nil)
}

func (s *stubSessions) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, errors.NewAuthenticationError("Invalid or expired session")
}

func (s *stubSessions) Revoke(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *stubSessions) Profile(ctx context.Context, uid string) (*domain.SiteUser, error) {
	return nil, nil
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: map[string]*domain.Session{
		"good": {ID: "s1", User: domain.SessionUser{UID: "uid-1", Email: "a@example.com"}},
	}}
}

// echoUser writes the UID of the session in context, or "anonymous"
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if session, ok := SessionFromContext(r.Context()); ok {
		w.Write([]byte(session.User.UID))
		return
	}
	w.Write([]byte("anonymous"))
})

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "cookie", cookie: "from-cookie", want: "from-cookie"},
		{name: "bearer", header: "Bearer from-header", want: "from-header"},
		{name: "cookie wins", cookie: "from-cookie", header: "Bearer from-header", want: "from-cookie"},
		{name: "other scheme", header: "Basic abc", want: ""},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, TokenFromRequest(req))
		})
	}
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(newStubSessions(), logger.Nop())(echoUser)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{name: "valid session", token: "good", wantStatus: http.StatusOK, wantBody: "uid-1"},
		{name: "missing token", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", token: "bad", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}

			var body errors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, errors.ErrorTypeAuthentication, body.Error.Type)
			assert.NotEmpty(t, body.Error.Timestamp)
		})
	}
}

func TestOptionalSession(t *testing.T) {
	handler := OptionalSession(newStubSessions(), logger.Nop())(echoUser)

	for token, want := range map[string]string{"good": "uid-1", "bad": "anonymous", "": "anonymous"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Body.String(), "token %q", token)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", seen)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS(DefaultCORSConfig([]string{"http://localhost:6004"}), logger.Nop())(next)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://localhost:6004")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:6004", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://localhost:6004")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

type countingRecorder struct {
	limited map[string]int
}

func (c *countingRecorder) RecordLogin(bool)      {}
func (c *countingRecorder) RecordLogout()         {}
func (c *countingRecorder) RecordPageRender(bool) {}
func (c *countingRecorder) RecordRateLimited(route string) {
	c.limited[route]++
}

func TestRateLimiter_Middleware(t *testing.T) {
	recorder := &countingRecorder{limited: map[string]int{}}
	rl := NewRateLimiter(PerMinute(2), recorder, logger.Nop())
	defer rl.Stop()

	handler := rl.Middleware("login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:2222").Code)

	rec := do("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))

	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrorTypeRateLimit, body.Error.Type)

	// Another client has its own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111").Code)

	assert.Equal(t, 1, recorder.limited["login"])
	assert.Equal(t, 2, rl.ClientCount())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(PerMinute(10), nil, logger.Nop())
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")
	require.Equal(t, 2, rl.ClientCount())

	rl.cleanup(time.Now())
	assert.Equal(t, 2, rl.ClientCount())

	rl.cleanup(time.Now().Add(11 * time.Minute))
	assert.Equal(t, 0, rl.ClientCount())

	rl.Stop()
	rl.Stop()
}

func TestPerMinute(t *testing.T) {
	cfg := PerMinute(0)
	assert.Equal(t, 1, cfg.Burst)
	assert.InDelta(t, 1.0/60.0, float64(cfg.Rate), 1e-9)
}
