package sessionclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harapan-web/internal/domain"
	apperrors "harapan-web/pkg/errors"
)

func TestClient_NotifyLogin_SendsUserFields(t *testing.T) {
	var got map[string]interface{}
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, LoginPath, r.URL.Path)
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL + "/")
	err := c.NotifyLogin(context.Background(), &domain.SessionUser{
		UID:         "uid-1",
		Email:       "a@example.com",
		DisplayName: domain.StringPtr("Ayu"),
	})

	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]interface{}{
		"uid":         "uid-1",
		"email":       "a@example.com",
		"displayName": "Ayu",
		"photoURL":    nil,
	}, got)
}

func TestClient_NotifyLogout_NoBody(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, LogoutPath, r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, New(server.URL).NotifyLogout(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestClient_NonSuccessStatusIsExternalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := New(server.URL).NotifyLogout(context.Background())

	require.Error(t, err)
	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Details["status_code"])
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := New(url).NotifyLogin(context.Background(), &domain.SessionUser{UID: "u", Email: "e@example.com"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.As(err).Type)
}

func TestClient_KeepsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "harapan_session", Value: "tok", Path: "/"})
	})
	mux.HandleFunc(MePath, func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("harapan_session"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"user":    map[string]interface{}{"uid": "uid-1", "email": "a@example.com"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	user, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, c.NotifyLogin(ctx, &domain.SessionUser{UID: "uid-1", Email: "a@example.com"}))

	user, err = c.Me(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "uid-1", user.UID)
}

// sessionBackend hands out one token per login and revokes it on logout
type sessionBackend struct {
	mu     sync.Mutex
	issued int
	live   map[string]string
}

func newSessionBackend(t *testing.T) (*sessionBackend, *httptest.Server) {
	t.Helper()
	b := &sessionBackend{live: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		var user domain.SessionUser
		require.NoError(t, json.NewDecoder(r.Body).Decode(&user))
		b.mu.Lock()
		b.issued++
		token := fmt.Sprintf("tok-%d", b.issued)
		b.live[token] = user.UID
		b.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: domain.SessionCookieName, Value: token, Path: "/"})
	})
	mux.HandleFunc(LogoutPath, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(domain.SessionCookieName); err == nil {
			b.mu.Lock()
			delete(b.live, c.Value)
			b.mu.Unlock()
		}
		http.SetCookie(w, &http.Cookie{Name: domain.SessionCookieName, Value: "", Path: "/", MaxAge: -1})
	})
	mux.HandleFunc(MePath, func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(domain.SessionCookieName)
		b.mu.Lock()
		uid, ok := "", false
		if err == nil {
			uid, ok = b.live[c.Value]
		}
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"user":    map[string]interface{}{"uid": uid, "email": uid + "@example.com"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return b, server
}

func (b *sessionBackend) counts() (issued, live int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issued, len(b.live)
}

func TestClient_SessionOutlivesClientWithKeyringStore(t *testing.T) {
	backend, server := newSessionBackend(t)
	ring := keyring.NewArrayKeyring(nil)
	ctx := context.Background()
	user := &domain.SessionUser{UID: "uid-1", Email: "a@example.com"}

	first := NewWithTokenStore(server.URL, NewKeyringTokenStore(ring, server.URL))
	require.NoError(t, first.NotifyLogin(ctx, user))

	// a later process signs the same user in again and reuses the session
	second := NewWithTokenStore(server.URL, NewKeyringTokenStore(ring, server.URL+"/"))
	require.NoError(t, second.NotifyLogin(ctx, user))
	issued, live := backend.counts()
	assert.Equal(t, 1, issued)
	assert.Equal(t, 1, live)

	require.NoError(t, second.NotifyLogout(ctx))
	_, live = backend.counts()
	assert.Zero(t, live)

	token, err := NewKeyringTokenStore(ring, server.URL).Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestClient_NewSessionForDifferentUser(t *testing.T) {
	backend, server := newSessionBackend(t)
	c := New(server.URL)
	ctx := context.Background()

	require.NoError(t, c.NotifyLogin(ctx, &domain.SessionUser{UID: "uid-1", Email: "a@example.com"}))
	require.NoError(t, c.NotifyLogin(ctx, &domain.SessionUser{UID: "uid-2", Email: "b@example.com"}))

	issued, _ := backend.counts()
	assert.Equal(t, 2, issued)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.NotNil(t, me)
	assert.Equal(t, "uid-2", me.UID)
}

func TestClient_StaleTokenIsDropped(t *testing.T) {
	backend, server := newSessionBackend(t)
	store := NewMemoryTokenStore()
	require.NoError(t, store.SetToken("revoked-elsewhere"))
	c := NewWithTokenStore(server.URL, store)
	ctx := context.Background()

	require.NoError(t, c.NotifyLogin(ctx, &domain.SessionUser{UID: "uid-1", Email: "a@example.com"}))

	issued, live := backend.counts()
	assert.Equal(t, 1, issued)
	assert.Equal(t, 1, live)
	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestKeyringTokenStore(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	a := NewKeyringTokenStore(ring, "http://a.example")
	b := NewKeyringTokenStore(ring, "http://b.example")

	token, err := a.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, a.SetToken("tok-a"))
	token, err = a.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)

	token, err = b.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, a.ClearToken())
	require.NoError(t, a.ClearToken())
	token, err = a.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}
