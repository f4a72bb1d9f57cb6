// Package sessionclient talks to the backend session endpoints on behalf of
// the auth bridge.
package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"harapan-web/internal/domain"
	"harapan-web/pkg/errors"
)

// Backend session endpoint paths
const (
	LoginPath  = "/api/auth/login"
	LogoutPath = "/api/auth/logout"
	MePath     = "/api/auth/me"
)

// Client posts sign-in state changes to the backend. It keeps the session
// token the backend hands out in its TokenStore, so logout ends the session
// login started.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenStore
}

// New creates a client for the backend at baseURL with a 10-second timeout.
// The session token lives in memory.
func New(baseURL string) *Client {
	return NewWithTokenStore(baseURL, NewMemoryTokenStore())
}

// NewWithTokenStore creates a client that keeps the session token in tokens
func NewWithTokenStore(baseURL string, tokens TokenStore) *Client {
	c := NewWithHTTPClient(baseURL, &http.Client{Timeout: 10 * time.Second})
	c.tokens = tokens
	return c
}

// NewWithHTTPClient creates a client using the given http.Client and an
// in-memory token store
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		client:  httpClient,
		tokens:  NewMemoryTokenStore(),
	}
}

// NotifyLogin calls POST /api/auth/login with the user's public fields. A
// stored session that still belongs to user is reused instead.
func (c *Client) NotifyLogin(ctx context.Context, user *domain.SessionUser) error {
	if token, _ := c.tokens.Token(); token != "" {
		current, err := c.Me(ctx)
		if err == nil && user.SameIdentity(current) {
			return nil
		}
	}

	body, err := json.Marshal(domain.LoginRequest{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	})
	if err != nil {
		return fmt.Errorf("failed to encode login request: %w", err)
	}
	return c.post(ctx, LoginPath, body)
}

// NotifyLogout calls POST /api/auth/logout without a body
func (c *Client) NotifyLogout(ctx context.Context) error {
	return c.post(ctx, LogoutPath, nil)
}

// Me returns the user of the current backend session, or nil when there is none
func (c *Client) Me(ctx context.Context) (*domain.SessionUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+MePath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.tokens.ClearToken()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(MePath, resp)
	}

	var out struct {
		User *domain.SessionUser `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	return out.User, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(path, resp)
	}
	return nil
}

// do sends req with the stored session token and keeps whatever session
// cookie the backend sets or clears in the response
func (c *Client) do(req *http.Request) (*http.Response, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: token})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("Backend session request failed", err)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name != domain.SessionCookieName {
			continue
		}
		if cookie.Value == "" || cookie.MaxAge < 0 {
			err = c.tokens.ClearToken()
		} else {
			err = c.tokens.SetToken(cookie.Value)
		}
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}

func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

func statusError(path string, resp *http.Response) *errors.AppError {
	appErr := errors.NewExternalError(fmt.Sprintf("%s returned %d", path, resp.StatusCode), nil)
	appErr.Details = map[string]interface{}{"status_code": resp.StatusCode}
	return appErr
}
