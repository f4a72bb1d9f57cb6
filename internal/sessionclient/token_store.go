package sessionclient

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/99designs/keyring"
)

// TokenStore keeps the backend session token between requests. An empty
// token means there is no session.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// MemoryTokenStore keeps the token for the life of the process
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore creates an empty in-process token store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) ClearToken() error {
	return s.SetToken("")
}

// KeyringTokenStore keeps the token in the OS credential store, one entry per
// backend, so a session outlives the command that opened it
type KeyringTokenStore struct {
	ring keyring.Keyring
	key  string
}

// NewKeyringTokenStore stores the session token of the backend at baseURL
func NewKeyringTokenStore(ring keyring.Keyring, baseURL string) *KeyringTokenStore {
	return &KeyringTokenStore{
		ring: ring,
		key:  fmt.Sprintf("backend_session:%s", normalizeBaseURL(baseURL)),
	}
}

func (s *KeyringTokenStore) Token() (string, error) {
	item, err := s.ring.Get(s.key)
	if stderrors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return string(item.Data), nil
}

func (s *KeyringTokenStore) SetToken(token string) error {
	if token == "" {
		return s.ClearToken()
	}
	err := s.ring.Set(keyring.Item{
		Key:         s.key,
		Data:        []byte(token),
		Label:       "Harapan backend session",
		Description: "Backend session token for the harapan CLI",
	})
	if err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

func (s *KeyringTokenStore) ClearToken() error {
	if err := s.ring.Remove(s.key); err != nil && !stderrors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove session token: %w", err)
	}
	return nil
}
