package redis

import (
	"fmt"
	"time"
)

// Key patterns
const (
	KeySession  = "auth:session:%s" // auth:session:{sessionID}
	KeySiteUser = "auth:user:%s"    // auth:user:{uid}
)

// TTLSiteUser is how long a cached site user profile is served
const TTLSiteUser = 10 * time.Minute

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeySession returns the key of a backend session record
func (kb *KeyBuilder) KeySession(sessionID string) string {
	return kb.BuildKey(fmt.Sprintf(KeySession, sessionID))
}

// KeySiteUser returns the key of a cached site user profile
func (kb *KeyBuilder) KeySiteUser(uid string) string {
	return kb.BuildKey(fmt.Sprintf(KeySiteUser, uid))
}
