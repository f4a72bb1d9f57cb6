package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://"+mr.Addr(), "test", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{name: "Invalid URL", url: "invalid://url", expectError: true},
		{name: "Empty URL", url: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", nil)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			}
		})
	}

	t.Run("Reachable server", func(t *testing.T) {
		_, client := setupTestRedis(t)
		assert.NotNil(t, client.KeyBuilder)
		assert.NoError(t, client.Health(context.Background()))
	})
}

func TestClient_SetGetDelete(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "test:key1", "value1", time.Minute))
	assert.True(t, mr.Exists("test:key1"))

	val, err := client.Get(ctx, "test:key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", val)

	ttl, err := client.TTL(ctx, "test:key1")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	n, err := client.Delete(ctx, "test:key1", "test:missing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = client.Get(ctx, "test:key1")
	assert.ErrorIs(t, err, Nil)
}

func TestClient_SetExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "test:short", "v", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := client.Get(ctx, "test:short")
	assert.ErrorIs(t, err, Nil)
}

func TestKeyBuilder(t *testing.T) {
	tests := []struct {
		environment string
		expected    string
	}{
		{environment: "production", expected: "prod:auth:session:abc"},
		{environment: "development", expected: "staging:auth:session:abc"},
		{environment: "staging", expected: "staging:auth:session:abc"},
		{environment: "test", expected: "staging:auth:session:abc"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewKeyBuilder(tt.environment).KeySession("abc"))
		})
	}

	assert.Equal(t, "prod:auth:user:uid-1", NewKeyBuilder("production").KeySiteUser("uid-1"))
}

func TestPrefixForLog(t *testing.T) {
	assert.Equal(t, "short", prefixForLog("short"))
	assert.Equal(t, "prod:auth:session:012345…", prefixForLog("prod:auth:session:0123456789abcdef"))
}
