package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"harapan-web/internal/domain"
	"harapan-web/pkg/redis"
)

// redisSessionRepository stores sessions as JSON values with a TTL
type redisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a session repository backed by Redis
func NewRedisSessionRepository(client *redis.Client) SessionRepository {
	return &redisSessionRepository{client: client}
}

// Save stores the session under its ID
func (r *redisSessionRepository) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.client.KeyBuilder.KeySession(session.ID), data, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get loads the session stored under id
func (r *redisSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.client.KeyBuilder.KeySession(id))
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Delete removes the session stored under id
func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Delete(ctx, r.client.KeyBuilder.KeySession(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
