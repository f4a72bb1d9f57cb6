package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"harapan-web/internal/domain"
	"harapan-web/pkg/redis"
)

// cachedUserRepository serves profile reads cache-aside from Redis. Cache
// failures fall through to the wrapped repository.
type cachedUserRepository struct {
	next   UserRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps next with a Redis read cache
func NewCachedUserRepository(next UserRepository, client *redis.Client, logger *zap.Logger) UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedUserRepository{
		next:   next,
		redis:  client,
		ttl:    redis.TTLSiteUser,
		logger: logger,
	}
}

// Upsert writes through and drops the cached copy
func (r *cachedUserRepository) Upsert(ctx context.Context, user *domain.SiteUser) error {
	err := r.next.Upsert(ctx, user)
	r.invalidate(ctx, user.UID)
	return err
}

// GetByUID returns the cached profile or loads and caches it
func (r *cachedUserRepository) GetByUID(ctx context.Context, uid string) (*domain.SiteUser, error) {
	key := r.redis.KeyBuilder.KeySiteUser(uid)

	data, err := r.redis.Get(ctx, key)
	switch {
	case err == nil:
		var user domain.SiteUser
		jsonErr := json.Unmarshal([]byte(data), &user)
		if jsonErr == nil {
			r.logger.Debug("Site user cache hit", zap.String("uid", uid))
			return &user, nil
		}
		r.logger.Warn("Site user cache corrupted, falling back to database", zap.String("uid", uid), zap.Error(jsonErr))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Site user cache error, falling back to database", zap.String("uid", uid), zap.Error(err))
	}

	user, err := r.next.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	r.store(ctx, user)
	return user, nil
}

func (r *cachedUserRepository) store(ctx context.Context, user *domain.SiteUser) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, r.redis.KeyBuilder.KeySiteUser(user.UID), data, r.ttl); err != nil {
		r.logger.Warn("Failed to cache site user", zap.String("uid", user.UID), zap.Error(err))
	}
}

func (r *cachedUserRepository) invalidate(ctx context.Context, uid string) {
	if _, err := r.redis.Delete(ctx, r.redis.KeyBuilder.KeySiteUser(uid)); err != nil {
		r.logger.Warn("Failed to invalidate site user cache", zap.String("uid", uid), zap.Error(err))
	}
}
