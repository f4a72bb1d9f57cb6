package container

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"harapan-web/internal/config"
	"harapan-web/internal/metrics"
	"harapan-web/internal/middleware"
	"harapan-web/internal/repository"
	"harapan-web/internal/service"
	"harapan-web/internal/service/session"
	"harapan-web/pkg/database"
	"harapan-web/pkg/logger"
	"harapan-web/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	DB          *database.PostgresDB
	Registry    *prometheus.Registry
	Metrics     *metrics.Collector
	RateLimiter *middleware.RateLimiter
	Services    *service.Services
}

// New creates a new dependency injection container. Redis and Postgres are
// optional: without Redis sessions live in process memory, without Postgres
// site users are not recorded.
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Container, error) {
	secret, err := sessionSecret(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	var sessionRepo repository.SessionRepository
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, keeping sessions in memory")
		} else {
			redisClient = client
			sessionRepo = repository.NewRedisSessionRepository(client)
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, keeping sessions in memory")
	}
	if sessionRepo == nil {
		sessionRepo = repository.NewMemorySessionRepository()
	}

	// Initialize database if configured
	var db *database.PostgresDB
	var userRepo repository.UserRepository
	if cfg.DatabaseURL != "" {
		pg, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.PoolConfig{
			MaxConns:       int32(cfg.DBMaxConns),
			MinConns:       int32(cfg.DBMinConns),
			ConnectTimeout: cfg.DBConnectTimeout,
		})
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to database, site users will not be recorded")
		} else {
			db = pg
			userRepo = repository.NewUserRepository(pg)
			if redisClient != nil {
				userRepo = repository.NewCachedUserRepository(userRepo, redisClient, logger.Logger)
			}
			logger.Info("Database connection established")
		}
	} else {
		logger.Info("Database URL not configured, site users will not be recorded")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	sessionService := session.NewService(sessionRepo, userRepo, secret, cfg.SessionTTL, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		DB:          db,
		Registry:    registry,
		Metrics:     collector,
		RateLimiter: middleware.NewRateLimiter(middleware.PerMinute(cfg.LoginRatePerMinute), collector, logger),
		Services: &service.Services{
			Session: sessionService,
		},
	}, nil
}

// sessionSecret returns the configured signing key. Outside production a
// random key is generated, so sessions end when the process restarts.
func sessionSecret(cfg *config.Config, logger *logger.Logger) ([]byte, error) {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret), nil
	}
	if cfg.Environment == "production" {
		return nil, fmt.Errorf("SESSION_SECRET is required in production")
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	logger.Warn("SESSION_SECRET not configured, using an ephemeral key")
	return secret, nil
}

// GetSessionService returns the session service
func (c *Container) GetSessionService() service.SessionService {
	return c.Services.Session
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// HasDatabase returns true if the Postgres pool is available
func (c *Container) HasDatabase() bool {
	return c.DB != nil
}
