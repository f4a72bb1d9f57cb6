package database

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSchemaMissing is reported by Health when the site_users table has not
// been created yet (run `migrate up`)
var ErrSchemaMissing = stderrors.New("site_users table is missing")

// PoolConfig sizes the connection pool
type PoolConfig struct {
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
}

// DefaultPoolConfig suits the login write path: one upsert per sign-in and
// cache-missed profile reads
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:       10,
		MinConns:       1,
		ConnectTimeout: 5 * time.Second,
	}
}

// PostgresDB holds the pool behind the site user store
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// NewPostgresDB connects to databaseURL and verifies the connection
func NewPostgresDB(ctx context.Context, databaseURL string, pc PoolConfig) (*PostgresDB, error) {
	config, err := poolConfig(databaseURL, pc)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{Pool: pool}, nil
}

// poolConfig parses databaseURL and applies pc. Zero fields keep the defaults.
func poolConfig(databaseURL string, pc PoolConfig) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	defaults := DefaultPoolConfig()
	if pc.MaxConns <= 0 {
		pc.MaxConns = defaults.MaxConns
	}
	if pc.MinConns < 0 || pc.MinConns > pc.MaxConns {
		pc.MinConns = defaults.MinConns
	}
	if pc.ConnectTimeout <= 0 {
		pc.ConnectTimeout = defaults.ConnectTimeout
	}

	config.MaxConns = pc.MaxConns
	config.MinConns = pc.MinConns
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute
	config.ConnConfig.ConnectTimeout = pc.ConnectTimeout
	return config, nil
}

// Close closes the database connection pool
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Health pings the database and checks that site_users exists
func (db *PostgresDB) Health(ctx context.Context) error {
	if err := db.Pool.Ping(ctx); err != nil {
		return err
	}

	var exists bool
	if err := db.Pool.QueryRow(ctx, SiteUsersExistsQuery).Scan(&exists); err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if !exists {
		return ErrSchemaMissing
	}
	return nil
}
