package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"harapan-web/internal/domain"
	"harapan-web/pkg/database"
)

// ErrUserNotFound is returned when no profile exists for a UID
var ErrUserNotFound = errors.New("user not found")

// userRepository handles site user profiles with PostgreSQL
type userRepository struct {
	db *database.PostgresDB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.PostgresDB) UserRepository {
	return &userRepository{db: db}
}

// Upsert inserts the profile or refreshes its fields and last login time
func (r *userRepository) Upsert(ctx context.Context, user *domain.SiteUser) error {
	query := `
		INSERT INTO site_users (uid, email, display_name, photo_url, created_at, last_login_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			last_login_at = NOW()
		RETURNING created_at, last_login_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.UID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
	).Scan(&user.CreatedAt, &user.LastLoginAt)
	if err != nil {
		return fmt.Errorf("failed to upsert site user: %w", err)
	}

	return nil
}

// GetByUID retrieves a profile by provider UID
func (r *userRepository) GetByUID(ctx context.Context, uid string) (*domain.SiteUser, error) {
	query := `
		SELECT uid, email, display_name, photo_url, created_at, last_login_at
		FROM site_users
		WHERE uid = $1
	`

	var user domain.SiteUser
	err := r.db.Pool.QueryRow(ctx, query, uid).Scan(
		&user.UID,
		&user.Email,
		&user.DisplayName,
		&user.PhotoURL,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site user: %w", err)
	}

	return &user, nil
}
