package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"harapan-web/internal/domain"
	"harapan-web/internal/repository"
	"harapan-web/internal/service"
	"harapan-web/pkg/errors"
	"harapan-web/pkg/logger"
)

// Issuer is the iss claim of every session token
const Issuer = "harapan-web"

// Claims are the JWT claims carried by the session cookie. Subject holds the
// provider UID and ID holds the session ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Service implements the SessionService interface
type Service struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	secret   []byte
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

var _ service.SessionService = (*Service)(nil)

// NewService creates a new session service. users may be nil when no
// database is configured.
func NewService(sessions repository.SessionRepository, users repository.UserRepository, secret []byte, ttl time.Duration, logger *logger.Logger) *Service {
	return &Service{
		sessions: sessions,
		users:    users,
		secret:   secret,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// TTL returns the lifetime of new sessions
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Login validates the login body, records the user and opens a session
func (s *Service) Login(ctx context.Context, req *domain.LoginRequest) (*domain.Session, string, error) {
	if req == nil {
		return nil, "", errors.NewValidationError("Request body is required", nil)
	}

	user := *req
	user.UID = strings.TrimSpace(user.UID)
	user.Email = strings.TrimSpace(user.Email)

	missing := make([]string, 0, 2)
	if user.UID == "" {
		missing = append(missing, "uid")
	}
	if user.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, "", errors.NewValidationError("uid and email are required", map[string]interface{}{
			"missing_fields": missing,
		})
	}

	now := s.now().UTC()
	log := s.logger.WithField("user_id", user.UID)

	if s.users != nil {
		siteUser := &domain.SiteUser{
			UID:         user.UID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			PhotoURL:    user.PhotoURL,
			LastLoginAt: now,
		}
		if err := s.users.Upsert(ctx, siteUser); err != nil {
			log.WithError(err).Warn("Failed to record site user, continuing with session")
		}
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session, s.ttl); err != nil {
		log.WithError(err).Error("Failed to save session")
		return nil, "", errors.NewInternalError("Failed to create session", err)
	}

	token, err := s.sign(session)
	if err != nil {
		log.WithError(err).Error("Failed to sign session token")
		return nil, "", errors.NewInternalError("Failed to create session", err)
	}

	log.WithField("session_id", session.ID).Info("Session created")
	return session, token, nil
}

// Resolve returns the live session behind token
func (s *Service) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		s.logger.WithError(err).Debug("Rejected session token")
		return nil, errors.NewAuthenticationError("Invalid or expired session")
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if stderrors.Is(err, repository.ErrSessionNotFound) {
		return nil, errors.NewAuthenticationError("Session has ended")
	}
	if err != nil {
		return nil, errors.NewInternalError("Failed to load session", err)
	}

	if session.User.UID != claims.Subject || session.Expired(s.now()) {
		return nil, errors.NewAuthenticationError("Invalid or expired session")
	}
	return session, nil
}

// Revoke deletes the session behind token
func (s *Service) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		s.logger.WithError(err).Debug("Ignoring logout with unusable token")
		return nil
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return errors.NewInternalError("Failed to end session", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    claims.Subject,
		"session_id": claims.ID,
	}).Info("Session revoked")
	return nil
}

// Profile loads the persisted profile of a signed-in user
func (s *Service) Profile(ctx context.Context, uid string) (*domain.SiteUser, error) {
	if s.users == nil {
		return nil, nil
	}

	user, err := s.users.GetByUID(ctx, uid)
	if stderrors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternalError("Failed to load profile", err)
	}
	return user, nil
}

func (s *Service) sign(session *domain.Session) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   session.User.UID,
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("token is missing session claims")
	}
	return claims, nil
}
