package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/usecase-portal/internal/auth"
	"github.com/spec-kit/usecase-portal/internal/config"
	"github.com/spec-kit/usecase-portal/internal/domain"
	"github.com/spec-kit/usecase-portal/internal/events"
	"github.com/spec-kit/usecase-portal/internal/repository"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

const loginFailureWindow = 15 * time.Minute

// AuthService coordinates signup, login and password reset flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	redis      *redis.Client
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Redis      *redis.Client
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		redis:      deps.Redis,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup creates a new portal account.
func (s *AuthService) Signup(ctx context.Context, email, password string, role domain.Role, license domain.License) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		License:      license,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserSignedUp, email, events.UserSignedUpPayload{
		Email:   email,
		Role:    role,
		License: license,
	})
	return user, nil
}

// Login authenticates an account and issues a session token snapshotting the
// role and license claims at issuance time.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordLoginFailure(ctx, email)
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.Issue(user.Email, user.Role, user.License)
	if err != nil {
		return "", time.Time{}, err
	}
	s.clearLoginFailures(ctx, email)
	return token, exp, nil
}

// ForgotPassword stores a fresh reset token on the account and returns it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NewNotFound("user", nil)
		}
		return "", err
	}

	token := uuid.NewString()
	if err := s.users.SetResetToken(ctx, email, &token); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword verifies the stored reset token, replaces the hash and
// clears the token.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewValidationError("invalid token or user", nil)
		}
		return err
	}
	if user.ResetToken == nil || *user.ResetToken != token {
		return apperrors.NewValidationError("invalid token or user", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, email, hash); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordReset, email, nil)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// recordLoginFailure keeps a best-effort failure counter in Redis. Login
// proceeds regardless of Redis availability.
func (s *AuthService) recordLoginFailure(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}
	key := "login:failures:" + email
	if err := s.redis.Incr(ctx, key).Err(); err != nil {
		s.logger.Warn("login failure counter unavailable", zap.Error(err))
		return
	}
	_ = s.redis.Expire(ctx, key, loginFailureWindow).Err()
}

func (s *AuthService) clearLoginFailures(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, "login:failures:"+email).Err()
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subject string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
