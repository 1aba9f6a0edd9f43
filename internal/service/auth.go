package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foundly/foundly/internal/metrics"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/repository"
)

// AuthService handles registration, login and session refresh.
type AuthService struct {
	users     UserStore
	hasher    PasswordHasher
	tokens    TokenIssuer
	metrics   metrics.Recorder
	logger    *slog.Logger
	dummyHash string
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Verified against on unknown emails so both login failures cost the same.
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		logger.Warn("failed to prepare dummy password hash", "error", err)
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		metrics:   recorder,
		logger:    logger.With("component", "auth"),
		dummyHash: dummy,
		now:       time.Now,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     model.Role
}

// Session is the result of a successful login.
type Session struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// Register creates a new account. The password is hashed exactly once here.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	role := input.Role
	if role == "" {
		role = model.RolePassenger
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &model.User{
		ID:           generateULID(),
		Email:        model.NormalizeEmail(input.Email),
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	return user, nil
}

// Login checks credentials and issues a new token pair. The refresh token is
// persisted on the user, replacing any earlier one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.metrics.IncLogin(metrics.StatusFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.metrics.IncLogin(metrics.StatusFailure)
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	user.RefreshToken = refresh

	s.metrics.IncLogin(metrics.StatusSuccess)
	s.logger.Info("user logged in", "user_id", user.ID)

	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must match the one stored for the user, so a superseded token is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.User, string, error) {
	if refreshToken == "" {
		return nil, "", ErrMissingToken
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, "", ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidToken
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		s.logger.Warn("refresh token does not match stored token", "user_id", user.ID)
		return nil, "", ErrInvalidToken
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue access token: %w", err)
	}

	s.metrics.IncTokenRefreshed()
	return user, access, nil
}

// Logout revokes the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	s.logger.Info("user logged out", "user_id", userID)
	return nil
}

// GetUser loads the current state of an account.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
