// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/repository"
)

// Service errors.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailExists         = errors.New("email already registered")
	ErrMissingToken        = errors.New("refresh token missing")
	ErrInvalidToken        = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrItemAlreadyReturned = errors.New("item already returned")
	ErrInvalidClaimant     = errors.New("claimant must be an existing passenger")
	ErrInvalidItem         = errors.New("invalid item")
	ErrCreation            = errors.New("failed to create item")
	ErrSearchInput         = errors.New("either keywords or message must be provided")
	ErrSearchProcessing    = errors.New("failed to process message search")
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, userID, token string) error
}

// ItemStore persists found items.
type ItemStore interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItemByID(ctx context.Context, id string) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, filter repository.ItemFilter, offset, limit int) ([]*model.Item, int64, error)
	MarkItemReturned(ctx context.Context, id, passengerID string, at time.Time) (*model.Item, error)
}

// PasswordHasher hashes and checks passwords. Verify never errors.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	IssueAccessToken(user *model.User) (string, error)
	IssueRefreshToken(user *model.User) (string, error)
	VerifyRefreshToken(token string) (*auth.Claims, error)
}

// KeywordCache stores keyword extraction results per message.
type KeywordCache interface {
	GetKeywords(ctx context.Context, message string) ([]string, error)
	SetKeywords(ctx context.Context, message string, keywords []string, ttl time.Duration) error
}

func generateULID() string {
	return ulid.Make().String()
}
