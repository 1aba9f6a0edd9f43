package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/metrics"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/repository"
)

var cheapParams = auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type testEnv struct {
	store   *repository.MemoryStore
	tokens  *auth.TokenService
	metrics *metrics.InMemoryRecorder
	auth    *AuthService
	items   *ItemService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewMemoryStore()
	tokens := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "foundly-test",
	})
	rec := metrics.NewInMemory()
	logger := discardLogger()

	return &testEnv{
		store:   store,
		tokens:  tokens,
		metrics: rec,
		auth:    NewAuthService(store, auth.NewPasswordHasher(cheapParams), tokens, rec, logger),
		items:   NewItemService(store, store, rec, logger),
	}
}

func (e *testEnv) register(t *testing.T, email, password string, role model.Role) *model.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Email:    email,
		Name:     "Test User",
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}
