package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/metrics"
	"github.com/foundly/foundly/internal/middleware"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/nlp"
	"github.com/foundly/foundly/internal/repository"
	"github.com/foundly/foundly/internal/service"
)

var cheapParams = auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testAPI wires the real services over an in-memory store behind a chi
// router that mirrors the production route table.
type testAPI struct {
	router  http.Handler
	store   *repository.MemoryStore
	auth    *service.AuthService
	metrics *metrics.InMemoryRecorder
}

func newTestAPI(t *testing.T, extractor nlp.Extractor) *testAPI {
	t.Helper()

	logger := discardLogger()
	store := repository.NewMemoryStore()
	rec := metrics.NewInMemory()
	tokens := auth.NewTokenService(auth.TokenConfig{AccessSecret: "access", RefreshSecret: "refresh", Issuer: "foundly-test"})

	authSvc := service.NewAuthService(store, auth.NewPasswordHasher(cheapParams), tokens, rec, logger)
	itemSvc := service.NewItemService(store, store, rec, logger)
	searchSvc := service.NewSearchService(store, extractor, service.SearchConfig{Metrics: rec, Logger: logger})

	authHandler := NewAuthHandler(AuthHandlerConfig{Service: authSvc, Logger: logger})
	itemHandler := NewItemHandler(itemSvc, logger)
	searchHandler := NewSearchHandler(searchSvc, logger)

	authenticate := middleware.Authenticate(middleware.AuthConfig{Logger: logger, Tokens: tokens})
	agentOnly := middleware.RequireAgent(middleware.RoleConfig{Logger: logger, Users: authSvc})

	r := chi.NewRouter()
	r.Post("/auth/create-user", authHandler.CreateUser)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/refresh-token", authHandler.Refresh)
	r.With(authenticate).Post("/auth/logout", authHandler.Logout)
	r.Route("/products", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/search", searchHandler.Search)
		r.Group(func(r chi.Router) {
			r.Use(agentOnly)
			r.Get("/list", itemHandler.List)
			r.Post("/", itemHandler.Create)
			r.Get("/{id}", itemHandler.Get)
			r.Delete("/{id}", itemHandler.Delete)
			r.Patch("/{id}/return", itemHandler.MarkReturned)
		})
	})

	return &testAPI{router: r, store: store, auth: authSvc, metrics: rec}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// login registers an account with role and returns its session cookies.
func (a *testAPI) login(t *testing.T, email string, role model.Role) (*model.User, []*http.Cookie) {
	t.Helper()

	user, err := a.auth.Register(context.Background(), service.RegisterInput{
		Email: email, Name: "Test", Password: "secret1", Role: role,
	})
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return user, rec.Result().Cookies()
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}
