package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/service"
)

// UserLookup loads the current state of an account.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// RoleConfig holds configuration for role authorization.
type RoleConfig struct {
	Logger *slog.Logger
	Users  UserLookup
}

// RequireRole returns middleware that admits callers whose stored role is in
// roles. Must be applied after Authenticate. The role comes from the store,
// not from the token claims.
func RequireRole(cfg RoleConfig, roles ...model.Role) func(http.Handler) http.Handler {
	required := make([]string, len(roles))
	for i, role := range roles {
		required[i] = string(role)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.IdentityFromContext(r.Context())
			if identity == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			user, err := cfg.Users.GetUser(r.Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
					return
				}
				cfg.Logger.Error("failed to load user for authorization",
					slog.String("error", err.Error()),
					slog.String("user_id", identity.UserID),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}

			if !user.Role.In(roles) {
				cfg.Logger.Warn("authorization failed",
					slog.String("user_id", user.ID),
					slog.String("role", string(user.Role)),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeErrorBody(w, http.StatusForbidden, errorBody{
					Status:   "error",
					Code:     "FORBIDDEN",
					Message:  "Forbidden",
					Required: required,
					Current:  string(user.Role),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAgent is a convenience middleware for agent-only routes.
func RequireAgent(cfg RoleConfig) func(http.Handler) http.Handler {
	return RequireRole(cfg, model.RoleAgent)
}
