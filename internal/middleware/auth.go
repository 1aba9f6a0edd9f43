package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/foundly/foundly/internal/auth"
)

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens TokenVerifier
}

// Authenticate returns a middleware that reads the access token cookie,
// verifies it and injects the caller identity into the request context.
func Authenticate(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			claims, err := cfg.Tokens.VerifyAccessToken(cookie.Value)
			if err != nil {
				reason, message := "invalid_token", "Invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					reason, message = "expired_token", "Token expired"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
				return
			}

			annotateUser(r.Context(), claims.UserID)
			ctx := auth.ContextWithIdentity(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
