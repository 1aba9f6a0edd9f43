package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/handler/dto"
	"github.com/foundly/foundly/internal/service"
)

// AuthHandler handles registration, login and session refresh.
type AuthHandler struct {
	svc        *service.AuthService
	cookies    auth.CookieConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
}

// AuthHandlerConfig holds dependencies for an AuthHandler.
type AuthHandlerConfig struct {
	Service    *service.AuthService
	Cookies    auth.CookieConfig
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = auth.DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = auth.DefaultRefreshTTL
	}
	return &AuthHandler{
		svc:        cfg.Service,
		cookies:    cfg.Cookies,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		logger:     cfg.Logger,
	}
}

// CreateUser handles POST /auth/create-user.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.ParsedRole(),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToCreateUserResponse(user))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	http.SetCookie(w, h.cookies.NewCookie(auth.AccessTokenCookie, session.AccessToken, h.accessTTL))
	http.SetCookie(w, h.cookies.NewCookie(auth.RefreshTokenCookie, session.RefreshToken, h.refreshTTL))

	writeJSON(w, http.StatusOK, dto.ToLoginResponse(session.User))
}

// Refresh handles POST /refresh-token. Only the access cookie is reissued.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(auth.RefreshTokenCookie); err == nil {
		token = c.Value
	}

	_, access, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	http.SetCookie(w, h.cookies.NewCookie(auth.AccessTokenCookie, access, h.accessTTL))
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Token refreshed successfully"})
}

// Logout handles POST /auth/logout. Must be behind Authenticate.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), auth.UserIDFromContext(r.Context())); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	http.SetCookie(w, h.cookies.ExpiredCookie(auth.AccessTokenCookie))
	http.SetCookie(w, h.cookies.ExpiredCookie(auth.RefreshTokenCookie))
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}
