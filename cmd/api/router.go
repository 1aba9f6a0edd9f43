package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/config"
	"github.com/foundly/foundly/internal/handler"
	"github.com/foundly/foundly/internal/metrics"
	"github.com/foundly/foundly/internal/middleware"
	"github.com/foundly/foundly/internal/service"
)

// routerDeps collects everything the route table needs.
type routerDeps struct {
	cfg     *config.Config
	logger  *slog.Logger
	tokens  *auth.TokenService
	auth    *service.AuthService
	items   *service.ItemService
	search  *service.SearchService
	limiter middleware.RateLimiter
	metrics metrics.Snapshotter
	health  []handler.Dependency
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	cfg, logger := d.cfg, d.logger

	h := handler.New()
	healthHandler := handler.NewHealthHandler(d.health...)
	metricsHandler := handler.NewMetricsHandler(d.metrics)
	authHandler := handler.NewAuthHandler(handler.AuthHandlerConfig{
		Service:    d.auth,
		Cookies:    auth.CookieConfig{Secure: cfg.IsProduction()},
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Logger:     logger,
	})
	itemHandler := handler.NewItemHandler(d.items, logger)
	searchHandler := handler.NewSearchHandler(d.search, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:        logger,
		Limiter:       d.limiter,
		Enabled:       cfg.RateLimitEnabled && d.limiter != nil,
		IPRPS:         cfg.RateLimitAuthRPS,
		IPBurst:       cfg.RateLimitAuthBurst,
		UserPerMinute: cfg.RateLimitSearchPerMin,
		UserBurst:     cfg.RateLimitSearchBurst,
	}

	authenticate := middleware.Authenticate(middleware.AuthConfig{Logger: logger, Tokens: d.tokens})
	agentOnly := middleware.RequireAgent(middleware.RoleConfig{Logger: logger, Users: d.auth})
	limitIP := middleware.RateLimitIP(rateLimitCfg)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{HSTS: cfg.IsProduction()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Probes and metrics
	r.Get("/healthcheck", healthHandler.Healthz)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// Account and session routes, each mounted under /auth and at the root.
	accountRoutes := func(r chi.Router) {
		r.With(limitIP).Post("/create-user", authHandler.CreateUser)
		r.With(limitIP).Post("/login", authHandler.Login)
		r.With(limitIP).Post("/refresh-token", authHandler.Refresh)
	}
	r.Route("/auth", func(r chi.Router) {
		accountRoutes(r)
		r.With(authenticate).Post("/logout", authHandler.Logout)
	})
	r.Group(accountRoutes)

	r.Route("/products", func(r chi.Router) {
		r.Use(authenticate)

		r.With(middleware.RateLimitUser(rateLimitCfg)).Post("/search", searchHandler.Search)

		r.Group(func(r chi.Router) {
			r.Use(agentOnly)
			r.Get("/list", itemHandler.List)
			r.Post("/", itemHandler.Create)
			r.Get("/{id}", itemHandler.Get)
			r.Delete("/{id}", itemHandler.Delete)
			r.Patch("/{id}/return", itemHandler.MarkReturned)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
