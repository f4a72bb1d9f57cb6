package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"harapan-web/internal/container"
	"harapan-web/internal/metrics"
	"harapan-web/internal/middleware"
	"harapan-web/pkg/errors"
)

// NewRouter configures and returns the HTTP router
func NewRouter(container *container.Container) *chi.Mux {
	cfg := container.GetConfig()
	log := container.GetLogger()
	sessions := container.GetSessionService()

	r := chi.NewRouter()

	r.Use(middleware.RequestID(log))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins), log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := NewHealthHandler(container)
	authHandler := NewAuthHandler(container)
	pageHandler := NewPageHandler(container)

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", metrics.Handler(container.Registry))

	r.With(middleware.OptionalSession(sessions, log)).Get("/", pageHandler.Home)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(container.RateLimiter.Middleware("login")).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireSession(sessions, log)).Get("/me", authHandler.Me)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, errors.NewNotFoundError("Endpoint not found"), log)
	})

	log.Info("Router configured successfully")
	return r
}
