package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ezseobasics/ezseo/docs"
	"github.com/ezseobasics/ezseo/internal/api/handlers"
	"github.com/ezseobasics/ezseo/internal/api/middleware"
	"github.com/ezseobasics/ezseo/internal/config"
	"github.com/ezseobasics/ezseo/internal/pkg/logger"
	"github.com/ezseobasics/ezseo/internal/pkg/metrics"
	"github.com/ezseobasics/ezseo/internal/services"
	"github.com/ezseobasics/ezseo/internal/session"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth   *handlers.AuthHandler
	Signup *handlers.SignupHandler
	Plans  *handlers.PlanHandler
	Usage  *handlers.UsageHandler
	Health *handlers.HealthHandler

	Sessions *session.Manager
	Accounts *services.AccountService
}

// New builds the HTTP router with the full middleware chain
func New(cfg *config.Config, log *logger.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	var corsExtra []string
	if cfg.Server.FrontendURL != "" {
		corsExtra = append(corsExtra, cfg.Server.FrontendURL)
	}

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(corsExtra))
	r.Use(metrics.Middleware())

	rateLimiter := middleware.NewRateLimiter(10, 20)

	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimiter.Middleware)

		// Public routes
		r.Get("/plans", h.Plans.List)
		r.Get("/plans/{id}", h.Plans.Get)

		r.Post("/signup", h.Signup.Start)
		r.Get("/signup/return", h.Signup.Return)
		r.Get("/signup/state", h.Signup.State)
		r.Get("/signup/payment-url", h.Signup.PaymentURL)

		r.Post("/auth/signin", h.Auth.SignIn)
		r.Post("/auth/signout", h.Auth.SignOut)

		// Session-backed routes; token claims restore the session for
		// cookie-less API clients
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthMiddleware(cfg.Auth.JWTSecret))
			r.Use(middleware.SessionHydrator(h.Sessions, h.Accounts))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/checkout", h.Signup.Checkout)

			r.Route("/usage", func(r chi.Router) {
				r.Post("/track", h.Usage.Track)
				r.Get("/status", h.Usage.Status)
				r.Get("/events", h.Usage.Recent)
			})
		})
	})

	return r
}
