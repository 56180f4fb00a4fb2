package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/infra/http/handlers"
	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
)

type routerDeps struct {
	Auth      *handlers.AuthHandler
	Leads     *handlers.LeadHandler
	Templates *handlers.TemplateHandler
	Email     *handlers.EmailHandler
	Tracking  *handlers.TrackingHandler
	Stats     *handlers.StatsHandler
	Health    *handlers.HealthHandler

	Tokens      middleware.TokenParser
	Limiter     middleware.Limiter
	Log         *zap.Logger
	FrontendURL string
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	origins := []string{"http://localhost:5173"}
	if d.FrontendURL != "" {
		origins = append(origins, d.FrontendURL)
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Links in sent mail point here; these stay outside the rate limit.
	r.Route("/track", func(r chi.Router) {
		r.Get("/open", d.Tracking.Open)
		r.Get("/click", d.Tracking.Click)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(d.Limiter, d.Log))
		requireAuth := middleware.RequireAuth(d.Tokens)

		r.Post("/auth/register", d.Auth.Register)
		r.Post("/auth/login", d.Auth.Login)
		r.With(requireAuth).Get("/auth/me", d.Auth.Me)

		r.Route("/leads", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", d.Leads.List)
			r.Post("/", d.Leads.Create)
			r.Get("/export", d.Leads.Export)
			r.Get("/{id}", d.Leads.Get)
			r.Put("/{id}", d.Leads.Update)
			r.Delete("/{id}", d.Leads.Delete)
		})

		r.Route("/email", func(r chi.Router) {
			r.Get("/track/open", d.Tracking.Open)
			r.Get("/track/click", d.Tracking.Click)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				r.Get("/templates", d.Templates.List)
				r.Post("/templates", d.Templates.Create)
				r.Get("/templates/{id}", d.Templates.Get)
				r.Put("/templates/{id}", d.Templates.Update)
				r.Delete("/templates/{id}", d.Templates.Delete)

				r.Post("/send", d.Email.SendOne)
				r.Post("/campaigns", d.Email.SendCampaign)
				r.Get("/history", d.Email.ListHistory)
				r.Get("/history/export", d.Email.ExportHistory)
			})
		})

		r.With(requireAuth).Get("/stats", d.Stats.Get)
	})

	return r
}
