// Package router sets up all HTTP routes and middleware chains for the
// service directory. Routes are split into the public read API and the
// administrative API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"servicedir/internal/handlers"
	"servicedir/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The limiter throttles admin mutations.
func New(admin *handlers.Admin, public *handlers.Public, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/admin/api", func(r chi.Router) {
		r.Get("/providers", admin.ListProviders)
		r.Get("/categories", admin.CategoryTree)
		r.Get("/audit", admin.AuditLog)

		// Writes
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)

			r.Post("/providers", admin.CreateProvider)
			r.Post("/providers/{id}/services", admin.AddService)
			r.Post("/providers/{id}/move-up", admin.MoveUp)
			r.Post("/providers/{id}/move-down", admin.MoveDown)
			r.Put("/providers/{id}/priority", admin.SetPriority)
			r.Post("/providers/{id}/promote", admin.PromoteToTop)
			r.Post("/providers/{id}/promote/{n}", admin.PromoteToTopN)
			r.Put("/providers/{id}/status", admin.SetStatus)

			r.Post("/categories", admin.CreateCategory)
			r.Put("/categories/{id}", admin.UpdateCategory)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", public.Categories)
		r.Get("/categories/{slug}/providers", public.CategoryProviders)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
