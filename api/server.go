/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for mobile/web clients

ROUTE GROUPS:
  /api/jobs/*           Jobs, their shifts, periods, schedule, invoice
  /api/shifts/*         Individual shift access
  /api/schedule/*       Series cancellation
  /api/stats            Aggregation reports
  /api/health           Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Job routes
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.Post("/", h.CreateJob)
			r.Get("/{id}", h.GetJob)
			r.Delete("/{id}", h.DeleteJob)

			r.Get("/{id}/shifts", h.ListShifts)
			r.Post("/{id}/shifts", h.CreateShift)

			r.Get("/{id}/periods", h.ListPeriods)
			r.Post("/{id}/periods/coverage", h.EnsurePeriodCoverage)
			r.Post("/{id}/periods/recompute", h.RecomputePeriods)

			r.Get("/{id}/schedule", h.ListScheduled)
			r.Post("/{id}/schedule", h.CreateScheduled)

			r.Get("/{id}/invoice", h.GetInvoice)
		})

		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/{id}", h.GetShift)
			r.Put("/{id}", h.UpdateShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		// Schedule series routes
		r.Route("/schedule", func(r chi.Router) {
			r.Delete("/series/{repeatID}", h.CancelSeries)
		})

		// Report routes
		r.Get("/stats", h.GetStats)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
