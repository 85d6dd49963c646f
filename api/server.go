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
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/periods/*   Period calculation, resolution, generation, settlement
  /api/loads/*     Load lifecycle and progress
  /api/configs/*   Driver payroll configuration

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
		// Period routes
		r.Route("/periods", func(r chi.Router) {
			r.Get("/", h.ListPeriods)
			r.Get("/current", h.GetCurrentPeriod)
			r.Get("/previous", h.GetPreviousPeriod)
			r.Get("/next", h.GetNextPeriod)
			r.Get("/preview", h.PreviewPeriods)
			r.Post("/resolve", h.ResolvePeriod)
			r.Post("/generate", h.GeneratePeriods)
			r.Get("/{id}/settlement", h.GetSettlement)
		})

		// Load routes
		r.Route("/loads", func(r chi.Router) {
			r.Get("/", h.ListLoads)
			r.Post("/", h.CreateLoad)
			r.Get("/{id}", h.GetLoad)
			r.Get("/{id}/history", h.GetLoadHistory)
			r.Post("/{id}/status", h.AdvanceLoadStatus)
		})

		// Config routes
		r.Route("/configs", func(r chi.Router) {
			r.Get("/", h.ListConfigs)
			r.Post("/", h.SaveConfig)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
