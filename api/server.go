/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the fund's review frontend

ROUTE GROUPS:
  /api/declarations/*   Payroll contribution declarations
  /api/claims/*         Reimbursement claims and their workflow
  /api/compute          Stateless settlement computation

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
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

	r.Route("/api", func(r chi.Router) {
		// Payroll declaration routes
		r.Route("/declarations", func(r chi.Router) {
			r.Get("/", h.ListDeclarations)
			r.Post("/", h.CreateDeclaration)
			r.Get("/{id}", h.GetDeclaration)
			r.Post("/{id}/confirm", h.ConfirmDeclaration)
		})

		// Claim routes
		r.Route("/claims", func(r chi.Router) {
			r.Get("/", h.ListClaims)
			r.Post("/", h.CreateClaim)
			r.Get("/{id}", h.GetClaim)
			r.Post("/{id}/details", h.SettleLeave)
			r.Post("/{id}/submit", h.SubmitClaim)
			r.Post("/{id}/approve", h.ApproveClaim)
			r.Post("/{id}/observe", h.ObserveClaim)
		})

		// Stateless computation
		r.Post("/compute", h.Compute)
	})

	return r
}
