/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the extension/front-end

SECURITY NOTE:
  No authentication middleware. The server is a local companion to the
  rate-management front-end, not a public service.

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

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/overview", h.GetOverview)

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", h.ListVehicles)
			r.Post("/", h.CreateVehicle)
			r.Put("/{sipp}", h.UpdateVehicle)
			r.Delete("/{sipp}", h.DeleteVehicle)
		})

		r.Route("/seasons", func(r chi.Router) {
			r.Get("/", h.ListSeasons)
			r.Post("/", h.CreateSeason)
			r.Put("/{name}", h.UpdateSeason)
			r.Delete("/{name}", h.DeleteSeason)
		})

		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.ListRates)
			r.Get("/codes", h.ListRateCodes)
			r.Put("/{season}/{rateCode}/{sipp}", h.SetRate)
			r.Delete("/{season}/{rateCode}/{sipp}", h.DeleteRate)
		})

		r.Route("/grid/{rateCode}", func(r chi.Router) {
			r.Get("/", h.GetGrid)
			r.Post("/edits", h.EditGrid)
			r.Post("/save", h.SaveGrid)
			r.Post("/discard", h.DiscardGrid)
			r.Get("/export", h.ExportGrid)
		})

		r.Post("/suggestions", h.Suggest)

		r.Route("/coefficients", func(r chi.Router) {
			r.Get("/", h.GetCoefficients)
			r.Put("/", h.UpdateCoefficients)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/defaults", h.ReloadDefaults)
		})
	})

	return r
}
