/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This
  is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the desk view

SECURITY NOTE:
  No authentication middleware. The engine serves a single operator on a
  trusted LAN.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

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
		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Get("/top", h.TopPlayers)
			r.Post("/sessions", h.RecordSession)
			r.Post("/reset-week", h.ResetWeek)
			r.Get("/export", h.ExportPlayers)
			r.Post("/import", h.ImportPlayers)
			r.Put("/{id}", h.UpdatePlayer)
			r.Delete("/{id}", h.DeletePlayer)
			r.Post("/{id}/redeem", h.RedeemVoucher)
		})

		r.Route("/units", func(r chi.Router) {
			r.Get("/", h.ListUnits)
			r.Get("/estimate", h.EstimateCost)
			r.Post("/{id}/start", h.StartSession)
			r.Post("/{id}/stop", h.StopSession)
			r.Post("/{id}/confirm", h.ConfirmSession)
			r.Post("/{id}/cancel", h.CancelSession)
		})

		r.Route("/rentals", func(r chi.Router) {
			r.Get("/", h.ListRentals)
			r.Post("/", h.CreateRental)
			r.Get("/preference", h.RentalPreference)
			r.Post("/{id}/extend", h.ExtendRental)
			r.Post("/{id}/return", h.ReturnRental)
		})

		r.Get("/reports", h.GetReport)
		r.Get("/ranks", h.ListRanks)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.GetHistory)
			r.Delete("/", h.ClearHistory)
		})

		r.Route("/exports", func(r chi.Router) {
			r.Get("/history.json", h.ExportHistoryJSON)
			r.Get("/history.xlsx", h.ExportHistoryXLSX)
			r.Get("/history.pdf", h.ExportHistoryPDF)
		})

		r.Get("/meta", h.GetMeta)
		r.Put("/theme", h.SetTheme)
		r.Post("/reset", h.ResetAll)
	})

	return r
}
