package api

import (
	"net/http"

	"github.com/dom/league-damage-calc/internal/api/handlers"
	"github.com/dom/league-damage-calc/internal/api/middleware"
	"github.com/dom/league-damage-calc/internal/service"
	"github.com/dom/league-damage-calc/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(services.Catalog)
	damageHandler := handlers.NewDamageHandler(services.Damage)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/champions", func(r chi.Router) {
			r.Get("/", catalogHandler.ListChampions)
			r.Get("/{id}", catalogHandler.GetChampion)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", catalogHandler.ListItems)
			r.Get("/{id}", catalogHandler.GetItem)
		})

		r.Route("/runes", func(r chi.Router) {
			r.Get("/", catalogHandler.ListRunes)
			r.Get("/{id}", catalogHandler.GetRune)
		})

		r.Route("/damage", func(r chi.Router) {
			r.Post("/burst", damageHandler.Burst)
			r.Post("/dps", damageHandler.DPS)
		})

		r.Route("/builds", func(r chi.Router) {
			r.Post("/search", damageHandler.Search)
			r.Post("/search.xlsx", damageHandler.SearchXLSX)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Admin(services.Auth))
			r.Post("/catalog/import", catalogHandler.Import)
			r.Post("/catalog/sync", catalogHandler.Sync)
		})

		// WebSocket endpoint
		r.Get("/ws/search", wsHandler.Handle)
	})

	return r
}
