package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Player endpoints
			r.Route("/players", func(r chi.Router) {
				r.Get("/", s.handleListPlayers)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetPlayer)
					r.Get("/history", s.handlePlayerHistory)
				})
			})

			// Group endpoints
			r.Route("/groups", func(r chi.Router) {
				r.Get("/", s.handleListGroups)
				r.Post("/", s.handleCreateGroup)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetGroup)
					r.Patch("/", s.handleUpdateGroup)
					r.Delete("/", s.handleDeleteGroup)
					r.Put("/members", s.handleSetGroupMembers)
					r.Get("/config-entries", s.handleGroupConfigEntries)

					// Command surface
					r.Post("/play", s.handleGroupPlay)
					r.Post("/pause", s.handleGroupPause)
					r.Post("/stop", s.handleGroupStop)
					r.Post("/play-media", s.handleGroupPlayMedia)
					r.Put("/power", s.handleGroupPower)
					r.Put("/volume", s.handleGroupVolume)
					r.Put("/mute", s.handleGroupMute)
					r.Post("/poll", s.handleGroupPoll)
				})
			})

			// WebSocket (auth via ticket, validated in handler)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"players": s.registry.Count(),
		"groups":  s.groups.Count(),
	})
}
