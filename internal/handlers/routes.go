package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	if len(h.opts.CORSOrigins) > 0 {
		// Read-only viewer endpoints may be embedded by other screens
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	// WebSocket connections are long-lived; keep them out of the timeout
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}
	if h.opts.Metrics != nil {
		r.Handle("/metrics", h.opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Static files (served from embedded filesystem)
		if h.staticServer != nil {
			r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
		}

		// Viewer page (public)
		r.Get("/", h.handleIndex)

		// Public read-only API
		r.Get("/api/roster", h.handleGetRoster)
		r.Get("/api/draw", h.handleGetDraw)
		r.Get("/api/groups", h.handleGetGroups)
		r.Get("/api/groups/export.csv", h.handleExportGroups)
		r.Get("/api/qr", h.handleViewerQR)

		// Auth routes (public)
		r.Get("/host/login", h.handleLoginPage)
		r.Post("/host/login", h.handleLogin)
		r.Post("/host/logout", h.handleLogout)

		// Host page (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuth)
			r.Get("/host", h.handleHost)
		})

		// Host API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			// Roster
			r.Put("/api/roster", h.handleSetRosterText)
			r.Post("/api/roster/import", h.handleImportRoster)
			r.Post("/api/roster/dedupe", h.handleDedupeRoster)
			r.Post("/api/roster/clear", h.handleClearRoster)
			r.Post("/api/roster/sample", h.handleLoadSample)

			// Draw
			r.Post("/api/draw", h.handleDraw)
			r.Put("/api/draw/mode", h.handleSetDrawMode)
			r.Post("/api/draw/reset", h.handleResetDraw)
			r.Get("/api/draw/results", h.handleGetDrawResults)

			// Groups
			r.Post("/api/groups", h.handleGenerateGroups)
			r.Get("/api/groups/runs", h.handleGetGroupRuns)
			r.Get("/api/groups/runs/{id}", h.handleGetGroupRun)

			// Settings
			r.Get("/api/settings", h.handleGetSettings)
			r.Put("/api/settings", h.handleUpdateSettings)
		})
	})

	return r
}
