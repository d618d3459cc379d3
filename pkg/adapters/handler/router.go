package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/linkshelf/pkg/config"
	"github.com/wadjakorntonsri/linkshelf/pkg/ports"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, service ports.OrganizerService, store Pinger) http.Handler {
	h := NewHTTPHandler(service)
	mw := NewMiddleware(cfg)
	authHandler := NewAuthHandler(cfg, service, mw)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("readiness check failed")
			writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unavailable", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ready"})
	})
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/tree", h.Tree)
	protectedMux.HandleFunc("GET /api/v1/bookmarks/pinned", h.Pinned)

	protectedMux.HandleFunc("POST /api/v1/sections", h.CreateSection)
	protectedMux.HandleFunc("PUT /api/v1/sections/reorder", h.ReorderSections)
	protectedMux.HandleFunc("PUT /api/v1/sections/{id}", h.UpdateSection)
	protectedMux.HandleFunc("DELETE /api/v1/sections/{id}", h.DeleteSection)

	protectedMux.HandleFunc("POST /api/v1/categories", h.CreateCategory)
	protectedMux.HandleFunc("PUT /api/v1/categories/reorder", h.ReorderCategories)
	protectedMux.HandleFunc("PUT /api/v1/categories/{id}", h.UpdateCategory)
	protectedMux.HandleFunc("DELETE /api/v1/categories/{id}", h.DeleteCategory)
	protectedMux.HandleFunc("PUT /api/v1/categories/{id}/move-to-section", h.MoveCategoryToSection)

	protectedMux.HandleFunc("POST /api/v1/bookmarks", h.CreateBookmark)
	protectedMux.HandleFunc("POST /api/v1/bookmarks/update-order", h.ReorderBookmarks)
	protectedMux.HandleFunc("PUT /api/v1/bookmarks/{id}", h.UpdateBookmark)
	protectedMux.HandleFunc("DELETE /api/v1/bookmarks/{id}", h.DeleteBookmark)

	protectedMux.HandleFunc("GET /api/v1/user-settings", h.GetSettings)
	protectedMux.HandleFunc("PUT /api/v1/user-settings", h.UpdateSettings)

	// protectedMux holds full paths, so one prefix route dispatches them all.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return RequestLogger(Recoverer(mux))
}
