package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the JSON API routes.
func NewRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/sites", func(r chi.Router) {
			r.Get("/", h.handleListSites)
			r.Post("/", h.handleCreateSite)
			r.Get("/{domain}", h.handleGetSite)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", h.handleListAssets)
			r.Post("/", h.handleUploadAsset)
			r.Delete("/{id}", h.handleDeleteAsset)
		})

		r.Get("/catalog", h.handleCatalog)
	})

	return r
}
