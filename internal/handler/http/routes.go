package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	router.Get("/api/health", h.health)
	router.Put("/api/health", h.setHealth)
	router.Get("/api/version", h.getServerVersion)

	router.Route("/api", func(r chi.Router) {
		r.Get("/changes/{collection}", h.changes)
		r.Post("/entities/{collection}/fetch", h.fetchEntities)
		r.Put("/entities/{collection}", h.publishEntities)
		r.Delete("/entities/{collection}/{id}", h.deleteEntity)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
