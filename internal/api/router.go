package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"reelvault/internal/session"
)

// NewRouter creates a chi router with the health check and every /api route
// mounted.
func NewRouter(sessions *session.Manager, logger logrus.FieldLogger) chi.Router {
	log := logger.WithField("component", "api")
	h := NewHandler(sessions, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Delete("/library", h.ForgetLibrary)

		r.Group(func(r chi.Router) {
			r.Use(UserLibrary(sessions, log))

			r.Get("/reels", h.ListReels)
			r.Post("/reels", h.SaveReel)
			r.Get("/reels/favorites", h.Favorites)
			r.Patch("/reels/{id}", h.UpdateReel)
			r.Delete("/reels/{id}", h.DeleteReel)
			r.Post("/reels/{id}/favorite", h.ToggleFavorite)

			r.Put("/filter", h.SetFilter)
			r.Put("/search", h.SetSearch)

			r.Get("/trash", h.ListTrash)
			r.Delete("/trash", h.EmptyTrash)
			r.Post("/trash/{id}/restore", h.Restore)
			r.Delete("/trash/{id}", h.Purge)
		})
	})

	return r
}
