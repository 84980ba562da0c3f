package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/quire/internal/postservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced on the routes
// that write to the site; reads are always open.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *postservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Posts.
	r.Get("/blog", h.ListPosts)
	r.Get("/blog/{slug}", h.GetPost)

	// Search and stats.
	r.Get("/search", h.Search)
	r.Get("/stats", h.Stats)

	// Writes.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Post("/blog", h.CreatePost)
		r.Post("/build", h.Build)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
