package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/postmark/internal/httpserver/deps"
	"github.com/nikbrunner/postmark/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))
		r.Patch("/{id}", handlers.SetBookmarkFolders(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
