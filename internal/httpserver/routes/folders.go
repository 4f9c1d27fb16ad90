package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/postmark/internal/httpserver/deps"
	"github.com/nikbrunner/postmark/internal/httpserver/handlers"
)

func init() { Register(registerFolders) }

func registerFolders(r chi.Router, d deps.Deps) {
	r.Route("/api/folders", func(r chi.Router) {
		r.Get("/", handlers.ListFolders(d))
		r.Post("/", handlers.CreateFolder(d))
		r.Patch("/{id}", handlers.RenameFolder(d))
		r.Delete("/{id}", handlers.DeleteFolder(d))
	})
}
