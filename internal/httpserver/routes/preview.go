package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/postmark/internal/httpserver/deps"
	"github.com/nikbrunner/postmark/internal/httpserver/handlers"
)

func init() { Register(registerPreview) }

func registerPreview(r chi.Router, d deps.Deps) {
	r.Get("/api/preview", handlers.Preview(d))
}
