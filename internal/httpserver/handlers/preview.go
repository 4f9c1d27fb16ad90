package handlers

import (
	"net/http"

	"github.com/nikbrunner/postmark/internal/httpserver/deps"
)

func Preview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := d.Previews.Preview(r.Context(), r.URL.Query().Get("url"))
		if err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		RespondJSON(w, http.StatusOK, p)
	}
}
