package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/postmark/internal/httpserver/deps"
	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

type folderRequest struct {
	Name string `json:"name"`
}

func ListFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := d.Storage.ListFolders(r.Context())
		if err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}
		RespondJSON(w, http.StatusOK, folders)
	}
}

func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRequest
		if err := decodeJSON(r, &req); err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}

		folder, err := d.Storage.CreateFolder(r.Context(), req.Name)
		if err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}

		d.Logger.Info("folder created",
			logger.String("id", folder.ID),
			logger.String("name", folder.Name))
		RespondJSON(w, http.StatusCreated, folder)
	}
}

func RenameFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRequest
		if err := decodeJSON(r, &req); err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}

		folder, err := d.Storage.RenameFolder(r.Context(), chi.URLParam(r, "id"), req.Name)
		if err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}
		RespondJSON(w, http.StatusOK, folder)
	}
}

func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := model.ParseDeleteMode(r.URL.Query().Get("mode"))
		if err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}

		id := chi.URLParam(r, "id")
		if err := d.Storage.DeleteFolder(r.Context(), id, mode); err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}

		d.Logger.Info("folder deleted",
			logger.String("id", id),
			logger.String("mode", mode.String()))
		w.WriteHeader(http.StatusNoContent)
	}
}
