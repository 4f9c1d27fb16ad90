package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/postmark/internal/httpserver/deps"
	"github.com/nikbrunner/postmark/internal/model"
)

type createBookmarkRequest struct {
	URL       string   `json:"url"`
	FolderIDs []string `json:"folder_ids"`
}

type setFoldersRequest struct {
	FolderIDs *[]string `json:"folder_ids"`
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query model.BookmarkQuery
		if folderID := strings.TrimSpace(r.URL.Query().Get("folder_id")); folderID != "" {
			query.FolderID = &folderID
		}
		query.Q = strings.TrimSpace(r.URL.Query().Get("q"))

		bookmarks, err := d.Storage.ListBookmarks(r.Context(), query)
		if err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}
		RespondJSON(w, http.StatusOK, bookmarks)
	}
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookmarkRequest
		if err := decodeJSON(r, &req); err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}

		bookmark, err := d.Storage.CreateBookmark(r.Context(), req.URL, req.FolderIDs)
		if err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}
		RespondJSON(w, http.StatusCreated, bookmark)
	}
}

func SetBookmarkFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setFoldersRequest
		if err := decodeJSON(r, &req); err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}
		if req.FolderIDs == nil {
			RespondDomainError(w, d.Logger, &model.ValidationError{
				Field: "folder_ids",
				Err:   errors.New("cannot be blank"),
			})
			return
		}

		bookmark, err := d.Storage.SetBookmarkFolders(r.Context(), chi.URLParam(r, "id"), *req.FolderIDs)
		if err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}
		RespondJSON(w, http.StatusOK, bookmark)
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Storage.DeleteBookmark(r.Context(), chi.URLParam(r, "id")); err != nil {
			RespondDomainError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
