package importer

import (
	"context"
	"errors"
	"net/http"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

// Remote is the part of the data store an import writes through.
type Remote interface {
	ListFolders(ctx context.Context) ([]model.Folder, error)
	CreateFolder(ctx context.Context, name string) (model.Folder, error)
	ListBookmarks(ctx context.Context, query model.BookmarkQuery) ([]model.Bookmark, error)
	CreateBookmark(ctx context.Context, url string, folderIDs []string) (model.Bookmark, error)
}

// Result summarizes an import.
type Result struct {
	FoldersCreated   int
	BookmarksCreated int
	Skipped          int // URLs already stored
	Invalid          int // URLs the data store rejected
}

// Apply creates the document's folders and bookmarks. Folders whose name
// already exists are reused. A URL listed under several folders becomes one
// bookmark in all of them; URLs already stored are skipped. Only remote
// failures other than validation abort the import.
func Apply(ctx context.Context, remote Remote, doc Document, log logger.Logger) (Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	var res Result

	folders, err := remote.ListFolders(ctx)
	if err != nil {
		return res, err
	}
	ids := make(map[string]string, len(folders))
	for _, f := range folders {
		ids[f.Name] = f.ID
	}

	for _, entry := range doc.Folders {
		if _, ok := ids[entry.Name]; ok {
			continue
		}
		f, err := remote.CreateFolder(ctx, entry.Name)
		if err != nil {
			return res, err
		}
		ids[f.Name] = f.ID
		res.FoldersCreated++
		log.Debug("import folder created", logger.String("name", f.Name))
	}

	existing, err := remote.ListBookmarks(ctx, model.BookmarkQuery{})
	if err != nil {
		return res, err
	}
	stored := make(map[string]bool, len(existing))
	for _, b := range existing {
		stored[b.URL] = true
	}

	// Collect memberships per URL in document order.
	var order []string
	memberships := map[string][]string{}
	add := func(rawURL, folderID string) {
		if _, ok := memberships[rawURL]; !ok {
			order = append(order, rawURL)
			memberships[rawURL] = nil
		}
		if folderID != "" {
			memberships[rawURL] = append(memberships[rawURL], folderID)
		}
	}
	for _, entry := range doc.Folders {
		for _, u := range entry.Bookmarks {
			add(u, ids[entry.Name])
		}
	}
	for _, u := range doc.Bookmarks {
		add(u, "")
	}

	for _, rawURL := range order {
		if stored[rawURL] {
			res.Skipped++
			continue
		}
		_, err := remote.CreateBookmark(ctx, rawURL, model.NormalizeIDs(memberships[rawURL]))
		switch {
		case err == nil:
			res.BookmarksCreated++
			stored[rawURL] = true
		case errors.Is(err, model.ErrConflict):
			res.Skipped++
		case isRejected(err):
			res.Invalid++
			log.Warn("import bookmark rejected", logger.String("url", rawURL), logger.Error(err))
		default:
			return res, err
		}
	}

	log.Info("import finished",
		logger.Int("folders_created", res.FoldersCreated),
		logger.Int("bookmarks_created", res.BookmarksCreated),
		logger.Int("skipped", res.Skipped),
		logger.Int("invalid", res.Invalid))
	return res, nil
}

// isRejected reports a 400 from the data store or a local validation error.
func isRejected(err error) bool {
	var remoteErr *model.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Status == http.StatusBadRequest {
		return true
	}
	return model.IsValidation(err)
}
