package storage

import (
	"context"

	"github.com/nikbrunner/postmark/internal/model"
)

// Storage is the data store behind the HTTP API. Implementations own the
// membership invariants: a bookmark only references existing folders and
// exactly one folder is the default.
type Storage interface {
	ListFolders(ctx context.Context) ([]model.Folder, error)
	CreateFolder(ctx context.Context, name string) (model.Folder, error)
	RenameFolder(ctx context.Context, id, name string) (model.Folder, error)
	DeleteFolder(ctx context.Context, id string, mode model.DeleteMode) error

	ListBookmarks(ctx context.Context, query model.BookmarkQuery) ([]model.Bookmark, error)
	CreateBookmark(ctx context.Context, url string, folderIDs []string) (model.Bookmark, error)
	SetBookmarkFolders(ctx context.Context, id string, folderIDs []string) (model.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}

// DefaultFolderName is the name of the folder seeded on first open.
const DefaultFolderName = "default"
