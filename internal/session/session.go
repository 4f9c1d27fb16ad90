// Package session holds the client-side view state: the folder and bookmark
// snapshots, the list filter, the open dialogs and the preview cache. Every
// operation runs to completion before the next starts, and local state only
// changes after the remote data store confirms a write and a refresh succeeds.
package session

import (
	"context"
	"sync"

	"github.com/nikbrunner/postmark/internal/autofill"
	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
	"github.com/nikbrunner/postmark/internal/previews"
)

// Remote is the data store the session synchronizes with.
type Remote interface {
	ListFolders(ctx context.Context) ([]model.Folder, error)
	CreateFolder(ctx context.Context, name string) (model.Folder, error)
	RenameFolder(ctx context.Context, id, name string) (model.Folder, error)
	DeleteFolder(ctx context.Context, id string, mode model.DeleteMode) error

	ListBookmarks(ctx context.Context, query model.BookmarkQuery) ([]model.Bookmark, error)
	CreateBookmark(ctx context.Context, url string, folderIDs []string) (model.Bookmark, error)
	SetBookmarkFolders(ctx context.Context, id string, folderIDs []string) (model.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error
}

// Params configures a Session.
type Params struct {
	Remote   Remote
	Previews *previews.Cache      // optional; nil disables previews
	Autofill *autofill.Controller // optional; nil uses one with defaults
	Logger   logger.Logger
}

// Session coordinates view state with the remote data store.
type Session struct {
	remote   Remote
	previews *previews.Cache
	autofill *autofill.Controller
	log      logger.Logger

	// opMu serializes operations; mu guards the fields below.
	opMu sync.Mutex
	mu   sync.RWMutex

	store           *model.Store
	filter          Filter
	createSelection []string
	assign          *AssignDialog
	pendingDelete   *DeleteDialog
	rename          *RenameDialog
	lastBatch       *previews.Batch
}

// New creates a Session with empty snapshots. Call Load to populate it.
func New(params Params) *Session {
	log := params.Logger
	if log == nil {
		log = logger.Nop()
	}
	af := params.Autofill
	if af == nil {
		af = autofill.New(autofill.Params{Logger: log})
	}

	return &Session{
		remote:   params.Remote,
		previews: params.Previews,
		autofill: af,
		log:      log,
		store:    model.NewStore(),
	}
}

// Load fetches folders, then bookmarks with the current filter.
func (s *Session) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.refreshFolders(ctx); err != nil {
		return err
	}
	return s.refreshBookmarks(ctx, s.Filter().BookmarkQuery(), nil)
}

// Refresh is Load under another name for the view's reload key.
func (s *Session) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Session) refreshFolders(ctx context.Context) error {
	folders, err := s.remote.ListFolders(ctx)
	if err != nil {
		s.log.Warn("refresh folders failed", logger.Error(err))
		return err
	}

	s.mu.Lock()
	s.store.Folders = folders
	s.mu.Unlock()
	return nil
}

// refreshBookmarks replaces the bookmark snapshot with the result of query
// and starts fetching previews for any bookmark not yet cached. apply, if
// set, runs in the same state update as the snapshot swap; it is skipped
// when the fetch fails.
func (s *Session) refreshBookmarks(ctx context.Context, query model.BookmarkQuery, apply func()) error {
	bookmarks, err := s.remote.ListBookmarks(ctx, query)
	if err != nil {
		s.log.Warn("refresh bookmarks failed", logger.Error(err))
		return err
	}

	s.mu.Lock()
	if apply != nil {
		apply()
	}
	s.store.Bookmarks = bookmarks
	s.mu.Unlock()

	if s.previews != nil {
		batch := s.previews.Fill(ctx, bookmarks)
		s.mu.Lock()
		s.lastBatch = batch
		s.mu.Unlock()
	}
	return nil
}

// Store returns a copy of the folder and bookmark snapshots.
func (s *Session) Store() *model.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Clone()
}

// Folders returns a copy of the folder snapshot.
func (s *Session) Folders() []model.Folder {
	return s.Store().Folders
}

// Bookmarks returns a copy of the bookmark snapshot.
func (s *Session) Bookmarks() []model.Bookmark {
	return s.Store().Bookmarks
}

// Autofill returns the URL input controller.
func (s *Session) Autofill() *autofill.Controller {
	return s.autofill
}

// Preview returns the cached preview for a bookmark and whether a fetch
// for it is still in flight.
func (s *Session) Preview(id string) (p model.Preview, ok, pending bool) {
	if s.previews == nil {
		return model.Preview{}, false, false
	}
	p, ok = s.previews.Get(id)
	return p, ok, s.previews.Pending(id)
}

// LastBatch returns the preview batch started by the latest bookmark refresh.
func (s *Session) LastBatch() *previews.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastBatch
}
