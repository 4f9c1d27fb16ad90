package session

import (
	"context"
	"strings"

	"github.com/nikbrunner/postmark/internal/model"
)

// Filter is the bookmark list filter. Query is the text being typed;
// Committed is the query last submitted and the one sent to the data store.
type Filter struct {
	ActiveFolder *string
	Query        string
	Committed    string
	HasSearched  bool
}

// BookmarkQuery returns the list request the filter maps to.
func (f Filter) BookmarkQuery() model.BookmarkQuery {
	q := model.BookmarkQuery{Q: f.Committed}
	if f.ActiveFolder != nil {
		id := *f.ActiveFolder
		q.FolderID = &id
	}
	return q
}

func (f Filter) clone() Filter {
	if f.ActiveFolder != nil {
		id := *f.ActiveFolder
		f.ActiveFolder = &id
	}
	return f
}

// Filter returns a copy of the current filter.
func (s *Session) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.clone()
}

// SelectFolder sets the active folder (nil for all bookmarks) and refetches
// with the committed query.
func (s *Session) SelectFolder(ctx context.Context, folderID *string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.Filter()
	next.ActiveFolder = nil
	if folderID != nil {
		id := *folderID
		next.ActiveFolder = &id
	}
	return s.refreshBookmarks(ctx, next.BookmarkQuery(), func() {
		s.filter.ActiveFolder = next.ActiveFolder
	})
}

// SetQuery records typed search text. Nothing is fetched until SubmitSearch.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Query = q
}

// SubmitSearch commits the typed query and refetches, keeping the active folder.
func (s *Session) SubmitSearch(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.Filter()
	next.Committed = strings.TrimSpace(next.Query)
	return s.refreshBookmarks(ctx, next.BookmarkQuery(), func() {
		s.filter.Committed = next.Committed
		s.filter.HasSearched = true
	})
}

// ResetSearch clears the query and refetches with the active folder only.
// It does nothing unless a search was submitted.
func (s *Session) ResetSearch(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.Filter()
	if !next.HasSearched {
		return nil
	}
	next.Committed = ""
	return s.refreshBookmarks(ctx, next.BookmarkQuery(), func() {
		s.filter.Query = ""
		s.filter.Committed = ""
		s.filter.HasSearched = false
	})
}
