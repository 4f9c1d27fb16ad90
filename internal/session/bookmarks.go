package session

import (
	"context"
	"slices"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

// ToggleCreateFolder adds or removes a folder from the set used by the next
// CreateBookmark.
func (s *Session) ToggleCreateFolder(folderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createSelection = toggle(s.createSelection, folderID)
}

// CreateSelection returns the folder ids chosen for the next bookmark.
func (s *Session) CreateSelection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.createSelection)
}

// CreateBookmark saves the URL held by the auto-fill input into the selected
// folders (the data store's default folder when none are selected). On
// success the input and selection are cleared and the list is refreshed.
// Input edited while the request is in flight is left alone.
func (s *Session) CreateBookmark(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	url, err := model.ValidateURL(s.autofill.Input())
	if err != nil {
		return err
	}

	folderIDs := s.CreateSelection()
	b, err := s.remote.CreateBookmark(ctx, url, folderIDs)
	if err != nil {
		s.log.Warn("create bookmark failed", logger.String("url", url), logger.Error(err))
		return err
	}
	s.log.Info("bookmark created", logger.String("id", b.ID), logger.String("url", b.URL))

	s.autofill.Saved(url)
	s.mu.Lock()
	s.createSelection = nil
	s.mu.Unlock()

	return s.refreshBookmarks(ctx, s.Filter().BookmarkQuery(), nil)
}

// DeleteBookmark deletes a bookmark, drops its preview and refreshes.
func (s *Session) DeleteBookmark(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.remote.DeleteBookmark(ctx, id); err != nil {
		s.log.Warn("delete bookmark failed", logger.String("id", id), logger.Error(err))
		return err
	}
	if s.previews != nil {
		s.previews.Evict(id)
	}
	return s.refreshBookmarks(ctx, s.Filter().BookmarkQuery(), nil)
}

// SetBookmarkFolders replaces the bookmark's full membership set. An empty
// set leaves the bookmark without a folder.
func (s *Session) SetBookmarkFolders(ctx context.Context, id string, folderIDs []string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.setBookmarkFolders(ctx, id, folderIDs)
}

func (s *Session) setBookmarkFolders(ctx context.Context, id string, folderIDs []string) error {
	if _, err := s.remote.SetBookmarkFolders(ctx, id, model.NormalizeIDs(folderIDs)); err != nil {
		s.log.Warn("set bookmark folders failed", logger.String("id", id), logger.Error(err))
		return err
	}
	return s.refreshBookmarks(ctx, s.Filter().BookmarkQuery(), nil)
}

func toggle(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return append(slices.Clone(ids), id)
}
