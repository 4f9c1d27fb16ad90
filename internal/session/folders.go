package session

import (
	"context"
	"fmt"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

// CreateFolder validates name, creates the folder and refreshes folders.
func (s *Session) CreateFolder(ctx context.Context, name string) error {
	name, err := model.ValidateFolderName(name)
	if err != nil {
		return err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if _, err := s.remote.CreateFolder(ctx, name); err != nil {
		s.log.Warn("create folder failed", logger.String("name", name), logger.Error(err))
		return err
	}
	return s.refreshFolders(ctx)
}

// RenameFolder validates name and renames the folder. A folder missing from
// the local snapshot is left alone.
func (s *Session) RenameFolder(ctx context.Context, id, name string) error {
	name, err := model.ValidateFolderName(name)
	if err != nil {
		return err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	folder, ok := s.folder(id)
	if !ok {
		s.log.Debug("rename skipped, folder not in snapshot", logger.String("id", id))
		return nil
	}
	if folder.IsDefault {
		return fmt.Errorf("rename %q: %w", folder.Name, model.ErrDefaultFolder)
	}

	if _, err := s.remote.RenameFolder(ctx, id, name); err != nil {
		s.log.Warn("rename folder failed", logger.String("id", id), logger.Error(err))
		return err
	}
	return s.refreshFolders(ctx)
}

// DeleteFolder deletes the folder with the given strategy, then refreshes
// folders and bookmarks. Deleting the active folder resets the filter to all
// bookmarks before the bookmark refresh is issued.
func (s *Session) DeleteFolder(ctx context.Context, id string, mode model.DeleteMode) error {
	if err := model.ValidateDeleteMode(mode); err != nil {
		return err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.deleteFolder(ctx, id, mode)
}

func (s *Session) deleteFolder(ctx context.Context, id string, mode model.DeleteMode) error {
	folder, ok := s.folder(id)
	if !ok {
		s.log.Debug("delete skipped, folder not in snapshot", logger.String("id", id))
		return nil
	}
	if folder.IsDefault {
		return fmt.Errorf("delete %q: %w", folder.Name, model.ErrDefaultFolder)
	}

	if err := s.remote.DeleteFolder(ctx, id, mode); err != nil {
		s.log.Warn("delete folder failed",
			logger.String("id", id),
			logger.String("mode", mode.String()),
			logger.Error(err))
		return err
	}

	s.log.Info("folder deleted",
		logger.String("name", folder.Name),
		logger.String("mode", mode.String()))

	// The folder is gone remotely; the filter resets even if a refresh fails.
	s.mu.Lock()
	if s.filter.ActiveFolder != nil && *s.filter.ActiveFolder == id {
		s.filter.ActiveFolder = nil
	}
	next := s.filter.clone()
	s.mu.Unlock()

	if err := s.refreshFolders(ctx); err != nil {
		return err
	}
	return s.refreshBookmarks(ctx, next.BookmarkQuery(), nil)
}

// folder looks up a folder in the local snapshot.
func (s *Session) folder(id string) (model.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f := s.store.GetFolderByID(id); f != nil {
		return *f, true
	}
	return model.Folder{}, false
}
