package session

import (
	"context"
	"fmt"
	"slices"

	"github.com/nikbrunner/postmark/internal/model"
)

// AssignDialog edits the folder set of one bookmark.
type AssignDialog struct {
	BookmarkID string
	FolderIDs  []string
}

// DeleteDialog confirms a folder deletion and its strategy.
type DeleteDialog struct {
	FolderID   string
	FolderName string
	Mode       model.DeleteMode
}

// RenameDialog edits a folder name.
type RenameDialog struct {
	FolderID string
	Name     string
}

// OpenAssign opens the assign dialog seeded with the bookmark's folders.
func (s *Session) OpenAssign(bookmarkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.store.GetBookmarkByID(bookmarkID)
	if b == nil {
		return fmt.Errorf("bookmark %s: %w", bookmarkID, model.ErrNotFound)
	}
	s.assign = &AssignDialog{
		BookmarkID: b.ID,
		FolderIDs:  slices.Clone(b.FolderIDs),
	}
	return nil
}

// ToggleAssign flips one folder in the open assign dialog.
func (s *Session) ToggleAssign(folderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assign != nil {
		s.assign.FolderIDs = toggle(s.assign.FolderIDs, folderID)
	}
}

// Assign returns a copy of the open assign dialog, or nil.
func (s *Session) Assign() *AssignDialog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.assign == nil {
		return nil
	}
	d := *s.assign
	d.FolderIDs = slices.Clone(d.FolderIDs)
	return &d
}

// SaveAssign writes the dialog's folder set. The dialog stays open if the
// write fails.
func (s *Session) SaveAssign(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	d := s.Assign()
	if d == nil {
		return nil
	}
	if err := s.setBookmarkFolders(ctx, d.BookmarkID, d.FolderIDs); err != nil {
		return err
	}
	s.CancelAssign()
	return nil
}

// CancelAssign closes the assign dialog.
func (s *Session) CancelAssign() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assign = nil
}

// OpenDelete opens the delete dialog for a folder with the keep strategy.
// The default folder cannot be deleted.
func (s *Session) OpenDelete(folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.store.GetFolderByID(folderID)
	if f == nil {
		return fmt.Errorf("folder %s: %w", folderID, model.ErrNotFound)
	}
	if f.IsDefault {
		return fmt.Errorf("delete %q: %w", f.Name, model.ErrDefaultFolder)
	}
	s.pendingDelete = &DeleteDialog{
		FolderID:   f.ID,
		FolderName: f.Name,
		Mode:       model.DeleteKeep,
	}
	return nil
}

// SetDeleteMode chooses the strategy in the open delete dialog.
func (s *Session) SetDeleteMode(mode model.DeleteMode) error {
	if err := model.ValidateDeleteMode(mode); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingDelete != nil {
		s.pendingDelete.Mode = mode
	}
	return nil
}

// PendingDelete returns a copy of the open delete dialog, or nil.
func (s *Session) PendingDelete() *DeleteDialog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pendingDelete == nil {
		return nil
	}
	d := *s.pendingDelete
	return &d
}

// ConfirmDelete deletes the dialog's folder with the chosen strategy.
func (s *Session) ConfirmDelete(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	d := s.PendingDelete()
	if d == nil {
		return nil
	}
	if err := s.deleteFolder(ctx, d.FolderID, d.Mode); err != nil {
		return err
	}
	s.CancelDelete()
	return nil
}

// CancelDelete closes the delete dialog.
func (s *Session) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = nil
}

// StartRename opens the rename dialog seeded with the folder's name.
func (s *Session) StartRename(folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.store.GetFolderByID(folderID)
	if f == nil {
		return fmt.Errorf("folder %s: %w", folderID, model.ErrNotFound)
	}
	if f.IsDefault {
		return fmt.Errorf("rename %q: %w", f.Name, model.ErrDefaultFolder)
	}
	s.rename = &RenameDialog{FolderID: f.ID, Name: f.Name}
	return nil
}

// SetRenameName updates the name in the open rename dialog.
func (s *Session) SetRenameName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rename != nil {
		s.rename.Name = name
	}
}

// Rename returns a copy of the open rename dialog, or nil.
func (s *Session) Rename() *RenameDialog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rename == nil {
		return nil
	}
	d := *s.rename
	return &d
}

// SaveRename renames the folder and closes the dialog on success.
func (s *Session) SaveRename(ctx context.Context) error {
	d := s.Rename()
	if d == nil {
		return nil
	}
	if err := s.RenameFolder(ctx, d.FolderID, d.Name); err != nil {
		return err
	}
	s.CancelRename()
	return nil
}

// CancelRename closes the rename dialog.
func (s *Session) CancelRename() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rename = nil
}
