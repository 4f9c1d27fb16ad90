package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/postmark/internal/model"
)

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case ModeNormal:
		return a.updateNormal(msg)
	case ModeURL:
		return a.updateURL(msg)
	case ModeCreateFolders:
		return a.updateCreateFolders(msg)
	case ModeSearch:
		return a.updateSearch(msg)
	case ModeAddFolder:
		return a.updateAddFolder(msg)
	case ModeRenameFolder:
		return a.updateRenameFolder(msg)
	case ModeDeleteFolder:
		return a.updateDeleteFolder(msg)
	case ModeDeleteBookmark:
		return a.updateDeleteBookmark(msg)
	case ModeAssign:
		return a.updateAssign(msg)
	case ModeHelp:
		if key.Matches(msg, a.keys.Help, a.keys.Quit, a.keys.Cancel) {
			a.mode = ModeNormal
		}
	}
	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.setCursor(0)
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp

	case key.Matches(msg, a.keys.SwitchPane):
		if a.browser.Pane == PaneFolders {
			a.browser.Pane = PaneBookmarks
		} else {
			a.browser.Pane = PaneFolders
		}

	case key.Matches(msg, a.keys.Down):
		a.setCursor(a.cursor() + 1)

	case key.Matches(msg, a.keys.Up):
		a.setCursor(a.cursor() - 1)

	case key.Matches(msg, a.keys.Bottom):
		a.setCursor(a.listLen() - 1)

	case key.Matches(msg, a.keys.Select):
		if a.browser.Pane != PaneFolders {
			return a, nil
		}
		item, ok := a.selectedItem()
		if !ok {
			return a, nil
		}
		folderID := item.FolderID()
		return a, a.run("Showing "+item.Title(), false, func(ctx context.Context) error {
			return a.session.SelectFolder(ctx, folderID)
		})

	case key.Matches(msg, a.keys.AddBookmark):
		a.mode = ModeURL
		a.inputs.URL.Focus()
		// The input gaining focus counts as a focus event
		a.offerClipboard()

	case key.Matches(msg, a.keys.AddFolder):
		a.mode = ModeAddFolder
		a.inputs.Name.Reset()
		a.inputs.Name.Focus()

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.inputs.Search.SetValue(a.filter.Query)
		a.inputs.Search.CursorEnd()
		a.inputs.Search.Focus()

	case key.Matches(msg, a.keys.ResetSearch):
		if !a.filter.HasSearched {
			return a, nil
		}
		a.inputs.Search.Reset()
		return a, a.run("Search cleared", false, a.session.ResetSearch)

	case key.Matches(msg, a.keys.Rename):
		item, ok := a.selectedItem()
		if a.browser.Pane != PaneFolders || !ok || !item.Editable() {
			return a, nil
		}
		if err := a.session.StartRename(item.Folder.ID); err != nil {
			a.err = err
			return a, nil
		}
		a.mode = ModeRenameFolder
		a.inputs.Name.SetValue(item.Folder.Name)
		a.inputs.Name.CursorEnd()
		a.inputs.Name.Focus()

	case key.Matches(msg, a.keys.Delete):
		if a.browser.Pane == PaneFolders {
			item, ok := a.selectedItem()
			if !ok || !item.Editable() {
				return a, nil
			}
			if err := a.session.OpenDelete(item.Folder.ID); err != nil {
				a.err = err
				return a, nil
			}
			a.mode = ModeDeleteFolder
			return a, nil
		}
		if b, ok := a.selectedBookmark(); ok {
			a.deleteBookmarkID = b.ID
			a.mode = ModeDeleteBookmark
		}

	case key.Matches(msg, a.keys.Assign):
		b, ok := a.selectedBookmark()
		if a.browser.Pane != PaneBookmarks || !ok {
			return a, nil
		}
		if err := a.session.OpenAssign(b.ID); err != nil {
			a.err = err
			return a, nil
		}
		a.picker.Reset()
		a.mode = ModeAssign

	case key.Matches(msg, a.keys.YankURL):
		b, ok := a.selectedBookmark()
		if a.browser.Pane != PaneBookmarks || !ok {
			return a, nil
		}
		if err := a.copyURL(b.URL); err != nil {
			a.err = &model.PermissionError{Err: err}
			return a, nil
		}
		a.err = nil
		a.status = "Copied " + b.URL

	case key.Matches(msg, a.keys.Refresh):
		return a, a.run("Refreshed", false, a.session.Refresh)
	}

	return a, nil
}

func (a App) updateURL(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	af := a.session.Autofill()

	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.inputs.URL.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		if a.busy {
			return a, nil
		}
		return a, a.run("Bookmark saved", true, a.session.CreateBookmark)

	case key.Matches(msg, a.keys.SwitchPane):
		a.picker.Reset()
		a.mode = ModeCreateFolders
		return a, nil

	case key.Matches(msg, a.keys.ClearInput):
		af.Clear()
		a.inputs.URL.SetValue("")
		return a, nil
	}

	var cmd tea.Cmd
	a.inputs.URL, cmd = a.inputs.URL.Update(msg)
	if v := a.inputs.URL.Value(); v != af.Input() {
		af.Edit(v)
	}
	return a, cmd
}

func (a App) updateCreateFolders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.picker.Move(-1, len(a.folders))
	case key.Matches(msg, a.keys.Down):
		a.picker.Move(1, len(a.folders))
	case key.Matches(msg, a.keys.Toggle):
		if a.picker.Cursor < len(a.folders) {
			a.session.ToggleCreateFolder(a.folders[a.picker.Cursor].ID)
		}
	case key.Matches(msg, a.keys.Confirm, a.keys.Cancel, a.keys.SwitchPane):
		a.mode = ModeURL
	}
	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.inputs.Search.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		a.session.SetQuery(a.inputs.Search.Value())
		a.mode = ModeNormal
		a.inputs.Search.Blur()
		return a, a.run("Search applied", false, a.session.SubmitSearch)
	}

	var cmd tea.Cmd
	a.inputs.Search, cmd = a.inputs.Search.Update(msg)
	a.session.SetQuery(a.inputs.Search.Value())
	return a, cmd
}

func (a App) updateAddFolder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.inputs.Name.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		name := a.inputs.Name.Value()
		return a, a.run("Folder created", true, func(ctx context.Context) error {
			return a.session.CreateFolder(ctx, name)
		})
	}

	var cmd tea.Cmd
	a.inputs.Name, cmd = a.inputs.Name.Update(msg)
	return a, cmd
}

func (a App) updateRenameFolder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.session.CancelRename()
		a.mode = ModeNormal
		a.inputs.Name.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		a.session.SetRenameName(a.inputs.Name.Value())
		return a, a.run("Folder renamed", true, a.session.SaveRename)
	}

	var cmd tea.Cmd
	a.inputs.Name, cmd = a.inputs.Name.Update(msg)
	a.session.SetRenameName(a.inputs.Name.Value())
	return a, cmd
}

func (a App) updateDeleteFolder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up, a.keys.Down, a.keys.SwitchPane):
		d := a.session.PendingDelete()
		if d == nil {
			return a, nil
		}
		next := model.DeleteBookmarks
		if d.Mode == model.DeleteBookmarks {
			next = model.DeleteKeep
		}
		if err := a.session.SetDeleteMode(next); err != nil {
			a.err = err
		}

	case key.Matches(msg, a.keys.Confirm):
		return a, a.run("Folder deleted", true, a.session.ConfirmDelete)

	case key.Matches(msg, a.keys.Cancel):
		a.session.CancelDelete()
		a.mode = ModeNormal
	}
	return a, nil
}

func (a App) updateDeleteBookmark(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := a.deleteBookmarkID
		a.deleteBookmarkID = ""
		return a, a.run("Bookmark deleted", true, func(ctx context.Context) error {
			return a.session.DeleteBookmark(ctx, id)
		})
	case "n", "esc":
		a.deleteBookmarkID = ""
		a.mode = ModeNormal
	}
	return a, nil
}

func (a App) updateAssign(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.picker.Move(-1, len(a.folders))
	case key.Matches(msg, a.keys.Down):
		a.picker.Move(1, len(a.folders))
	case key.Matches(msg, a.keys.Toggle):
		if a.picker.Cursor < len(a.folders) {
			a.session.ToggleAssign(a.folders[a.picker.Cursor].ID)
		}
	case key.Matches(msg, a.keys.Confirm):
		return a, a.run("Folders updated", true, a.session.SaveAssign)
	case key.Matches(msg, a.keys.Cancel):
		a.session.CancelAssign()
		a.mode = ModeNormal
	}
	return a, nil
}

// cursor returns the cursor of the focused pane.
func (a App) cursor() int {
	if a.browser.Pane == PaneFolders {
		return a.browser.FolderCursor
	}
	return a.browser.BookmarkCursor
}

// listLen returns the length of the focused pane's list.
func (a App) listLen() int {
	if a.browser.Pane == PaneFolders {
		return len(a.items)
	}
	return len(a.bookmarks)
}

// setCursor moves the focused pane's cursor, clamped to its list.
func (a *App) setCursor(i int) {
	i = min(max(i, 0), max(a.listLen()-1, 0))
	if a.browser.Pane == PaneFolders {
		a.browser.FolderCursor = i
	} else {
		a.browser.BookmarkCursor = i
	}
}
