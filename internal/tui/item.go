package tui

import "github.com/nikbrunner/postmark/internal/model"

// ItemKind distinguishes the "all bookmarks" entry from real folders in the
// folder pane.
type ItemKind int

const (
	ItemAll ItemKind = iota
	ItemFolder
)

// Item is one row of the folder pane.
type Item struct {
	Kind   ItemKind
	Folder *model.Folder
}

// FolderID returns the filter value the item selects: nil for all bookmarks.
func (i Item) FolderID() *string {
	if i.Kind == ItemAll {
		return nil
	}
	id := i.Folder.ID
	return &id
}

// Title returns a display title for the item.
func (i Item) Title() string {
	if i.Kind == ItemAll {
		return "All bookmarks"
	}
	return i.Folder.Name
}

// Editable reports whether the item can be renamed or deleted.
func (i Item) Editable() bool {
	return i.Kind == ItemFolder && !i.Folder.IsDefault
}

// folderItems builds the folder pane rows.
func folderItems(folders []model.Folder) []Item {
	items := make([]Item, 0, len(folders)+1)
	items = append(items, Item{Kind: ItemAll})
	for i := range folders {
		items = append(items, Item{Kind: ItemFolder, Folder: &folders[i]})
	}
	return items
}
