package model

import "slices"

// Store holds the folders and bookmarks as last fetched from the data store.
type Store struct {
	Folders   []Folder   `json:"folders"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Folders:   []Folder{},
		Bookmarks: []Bookmark{},
	}
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	out := &Store{
		Folders:   slices.Clone(s.Folders),
		Bookmarks: make([]Bookmark, len(s.Bookmarks)),
	}
	if out.Folders == nil {
		out.Folders = []Folder{}
	}
	for i, b := range s.Bookmarks {
		b.FolderIDs = slices.Clone(b.FolderIDs)
		out.Bookmarks[i] = b
	}
	return out
}

// GetFolderByID finds a folder by ID, returns nil if not found.
func (s *Store) GetFolderByID(id string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}

// GetFolderByName finds a folder by exact name, returns nil if not found.
func (s *Store) GetFolderByName(name string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].Name == name {
			return &s.Folders[i]
		}
	}
	return nil
}

// DefaultFolder returns the default folder, or nil if the snapshot has none.
func (s *Store) DefaultFolder() *Folder {
	for i := range s.Folders {
		if s.Folders[i].IsDefault {
			return &s.Folders[i]
		}
	}
	return nil
}

// GetBookmarkByID finds a bookmark by ID, returns nil if not found.
func (s *Store) GetBookmarkByID(id string) *Bookmark {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			return &s.Bookmarks[i]
		}
	}
	return nil
}

// GetBookmarksInFolder returns bookmarks that are members of the given folder.
// Pass nil for bookmarks without any folder.
func (s *Store) GetBookmarksInFolder(folderID *string) []Bookmark {
	var result []Bookmark
	for _, b := range s.Bookmarks {
		if folderID == nil {
			if len(b.FolderIDs) == 0 {
				result = append(result, b)
			}
			continue
		}
		if b.InFolder(*folderID) {
			result = append(result, b)
		}
	}
	return result
}

// HasBookmarkURL reports whether a bookmark with the URL exists.
func (s *Store) HasBookmarkURL(url string) bool {
	for _, b := range s.Bookmarks {
		if b.URL == url {
			return true
		}
	}
	return false
}

// FolderNames maps folder ids to names, skipping ids not in the snapshot.
func (s *Store) FolderNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if f := s.GetFolderByID(id); f != nil {
			names = append(names, f.Name)
		}
	}
	return names
}
