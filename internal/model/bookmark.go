package model

import (
	"slices"
	"strings"
	"time"
)

// Bookmark represents a saved post URL and the folders it belongs to.
type Bookmark struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	FolderIDs []string  `json:"folder_ids"` // empty = no folder assigned
	CreatedAt time.Time `json:"created_at"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	URL       string
	FolderIDs []string
}

// NewBookmark creates a Bookmark with generated UUID and timestamp.
func NewBookmark(params NewBookmarkParams) Bookmark {
	return Bookmark{
		ID:        GenerateUUID(),
		URL:       strings.TrimSpace(params.URL),
		FolderIDs: NormalizeIDs(params.FolderIDs),
		CreatedAt: time.Now(),
	}
}

// InFolder reports whether the bookmark is a member of the given folder.
func (b Bookmark) InFolder(folderID string) bool {
	return slices.Contains(b.FolderIDs, folderID)
}

// NormalizeIDs returns a non-nil copy of ids with duplicates and blanks removed,
// preserving first-seen order.
func NormalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// BookmarkQuery parameterizes a bookmark list request. Both filters are optional
// and combine as a logical AND.
type BookmarkQuery struct {
	FolderID *string
	Q        string
}

// IsZero reports whether the query applies no filter.
func (q BookmarkQuery) IsZero() bool {
	return q.FolderID == nil && q.Q == ""
}
