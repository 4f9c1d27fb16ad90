package search

import (
	"sort"

	"github.com/nikbrunner/postmark/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Bookmark       *model.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkURLs implements fuzzy.Source for a bookmark slice.
type bookmarkURLs []*model.Bookmark

func (bu bookmarkURLs) String(i int) string {
	return bu[i].URL
}

func (bu bookmarkURLs) Len() int {
	return len(bu)
}

// FuzzySearchBookmarks matches bookmarks by URL.
// Returns results sorted by match score (best first).
func FuzzySearchBookmarks(bookmarks []model.Bookmark, query string) []SearchResult {
	if query == "" {
		return nil
	}

	source := make(bookmarkURLs, len(bookmarks))
	for i := range bookmarks {
		source[i] = &bookmarks[i]
	}

	matches := fuzzy.FindFrom(query, source)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Bookmark:       source[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// FilterBookmarks keeps the bookmarks whose URL matches query, preserving
// their original order. An empty query returns bookmarks unchanged.
func FilterBookmarks(bookmarks []model.Bookmark, query string) []model.Bookmark {
	if query == "" {
		return bookmarks
	}

	matches := fuzzy.FindFrom(query, bookmarkURLs(pointers(bookmarks)))
	indexes := make([]int, len(matches))
	for i, m := range matches {
		indexes[i] = m.Index
	}
	sort.Ints(indexes)

	filtered := make([]model.Bookmark, 0, len(indexes))
	for _, i := range indexes {
		filtered = append(filtered, bookmarks[i])
	}
	return filtered
}

func pointers(bookmarks []model.Bookmark) []*model.Bookmark {
	ptrs := make([]*model.Bookmark, len(bookmarks))
	for i := range bookmarks {
		ptrs[i] = &bookmarks[i]
	}
	return ptrs
}
