package search

import (
	"testing"

	"github.com/nikbrunner/postmark/internal/model"
)

func testBookmarks() []model.Bookmark {
	return []model.Bookmark{
		{ID: "b1", URL: "https://x.com/golang/status/1"},
		{ID: "b2", URL: "https://bsky.app/profile/rob/post/2"},
		{ID: "b3", URL: "https://x.com/tanstack/status/3"},
	}
}

func TestFuzzySearchBookmarks_EmptyQuery(t *testing.T) {
	results := FuzzySearchBookmarks(testBookmarks(), "")

	if len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestFuzzySearchBookmarks_ExactMatch(t *testing.T) {
	results := FuzzySearchBookmarks(testBookmarks(), "bsky.app")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Bookmark.ID != "b2" {
		t.Errorf("expected b2, got %s", results[0].Bookmark.ID)
	}
}

func TestFuzzySearchBookmarks_FuzzyMatch(t *testing.T) {
	// "tanst3" should fuzzy match the tanstack status URL only
	results := FuzzySearchBookmarks(testBookmarks(), "tanst3")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Bookmark.ID != "b3" {
		t.Errorf("expected b3, got %s", results[0].Bookmark.ID)
	}
	if len(results[0].MatchedIndexes) != len("tanst3") {
		t.Errorf("expected %d matched indexes, got %d", len("tanst3"), len(results[0].MatchedIndexes))
	}
}

func TestFilterBookmarks(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query keeps all", query: "", want: []string{"b1", "b2", "b3"}},
		{name: "host match keeps order", query: "x.com", want: []string{"b1", "b3"}},
		{name: "single match", query: "golang", want: []string{"b1"}},
		{name: "no match", query: "zzzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterBookmarks(testBookmarks(), tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d bookmarks, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}
