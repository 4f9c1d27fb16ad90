package exporter

import (
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/postmark/internal/importer"
	"github.com/nikbrunner/postmark/internal/model"
)

func TestExportHTML_EmptyStore(t *testing.T) {
	html := ExportHTML(model.NewStore(), nil)

	for _, want := range []string{
		"<!DOCTYPE NETSCAPE-Bookmark-file-1>",
		"<TITLE>Bookmarks</TITLE>",
		"<H1>Bookmarks</H1>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestExportHTML_FolderlessBookmark(t *testing.T) {
	store := model.NewStore()
	store.Bookmarks = []model.Bookmark{{
		ID:        "b1",
		URL:       "https://x.com/golang/status/1",
		FolderIDs: []string{},
		CreatedAt: time.Unix(1700000000, 0),
	}}

	html := ExportHTML(store, nil)

	if !strings.Contains(html, `<DT><A HREF="https://x.com/golang/status/1" ADD_DATE="1700000000">https://x.com/golang/status/1</A>`) {
		t.Errorf("expected top-level bookmark with URL as title, got:\n%s", html)
	}
}

func TestExportHTML_BookmarkUnderEachFolder(t *testing.T) {
	store := model.NewStore()
	store.Folders = []model.Folder{
		{ID: "f0", Name: "default", IsDefault: true},
		{ID: "f1", Name: "Work"},
	}
	store.Bookmarks = []model.Bookmark{{
		ID:        "b1",
		URL:       "https://x.com/a/status/1",
		FolderIDs: []string{"f0", "f1"},
		CreatedAt: time.Unix(1700000000, 0),
	}}

	html := ExportHTML(store, map[string]string{"b1": "Release notes"})

	if got := strings.Count(html, "Release notes</A>"); got != 2 {
		t.Errorf("expected bookmark under both folders, found %d", got)
	}
	defaultIdx := strings.Index(html, "default</H3>")
	workIdx := strings.Index(html, "Work</H3>")
	if defaultIdx == -1 || workIdx == -1 || defaultIdx > workIdx {
		t.Error("expected folders in store order")
	}
}

func TestExportHTML_EscapesSpecialCharacters(t *testing.T) {
	store := model.NewStore()
	store.Folders = []model.Folder{{ID: "f1", Name: "R&D <team>"}}
	store.Bookmarks = []model.Bookmark{{
		ID:        "b1",
		URL:       "https://example.com?foo=bar&baz=qux",
		FolderIDs: []string{"f1"},
		CreatedAt: time.Now(),
	}}

	html := ExportHTML(store, map[string]string{"b1": "Test <script>alert('xss')</script>"})

	if strings.Contains(html, "<script>") {
		t.Error("script tag should be escaped")
	}
	if !strings.Contains(html, "foo=bar&amp;baz") {
		t.Error("expected escaped ampersand in URL")
	}
	if !strings.Contains(html, "R&amp;D &lt;team&gt;</H3>") {
		t.Error("expected escaped folder name")
	}
}

func TestExportHTML_RoundTripThroughImporter(t *testing.T) {
	store := model.NewStore()
	store.Folders = []model.Folder{
		{ID: "f0", Name: "default", IsDefault: true},
		{ID: "f1", Name: "Work"},
	}
	store.Bookmarks = []model.Bookmark{
		{ID: "b1", URL: "https://x.com/a/status/1", FolderIDs: []string{"f1"}},
		{ID: "b2", URL: "https://x.com/b/status/2", FolderIDs: []string{"f0", "f1"}},
		{ID: "b3", URL: "https://x.com/c/status/3", FolderIDs: []string{}},
	}

	doc, err := importer.ParseHTML(strings.NewReader(ExportHTML(store, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Folders) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(doc.Folders))
	}
	if got := doc.Folders[1].Bookmarks; len(got) != 2 {
		t.Errorf("expected 2 bookmarks in Work, got %v", got)
	}
	if len(doc.Bookmarks) != 1 || doc.Bookmarks[0] != "https://x.com/c/status/3" {
		t.Errorf("expected folderless bookmark at top level, got %v", doc.Bookmarks)
	}
}
