package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/postmark/internal/model"
	"github.com/nikbrunner/postmark/internal/search"
	"github.com/nikbrunner/postmark/internal/tui/layout"
)

func testStore() *model.Store {
	return &model.Store{
		Folders: []model.Folder{
			{ID: "f0", Name: "default", IsDefault: true},
			{ID: "f1", Name: "Go"},
		},
		Bookmarks: []model.Bookmark{
			{ID: "b1", URL: "https://x.com/golang/status/1", FolderIDs: []string{"f1"}},
			{ID: "b2", URL: "https://x.com/golangweekly/status/2", FolderIDs: []string{"f0", "f1"}},
			{ID: "b3", URL: "https://x.com/rustlang/status/3"},
		},
	}
}

func newPicker(t *testing.T, query string) Picker {
	t.Helper()
	store := testStore()
	results := search.FuzzySearchBookmarks(store.Bookmarks, query)
	if len(results) == 0 {
		t.Fatalf("no results for %q", query)
	}
	return New(results, query, store)
}

func press(p Picker, msgs ...tea.KeyMsg) (Picker, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var m tea.Model
		m, cmd = p.Update(msg)
		p = m.(Picker)
	}
	return p, cmd
}

var (
	keyJ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	keyK     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestPicker_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"initial", nil, 0},
		{"j moves down", []tea.KeyMsg{keyJ}, 1},
		{"down arrow", []tea.KeyMsg{keyDown}, 1},
		{"k back up", []tea.KeyMsg{keyJ, keyK}, 0},
		{"up arrow", []tea.KeyMsg{keyDown, keyUp}, 0},
		{"clamped at top", []tea.KeyMsg{keyK, keyK}, 0},
		{"clamped at bottom", []tea.KeyMsg{keyJ, keyJ, keyJ}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := press(newPicker(t, "golang"), tt.keys...)
			if p.cursor != tt.want {
				t.Errorf("expected cursor %d, got %d", tt.want, p.cursor)
			}
		})
	}
}

func TestPicker_Select(t *testing.T) {
	p := newPicker(t, "golang")
	want := p.results[1].Bookmark

	p, cmd := press(p, keyJ, keyEnter)

	if cmd == nil {
		t.Fatal("expected quit command after selection")
	}
	if got := p.SelectedBookmark(); got != want {
		t.Errorf("expected %s, got %v", want.URL, got)
	}
}

func TestPicker_Cancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{keyEsc, {Type: tea.KeyRunes, Runes: []rune{'q'}}} {
		p, cmd := press(newPicker(t, "golang"), key)

		if !p.Cancelled() {
			t.Errorf("%s: expected cancelled", key)
		}
		if cmd == nil {
			t.Errorf("%s: expected quit command", key)
		}
		if p.SelectedBookmark() != nil {
			t.Errorf("%s: expected no selection", key)
		}
	}
}

func TestPicker_EnterWithoutResults(t *testing.T) {
	p := New(nil, "nothing", nil)

	p, _ = press(p, keyEnter)

	if p.SelectedBookmark() != nil {
		t.Error("expected no selection without results")
	}
}

func TestPicker_View(t *testing.T) {
	p := newPicker(t, "rust")

	view := layout.StripANSI(p.View())

	if !strings.Contains(view, "Search: rust (1 results)") {
		t.Errorf("missing header in:\n%s", view)
	}
	if !strings.Contains(view, "> https://x.com/rustlang/status/3") {
		t.Errorf("missing selected URL in:\n%s", view)
	}
}

func TestPicker_ViewFolderNames(t *testing.T) {
	p := newPicker(t, "golangweekly")

	view := layout.StripANSI(p.View())

	if !strings.Contains(view, "default, Go") {
		t.Errorf("expected folder names in:\n%s", view)
	}
}
