package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/postmark/internal/tui/layout"
)

// InputState holds the text inputs of the view. The URL input mirrors the
// auto-fill controller's value; the controller stays the source of truth.
type InputState struct {
	URL    textinput.Model
	Search textinput.Model
	Name   textinput.Model // folder create and rename
}

// NewInputState creates the inputs with placeholders and limits from cfg.
func NewInputState(cfg layout.LayoutConfig) InputState {
	url := textinput.New()
	url.Placeholder = "https://x.com/..."
	url.Prompt = "url> "
	url.CharLimit = cfg.Input.URLCharLimit
	url.Width = cfg.Input.URLWidth

	search := textinput.New()
	search.Placeholder = "Search URLs..."
	search.Prompt = "/"
	search.CharLimit = cfg.Input.SearchCharLimit
	search.Width = cfg.Input.StandardWidth

	name := textinput.New()
	name.Placeholder = "Folder name"
	name.CharLimit = cfg.Input.NameCharLimit
	name.Width = cfg.Input.StandardWidth

	return InputState{URL: url, Search: search, Name: name}
}

// BlurAll removes focus from every input.
func (s *InputState) BlurAll() {
	s.URL.Blur()
	s.Search.Blur()
	s.Name.Blur()
}

// PickerState is the cursor of a folder checklist (assign dialog and the
// folder selection for a new bookmark).
type PickerState struct {
	Cursor int
}

// Reset moves the cursor back to the first folder.
func (p *PickerState) Reset() {
	p.Cursor = 0
}

// Move shifts the cursor by delta within n folders.
func (p *PickerState) Move(delta, n int) {
	if n == 0 {
		p.Cursor = 0
		return
	}
	p.Cursor = min(max(p.Cursor+delta, 0), n-1)
}

// BrowserNav holds the cursors of the two list panes.
type BrowserNav struct {
	Pane           Pane
	FolderCursor   int
	BookmarkCursor int
}

// Clamp keeps both cursors inside their lists.
func (b *BrowserNav) Clamp(folders, bookmarks int) {
	b.FolderCursor = min(max(b.FolderCursor, 0), max(folders-1, 0))
	b.BookmarkCursor = min(max(b.BookmarkCursor, 0), max(bookmarks-1, 0))
}
