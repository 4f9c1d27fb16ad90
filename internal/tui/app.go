// Package tui is the terminal view over a session. It renders the folder,
// bookmark and preview panes and turns key presses into session operations,
// which run as commands off the update loop.
package tui

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/postmark/internal/model"
	"github.com/nikbrunner/postmark/internal/session"
	"github.com/nikbrunner/postmark/internal/tui/layout"
)

// Mode is the interaction mode of the view.
type Mode int

const (
	ModeNormal Mode = iota
	ModeURL
	ModeCreateFolders
	ModeSearch
	ModeAddFolder
	ModeRenameFolder
	ModeDeleteFolder
	ModeDeleteBookmark
	ModeAssign
	ModeHelp
)

// Pane identifies the focused list pane.
type Pane int

const (
	PaneFolders Pane = iota
	PaneBookmarks
)

// EmbedRenderer returns embed markup rendered as terminal text.
type EmbedRenderer interface {
	Rendered(id string) (string, bool)
}

// App is the main bubbletea model for the bookmark manager.
type App struct {
	session      *session.Session
	embeds       EmbedRenderer
	copyURL      func(string) error
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	opTimeout    time.Duration

	mode             Mode
	browser          BrowserNav
	inputs           InputState
	picker           PickerState
	deleteBookmarkID string

	// Snapshot of the session, refreshed after every operation
	folders   []model.Folder
	items     []Item
	bookmarks []model.Bookmark
	filter    session.Filter

	status string
	err    error
	busy   bool

	// For gg command
	lastKeyWasG bool

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Session      *session.Session
	Embeds       EmbedRenderer        // optional
	CopyURL      func(string) error   // optional, defaults to the system clipboard
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	OpTimeout    time.Duration        // per operation, default 15s
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}

	copyURL := params.CopyURL
	if copyURL == nil {
		copyURL = clipboard.WriteAll
	}

	opTimeout := params.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 15 * time.Second
	}

	app := App{
		session:      params.Session,
		embeds:       params.Embeds,
		copyURL:      copyURL,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutConfig,
		opTimeout:    opTimeout,
		inputs:       NewInputState(layoutConfig),
		width:        80,
		height:       24,
	}

	app.sync()
	return app
}

// sync copies the session snapshot into the view.
func (a *App) sync() {
	store := a.session.Store()
	a.folders = store.Folders
	a.items = folderItems(a.folders)
	a.bookmarks = store.Bookmarks
	a.filter = a.session.Filter()
	a.browser.Clamp(len(a.items), len(a.bookmarks))

	if v := a.session.Autofill().Input(); a.inputs.URL.Value() != v {
		a.inputs.URL.SetValue(v)
		a.inputs.URL.CursorEnd()
	}
}

// WithDimensions returns a copy of the app with the given terminal size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// FocusedPane returns the focused list pane.
func (a App) FocusedPane() Pane {
	return a.browser.Pane
}

// FolderCursor returns the folder pane cursor; 0 is "All bookmarks".
func (a App) FolderCursor() int {
	return a.browser.FolderCursor
}

// BookmarkCursor returns the bookmark pane cursor.
func (a App) BookmarkCursor() int {
	return a.browser.BookmarkCursor
}

// URLInput returns the text shown in the URL input.
func (a App) URLInput() string {
	return a.inputs.URL.Value()
}

// Status returns the last success message.
func (a App) Status() string {
	return a.status
}

// Err returns the error of the last failed action, if any.
func (a App) Err() error {
	return a.err
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.run("Loaded", false, a.session.Load)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.FocusMsg:
		a.offerClipboard()
		return a, nil

	case opDoneMsg:
		return a.handleOpDone(msg)

	case previewsMsg:
		// Previews are read from the session at render time
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

// offerClipboard lets the auto-fill controller react to a focus event and
// mirrors its input.
func (a *App) offerClipboard() {
	af := a.session.Autofill()
	if af.Focus() {
		a.inputs.URL.SetValue(af.Input())
		a.inputs.URL.CursorEnd()
		a.status = "Pasted URL from clipboard"
	}
}

func (a App) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	a.sync()

	if msg.err != nil {
		a.err = msg.err
		a.status = ""
		return a, nil
	}

	a.err = nil
	a.status = msg.op
	if msg.closeModal {
		a.mode = ModeNormal
		a.inputs.BlurAll()
	}
	return a, waitForPreviews(a.session.LastBatch())
}

// selectedItem returns the folder pane row under the cursor.
func (a App) selectedItem() (Item, bool) {
	if a.browser.FolderCursor < len(a.items) {
		return a.items[a.browser.FolderCursor], true
	}
	return Item{}, false
}

// selectedBookmark returns the bookmark under the cursor.
func (a App) selectedBookmark() (model.Bookmark, bool) {
	if a.browser.BookmarkCursor < len(a.bookmarks) {
		return a.bookmarks[a.browser.BookmarkCursor], true
	}
	return model.Bookmark{}, false
}
