package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/postmark/internal/autofill"
	"github.com/nikbrunner/postmark/internal/model"
	"github.com/nikbrunner/postmark/internal/tui/layout"
)

// renderView creates the complete three-pane view.
func (a App) renderView() string {
	if a.mode == ModeHelp {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.renderHelp())
	}
	if modal := a.renderModal(); modal != "" {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	widths := layout.CalculatePaneWidths(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderFolderPane(widths.Folders, paneHeight),
		a.renderBookmarkPane(widths.Bookmarks, paneHeight),
		a.renderPreviewPane(widths.Preview, paneHeight),
	)

	content := a.styles.App.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderTitleBar(),
		columns,
		a.renderInputBar(),
		a.renderStatus(),
		a.renderHints(a.getContextualHints()),
	))

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderTitleBar shows the active filter above the panes.
func (a App) renderTitleBar() string {
	parts := []string{"postmark", a.activeFolderName()}
	if a.filter.HasSearched && a.filter.Committed != "" {
		parts = append(parts, fmt.Sprintf("search %q", a.filter.Committed))
	}
	line, _ := layout.TruncateText(strings.Join(parts, " / "), a.width-4, a.layoutConfig.Text)
	return a.styles.TitleBar.Render(line)
}

func (a App) activeFolderName() string {
	if a.filter.ActiveFolder == nil {
		return "All bookmarks"
	}
	for _, f := range a.folders {
		if f.ID == *a.filter.ActiveFolder {
			return f.Name
		}
	}
	return "All bookmarks"
}

// pane wraps content in the pane style, highlighted when focused.
func (a App) pane(content string, width, height int, focused bool) string {
	style := a.styles.Pane
	if focused {
		style = a.styles.PaneActive
	}
	return style.Width(width).Height(height).Render(strings.TrimRight(content, "\n"))
}

// renderFolderPane renders "All bookmarks" followed by every folder. The
// active filter is marked with "*".
func (a App) renderFolderPane(width, height int) string {
	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Folders") + "\n\n")

	visible := layout.CalculateVisibleHeight(height, a.layoutConfig.Pane.HeaderLines)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	focused := a.browser.Pane == PaneFolders
	offset := layout.CalculateViewportOffset(a.browser.FolderCursor, len(a.items), visible)

	for i := offset; i < len(a.items) && i < offset+visible; i++ {
		item := a.items[i]

		prefix := "  "
		if a.isActive(item) {
			prefix = "* "
		}
		suffix := ""
		if item.Kind == ItemFolder && item.Folder.IsDefault {
			suffix = " (default)"
		}

		line, _ := layout.TruncateWithPrefixSuffix(item.Title(), itemWidth, prefix, suffix, a.layoutConfig.Text)
		content.WriteString(a.renderRow(line, focused && i == a.browser.FolderCursor, itemWidth) + "\n")
	}

	return a.pane(content.String(), width, height, focused)
}

func (a App) isActive(item Item) bool {
	id := item.FolderID()
	if id == nil || a.filter.ActiveFolder == nil {
		return id == nil && a.filter.ActiveFolder == nil
	}
	return *id == *a.filter.ActiveFolder
}

// renderRow pads a selected row so the highlight fills the pane.
func (a App) renderRow(line string, selected bool, width int) string {
	if selected {
		return a.styles.ItemSelected.Render(line + strings.Repeat(" ", max(width-layout.VisibleLength(line), 0)))
	}
	return a.styles.Item.Render(line)
}

// renderBookmarkPane lists the bookmarks of the current filter, newest first.
func (a App) renderBookmarkPane(width, height int) string {
	var content strings.Builder
	content.WriteString(a.styles.Title.Render(fmt.Sprintf("Bookmarks (%d)", len(a.bookmarks))) + "\n\n")

	focused := a.browser.Pane == PaneBookmarks
	if len(a.bookmarks) == 0 {
		empty := "(no bookmarks)"
		if a.filter.HasSearched {
			empty = "(no matches)"
		}
		content.WriteString(a.styles.Empty.Render(empty))
		return a.pane(content.String(), width, height, focused)
	}

	visible := layout.CalculateVisibleHeight(height, a.layoutConfig.Pane.HeaderLines)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	offset := layout.CalculateViewportOffset(a.browser.BookmarkCursor, len(a.bookmarks), visible)

	for i := offset; i < len(a.bookmarks) && i < offset+visible; i++ {
		b := a.bookmarks[i]
		text := displayURL(b.URL)
		if p, ok, _ := a.session.Preview(b.ID); ok && p.Title != "" {
			text = p.Title
		}
		line, _ := layout.TruncateText(text, itemWidth, a.layoutConfig.Text)
		content.WriteString(a.renderRow(line, focused && i == a.browser.BookmarkCursor, itemWidth) + "\n")
	}

	return a.pane(content.String(), width, height, focused)
}

// renderPreviewPane shows the selected bookmark with its preview. Embed
// markup is shown as rendered by the embed widget once it is available.
func (a App) renderPreviewPane(width, height int) string {
	var lines []string
	textWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	add := func(style lipgloss.Style, text string) {
		for _, l := range layout.WrapText(text, textWidth) {
			lines = append(lines, style.Render(l))
		}
	}

	lines = append(lines, a.styles.Title.Render("Preview"), "")

	b, ok := a.selectedBookmark()
	if !ok {
		lines = append(lines, a.styles.Empty.Render("(nothing selected)"))
		return a.pane(strings.Join(lines, "\n"), width, height, false)
	}

	add(a.styles.URL, b.URL)
	if names := a.folderNames(b.FolderIDs); len(names) > 0 {
		add(a.styles.Muted, "in "+strings.Join(names, ", "))
	} else {
		add(a.styles.Muted, "no folder")
	}
	if !b.CreatedAt.IsZero() {
		add(a.styles.Date, "saved "+b.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	lines = append(lines, "")

	p, cached, pending := a.session.Preview(b.ID)
	switch {
	case pending:
		add(a.styles.Empty, "loading preview...")
	case !cached || p.IsEmpty():
		add(a.styles.Empty, "no preview available")
	default:
		if p.Provider != "" {
			add(a.styles.Muted, p.Provider)
		}
		if p.Title != "" {
			add(a.styles.Title, p.Title)
		}
		if text, ok := a.renderedEmbed(b.ID, p); ok {
			embed := layout.WrapText(text, max(textWidth-2, 1))
			lines = append(lines, a.styles.Embed.Render(strings.Join(embed, "\n")))
		} else if p.Description != "" {
			add(a.styles.Item, p.Description)
		}
		if p.Image != "" {
			add(a.styles.URL, "image: "+p.Image)
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return a.pane(strings.Join(lines, "\n"), width, height, false)
}

func (a App) renderedEmbed(id string, p model.Preview) (string, bool) {
	if a.embeds == nil || !p.HasEmbed() {
		return "", false
	}
	text, ok := a.embeds.Rendered(id)
	return text, ok && text != ""
}

func (a App) folderNames(ids []string) []string {
	var names []string
	for _, f := range a.folders {
		if slices.Contains(ids, f.ID) {
			names = append(names, f.Name)
		}
	}
	return names
}

// renderInputBar shows the search input while searching and the URL input
// otherwise.
func (a App) renderInputBar() string {
	if a.mode == ModeSearch {
		return a.inputs.Search.View()
	}

	input := a.inputs.URL.View()
	switch a.session.Autofill().State() {
	case autofill.Offered:
		return a.styles.Offered.Render(input) + a.styles.Muted.Render("  (from clipboard)")
	default:
		if n := len(a.session.CreateSelection()); n > 0 {
			return input + a.styles.Muted.Render(fmt.Sprintf("  (%d folders)", n))
		}
		return input
	}
}

// renderStatus shows the last error, a busy marker or the last success.
func (a App) renderStatus() string {
	switch {
	case a.err != nil:
		return a.styles.Error.Render("error: " + a.err.Error())
	case a.busy:
		return a.styles.Status.Render("working...")
	default:
		return a.styles.Status.Render(a.status)
	}
}

// renderModal renders the dialog of the current mode, or "" outside dialogs.
func (a App) renderModal() string {
	var title string
	var body strings.Builder
	var hints []Hint

	switch a.mode {
	case ModeAddFolder:
		title = "Add Folder"
		body.WriteString("Name:\n")
		body.WriteString(a.inputs.Name.View())
		hints = []Hint{{Key: "Enter", Desc: "create"}, {Key: "Esc", Desc: "cancel"}}

	case ModeRenameFolder:
		title = "Rename Folder"
		body.WriteString("Name:\n")
		body.WriteString(a.inputs.Name.View())
		hints = []Hint{{Key: "Enter", Desc: "save"}, {Key: "Esc", Desc: "cancel"}}

	case ModeDeleteFolder:
		d := a.session.PendingDelete()
		if d == nil {
			return ""
		}
		title = fmt.Sprintf("Delete folder %q?", d.FolderName)
		options := []struct {
			mode model.DeleteMode
			text string
		}{
			{model.DeleteKeep, "Keep bookmarks"},
			{model.DeleteBookmarks, "Delete bookmarks only in this folder"},
		}
		for _, o := range options {
			marker := "  "
			if d.Mode == o.mode {
				marker = "> "
			}
			body.WriteString(marker + o.text + "\n")
		}
		hints = []Hint{{Key: "j/k", Desc: "choose"}, {Key: "Enter", Desc: "delete"}, {Key: "Esc", Desc: "cancel"}}

	case ModeDeleteBookmark:
		title = "Delete bookmark?"
		for _, b := range a.bookmarks {
			if b.ID == a.deleteBookmarkID {
				body.WriteString(a.styles.URL.Render(b.URL))
			}
		}
		hints = []Hint{{Key: "y", Desc: "delete"}, {Key: "n", Desc: "cancel"}}

	case ModeAssign:
		d := a.session.Assign()
		if d == nil {
			return ""
		}
		title = "Assign Folders"
		for _, b := range a.bookmarks {
			if b.ID == d.BookmarkID {
				body.WriteString(a.styles.URL.Render(b.URL) + "\n\n")
			}
		}
		body.WriteString(a.renderChecklist(d.FolderIDs))
		if len(d.FolderIDs) == 0 {
			body.WriteString("\n" + a.styles.Muted.Render("no folders selected"))
		}
		hints = []Hint{{Key: "space", Desc: "toggle"}, {Key: "Enter", Desc: "save"}, {Key: "Esc", Desc: "cancel"}}

	case ModeCreateFolders:
		title = "Folders for the new bookmark"
		selection := a.session.CreateSelection()
		body.WriteString(a.renderChecklist(selection))
		if len(selection) == 0 {
			body.WriteString("\n" + a.styles.Muted.Render("none selected: default folder"))
		}
		hints = []Hint{{Key: "space", Desc: "toggle"}, {Key: "Enter", Desc: "done"}}

	default:
		return ""
	}

	var content strings.Builder
	content.WriteString(a.styles.Title.Render(title) + "\n\n")
	content.WriteString(strings.TrimRight(body.String(), "\n") + "\n\n")
	if a.err != nil {
		content.WriteString(a.styles.Error.Render("error: "+a.err.Error()) + "\n\n")
	}
	content.WriteString(a.renderHintsInline(hints))

	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal)
	return a.styles.Modal.Width(width).Render(content.String())
}

// renderChecklist renders the folders as a scrollable checklist with the
// picker cursor.
func (a App) renderChecklist(checked []string) string {
	var b strings.Builder
	start, end := layout.CalculateVisibleListItems(a.layoutConfig.Modal.FoldersVisible, a.picker.Cursor, len(a.folders))
	for i := start; i < end; i++ {
		f := a.folders[i]
		box := "[ ]"
		if slices.Contains(checked, f.ID) {
			box = "[x]"
		}
		line := box + " " + f.Name
		if i == a.picker.Cursor {
			b.WriteString(a.styles.ItemSelected.Render(line) + "\n")
		} else {
			b.WriteString(a.styles.Item.Render(line) + "\n")
		}
	}
	return b.String()
}

// renderHelp lists every key binding.
func (a App) renderHelp() string {
	bindings := []key.Binding{
		a.keys.Up, a.keys.Down, a.keys.Top, a.keys.Bottom, a.keys.SwitchPane,
		a.keys.Select, a.keys.AddBookmark, a.keys.ClearInput, a.keys.AddFolder,
		a.keys.Rename, a.keys.Delete, a.keys.Assign, a.keys.Toggle, a.keys.Search,
		a.keys.ResetSearch, a.keys.YankURL, a.keys.Refresh, a.keys.Help, a.keys.Quit,
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys") + "\n\n")
	keyWidth := a.layoutConfig.Modal.HelpKeyColumnWidth
	for _, binding := range bindings {
		h := binding.Help()
		fmt.Fprintf(&b, "%-*s %s\n", keyWidth, h.Key, h.Desc)
	}
	b.WriteString("\n" + a.renderHintsInline([]Hint{{Key: "?/q/Esc", Desc: "close"}}))

	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal)
	return a.styles.Modal.Width(width).Render(b.String())
}

// displayURL drops the scheme for compact list rows.
func displayURL(raw string) string {
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")
	return strings.TrimPrefix(raw, "www.")
}
