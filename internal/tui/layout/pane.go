package layout

// PaneLayout holds the widths of the three panes.
type PaneLayout struct {
	Folders   int
	Bookmarks int
	Preview   int
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	return max(terminalHeight-cfg.HeightReduction, cfg.MinHeight)
}

// CalculatePaneWidths splits the terminal width into folder, bookmark and
// preview panes. The folder pane takes FolderPercent of the usable width; the
// rest is shared evenly, with the preview pane taking any odd column.
func CalculatePaneWidths(terminalWidth int, cfg PaneConfig) PaneLayout {
	usable := max(terminalWidth-cfg.WidthOffset, 0)

	folders := max(usable*cfg.FolderPercent/100, cfg.MinFolderWidth)
	rest := usable - folders
	bookmarks := max(rest/2, cfg.MinPaneWidth)
	preview := max(rest-rest/2, cfg.MinPaneWidth)

	return PaneLayout{
		Folders:   folders,
		Bookmarks: bookmarks,
		Preview:   preview,
	}
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return max(paneWidth-cfg.ContentPadding, 1)
}

// CalculateVisibleHeight computes the visible item count in a pane.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	return max(paneHeight-headerLines, 1)
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := max(selected-viewportHeight/2, 0)
	return min(offset, total-viewportHeight)
}
