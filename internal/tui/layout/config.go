package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + title bar (1) + pane borders (2) +
	// URL input (1) + status line (1) + help bar (1) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthOffset is subtracted from terminal width before splitting it
	// between the three panes (app padding and pane borders).
	WidthOffset int

	// FolderPercent is the share of the width given to the folder pane.
	FolderPercent int

	// MinFolderWidth is the minimum folder pane width.
	MinFolderWidth int

	// MinPaneWidth is the minimum width of the bookmark and preview panes.
	MinPaneWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	ContentPadding int

	// HeaderLines is the number of lines a pane spends on its title.
	HeaderLines int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// FoldersVisible is the number of folders shown in folder pickers.
	FoldersVisible int

	// HelpKeyColumnWidth is the key column width in the help overlay.
	HelpKeyColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	NameCharLimit   int
	URLCharLimit    int
	SearchCharLimit int

	StandardWidth int // folder name and search inputs
	URLWidth      int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction: 7,
			MinHeight:       5,
			WidthOffset:     10,
			FolderPercent:   25,
			MinFolderWidth:  16,
			MinPaneWidth:    20,
			ContentPadding:  4,
			HeaderLines:     2,
		},
		Modal: ModalConfig{
			WidthPercent:       40,
			MinWidth:           44,
			MaxWidth:           72,
			FoldersVisible:     8,
			HelpKeyColumnWidth: 14,
		},
		Input: InputConfig{
			NameCharLimit:   100,
			URLCharLimit:    500,
			SearchCharLimit: 100,
			StandardWidth:   40,
			URLWidth:        60,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
