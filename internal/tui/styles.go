package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Pane         lipgloss.Style
	PaneActive   lipgloss.Style
	Modal        lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	URL          lipgloss.Style
	Date         lipgloss.Style
	Muted        lipgloss.Style
	Empty        lipgloss.Style
	Embed        lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	Offered      lipgloss.Style // URL input while it holds an auto-filled value
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
	TitleBar     lipgloss.Style
}

// Palette is the set of colors DefaultStyles derives every style from.
type Palette struct {
	Text     lipgloss.TerminalColor
	Subtle   lipgloss.TerminalColor
	Accent   lipgloss.TerminalColor // focus, titles and the auto-filled URL
	Border   lipgloss.TerminalColor
	Alert    lipgloss.TerminalColor
	OnAccent lipgloss.TerminalColor
}

// DefaultPalette is muted gray with a slate-blue accent.
func DefaultPalette() Palette {
	return Palette{
		Text:     lipgloss.AdaptiveColor{Light: "#3C3C3C", Dark: "#B4B4B4"},
		Subtle:   lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6A6A6A"},
		Accent:   lipgloss.AdaptiveColor{Light: "#3D5A80", Dark: "#7C9CC4"},
		Border:   lipgloss.AdaptiveColor{Light: "#A0A0A0", Dark: "#4A4A4A"},
		Alert:    lipgloss.AdaptiveColor{Light: "#9B3D3D", Dark: "#D08770"},
		OnAccent: lipgloss.Color("#101418"),
	}
}

// DefaultStyles returns the styles for DefaultPalette.
func DefaultStyles() Styles {
	return NewStyles(DefaultPalette())
}

// NewStyles builds every style from p.
func NewStyles(p Palette) Styles {
	boxed := func(border lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)
	}
	subtle := lipgloss.NewStyle().Foreground(p.Subtle)

	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2, 0, 2),

		Pane:       boxed(p.Border),
		PaneActive: boxed(p.Accent),
		Modal:      boxed(p.Accent).Padding(1, 2),

		Title: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),

		Item: lipgloss.NewStyle().Foreground(p.Text).PaddingLeft(1),
		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(p.Accent).
			Foreground(p.OnAccent),

		URL:   subtle.Underline(true),
		Date:  subtle,
		Muted: subtle,
		Empty: subtle.Italic(true),

		Embed: lipgloss.NewStyle().
			Foreground(p.Text).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Accent).
			PaddingLeft(1),

		Status:  subtle,
		Error:   lipgloss.NewStyle().Foreground(p.Alert).Bold(true),
		Offered: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),

		HintKey:  lipgloss.NewStyle().Foreground(p.Accent),
		HintDesc: subtle,

		TitleBar: subtle.Bold(true).PaddingLeft(1),
	}
}
