package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move tab:pane a:add"
func (a App) renderHints(hints HintSet) string {
	all := hints.All()
	parts := make([]string, len(all))
	for i, h := range all {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Edit   []Hint
	Action []Hint
	System []Hint
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
// Modal modes show their hints inside the modal.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		return a.getNormalModeHints()
	case ModeURL:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "save"}, {Key: "Tab", Desc: "folders"}},
			Edit:   []Hint{{Key: "ctrl+x", Desc: "clear"}},
			System: []Hint{{Key: "Esc", Desc: "back"}},
		}
	case ModeSearch:
		return HintSet{
			Nav:    []Hint{{Key: "type", Desc: "query"}},
			Action: []Hint{{Key: "Enter", Desc: "search"}},
			System: []Hint{{Key: "Esc", Desc: "back"}},
		}
	default:
		return HintSet{}
	}
}

// getNormalModeHints returns hints for the focused pane. Rename and delete
// are only offered for folders that allow them.
func (a App) getNormalModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "Tab", Desc: "pane"},
		},
		Action: []Hint{
			{Key: "a", Desc: "add"},
			{Key: "/", Desc: "search"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}

	if a.filter.HasSearched {
		hints.Action = append(hints.Action, Hint{Key: "u", Desc: "reset search"})
	}

	if a.browser.Pane == PaneFolders {
		hints.Nav = append(hints.Nav, Hint{Key: "l", Desc: "show"})
		hints.Edit = append(hints.Edit, Hint{Key: "A", Desc: "new folder"})
		if item, ok := a.selectedItem(); ok && item.Editable() {
			hints.Edit = append(hints.Edit,
				Hint{Key: "r", Desc: "rename"},
				Hint{Key: "d", Desc: "del"},
			)
		}
		return hints
	}

	if len(a.bookmarks) > 0 {
		hints.Edit = append(hints.Edit,
			Hint{Key: "m", Desc: "folders"},
			Hint{Key: "y", Desc: "yank"},
			Hint{Key: "d", Desc: "del"},
		)
	}
	return hints
}
