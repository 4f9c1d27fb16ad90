package layout

import (
	"fmt"
	"testing"

	"gotest.tools/v3/assert"
)

func TestPaneGeometry(t *testing.T) {
	cfg := DefaultConfig().Pane

	// HeightReduction 7, MinHeight 5
	for height, want := range map[int]int{24: 17, 50: 43, 8: 5, 4: 5} {
		assert.Equal(t, CalculatePaneHeight(height, cfg), want, "height %d", height)
	}

	// Usable width is terminal minus WidthOffset; folders take 25% of it
	// and the preview pane gets the odd column.
	for width, want := range map[int]PaneLayout{
		80:  {Folders: 17, Bookmarks: 26, Preview: 27},
		120: {Folders: 27, Bookmarks: 41, Preview: 42},
		50:  {Folders: 16, Bookmarks: 20, Preview: 20},
		5:   {Folders: 16, Bookmarks: 20, Preview: 20},
	} {
		assert.Equal(t, CalculatePaneWidths(width, cfg), want, "width %d", width)
	}

	assert.Equal(t, CalculateItemWidth(24, cfg), 20)
	assert.Equal(t, CalculateItemWidth(3, cfg), 1)

	assert.Equal(t, CalculateVisibleHeight(18, cfg.HeaderLines), 16)
	assert.Equal(t, CalculateVisibleHeight(18, 0), 18)
	assert.Equal(t, CalculateVisibleHeight(5, 10), 1)
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		selected, total, height int
		want                    int
	}{
		{2, 5, 10, 0},    // everything fits
		{1, 20, 10, 0},   // near the top
		{10, 20, 10, 5},  // centered
		{18, 20, 10, 10}, // clamped to total-height
		{19, 20, 10, 10},
	}

	for _, tt := range tests {
		got := CalculateViewportOffset(tt.selected, tt.total, tt.height)
		assert.Equal(t, got, tt.want, "selected %d of %d in %d rows", tt.selected, tt.total, tt.height)
	}
}

func TestModalGeometry(t *testing.T) {
	cfg := DefaultConfig().Modal

	// 40% of the terminal within [44, 72], never wider than terminal-4
	for width, want := range map[int]int{200: 72, 120: 48, 80: 44, 40: 36, 3: 1} {
		assert.Equal(t, CalculateModalWidth(width, cfg), want, "width %d", width)
	}

	tests := []struct {
		max, selected, total int
		start, end           int
	}{
		{5, 0, 10, 0, 5},
		{5, 7, 10, 3, 8},
		{5, 9, 10, 5, 10},
		{5, 2, 3, 0, 3},
		{cfg.FoldersVisible, 10, 15, 3, 11},
	}
	for _, tt := range tests {
		start, end := CalculateVisibleListItems(tt.max, tt.selected, tt.total)
		assert.Equal(t, fmt.Sprint(start, end), fmt.Sprint(tt.start, tt.end),
			"max %d selected %d total %d", tt.max, tt.selected, tt.total)
	}
}

func TestANSIHandling(t *testing.T) {
	styled := "\x1b[1m\x1b[38;5;212mx.com/golang\x1b[0m"

	assert.Equal(t, StripANSI(styled), "x.com/golang")
	assert.Equal(t, StripANSI("plain"), "plain")
	assert.Equal(t, StripANSI("\x1b[1m\x1b[0m"), "")

	assert.Equal(t, VisibleLength(styled), 12)
	assert.Equal(t, VisibleLength("こんにちは"), 5)
	assert.Equal(t, VisibleLength(""), 0)
}

func TestTruncateText(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		text      string
		width     int
		want      string
		truncated bool
	}{
		{"default", 10, "default", false},
		{"default", 7, "default", false},
		{"All bookmarks", 8, "All b...", true},
		{"Reading", 3, "...", true},
		{"Reading", 1, ".", true},
		{"Reading", 0, "", true},
		{"", 4, "", false},
		{"こんにちは", 4, "こ...", true},
	}

	for _, tt := range tests {
		got, truncated := TruncateText(tt.text, tt.width, cfg)
		assert.Equal(t, got, tt.want, "%q in %d", tt.text, tt.width)
		assert.Equal(t, truncated, tt.truncated, "%q in %d", tt.text, tt.width)
	}
}

func TestTruncateWithPrefixSuffix(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		text, prefix, suffix string
		width                int
		want                 string
	}{
		{"default", "  ", " (default)", 30, "  default (default)"},
		{"Reading list", "* ", "", 14, "* Reading list"},
		{"Reading list", "* ", "", 10, "* Readi..."},
		{"Development", "* ", " 3", 12, "* Devel... 3"},
		// Overhead leaves no room for the text: plain truncation
		{"abcdef", "* ", " 3", 6, "* a..."},
		{"Work", "* ", " 3", 0, ""},
	}

	for _, tt := range tests {
		got, _ := TruncateWithPrefixSuffix(tt.text, tt.width, tt.prefix, tt.suffix, cfg)
		assert.Equal(t, got, tt.want)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"hello world", 11, []string{"hello world"}},
		{"hello world", 5, []string{"hello", "world"}},
		{"a b c", 3, []string{"a b", "c"}},
		{"abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"hi abcdefg", 3, []string{"hi", "abc", "def", "g"}},
		{"line one\n\nline two", 20, []string{"line one", "", "line two"}},
		{"a    b", 10, []string{"a b"}},
		{"", 5, []string{""}},
		{"hello", 0, nil},
	}

	for _, tt := range tests {
		assert.DeepEqual(t, WrapText(tt.text, tt.width), tt.want)
	}
}
