package model

// Preview is display metadata for a bookmark URL. All fields are optional;
// a zero Preview means no preview is available.
type Preview struct {
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	HTML        string `json:"html,omitempty"` // rich embed markup
	Provider    string `json:"provider,omitempty"`
}

// HasEmbed reports whether the preview carries rich embed markup.
func (p Preview) HasEmbed() bool {
	return p.HTML != ""
}

// IsEmpty reports whether the preview has nothing to display.
func (p Preview) IsEmpty() bool {
	return p.Title == "" && p.Description == "" && p.Image == "" && p.HTML == ""
}
