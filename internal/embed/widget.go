// Package embed renders rich post embeds (oEmbed blockquote markup) as plain
// terminal text.
package embed

import (
	"context"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/nikbrunner/postmark/internal/model"
)

// Widget keeps the rendered text of every embed-bearing preview it has seen.
// Load builds the sanitizer once; Rescan re-renders from the latest entries.
type Widget struct {
	mu       sync.RWMutex
	policy   *bluemonday.Policy
	rendered map[string]string
	loads    int
	scans    int
}

// New creates an unloaded Widget.
func New() *Widget {
	return &Widget{rendered: map[string]string{}}
}

// NewPolicy returns the sanitizer used for embed markup: block structure and
// links survive, scripts and styling do not.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("blockquote", "p", "br", "a", "span", "div")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	return p
}

// Load initializes the widget and renders entries. Calling it again is a
// no-op apart from the render.
func (w *Widget) Load(ctx context.Context, entries map[string]model.Preview) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.policy == nil {
		w.policy = NewPolicy()
		w.loads++
	}
	w.render(entries)
	return nil
}

// Rescan renders every embed in entries. It does nothing before Load.
func (w *Widget) Rescan(entries map[string]model.Preview) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.policy == nil {
		return
	}
	w.scans++
	w.render(entries)
}

func (w *Widget) render(entries map[string]model.Preview) {
	for id, p := range entries {
		if !p.HasEmbed() {
			continue
		}
		if _, ok := w.rendered[id]; ok {
			continue
		}
		w.rendered[id] = Render(w.policy, p.HTML)
	}
}

// Rendered returns the rendered text for a bookmark id.
func (w *Widget) Rendered(id string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	text, ok := w.rendered[id]
	return text, ok
}

// Loaded reports whether Load has run.
func (w *Widget) Loaded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.policy != nil
}

// Stats returns how many times the widget was initialized and rescanned.
func (w *Widget) Stats() (loads, scans int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loads, w.scans
}

// Render sanitizes markup with policy and flattens it to text. Paragraphs are
// separated by a blank line and <br> becomes a newline.
func Render(policy *bluemonday.Policy, markup string) string {
	clean := policy.Sanitize(markup)

	nodes, err := html.ParseFragment(strings.NewReader(clean), &html.Node{
		Type: html.ElementNode,
		Data: "div",
	})
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(clean))
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(collapseSpace(n.Data))
			return
		case html.ElementNode:
			switch n.Data {
			case "br":
				b.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "div") {
			b.WriteString("\n\n")
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text := strings.Join(lines, "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		out = " " + out
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		out += " "
	}
	return out
}
