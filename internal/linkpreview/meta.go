package linkpreview

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/postmark/internal/model"
)

// ParseMeta extracts Open Graph metadata from an HTML document. The
// description falls back to the plain description meta and the title to the
// <title> element. Relative image URLs are resolved against base.
func ParseMeta(r io.Reader, base *url.URL) (model.Preview, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return model.Preview{}, err
	}

	meta := map[string]string{}
	var title string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := getAttr(n, "property")
				if key == "" {
					key = getAttr(n, "name")
				}
				key = strings.ToLower(strings.TrimSpace(key))
				content := strings.TrimSpace(getAttr(n, "content"))
				// First occurrence wins
				if key != "" && content != "" {
					if _, ok := meta[key]; !ok {
						meta[key] = content
					}
				}
				return
			case "title":
				if title == "" {
					title = getTextContent(n)
				}
				return
			case "body":
				// Metadata lives in head; skip the rest of the page
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	p := model.Preview{
		Title:       firstNonEmpty(meta["og:title"], meta["twitter:title"], title),
		Description: firstNonEmpty(meta["og:description"], meta["twitter:description"], meta["description"]),
		Image:       firstNonEmpty(meta["og:image"], meta["twitter:image"]),
		Provider:    meta["og:site_name"],
	}

	if p.Image != "" && base != nil {
		if ref, err := url.Parse(p.Image); err == nil {
			p.Image = base.ResolveReference(ref).String()
		}
	}

	return p, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getTextContent returns the trimmed text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
