package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML parses Netscape bookmark HTML. Nested folders are flattened: each
// link belongs to its innermost enclosing folder, and folders sharing a name
// are merged. Links outside any folder land in Document.Bookmarks.
func ParseHTML(r io.Reader) (Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Document{}, err
	}

	b := newBuilder()

	var folderStack []string
	var pendingFolder string // name waiting to be pushed on the next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				if name := getTextContent(n); name != "" {
					b.folder(name)
					pendingFolder = name
				}
				return

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					return
				}
				folder := ""
				if len(folderStack) > 0 {
					folder = folderStack[len(folderStack)-1]
				}
				b.add(folder, href)
				return

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return b.doc, nil
}

// getTextContent returns the text content of a node.
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
