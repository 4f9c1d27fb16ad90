// Package exporter writes folders and bookmarks as Netscape bookmark HTML.
package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/postmark/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/postmark-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("postmark-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders the store as Netscape bookmark HTML. A bookmark appears
// under every folder it belongs to; bookmarks without a folder are written at
// the top level. titles maps bookmark ids to link text; the URL is used for
// ids it lacks.
func ExportHTML(store *model.Store, titles map[string]string) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, folder := range store.Folders {
		fmt.Fprintf(&b, "    <DT><H3>%s</H3>\n", html.EscapeString(folder.Name))
		b.WriteString("    <DL><p>\n")
		id := folder.ID
		writeBookmarks(&b, store.GetBookmarksInFolder(&id), titles, "        ")
		b.WriteString("    </DL><p>\n")
	}
	writeBookmarks(&b, store.GetBookmarksInFolder(nil), titles, "    ")

	b.WriteString("</DL><p>\n")
	return b.String()
}

func writeBookmarks(b *strings.Builder, bookmarks []model.Bookmark, titles map[string]string, prefix string) {
	for _, bookmark := range bookmarks {
		title := titles[bookmark.ID]
		if title == "" {
			title = bookmark.URL
		}
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			prefix,
			html.EscapeString(bookmark.URL),
			bookmark.CreatedAt.Unix(),
			html.EscapeString(title),
		)
	}
}
