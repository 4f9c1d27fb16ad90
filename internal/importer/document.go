// Package importer reads bookmark files into a Document and applies it to a
// data store.
package importer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a flat import: named folders with their URLs, plus URLs that
// belong to no folder.
type Document struct {
	Folders   []FolderEntry `yaml:"folders"`
	Bookmarks []string      `yaml:"bookmarks,omitempty"`
}

// FolderEntry is one folder of a Document.
type FolderEntry struct {
	Name      string   `yaml:"name"`
	Bookmarks []string `yaml:"bookmarks"`
}

// ParseYAML reads a document of the form
//
//	folders:
//	  - name: Work
//	    bookmarks:
//	      - https://x.com/a/status/1
//	bookmarks:
//	  - https://x.com/b/status/2
//
// Names and URLs are trimmed, blank entries dropped and duplicate folder
// names merged.
func ParseYAML(r io.Reader) (Document, error) {
	var raw Document
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("decode yaml: %w", err)
	}

	b := newBuilder()
	for _, f := range raw.Folders {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return Document{}, fmt.Errorf("folder with %d bookmarks has no name", len(f.Bookmarks))
		}
		b.folder(name)
		for _, u := range f.Bookmarks {
			b.add(name, u)
		}
	}
	for _, u := range raw.Bookmarks {
		b.add("", u)
	}
	return b.doc, nil
}

// URLCount returns the number of URL entries, counting a URL once per folder.
func (d Document) URLCount() int {
	n := len(d.Bookmarks)
	for _, f := range d.Folders {
		n += len(f.Bookmarks)
	}
	return n
}

// builder accumulates a Document, merging folders by name.
type builder struct {
	doc   Document
	index map[string]int
}

func newBuilder() *builder {
	return &builder{index: map[string]int{}}
}

func (b *builder) folder(name string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	b.doc.Folders = append(b.doc.Folders, FolderEntry{Name: name})
	b.index[name] = len(b.doc.Folders) - 1
	return len(b.doc.Folders) - 1
}

func (b *builder) add(folder, rawURL string) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return
	}
	if folder == "" {
		if !slices.Contains(b.doc.Bookmarks, rawURL) {
			b.doc.Bookmarks = append(b.doc.Bookmarks, rawURL)
		}
		return
	}
	f := &b.doc.Folders[b.folder(folder)]
	if !slices.Contains(f.Bookmarks, rawURL) {
		f.Bookmarks = append(f.Bookmarks, rawURL)
	}
}
