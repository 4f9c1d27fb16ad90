package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/postmark/internal/exporter"
	"github.com/nikbrunner/postmark/internal/importer"
	"github.com/nikbrunner/postmark/internal/previews"
)

var exportNoTitles bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import bookmarks from Netscape HTML or YAML",
	Long: `Import bookmarks from a browser export (.html) or a YAML folder list
(.yaml, .yml). Existing folders are reused and stored URLs are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer file.Close()

		var doc importer.Document
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			doc, err = importer.ParseYAML(file)
		default:
			doc, err = importer.ParseHTML(file)
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		res, err := importer.Apply(cmd.Context(), client, doc, log)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bookmarks, %d new folders", res.BookmarksCreated, res.FoldersCreated)
		if res.Skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d already stored)", res.Skipped)
		}
		if res.Invalid > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d invalid)", res.Invalid)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export bookmarks to Netscape HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var outputPath string
		if len(args) == 1 {
			outputPath = args[0]
		} else {
			var err error
			outputPath, err = exporter.DefaultExportPath()
			if err != nil {
				return fmt.Errorf("default export path: %w", err)
			}
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		store, err := loadStore(cmd.Context(), client)
		if err != nil {
			return err
		}

		titles := map[string]string{}
		if !exportNoTitles {
			cache := previews.New(previews.Params{
				Fetcher:     client,
				Concurrency: cfg.Client.PreviewConcurrency,
				Logger:      log,
			})
			if err := cache.Fill(cmd.Context(), store.Bookmarks).Wait(cmd.Context()); err != nil {
				return err
			}
			for id, p := range cache.Snapshot() {
				titles[id] = p.Title
			}
		}

		if err := os.WriteFile(outputPath, []byte(exporter.ExportHTML(store, titles)), 0644); err != nil {
			return fmt.Errorf("write %s: %w", outputPath, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks, %d folders to %s\n",
			len(store.Bookmarks), len(store.Folders), outputPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportNoTitles, "no-titles", false, "skip preview lookups and use URLs as link text")
}
