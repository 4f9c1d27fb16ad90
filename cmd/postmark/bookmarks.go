package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/postmark/internal/culler"
	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
	"github.com/nikbrunner/postmark/internal/picker"
	"github.com/nikbrunner/postmark/internal/search"
)

var (
	addFolders []string

	lsFolder string
	lsQuery  string

	findOpen bool

	checkFolder  string
	checkDelete  bool
	checkExclude []string
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Save a bookmark",
	Long:  `Save a bookmark into the named folders, or the default folder when none are given.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := model.ValidateHTTPURL(args[0])
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		store, err := loadStore(cmd.Context(), client)
		if err != nil {
			return err
		}
		ids, err := folderIDs(store, addFolders)
		if err != nil {
			return err
		}

		b, err := client.CreateBookmark(cmd.Context(), url, ids)
		if err != nil {
			return err
		}
		log.Debug("bookmark created", logger.String("id", b.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", b.URL, strings.Join(store.FolderNames(b.FolderIDs), ", "))
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List bookmarks, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		store, err := loadStore(cmd.Context(), client)
		if err != nil {
			return err
		}

		query := model.BookmarkQuery{Q: lsQuery}
		if lsFolder != "" {
			ids, err := folderIDs(store, []string{lsFolder})
			if err != nil {
				return err
			}
			query.FolderID = &ids[0]
		}
		bookmarks, err := client.ListBookmarks(cmd.Context(), query)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, b := range bookmarks {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				b.CreatedAt.Local().Format("2006-01-02"),
				strings.Join(store.FolderNames(b.FolderIDs), ","),
				b.URL)
		}
		return w.Flush()
	},
}

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Fuzzy find a bookmark and copy its URL",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		client, err := newClient()
		if err != nil {
			return err
		}
		store, err := loadStore(cmd.Context(), client)
		if err != nil {
			return err
		}

		results := search.FuzzySearchBookmarks(store.Bookmarks, query)
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No bookmarks found for '%s'\n", query)
			return nil
		}

		selected := results[0].Bookmark
		if len(results) > 1 {
			final, err := tea.NewProgram(picker.New(results, query, store)).Run()
			if err != nil {
				return fmt.Errorf("run picker: %w", err)
			}
			selected = final.(picker.Picker).SelectedBookmark()
			if selected == nil {
				return nil
			}
		}

		if findOpen {
			openURL(selected.URL)
			fmt.Fprintf(cmd.OutOrStdout(), "Opening: %s\n", selected.URL)
			return nil
		}
		if err := clipboard.WriteAll(selected.URL); err != nil {
			// Still print it so it can be copied by hand
			fmt.Fprintln(cmd.OutOrStdout(), selected.URL)
			return &model.PermissionError{Err: err}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Copied: %s\n", selected.URL)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Find bookmarks whose posts are gone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := newClient()
		if err != nil {
			return err
		}
		store, err := loadStore(ctx, client)
		if err != nil {
			return err
		}

		bookmarks := store.Bookmarks
		if checkFolder != "" {
			ids, err := folderIDs(store, []string{checkFolder})
			if err != nil {
				return err
			}
			bookmarks = store.GetBookmarksInFolder(&ids[0])
		}

		errOut := cmd.ErrOrStderr()
		results, err := culler.Check(ctx, bookmarks, culler.Params{
			Concurrency:    cfg.Client.PreviewConcurrency,
			Timeout:        cfg.Client.Timeout,
			ExcludeDomains: checkExclude,
			Logger:         log,
			OnProgress: func(completed, total int) {
				fmt.Fprintf(errOut, "\rChecked %d/%d", completed, total)
			},
		})
		if len(bookmarks) > 0 {
			fmt.Fprintln(errOut)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		unreachable := 0
		for _, r := range results {
			switch r.Status {
			case culler.Dead:
				fmt.Fprintf(out, "dead (%d)\t%s\n", r.StatusCode, r.Bookmark.URL)
			case culler.Unreachable:
				unreachable++
				log.Debug("unreachable", logger.String("url", r.Bookmark.URL), logger.String("reason", r.Error))
			}
		}

		dead := culler.DeadOnly(results)
		fmt.Fprintf(out, "%d checked, %d dead, %d unreachable\n", len(results), len(dead), unreachable)

		if !checkDelete {
			return nil
		}
		for _, r := range dead {
			if err := client.DeleteBookmark(ctx, r.Bookmark.ID); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Deleted %d bookmarks\n", len(dead))
		return nil
	},
}

func init() {
	addCmd.Flags().StringSliceVarP(&addFolders, "folder", "f", nil, "folder name (repeatable)")

	lsCmd.Flags().StringVarP(&lsFolder, "folder", "f", "", "only bookmarks in this folder")
	lsCmd.Flags().StringVarP(&lsQuery, "query", "q", "", "only bookmarks whose URL matches")

	findCmd.Flags().BoolVarP(&findOpen, "open", "o", false, "open in the browser instead of copying")

	checkCmd.Flags().StringVarP(&checkFolder, "folder", "f", "", "only check this folder")
	checkCmd.Flags().BoolVar(&checkDelete, "delete", false, "delete dead bookmarks")
	checkCmd.Flags().StringSliceVar(&checkExclude, "exclude", nil, "domains whose 404s may be private posts")
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "open browser: %v\n", err)
		}
	}
}
