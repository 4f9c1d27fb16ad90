package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/postmark/internal/api"
	"github.com/nikbrunner/postmark/internal/autofill"
	"github.com/nikbrunner/postmark/internal/config"
	"github.com/nikbrunner/postmark/internal/embed"
	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
	"github.com/nikbrunner/postmark/internal/previews"
	"github.com/nikbrunner/postmark/internal/session"
	"github.com/nikbrunner/postmark/internal/tui"
)

// Global flag values.
var (
	flagConfig string
	flagAPI    string
)

// Set by PersistentPreRunE for every subcommand.
var (
	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "postmark",
	Short: "Bookmark manager for social-media posts",
	Long: `postmark keeps links to social-media posts in folders and shows their
previews. Without a subcommand it opens the terminal client, which talks to a
data store started with "postmark serve".`,
	Version:      version,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ~/.config/postmark/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "data store URL (overrides client.api_url)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

// setup loads the config and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	loaded, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagAPI != "" {
		loaded.Client.APIURL = flagAPI
	}
	cfg = loaded

	// Log lines would corrupt the alternate screen
	if cmd == rootCmd {
		log = logger.Nop()
		return nil
	}

	log, err = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func newClient() (*api.Client, error) {
	return api.NewClient(cfg.Client.APIURL, cfg.Client.Timeout)
}

// runTUI opens the interactive client.
func runTUI(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	widget := embed.New()
	s := session.New(session.Params{
		Remote: client,
		Previews: previews.New(previews.Params{
			Fetcher:     client,
			Widget:      widget,
			Concurrency: cfg.Client.PreviewConcurrency,
			Logger:      log,
		}),
		Autofill: autofill.New(autofill.Params{
			Clipboard: autofill.SystemClipboard{},
			Cooldown:  cfg.Client.AutofillCooldown,
			Logger:    log,
		}),
		Logger: log,
	})

	app := tui.NewApp(tui.AppParams{
		Session:   s,
		Embeds:    widget,
		OpTimeout: cfg.Client.Timeout,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}

// loadStore fetches folders and all bookmarks into a Store.
func loadStore(ctx context.Context, client *api.Client) (*model.Store, error) {
	folders, err := client.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	bookmarks, err := client.ListBookmarks(ctx, model.BookmarkQuery{})
	if err != nil {
		return nil, err
	}
	return &model.Store{Folders: folders, Bookmarks: bookmarks}, nil
}

// folderIDs resolves folder names to ids.
func folderIDs(store *model.Store, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		f := store.GetFolderByName(name)
		if f == nil {
			return nil, fmt.Errorf("folder %q: %w", name, model.ErrNotFound)
		}
		ids = append(ids, f.ID)
	}
	return ids, nil
}
