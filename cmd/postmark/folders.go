package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/postmark/internal/model"
)

var folderDeleteMode string

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List folders with their bookmark counts",
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

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, f := range store.Folders {
			id := f.ID
			marker := ""
			if f.IsDefault {
				marker = "(default)"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", f.Name, len(store.GetBookmarksInFolder(&id)), marker)
		}
		if n := len(store.GetBookmarksInFolder(nil)); n > 0 {
			fmt.Fprintf(w, "%s\t%d\t\n", "(no folder)", n)
		}
		return w.Flush()
	},
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := model.ValidateFolderName(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		f, err := client.CreateFolder(cmd.Context(), name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created folder %s\n", f.Name)
		return nil
	},
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		newName, err := model.ValidateFolderName(args[1])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		f, err := findFolder(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		renamed, err := client.RenameFolder(cmd.Context(), f.ID, newName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", f.Name, renamed.Name)
		return nil
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a folder",
	Long: `Delete a folder. With --mode keep (the default) its bookmarks stay and only
lose this folder. With --mode delete, bookmarks left without any folder are
deleted too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := model.ParseDeleteMode(folderDeleteMode)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		f, err := findFolder(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		if err := client.DeleteFolder(cmd.Context(), f.ID, mode); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s (%s)\n", f.Name, mode)
		return nil
	},
}

func init() {
	folderDeleteCmd.Flags().StringVarP(&folderDeleteMode, "mode", "m", string(model.DeleteKeep), "keep or delete")

	folderCmd.AddCommand(folderLsCmd)
	folderCmd.AddCommand(folderCreateCmd)
	folderCmd.AddCommand(folderRenameCmd)
	folderCmd.AddCommand(folderDeleteCmd)
}

type folderLister interface {
	ListFolders(ctx context.Context) ([]model.Folder, error)
}

// findFolder looks a folder up by name.
func findFolder(ctx context.Context, client folderLister, name string) (model.Folder, error) {
	folders, err := client.ListFolders(ctx)
	if err != nil {
		return model.Folder{}, err
	}
	store := &model.Store{Folders: folders}
	f := store.GetFolderByName(name)
	if f == nil {
		return model.Folder{}, fmt.Errorf("folder %q: %w", name, model.ErrNotFound)
	}
	return *f, nil
}
