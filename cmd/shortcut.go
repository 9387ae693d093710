package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkossman/noted-cli/internal/domain"
)

func newShortcutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcut",
		Short: "Manage shortcuts",
	}

	cmd.AddCommand(
		newEntryListCmd(a, domain.ListShortcuts),
		newEntryAddCmd(a, domain.ListShortcuts),
		newEntryEditCmd(a, domain.ListShortcuts),
		newEntryRemoveCmd(a, domain.ListShortcuts),
		newShortcutPromoteCmd(a),
	)

	return cmd
}

// promote copies the shortcut's text into a brand-new record; the shortcut
// itself stays where it is.
func newShortcutPromoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <id>",
		Short: "Create a new record from a shortcut's text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.EntryID(args[0])
			client := a.apiClient()

			shortcuts, err := client.ListEntries(cmd.Context(), domain.ListShortcuts)
			if err != nil {
				return err
			}

			var text string
			found := false
			for _, shortcut := range shortcuts {
				if shortcut.ID == id {
					text = shortcut.Text
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("promote shortcut %s: %w", id, domain.ErrEntryNotFound)
			}

			created, err := client.CreateEntry(cmd.Context(), domain.ListRecords, text)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s to record %s\n", id, created.ID)
			return err
		},
	}
}
