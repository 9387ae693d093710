package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkossman/noted-cli/internal/domain"
)

func newEntryListCmd(a *app, kind domain.ListKind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.apiClient().ListEntries(cmd.Context(), kind)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, err = fmt.Fprintf(out, "No %s yet.\n", kind)
				return err
			}

			for _, entry := range entries {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n",
					entry.ID,
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					strings.ReplaceAll(entry.Text, "\n", " "),
				)
			}
			return nil
		},
	}
}

func newEntryAddCmd(a *app, kind domain.ListKind) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: fmt.Sprintf("Add a new entry to %s", kind),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if err := domain.ValidateText(text); err != nil {
				return err
			}

			created, err := a.apiClient().CreateEntry(cmd.Context(), kind, text)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", created.ID)
			return err
		},
	}
}

func newEntryEditCmd(a *app, kind domain.ListKind) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: fmt.Sprintf("Replace the text of one of the %s", kind),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.EntryID(args[0])
			text := strings.Join(args[1:], " ")
			if err := domain.ValidateText(text); err != nil {
				return err
			}

			if err := a.apiClient().UpdateEntry(cmd.Context(), kind, id, text); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
			return err
		},
	}
}

func newEntryRemoveCmd(a *app, kind domain.ListKind) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: fmt.Sprintf("Delete one of the %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.EntryID(args[0])

			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %s %s?", kind, id))
				if err != nil {
					return err
				}
				if !ok {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return err
				}
			}

			if err := a.apiClient().DeleteEntry(cmd.Context(), kind, id); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}
