package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mkossman/noted-cli/internal/domain"
)

func newRecordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage records",
	}

	cmd.AddCommand(
		newEntryListCmd(a, domain.ListRecords),
		newEntryAddCmd(a, domain.ListRecords),
		newEntryEditCmd(a, domain.ListRecords),
		newEntryRemoveCmd(a, domain.ListRecords),
	)

	return cmd
}
