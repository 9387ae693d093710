package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mkossman/noted-cli/internal/adapters/render/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal interface",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := a.controller()
			defer ctrl.Close()

			// Pick up a session left by a previous run; any failure shows
			// up in the TUI's own error line.
			_ = ctrl.Restore(cmd.Context())

			return tui.Run(cmd.Context(), ctrl)
		},
	}
}
