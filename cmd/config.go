package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage client configuration",
	}

	cmd.AddCommand(newConfigSetURLCmd(a), newConfigShowCmd(a))

	return cmd
}

func newConfigSetURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <api-base-url>",
		Short: "Set the API base URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.SetBaseURL(cmd.Context(), args[0]); err != nil {
				return err
			}

			baseURL, err := a.store.BaseURL(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "API base URL set to %s\n", baseURL)
			return err
		},
	}
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			baseURL, err := a.store.BaseURL(cmd.Context())
			if err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = "(not set)"
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "api base url:\t%s\n", baseURL)
			return err
		},
	}
}
