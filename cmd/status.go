package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkossman/noted-cli/internal/domain"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			baseURL, err := a.store.BaseURL(cmd.Context())
			if err != nil {
				return err
			}
			token, err := a.store.Token(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if baseURL == "" {
				_, _ = fmt.Fprintln(out, "api base url:\t(not set)")
			} else {
				_, _ = fmt.Fprintf(out, "api base url:\t%s\n", baseURL)
			}

			if token == "" {
				_, err = fmt.Fprintln(out, "session:\tlogged out")
				return err
			}

			if exp, ok := domain.TokenExpiry(token); ok {
				remaining := time.Until(exp).Round(time.Second)
				if remaining <= 0 {
					_, err = fmt.Fprintln(out, "session:\ttoken expired")
					return err
				}
				_, err = fmt.Fprintf(out, "session:\tlogged in (token expires in %s)\n", remaining)
				return err
			}

			_, err = fmt.Fprintln(out, "session:\tlogged in")
			return err
		},
	}
}
