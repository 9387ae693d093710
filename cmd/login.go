package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with username and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				username, err = promptLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Username: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = promptPassword(cmd.InOrStdin(), cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
			}

			ctrl := a.controller()
			defer ctrl.Close()

			if err := ctrl.LoginPassword(cmd.Context(), username, password); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return err
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted without echo when omitted)")

	cmd.AddCommand(newLoginTelegramCmd(a))

	return cmd
}

func newLoginTelegramCmd(a *app) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "telegram",
		Short: "Log in with a telegram pin and one-time code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if pin == "" {
				pin, err = promptLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Pin: ")
				if err != nil {
					return err
				}
			}

			ctrl := a.controller()
			defer ctrl.Close()
			ctrl.UseTelegramLogin()

			if err := ctrl.RequestCode(cmd.Context(), pin); err != nil {
				if remaining := ctrl.CooldownRemaining(a.clock.Now()); remaining > 0 {
					return fmt.Errorf("%w (retry in %ds)", err, int(remaining.Round(time.Second)/time.Second))
				}
				return err
			}

			code, err := promptLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Code: ")
			if err != nil {
				return err
			}

			if err := ctrl.VerifyCode(cmd.Context(), code); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return err
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "Telegram pin (prompted when omitted)")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.ClearToken(cmd.Context()); err != nil {
				return fmt.Errorf("clear token: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return err
		},
	}
}
