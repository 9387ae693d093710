package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "noted",
		Short:         "noted: records and shortcuts from the terminal",
		Long:          "noted manages two lists on a remote notes service: records (timestamped notes) and shortcuts (text templates promotable into records), behind token-based login.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")

	app, err := wireApp(&debug)
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newConfigCmd(app),
		newRecordCmd(app),
		newShortcutCmd(app),
		newTUICmd(app),
	)

	return rootCmd
}
