package main

import (
	"github.com/spf13/cobra"

	"github.com/kderr/jobctl/internal/logger"
)

type rootFlags struct {
	dbPath  string
	verbose bool
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "jobctl",
		Short:         "jobctl expands, submits, and tracks pipeline jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !flags.verbose {
				return nil
			}
			debugLogger, err := logger.New(logger.Options{Level: "debug", Component: "cli", Layer: "cmd"})
			if err != nil {
				return err
			}
			app.Logger = debugLogger
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "jobctl.db", "Path to the job store database")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newSubmitCmd(app, flags))
	cmd.AddCommand(newRunCmd(app, flags))
	cmd.AddCommand(newListCmd(app, flags))
	cmd.AddCommand(newCancelCmd(app, flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
