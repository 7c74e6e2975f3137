// Package commands holds the campushare command line: serve runs the HTTP
// API and quote prices a booking from the terminal.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/Houssam365/campuShare/internal/config"
)

var (
	envFile string
	cfg     *config.Config
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "campushare",
		Short:        "Campus sharing marketplace",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig(envFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default: environment only)")

	root.AddCommand(serveCmd(), quoteCmd())
	return root
}
