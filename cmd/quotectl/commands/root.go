package commands

import (
	"github.com/spf13/cobra"

	"quoteforge/config"
)

func Execute() error {
	root := &cobra.Command{
		Use:           "quotectl",
		Short:         "Quote configuration wizard and intake server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
		},
	}

	root.AddCommand(serveCmd(), priceCmd(), wizardCmd())
	return root.Execute()
}
