package main

import (
	"os"

	"github.com/spf13/cobra"

	"inboxlift/internal/interfaces/cli/migrate"
	"inboxlift/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inboxlift",
		Short: "InboxLift - email rewrite entitlement service",
		Long:  `InboxLift serves the credit accounting behind the email makeover product: free-use metering, share bonuses, founders pricing, and checkout.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
