package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ticketsync/ticketsync/internal/interfaces/cli/hashpw"
	"github.com/ticketsync/ticketsync/internal/interfaces/cli/migrate"
	"github.com/ticketsync/ticketsync/internal/interfaces/cli/seed"
	"github.com/ticketsync/ticketsync/internal/interfaces/cli/server"
	"github.com/ticketsync/ticketsync/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ticketsync",
		Short: "Ticketsync - ticket lifecycle orchestration",
		Long:  `Ticketsync keeps support tickets in step with the ADO tracker, routes them to operators and notifies the people involved.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
		token.NewCommand(),
		hashpw.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
