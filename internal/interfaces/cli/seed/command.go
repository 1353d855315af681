package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ticketsync/ticketsync/internal/infrastructure/config"
	"github.com/ticketsync/ticketsync/internal/infrastructure/database"
	"github.com/ticketsync/ticketsync/internal/infrastructure/repository"
	"github.com/ticketsync/ticketsync/internal/shared/db"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

var (
	env  string
	file string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load platforms, users and operator preferences",
		Long:  `Create the platforms, users and platform preferences listed in a YAML file. Existing rows are kept.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	fh, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()

	doc, err := Parse(fh)
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	gdb := database.Get()
	var summary *Summary
	err = db.NewTransactionManager(gdb).RunInTransaction(cmd.Context(), func(txCtx context.Context) error {
		var err error
		summary, err = Apply(txCtx, doc,
			repository.NewPlatformRepository(gdb),
			repository.NewUserRepository(gdb),
			log)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "platforms created: %d, users created: %d, preferences: %d\n",
		summary.PlatformsCreated, summary.UsersCreated, summary.Preferences)
	return nil
}
