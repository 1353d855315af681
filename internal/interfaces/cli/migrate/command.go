package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ticketsync/ticketsync/internal/infrastructure/config"
	"github.com/ticketsync/ticketsync/internal/infrastructure/database"
	"github.com/ticketsync/ticketsync/internal/infrastructure/migration"
	sharedConfig "github.com/ticketsync/ticketsync/internal/shared/config"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

var (
	env   string
	name  string
	dir   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new SQL migration file. Rebuild the binary to embed it.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&dir, "dir", scriptsDir, "Directory holding the migration scripts")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv(withDB bool) (logger.Interface, *config.Config, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if withDB {
		if err := database.Init(&cfg.Database); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return logger.NewLogger(), cfg, nil
}

// gooseFor rejects SQLite, which the versioned scripts do not support.
func gooseFor(cfg *config.Config, log logger.Interface) (*migration.GooseStrategy, error) {
	if cfg.Database.IsSQLite() {
		return nil, fmt.Errorf("versioned migrations need mysql; sqlite is auto-migrated by \"migrate up\"")
	}
	return migration.NewGooseStrategy(sharedConfig.DriverMySQL, log), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	log, cfg, err := initEnv(true)
	if err != nil {
		return err
	}
	defer database.Close()

	var strategy migration.Strategy = migration.NewAutoMigrateStrategy(log)
	if !cfg.Database.IsSQLite() {
		strategy = migration.NewGooseStrategy(sharedConfig.DriverMySQL, log)
	}
	log.Infow("running up migrations", "environment", env, "strategy", strategy.GetName())

	if err := strategy.Migrate(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	log, cfg, err := initEnv(true)
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := gooseFor(cfg, log)
	if err != nil {
		return err
	}
	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := strategy.MigrateDown(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	log, cfg, err := initEnv(true)
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := gooseFor(cfg, log)
	if err != nil {
		return err
	}
	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := strategy.Status(database.Get()); err != nil {
		log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	log, _, err := initEnv(false)
	if err != nil {
		return err
	}

	log.Infow("creating new migration", "name", name, "dir", dir)

	if err := migration.NewGooseStrategy(sharedConfig.DriverMySQL, log).Create(dir, name); err != nil {
		log.Errorw("failed to create migration", "error", err)
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, dir)
	return nil
}
