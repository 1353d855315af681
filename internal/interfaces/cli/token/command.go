package token

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ticketsync/ticketsync/internal/infrastructure/auth"
	"github.com/ticketsync/ticketsync/internal/infrastructure/config"
	"github.com/ticketsync/ticketsync/internal/infrastructure/database"
	"github.com/ticketsync/ticketsync/internal/infrastructure/repository"
)

var (
	env   string
	email string
)

// NewCommand issues an access token for an existing user. Identity lives
// outside this service, so this is how operators and scripts obtain one.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVar(&email, "email", "", "User e-mail (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	u, err := repository.NewUserRepository(database.Get()).GetByEmail(cmd.Context(), email)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("no user with e-mail %q", email)
	}

	signed, err := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes).Generate(u.ID(), u.Role())
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
