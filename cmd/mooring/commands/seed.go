package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seefood/mooring/internal/cli/prompt"
	"github.com/seefood/mooring/pkg/store"
)

var (
	seedDemo        bool
	seedInteractive bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the admin user (and optionally demo data)",
	Long: `Seed the admin user (and optionally demo data).

Creates the configured admin account if it does not exist yet. The step
is idempotent: a seeded database is left untouched, and at most one
admin account is ever created.

Examples:
  # Seed the admin from config/environment
  MOORING_ADMIN_PASSWORD=... mooring seed

  # Prompt for the admin password instead
  mooring seed --interactive

  # Also seed the demo role users
  mooring seed --demo`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "Also seed demo users (manager, sales, kitchen)")
	seedCmd.Flags().BoolVar(&seedInteractive, "interactive", false, "Prompt for the admin password")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedInteractive {
		password, err := prompt.NewPassword(store.MinPasswordLength)
		if err != nil {
			return err
		}
		// Environment is the highest-precedence config source, so the
		// prompted password wins over anything in the config file.
		if err := os.Setenv("MOORING_ADMIN_PASSWORD", password); err != nil {
			return err
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := store.Open(store.Options{
		Backend:      store.BackendPostgres,
		DSN:          cfg.Database.DSN(),
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("failed to open user store: %w", err)
	}
	defer func() { _ = s.Close() }()

	created, err := s.EnsureAdmin(ctx, store.AdminSeed{
		Username:     cfg.Admin.Username,
		Email:        cfg.Admin.Email,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
	})
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Admin user %q created\n", cfg.Admin.Username)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Admin user %q already exists\n", cfg.Admin.Username)
	}

	if seedDemo || cfg.Seed.Demo {
		password := cfg.Seed.DemoPassword
		if password == "" {
			password = cfg.Admin.Password
		}
		n, err := s.EnsureDemoUsers(ctx, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Demo users created: %d\n", n)
	}

	return nil
}
