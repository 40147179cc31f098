package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seefood/mooring/internal/logger"
	"github.com/seefood/mooring/pkg/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Apply pending schema migrations.

Runs the embedded SQL migrations against the configured database.
golang-migrate takes a PostgreSQL advisory lock, so concurrent container
starts cannot race each other.

Examples:
  # Run migrations with default config
  mooring migrate

  # Run migrations with custom config
  mooring migrate --config /etc/mooring/config.yaml`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("running schema migrations", "database", cfg.Database.Name)

	if err := store.RunMigrations(cmd.Context(), cfg.Database.DSN()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
	return nil
}
