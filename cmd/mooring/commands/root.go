// Package commands implements the CLI commands for the mooring bootstrap.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/seefood/mooring/internal/logger"
	"github.com/seefood/mooring/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mooring",
	Short: "mooring - backend service bootstrap sequencer",
	Long: `mooring brings a database-backed backend service into a ready state.

It waits for the database to accept connections, applies schema
migrations, collects static assets, seeds the admin user, and finally
execs into the server process so signals reach it directly.

Every setup step is idempotent: re-running the bootstrap against an
already-initialized deployment is safe and skips whatever already holds.

Use "mooring [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/mooring/config.yaml)")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(waitCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}

// loadConfig loads configuration and initializes the logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}
