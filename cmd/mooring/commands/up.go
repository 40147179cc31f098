package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seefood/mooring/internal/logger"
	"github.com/seefood/mooring/pkg/bootstrap"
	"github.com/seefood/mooring/pkg/launcher"
)

var (
	upSkipLaunch bool
	upDryRun     bool
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run the full bootstrap sequence and launch the server",
	Long: `Run the full bootstrap sequence and launch the server.

Steps run in a fixed order, each skipped when its effect already holds:

  1. wait-database   block until the database accepts queries
  2. migrate         apply pending schema migrations
  3. collect-static  collect static assets (optional, failures tolerated)
  4. seed-admin      create the admin user if missing
  5. seed-demo       create demo users if enabled (optional)

On success the bootstrap execs into the configured server command,
replacing its own process image so the server receives signals directly.

Examples:
  # Full bootstrap and launch
  mooring up

  # Setup only, without launching the server
  mooring up --skip-launch

  # Show which steps would apply, without touching anything
  mooring up --dry-run`,
	RunE: runUp,
}

func init() {
	upCmd.Flags().BoolVar(&upSkipLaunch, "skip-launch", false, "Run setup steps but do not launch the server")
	upCmd.Flags().BoolVar(&upDryRun, "dry-run", false, "Evaluate steps without applying anything")
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seq := bootstrap.NewSequence(bootstrap.FromConfig(cfg)...)

	if upDryRun {
		results, err := seq.Status(ctx)
		if err != nil {
			return err
		}
		printResults(cmd, results)
		return nil
	}

	results, err := seq.Run(ctx)
	if err != nil {
		printResults(cmd, results)
		return err
	}

	if upSkipLaunch {
		logger.Info("setup complete, launch skipped")
		printResults(cmd, results)
		return nil
	}

	l, err := launcher.New(cfg.Server.Command, cfg.Server.Host, cfg.Server.Port, cfg.Server.ShutdownTimeout)
	if err != nil {
		return err
	}

	// Release signal handling before handing the process over.
	stop()
	return l.Launch(cmd.Context())
}
