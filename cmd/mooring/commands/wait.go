package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seefood/mooring/pkg/probe"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the database to become reachable",
	Long: `Wait for the database to become reachable.

Dials the configured database endpoint under exponential backoff and
then verifies it accepts queries. Exits 0 once the database is ready,
non-zero when the probe deadline passes first.

Examples:
  # Wait with the configured retry policy
  mooring wait

  # Wait at most 30 seconds
  MOORING_PROBE_MAX_ELAPSED_TIME=30s mooring wait`,
	RunE: runWait,
}

func runWait(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := probe.NewWaiter(cfg.Database.Addr(), probe.Policy{
		InitialInterval: cfg.Probe.InitialInterval,
		MaxInterval:     cfg.Probe.MaxInterval,
		Multiplier:      cfg.Probe.Multiplier,
		MaxElapsedTime:  cfg.Probe.MaxElapsedTime,
		DialTimeout:     cfg.Probe.DialTimeout,
	})

	if err := w.Wait(ctx); err != nil {
		return err
	}
	return w.WaitReady(ctx, func(ctx context.Context) error {
		return probe.Database(ctx, cfg.Database.DSN())
	})
}
