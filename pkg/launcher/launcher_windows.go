//go:build windows

package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"time"

	"github.com/seefood/mooring/internal/logger"
)

// Launch runs the server as a supervised child process. Windows has no
// exec-style process replacement, so the bootstrap stays alive to
// forward interrupts and mirror the server's exit status.
func (l *Launcher) Launch(ctx context.Context) error {
	argv, err := l.Command()
	if err != nil {
		return err
	}

	logger.Info("launching server (supervised)",
		"command", argv[0],
		"host", l.host,
		"port", l.port,
	)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = l.Environ()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case err := <-done:
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return fmt.Errorf("server exited with status %d", exitErr.ExitCode())
			}
			return err

		case <-sigCh:
			logger.Info("forwarding interrupt to server")
			_ = cmd.Process.Signal(os.Interrupt)
			select {
			case err := <-done:
				return err
			case <-time.After(l.shutdownTimeout):
				logger.Warn("server did not stop in time, killing")
				_ = cmd.Process.Kill()
				return <-done
			}

		case <-ctx.Done():
			_ = cmd.Process.Kill()
			return ctx.Err()
		}
	}
}
