//go:build !windows

package launcher

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/seefood/mooring/internal/logger"
)

// Launch replaces the current process image with the server process.
// On success it never returns: the server takes over the PID and all
// subsequent signal delivery. The context is accepted for interface
// symmetry with the Windows build; exec itself is not cancellable.
func (l *Launcher) Launch(ctx context.Context) error {
	argv, err := l.Command()
	if err != nil {
		return err
	}

	logger.Info("launching server",
		"command", argv[0],
		"host", l.host,
		"port", l.port,
	)

	if err := unix.Exec(argv[0], argv, l.Environ()); err != nil {
		return fmt.Errorf("failed to exec server: %w", err)
	}
	return nil // unreachable
}
