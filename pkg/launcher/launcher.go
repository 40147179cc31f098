// Package launcher hands the process over to the long-running server.
//
// On Unix the launch is an exec-style process replacement: the server
// inherits the bootstrap's PID, so container runtimes and init systems
// deliver signals straight to it with no intermediary shell. On Windows,
// which has no exec, the server runs as a supervised child instead.
package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Launcher starts the configured server process.
type Launcher struct {
	command         []string
	host            string
	port            int
	shutdownTimeout time.Duration
}

// New returns a Launcher for the given server command and listen address.
func New(command []string, host string, port int, shutdownTimeout time.Duration) (*Launcher, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("server command is empty")
	}
	return &Launcher{
		command:         command,
		host:            host,
		port:            port,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Command returns the resolved argv: the first element looked up via
// PATH, the rest passed through.
func (l *Launcher) Command() ([]string, error) {
	path, err := exec.LookPath(l.command[0])
	if err != nil {
		return nil, fmt.Errorf("server binary not found: %w", err)
	}
	argv := make([]string, len(l.command))
	copy(argv, l.command)
	argv[0] = path
	return argv, nil
}

// Environ returns the child environment: the current environment with
// SERVER_HOST and SERVER_PORT set to the configured listen address.
func (l *Launcher) Environ() []string {
	return mergeEnv(os.Environ(), map[string]string{
		"SERVER_HOST": l.host,
		"SERVER_PORT": strconv.Itoa(l.port),
	})
}

// mergeEnv overrides or appends the given variables in a copy of base.
func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))

	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if ok {
			if val, override := overrides[key]; override {
				out = append(out, key+"="+val)
				seen[key] = true
				continue
			}
		}
		out = append(out, kv)
	}
	for key, val := range overrides {
		if !seen[key] {
			out = append(out, key+"="+val)
		}
	}
	return out
}
