// Package probe implements the database readiness probe.
//
// Bringing a backend up in a container environment races against its
// database: the service container usually starts before Postgres accepts
// connections. The probe blocks the bootstrap sequence until the endpoint
// is reachable, retrying under exponential backoff with an overall
// deadline so a misconfigured host fails the deploy instead of hanging it.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/seefood/mooring/internal/logger"
)

// ErrDeadlineExceeded is returned when the endpoint did not become
// reachable within the configured MaxElapsedTime.
var ErrDeadlineExceeded = errors.New("probe deadline exceeded")

// Policy is the retry policy for the readiness probe.
type Policy struct {
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration

	// MaxInterval caps backoff growth.
	MaxInterval time.Duration

	// Multiplier is the backoff growth factor.
	Multiplier float64

	// MaxElapsedTime is the overall deadline. Zero retries forever.
	MaxElapsedTime time.Duration

	// DialTimeout bounds each individual connection attempt.
	DialTimeout time.Duration
}

// Waiter probes a TCP endpoint until it accepts connections.
type Waiter struct {
	addr   string
	policy Policy

	// dial is swapped out in tests.
	dial func(ctx context.Context, addr string, timeout time.Duration) error
}

// NewWaiter returns a Waiter for the given host:port address.
func NewWaiter(addr string, policy Policy) *Waiter {
	return &Waiter{
		addr:   addr,
		policy: policy,
		dial:   dialTCP,
	}
}

// Wait blocks until the endpoint accepts a TCP connection, the policy
// deadline passes, or ctx is cancelled. The returned error wraps
// ErrDeadlineExceeded together with the last dial failure when the
// deadline is the cause.
func (w *Waiter) Wait(ctx context.Context) error {
	return w.WaitReady(ctx, func(ctx context.Context) error {
		return w.dial(ctx, w.addr, w.policy.DialTimeout)
	})
}

// WaitReady retries an arbitrary readiness check under the waiter's
// backoff policy. Used for checks beyond the raw TCP dial, like
// verifying that Postgres is past its recovery window and accepting
// queries.
func (w *Waiter) WaitReady(ctx context.Context, check func(ctx context.Context) error) error {
	log := logger.With("addr", w.addr)
	log.Info("waiting for endpoint")

	start := time.Now()
	attempt := 0
	var lastErr error

	operation := func() error {
		attempt++
		if err := check(ctx); err != nil {
			lastErr = err
			log.Debug("endpoint not ready", "attempt", attempt, "error", err)
			return err
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(w.backoff(), ctx))
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("probe cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("%w after %s (%d attempts): %v",
			ErrDeadlineExceeded, time.Since(start).Round(time.Millisecond), attempt, lastErr)
	}

	log.Info("endpoint ready",
		"attempts", attempt,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

// Reachable reports whether a single immediate dial succeeds. Used as the
// satisfaction predicate so an already-reachable database skips the
// backoff machinery entirely.
func (w *Waiter) Reachable(ctx context.Context) bool {
	return w.dial(ctx, w.addr, w.policy.DialTimeout) == nil
}

func (w *Waiter) backoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.policy.InitialInterval
	b.MaxInterval = w.policy.MaxInterval
	b.Multiplier = w.policy.Multiplier
	// backoff treats 0 as "no overall deadline", same as the policy.
	b.MaxElapsedTime = w.policy.MaxElapsedTime
	b.Reset()
	return b
}

func dialTCP(ctx context.Context, addr string, timeout time.Duration) error {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
