package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPolicy keeps retries fast so deadline tests finish quickly.
func testPolicy() Policy {
	return Policy{
		InitialInterval: 5 * time.Millisecond,
		MaxInterval:     20 * time.Millisecond,
		Multiplier:      2.0,
		MaxElapsedTime:  250 * time.Millisecond,
		DialTimeout:     50 * time.Millisecond,
	}
}

func TestWaitImmediateSuccess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	w := NewWaiter(ln.Addr().String(), testPolicy())
	assert.NoError(t, w.Wait(context.Background()))
	assert.True(t, w.Reachable(context.Background()))
}

func TestWaitDeadlineExceeded(t *testing.T) {
	// Grab a port and close it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	w := NewWaiter(addr, testPolicy())
	err = w.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeadlineExceeded)
	assert.False(t, w.Reachable(context.Background()))
}

func TestWaitSucceedsAfterRetries(t *testing.T) {
	refused := errors.New("connection refused")
	var attempts int

	w := NewWaiter("db:5432", testPolicy())
	w.dial = func(ctx context.Context, addr string, timeout time.Duration) error {
		attempts++
		if attempts < 3 {
			return refused
		}
		return nil
	}

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 3, attempts)
}

func TestWaitCancellation(t *testing.T) {
	policy := testPolicy()
	policy.MaxElapsedTime = 0 // unbounded; only cancellation can stop it

	w := NewWaiter("db:5432", policy)
	w.dial = func(ctx context.Context, addr string, timeout time.Duration) error {
		return errors.New("connection refused")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := w.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrDeadlineExceeded)
}

func TestWaitReportsLastDialError(t *testing.T) {
	w := NewWaiter("db:5432", testPolicy())
	w.dial = func(ctx context.Context, addr string, timeout time.Duration) error {
		return errors.New("connection refused")
	}

	err := w.Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
