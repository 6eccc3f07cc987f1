package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInterruptChShutdownOnTerm(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan struct{})
	InterruptCh(ctx, func() { close(shutdown) })

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-shutdown:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Expected shutdown to be called on SIGTERM")
	}
}

func TestInterruptChStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statsCh := InterruptCh(ctx, func() {})
	done := make(chan string, 1)
	go func() { done <- <-statsCh }()

	// Give the goroutine a chance to block on the stats channel.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case hint := <-done:
		require.NotEmpty(t, hint)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Expected stats request on SIGINT")
	}
}
