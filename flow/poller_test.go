package flow

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerRestartCancelsPrevious(t *testing.T) {
	poller := &Poller{Interval: 5 * time.Millisecond}
	defer poller.Stop()

	var firstCalls atomic.Int32
	first := poller.Start(context.Background(), func(context.Context) (bool, error) {
		firstCalls.Add(1)
		return false, nil
	})

	require.Eventually(t, func() bool { return firstCalls.Load() > 0 }, time.Second, time.Millisecond)

	second := poller.Start(context.Background(), func(context.Context) (bool, error) {
		return true, nil
	})

	assert.ErrorIs(t, <-first, context.Canceled)

	callsAfterRestart := firstCalls.Load()
	assert.NoError(t, <-second)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, callsAfterRestart, firstCalls.Load())
	assert.False(t, poller.Running())
}

func TestPollerParentContext(t *testing.T) {
	poller := &Poller{Interval: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := <-poller.Start(ctx, func(context.Context) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollerStopWithoutStart(t *testing.T) {
	poller := &Poller{}
	poller.Stop()
	assert.False(t, poller.Running())
}
