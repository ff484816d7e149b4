package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay_WithinBounds(t *testing.T) {
	l := New(0.01, 0.05)

	for i := 0; i < 1000; i++ {
		d := l.Delay()
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.LessOrEqual(t, d, 50*time.Millisecond)
	}
}

func TestDelay_EqualBounds(t *testing.T) {
	l := New(0.02, 0.02)

	assert.Equal(t, 20*time.Millisecond, l.Delay())
}

func TestWait_Blocks(t *testing.T) {
	l := New(0.02, 0.03)

	start := time.Now()
	err := l.Wait(context.Background())

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWait_CancelledContext(t *testing.T) {
	l := New(10, 20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCooldown_LongerThanWait(t *testing.T) {
	l := New(0.005, 0.005)

	start := time.Now()
	require.NoError(t, l.Cooldown(context.Background()))

	// cooldownFactor * 5ms
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestWaitBetweenQueries_DoublesJitter(t *testing.T) {
	l := New(0.01, 0.01)

	start := time.Now()
	require.NoError(t, l.WaitBetweenQueries(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestZeroDelayIsImmediate(t *testing.T) {
	l := New(0, 0)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
