package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSimulateFeedDeterministic(t *testing.T) {
	ctx := context.Background()

	a := NewSimulateFeed(42, 100, time.Minute, 0)
	b := NewSimulateFeed(42, 100, time.Minute, 0)

	for i := 0; i < 50; i++ {
		ca, err := a.Next(ctx)
		require.NoError(t, err)
		cb, err := b.Next(ctx)
		require.NoError(t, err)

		require.True(t, ca.Time.Equal(cb.Time))
		require.True(t, ca.Close.Equal(cb.Close), "candle %d diverged", i)
		require.True(t, ca.Volume.Equal(cb.Volume))
	}
}

func TestSimulateFeedCandleShape(t *testing.T) {
	ctx := context.Background()
	f := NewSimulateFeed(7, 250, time.Minute, 0)

	prev, err := f.Next(ctx)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		c, err := f.Next(ctx)
		require.NoError(t, err)

		require.True(t, c.High.GreaterThanOrEqual(c.Open), "high below open at %d", i)
		require.True(t, c.High.GreaterThanOrEqual(c.Close), "high below close at %d", i)
		require.True(t, c.Low.LessThanOrEqual(c.Open), "low above open at %d", i)
		require.True(t, c.Low.LessThanOrEqual(c.Close), "low above close at %d", i)
		require.True(t, c.Volume.IsPositive())
		require.Equal(t, time.Minute, c.Time.Sub(prev.Time))

		// walk continuity: next candle opens where the last one closed
		require.True(t, c.Open.Equal(prev.Close))
		prev = c
	}
}

func TestSimulateFeedHonorsCancellation(t *testing.T) {
	f := NewSimulateFeed(1, 100, time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := f.Next(ctx) // first candle is immediate
	require.NoError(t, err)

	cancel()
	_, err = f.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
