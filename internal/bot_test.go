package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breakline/config"
	"breakline/internal/domain"
	"breakline/internal/metrics"
	"breakline/internal/services/gateway"
)

// scriptFeed replays a fixed candle sequence, then blocks until cancelled.
type scriptFeed struct {
	candles chan domain.Candle
}

func newScriptFeed(buffer int) *scriptFeed {
	return &scriptFeed{candles: make(chan domain.Candle, buffer)}
}

func (f *scriptFeed) push(c domain.Candle) {
	f.candles <- c
}

func (f *scriptFeed) Next(ctx context.Context) (domain.Candle, error) {
	select {
	case <-ctx.Done():
		return domain.Candle{}, ctx.Err()
	case c := <-f.candles:
		return c, nil
	}
}

func testCandle(i int, close, volume float64) domain.Candle {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := decimal.NewFromFloat(close)
	return domain.Candle{
		Time:   start.Add(time.Duration(i) * time.Minute),
		Open:   c,
		High:   c.Add(decimal.RequireFromString("0.5")),
		Low:    c.Sub(decimal.RequireFromString("0.5")),
		Close:  c,
		Volume: decimal.NewFromFloat(volume),
	}
}

func testBot(t *testing.T, feed *scriptFeed) *Bot {
	t.Helper()

	cfg := config.Default()
	gw := gateway.NewSandbox(cfg.Pair, zap.NewNop())
	return NewBot(cfg, feed, gw, nil, metrics.New(), zap.NewNop())
}

func TestBotBreakoutRoundTrip(t *testing.T) {
	feed := newScriptFeed(64)

	// 21 rising candles: the final one clears the prior high on a volume
	// surge, producing exactly one long entry at close 120
	for i := 0; i < 21; i++ {
		volume := 1000.0
		if i == 20 {
			volume = 2500.0
		}
		feed.push(testCandle(i, 100+float64(i), volume))
	}

	bot := testBot(t, feed)
	bot.Start()
	defer bot.Stop()

	require.Eventually(t, func() bool {
		status := bot.Status()
		return status.Position != nil
	}, 5*time.Second, 10*time.Millisecond, "expected an open position after the breakout candle")

	status := bot.Status()
	require.Equal(t, domain.SideLong, status.Position.Side)
	require.Equal(t, "120", status.Position.EntryPrice.String())
	require.Equal(t, "0.01", status.Position.Quantity.String())
	require.Contains(t, status.Position.OrderID, "sandbox_")

	// with every close rising, RSI is pinned at 100: the next candle
	// triggers the overbought exit even inside the debounce interval
	feed.push(testCandle(21, 121, 1000))

	require.Eventually(t, func() bool {
		return bot.Status().TotalTrades == 1
	}, 5*time.Second, 10*time.Millisecond, "expected the overbought exit to close the position")

	status = bot.Status()
	require.Nil(t, status.Position)
	require.Len(t, status.Trades, 1)

	trade := status.Trades[0]
	require.Equal(t, "long", trade.Side)
	require.Equal(t, "120", trade.EntryPrice.String())
	require.Equal(t, "121", trade.ExitPrice.String())
	require.Equal(t, "0.01", trade.PnL.String())
	require.Equal(t, "rsi_overbought", trade.Reason)
	require.Equal(t, "0.01", status.TotalPnL.String())
	require.Equal(t, "1", status.WinRate.String())
}

func TestBotWarmupProducesNoTrades(t *testing.T) {
	feed := newScriptFeed(32)
	for i := 0; i < 15; i++ {
		feed.push(testCandle(i, 100+float64(i), 1000))
	}

	bot := testBot(t, feed)
	bot.Start()
	defer bot.Stop()

	require.Eventually(t, func() bool {
		return bot.Status().CurrentPrice.Equal(decimal.NewFromInt(114))
	}, 5*time.Second, 10*time.Millisecond)

	status := bot.Status()
	require.Nil(t, status.Position)
	require.Zero(t, status.TotalTrades)
	require.Nil(t, status.Indicators)
}

func TestBotStartStopIdempotent(t *testing.T) {
	feed := newScriptFeed(1)
	bot := testBot(t, feed)

	bot.Start()
	bot.Start() // second call is a no-op

	require.True(t, bot.Status().Running)

	bot.Stop()
	bot.Stop() // second call is a no-op

	require.False(t, bot.Status().Running)
}

// blockingGateway parks every placement until released, counting calls.
type blockingGateway struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{release: make(chan struct{})}
}

func (g *blockingGateway) PlaceOrder(ctx context.Context, side gateway.Side, quantity decimal.Decimal) (gateway.Order, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	<-g.release
	return gateway.Order{ID: "held_order"}, nil
}

func (g *blockingGateway) placed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestBotStartDuringStopDrainIsNoOp(t *testing.T) {
	feed := newScriptFeed(64)
	for i := 0; i < 21; i++ {
		volume := 1000.0
		if i == 20 {
			volume = 2500.0
		}
		feed.push(testCandle(i, 100+float64(i), volume))
	}

	gw := newBlockingGateway()
	bot := NewBot(config.Default(), feed, gw, nil, metrics.New(), zap.NewNop())
	bot.Start()

	// the loop is now parked inside the entry order
	require.Eventually(t, func() bool {
		return gw.placed() == 1
	}, 5*time.Second, 10*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		bot.Stop()
		close(stopped)
	}()

	// Stop is waiting on the drain; the bot still counts as running, so a
	// restart request must not spawn a second consumer loop
	time.Sleep(50 * time.Millisecond)
	require.True(t, bot.Status().Running)
	bot.Start()

	// a second breakout sequence is waiting; only a rogue second loop could
	// consume it while the first is parked in the gateway
	for i := 0; i < 22; i++ {
		volume := 1000.0
		if i == 21 {
			volume = 2500.0
		}
		feed.push(testCandle(30+i, 200+float64(i), volume))
	}
	require.Never(t, func() bool {
		return gw.placed() > 1
	}, 300*time.Millisecond, 20*time.Millisecond)

	close(gw.release)
	<-stopped

	status := bot.Status()
	require.False(t, status.Running)
	require.Equal(t, 1, gw.placed())
	require.NotNil(t, status.Position)
}

func TestBotStatusWhileStopped(t *testing.T) {
	bot := testBot(t, newScriptFeed(1))

	status := bot.Status()
	require.False(t, status.Running)
	require.True(t, status.CurrentPrice.IsZero())
	require.Empty(t, status.Trades)
}
