package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakline/internal/domain"
)

var testStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func flatCandle(i int, close float64, volume float64) domain.Candle {
	price := decimal.NewFromFloat(close)
	return domain.Candle{
		Time:   testStart.Add(time.Duration(i) * time.Minute),
		Open:   price,
		High:   price.Add(decimal.NewFromFloat(0.5)),
		Low:    price.Sub(decimal.NewFromFloat(0.5)),
		Close:  price,
		Volume: decimal.NewFromFloat(volume),
	}
}

func TestEngine_NotEnoughData(t *testing.T) {
	e := New(DefaultConfig())

	// warmup depth is max(14, 20)+1 = 21 candles
	for i := 0; i < 20; i++ {
		_, err := e.Ingest(flatCandle(i, 100, 1000))
		require.ErrorIs(t, err, ErrNotEnoughData)
	}

	_, err := e.Ingest(flatCandle(20, 100, 1000))
	require.NoError(t, err)
}

func TestEngine_RSISaturatesOnMonotonicRise(t *testing.T) {
	e := New(DefaultConfig())

	var snap domain.IndicatorSnapshot
	var err error
	for i := 0; i < 25; i++ {
		snap, err = e.Ingest(flatCandle(i, float64(100+i), 1000))
	}
	require.NoError(t, err)

	// all deltas positive, average loss is exactly zero
	assert.True(t, snap.RSI.Equal(decimal.NewFromInt(100)), "got RSI %s", snap.RSI)
}

func TestEngine_RSIBounded(t *testing.T) {
	e := New(DefaultConfig())

	closes := []float64{100, 103, 99, 104, 98, 105, 97, 106, 96, 107, 95, 108, 94, 109, 93, 110, 92, 111, 91, 112, 90, 113}
	var snap domain.IndicatorSnapshot
	var err error
	for i, c := range closes {
		snap, err = e.Ingest(flatCandle(i, c, 1000))
	}
	require.NoError(t, err)

	assert.True(t, snap.RSI.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, snap.RSI.LessThanOrEqual(decimal.NewFromInt(100)))
	assert.False(t, snap.RSI.Equal(decimal.NewFromInt(100)))
}

func TestRSI_ExactValue(t *testing.T) {
	// period 2, closes 100 -> 110 -> 105: avgGain = 10/2, avgLoss = 5/2,
	// RS = 2, RSI = 100 - 100/3
	closes := []decimal.Decimal{
		decimal.NewFromInt(100),
		decimal.NewFromInt(110),
		decimal.NewFromInt(105),
	}

	got := rsi(closes, 2)
	want := decimal.NewFromInt(100).Sub(decimal.NewFromInt(100).Div(decimal.NewFromInt(3)))
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestTrauma_CollapsesToSMAWithSingleCandle(t *testing.T) {
	candles := []domain.Candle{flatCandle(0, 100, 1000)}
	got := trauma(candles, decimal.Zero)
	assert.True(t, got.Equal(decimal.NewFromInt(100)))
}

func TestTrauma_EmptyWindowFallsBackToDefault(t *testing.T) {
	fallback := decimal.NewFromInt(42)
	got := trauma(nil, fallback)
	assert.True(t, got.Equal(fallback))
}

func TestTrauma_DiscountsVolatility(t *testing.T) {
	// two identical candles with range 1.0: SMA = 100, TR = high-low = 1,
	// trauma = 100 - 0.5
	candles := []domain.Candle{flatCandle(0, 100, 1000), flatCandle(1, 100, 1000)}
	got := trauma(candles, decimal.Zero)
	assert.True(t, got.Equal(decimal.NewFromFloat(99.5)), "got %s", got)
}

func TestBreakout_RequiresVolumeSurge(t *testing.T) {
	e := New(DefaultConfig())

	for i := 0; i < 20; i++ {
		_, _ = e.Ingest(flatCandle(i, float64(100+i), 1000))
	}

	// close far above the trailing high with quiet volume: price alone never triggers
	snap, err := e.Ingest(flatCandle(20, 200, 1000))
	require.NoError(t, err)
	assert.Equal(t, domain.BreakoutNone, snap.Breakout)

	// exactly 1.2x average volume is not a surge
	snap, err = e.Ingest(flatCandle(21, 210, 1200))
	require.NoError(t, err)
	assert.Equal(t, domain.BreakoutNone, snap.Breakout)
}

func TestBreakout_UpOnPriceAndVolume(t *testing.T) {
	e := New(DefaultConfig())

	var snap domain.IndicatorSnapshot
	var err error
	for i := 0; i < 20; i++ {
		snap, err = e.Ingest(flatCandle(i, float64(100+i), 1000))
	}

	// close 130 > trailing max high 119.5, volume 2x average
	snap, err = e.Ingest(flatCandle(20, 130, 2000))
	require.NoError(t, err)
	assert.Equal(t, domain.BreakoutUp, snap.Breakout)
}

func TestBreakout_DownOnPriceAndVolume(t *testing.T) {
	e := New(DefaultConfig())

	for i := 0; i < 20; i++ {
		_, _ = e.Ingest(flatCandle(i, float64(120-i), 1000))
	}

	snap, err := e.Ingest(flatCandle(20, 80, 2000))
	require.NoError(t, err)
	assert.Equal(t, domain.BreakoutDown, snap.Breakout)
}

func TestBreakout_InsufficientLookback(t *testing.T) {
	candles := []domain.Candle{flatCandle(0, 100, 1000), flatCandle(1, 200, 5000)}
	assert.Equal(t, domain.BreakoutNone, breakout(candles, 20))
}

func TestEngine_WindowEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowCapacity = 30
	e := New(cfg)

	for i := 0; i < 50; i++ {
		_, _ = e.Ingest(flatCandle(i, float64(100+i), 1000))
	}

	assert.Equal(t, 30, e.Window().Len())
}
