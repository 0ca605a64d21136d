package engine

import (
	"github.com/shopspring/decimal"

	"breakline/internal/domain"
)

var (
	hundred           = decimal.NewFromInt(100)
	half              = decimal.NewFromFloat(0.5)
	volumeSurgeFactor = decimal.NewFromFloat(1.2)
)

// rsi computes the Relative Strength Index over the close-to-close deltas of
// the given closes. The average gain and loss are plain means over the
// period. A zero average loss saturates RSI to 100; this is a deliberate
// policy, not an error.
func rsi(closes []decimal.Decimal, period int) decimal.Decimal {
	if len(closes) < 2 || period <= 0 {
		return decimal.NewFromInt(50)
	}

	gain := decimal.Zero
	loss := decimal.Zero
	for i := 1; i < len(closes); i++ {
		delta := closes[i].Sub(closes[i-1])
		if delta.GreaterThan(decimal.Zero) {
			gain = gain.Add(delta)
		} else {
			loss = loss.Add(delta.Neg())
		}
	}

	periods := decimal.NewFromInt(int64(period))
	avgGain := gain.Div(periods)
	avgLoss := loss.Div(periods)

	if avgLoss.IsZero() {
		return hundred
	}

	rs := avgGain.Div(avgLoss)
	return hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs)))
}

// trauma computes the composite trend/volatility baseline: the simple moving
// average of closes minus half the average true range over the same candles.
// With fewer than 2 candles no true range exists and the value collapses to
// the plain SMA; with an empty window the fallback price is returned.
func trauma(candles []domain.Candle, fallback decimal.Decimal) decimal.Decimal {
	if len(candles) == 0 {
		return fallback
	}

	sum := decimal.Zero
	for _, c := range candles {
		sum = sum.Add(c.Close)
	}
	sma := sum.Div(decimal.NewFromInt(int64(len(candles))))

	if len(candles) < 2 {
		return sma
	}

	trSum := decimal.Zero
	for i := 1; i < len(candles); i++ {
		trSum = trSum.Add(trueRange(candles[i], candles[i-1].Close))
	}
	atr := trSum.Div(decimal.NewFromInt(int64(len(candles) - 1)))

	return sma.Sub(atr.Mul(half))
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func trueRange(c domain.Candle, prevClose decimal.Decimal) decimal.Decimal {
	tr := c.High.Sub(c.Low)
	if hc := c.High.Sub(prevClose).Abs(); hc.GreaterThan(tr) {
		tr = hc
	}
	if lc := c.Low.Sub(prevClose).Abs(); lc.GreaterThan(tr) {
		tr = lc
	}
	return tr
}

// breakout detects a close beyond the trailing high/low accompanied by a
// volume surge. Resistance, support and average volume are taken over all
// but the last candle of the lookback window. The volume condition is
// mandatory: price alone never triggers a breakout.
func breakout(candles []domain.Candle, lookback int) domain.BreakoutDirection {
	if len(candles) < lookback || len(candles) < 2 {
		return domain.BreakoutNone
	}

	prior := candles[:len(candles)-1]
	current := candles[len(candles)-1]

	resistance := prior[0].High
	support := prior[0].Low
	volSum := decimal.Zero
	for _, c := range prior {
		if c.High.GreaterThan(resistance) {
			resistance = c.High
		}
		if c.Low.LessThan(support) {
			support = c.Low
		}
		volSum = volSum.Add(c.Volume)
	}
	avgVolume := volSum.Div(decimal.NewFromInt(int64(len(prior))))

	if !current.Volume.GreaterThan(avgVolume.Mul(volumeSurgeFactor)) {
		return domain.BreakoutNone
	}

	switch {
	case current.Close.GreaterThan(resistance):
		return domain.BreakoutUp
	case current.Close.LessThan(support):
		return domain.BreakoutDown
	default:
		return domain.BreakoutNone
	}
}
