// Package indicators provides supplementary trend indicators (EMA, MACD)
// shown on the dashboard alongside the signal-driving snapshot.
package indicators

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"

	"breakline/internal/domain"
)

const (
	emaShortPeriod = 20
	emaLongPeriod  = 50
	macdMinPoints  = 26
)

// CalculateEMA calculates the Exponential Moving Average for the given period.
func CalculateEMA(closes []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if len(closes) < period {
		return nil, fmt.Errorf("not enough data points: need %d, got %d", period, len(closes))
	}

	ema := trend.NewEmaWithPeriod[float64](period)
	outputChan := ema.Compute(helper.SliceToChan(decimalsToFloat64(closes)))

	return float64ToDecimals(helper.ChanToSlice(outputChan)), nil
}

// CalculateMACD calculates MACD line values.
func CalculateMACD(closes []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(closes) < macdMinPoints {
		return nil, fmt.Errorf("not enough data points for MACD: need at least %d, got %d", macdMinPoints, len(closes))
	}

	macd := trend.NewMacd[float64]()
	macdChan, signalChan := macd.Compute(helper.SliceToChan(decimalsToFloat64(closes)))
	// drain signal channel to prevent blocking
	go func() {
		for range signalChan {
		}
	}()

	return float64ToDecimals(helper.ChanToSlice(macdChan)), nil
}

// Extended derives the latest EMA20/EMA50/MACD values from the window.
// Returns nil while the window is too shallow.
func Extended(window *domain.PriceWindow) *domain.ExtendedIndicators {
	closes := window.Closes(window.Len())
	if len(closes) < emaLongPeriod {
		return nil
	}

	ema20, err := CalculateEMA(closes, emaShortPeriod)
	if err != nil || len(ema20) == 0 {
		return nil
	}
	ema50, err := CalculateEMA(closes, emaLongPeriod)
	if err != nil || len(ema50) == 0 {
		return nil
	}
	macd, err := CalculateMACD(closes)
	if err != nil || len(macd) == 0 {
		return nil
	}

	return &domain.ExtendedIndicators{
		EMA20: ema20[len(ema20)-1],
		EMA50: ema50[len(ema50)-1],
		MACD:  macd[len(macd)-1],
	}
}

func decimalsToFloat64(decimals []decimal.Decimal) []float64 {
	result := make([]float64, len(decimals))
	for i, d := range decimals {
		result[i], _ = d.Float64()
	}
	return result
}

func float64ToDecimals(floats []float64) []decimal.Decimal {
	result := make([]decimal.Decimal, len(floats))
	for i, f := range floats {
		result[i] = decimal.NewFromFloat(f)
	}
	return result
}
