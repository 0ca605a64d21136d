package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle single OHLCV candlestick. Immutable once produced.
type Candle struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// DefaultWindowCapacity is the number of candles kept when no explicit
// capacity is configured.
const DefaultWindowCapacity = 100

// PriceWindow is a fixed-capacity, time-ordered sequence of candles.
// The oldest candle is evicted when the capacity is exceeded. Arrival is
// assumed monotonic non-decreasing; a candle carrying the same timestamp as
// the newest one replaces it (the feed re-reported the same period).
type PriceWindow struct {
	capacity int
	candles  []Candle
}

// NewPriceWindow creates a window with the given capacity.
// Non-positive capacities fall back to DefaultWindowCapacity.
func NewPriceWindow(capacity int) *PriceWindow {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &PriceWindow{
		capacity: capacity,
		candles:  make([]Candle, 0, capacity),
	}
}

// Push appends a candle, evicting the oldest one beyond capacity.
func (w *PriceWindow) Push(c Candle) {
	if n := len(w.candles); n > 0 && w.candles[n-1].Time.Equal(c.Time) {
		w.candles[n-1] = c
		return
	}

	w.candles = append(w.candles, c)
	if len(w.candles) > w.capacity {
		w.candles = w.candles[1:]
	}
}

// Len returns the number of candles currently held.
func (w *PriceWindow) Len() int {
	return len(w.candles)
}

// Capacity returns the maximum number of candles held.
func (w *PriceWindow) Capacity() int {
	return w.capacity
}

// Last returns the newest candle, if any.
func (w *PriceWindow) Last() (Candle, bool) {
	if len(w.candles) == 0 {
		return Candle{}, false
	}
	return w.candles[len(w.candles)-1], true
}

// Tail returns the newest n candles in time order. If fewer than n candles
// are held the whole window is returned. Callers must not mutate the result.
func (w *PriceWindow) Tail(n int) []Candle {
	if n <= 0 || n >= len(w.candles) {
		return w.candles
	}
	return w.candles[len(w.candles)-n:]
}

// Closes returns the close prices of the newest n candles in time order.
func (w *PriceWindow) Closes(n int) []decimal.Decimal {
	tail := w.Tail(n)
	closes := make([]decimal.Decimal, len(tail))
	for i, c := range tail {
		closes[i] = c.Close
	}
	return closes
}
