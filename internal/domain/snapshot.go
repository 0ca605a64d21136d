package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BreakoutDirection direction of a detected breakout, if any.
type BreakoutDirection int

const (
	BreakoutNone BreakoutDirection = iota
	BreakoutUp
	BreakoutDown
)

// String returns the string representation of the breakout direction.
func (b BreakoutDirection) String() string {
	switch b {
	case BreakoutUp:
		return "up"
	case BreakoutDown:
		return "down"
	default:
		return "none"
	}
}

// IndicatorSnapshot holds the indicator values computed from the price
// window at one instant. No history is retained beyond the window itself.
type IndicatorSnapshot struct {
	// RSI is bounded to [0, 100].
	RSI decimal.Decimal
	// Trauma is the composite trend baseline: SMA minus half the average
	// true range.
	Trauma   decimal.Decimal
	Breakout BreakoutDirection
}

// ExtendedIndicators supplementary trend values shown on the dashboard.
// They do not participate in signal decisions.
type ExtendedIndicators struct {
	EMA20 decimal.Decimal `json:"ema20"`
	EMA50 decimal.Decimal `json:"ema50"`
	MACD  decimal.Decimal `json:"macd"`
}

// StatusIndicators is the indicator block of the status payload: the
// signal-driving values plus the supplementary trend values when enough
// history has accumulated.
type StatusIndicators struct {
	RSI      decimal.Decimal `json:"rsi"`
	Trauma   decimal.Decimal `json:"trauma"`
	Breakout string          `json:"breakout"`
	*ExtendedIndicators
}

// StatusSnapshot is the read model exposed to the dashboard. It is an
// internally consistent copy taken under a single short-held lock; readers
// never observe partial state.
type StatusSnapshot struct {
	Running      bool              `json:"bot_running"`
	CurrentPrice decimal.Decimal   `json:"current_price"`
	Position     *Position         `json:"current_position,omitempty"`
	Trades       []Trade           `json:"trades"`
	TotalTrades  int               `json:"total_trades"`
	TotalPnL     decimal.Decimal   `json:"total_pnl"`
	WinRate      decimal.Decimal   `json:"win_rate"`
	Indicators   *StatusIndicators `json:"indicators,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}
