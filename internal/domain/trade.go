package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an immutable record of one closed position. Trades are appended
// once per close and never mutated or removed.
type Trade struct {
	EntryTime  time.Time       `json:"entry_time"`
	ExitTime   time.Time       `json:"exit_time"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
	Side       string          `json:"side"`
	Quantity   decimal.Decimal `json:"quantity"`
	PnL        decimal.Decimal `json:"pnl"`
	Reason     string          `json:"reason"`
}

// PerformanceSummary is derived from the closed-trade history on demand.
type PerformanceSummary struct {
	TradeCount int             `json:"trade_count"`
	WinCount   int             `json:"win_count"`
	WinRate    decimal.Decimal `json:"win_rate"`
	AveragePnL decimal.Decimal `json:"average_pnl"`
	BestPnL    decimal.Decimal `json:"best_pnl"`
	WorstPnL   decimal.Decimal `json:"worst_pnl"`
	TotalPnL   decimal.Decimal `json:"total_pnl"`
}

// Summarize derives performance metrics from a sequence of closed trades.
// With no trades every metric is zero; there is no division by zero.
func Summarize(trades []Trade, totalPnL decimal.Decimal) PerformanceSummary {
	summary := PerformanceSummary{
		TradeCount: len(trades),
		TotalPnL:   totalPnL,
	}
	if len(trades) == 0 {
		return summary
	}

	summary.BestPnL = trades[0].PnL
	summary.WorstPnL = trades[0].PnL

	sum := decimal.Zero
	for _, t := range trades {
		sum = sum.Add(t.PnL)
		if t.PnL.GreaterThan(decimal.Zero) {
			summary.WinCount++
		}
		if t.PnL.GreaterThan(summary.BestPnL) {
			summary.BestPnL = t.PnL
		}
		if t.PnL.LessThan(summary.WorstPnL) {
			summary.WorstPnL = t.PnL
		}
	}

	count := decimal.NewFromInt(int64(len(trades)))
	summary.AveragePnL = sum.Div(count)
	summary.WinRate = decimal.NewFromInt(int64(summary.WinCount)).Div(count)

	return summary
}
