// Package strategy combines indicator snapshots and position state into
// entry/exit signals, applying a minimum-interval debounce between entries.
package strategy

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"breakline/internal/domain"
)

// Config enumerates the policy thresholds.
type Config struct {
	Overbought        decimal.Decimal
	Oversold          decimal.Decimal
	MinSignalInterval time.Duration
	// DebounceExits also gates exit signals behind the interval check.
	// Off by default: exits protect open risk and must not be starved.
	DebounceExits bool
}

// DefaultConfig returns the default policy thresholds.
func DefaultConfig() Config {
	return Config{
		Overbought:        decimal.NewFromInt(70),
		Oversold:          decimal.NewFromInt(30),
		MinSignalInterval: 300 * time.Second,
	}
}

// Policy derives one signal per candle. It carries the last accepted entry
// side and time for debouncing. Owned by the consumer goroutine; not safe
// for concurrent use.
type Policy struct {
	cfg          Config
	logger       *zap.Logger
	lastSide     domain.Side
	lastSignalAt time.Time
}

// New creates a signal policy.
func New(cfg Config, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Overbought.IsZero() {
		cfg.Overbought = decimal.NewFromInt(70)
	}
	if cfg.Oversold.IsZero() {
		cfg.Oversold = decimal.NewFromInt(30)
	}
	if cfg.MinSignalInterval <= 0 {
		cfg.MinSignalInterval = 300 * time.Second
	}
	return &Policy{cfg: cfg, logger: logger}
}

// Evaluate maps the indicator snapshot and current position onto a signal.
// Entries require the close on the right side of the trauma line plus a
// confirmed breakout; exits trigger on RSI extremes. An accepted entry
// records the debounce anchor; an accepted exit resets it.
func (p *Policy) Evaluate(snap domain.IndicatorSnapshot, close decimal.Decimal, pos *domain.Position, now time.Time) domain.Signal {
	signal := p.rawSignal(snap, close, pos)
	if signal == domain.SignalNone {
		return domain.SignalNone
	}

	if p.debounced(signal, now) {
		p.logger.Debug("signal suppressed by debounce",
			zap.String("signal", signal.String()),
			zap.Time("last_signal_at", p.lastSignalAt),
			zap.Duration("min_interval", p.cfg.MinSignalInterval))
		return domain.SignalNone
	}

	if signal.IsEntry() {
		if signal == domain.SignalEnterLong {
			p.lastSide = domain.SideLong
		} else {
			p.lastSide = domain.SideShort
		}
		p.lastSignalAt = now
	} else {
		p.lastSide = domain.SideNone
		p.lastSignalAt = time.Time{}
	}

	return signal
}

func (p *Policy) rawSignal(snap domain.IndicatorSnapshot, close decimal.Decimal, pos *domain.Position) domain.Signal {
	if pos == nil {
		if close.GreaterThan(snap.Trauma) && snap.Breakout == domain.BreakoutUp {
			return domain.SignalEnterLong
		}
		if close.LessThan(snap.Trauma) && snap.Breakout == domain.BreakoutDown {
			return domain.SignalEnterShort
		}
		return domain.SignalNone
	}

	switch pos.Side {
	case domain.SideLong:
		if snap.RSI.GreaterThan(p.cfg.Overbought) {
			return domain.SignalExitLong
		}
	case domain.SideShort:
		if snap.RSI.LessThan(p.cfg.Oversold) {
			return domain.SignalExitShort
		}
	}
	return domain.SignalNone
}

func (p *Policy) debounced(signal domain.Signal, now time.Time) bool {
	if p.lastSignalAt.IsZero() {
		return false
	}
	if signal.IsExit() && !p.cfg.DebounceExits {
		return false
	}
	return now.Sub(p.lastSignalAt) < p.cfg.MinSignalInterval
}

// LastSignal reports the last accepted entry side and time. SideNone and
// the zero time mean no entry is pending debounce.
func (p *Policy) LastSignal() (domain.Side, time.Time) {
	return p.lastSide, p.lastSignalAt
}
