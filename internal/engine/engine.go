// Package engine maintains the rolling candle window and computes the
// indicator snapshot (RSI, trauma line, breakout) driving the signal policy.
package engine

import (
	"github.com/pkg/errors"

	"breakline/internal/domain"
)

// ErrNotEnoughData is returned by Ingest while the window is too shallow to
// compute indicators. It is an expected condition, not a failure.
var ErrNotEnoughData = errors.New("not enough candles for indicators")

// Config enumerates the indicator parameters. Strategy variants are
// configurations of this struct, not separate code paths.
type Config struct {
	RSIPeriod        int
	TraumaPeriod     int
	BreakoutLookback int
	WindowCapacity   int
}

// DefaultConfig returns the default indicator parameters.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:        14,
		TraumaPeriod:     20,
		BreakoutLookback: 20,
		WindowCapacity:   domain.DefaultWindowCapacity,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = def.RSIPeriod
	}
	if c.TraumaPeriod <= 0 {
		c.TraumaPeriod = def.TraumaPeriod
	}
	if c.BreakoutLookback <= 0 {
		c.BreakoutLookback = def.BreakoutLookback
	}
	if c.WindowCapacity <= 0 {
		c.WindowCapacity = def.WindowCapacity
	}
	return c
}

// Engine ingests candles into a bounded window and derives indicator
// snapshots. It is owned by the single consumer goroutine and is not safe
// for concurrent use.
type Engine struct {
	cfg    Config
	window *domain.PriceWindow
}

// New creates an indicator engine with the given parameters.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:    cfg,
		window: domain.NewPriceWindow(cfg.WindowCapacity),
	}
}

// minCandles is the warmup depth: one extra candle is needed for the first
// close-to-close delta.
func (e *Engine) minCandles() int {
	depth := e.cfg.RSIPeriod
	if e.cfg.TraumaPeriod > depth {
		depth = e.cfg.TraumaPeriod
	}
	return depth + 1
}

// Ingest appends a candle to the window and returns the updated indicator
// snapshot. While the window holds fewer than max(rsiPeriod, traumaPeriod)+1
// candles it returns ErrNotEnoughData.
func (e *Engine) Ingest(c domain.Candle) (domain.IndicatorSnapshot, error) {
	e.window.Push(c)

	if e.window.Len() < e.minCandles() {
		return domain.IndicatorSnapshot{}, ErrNotEnoughData
	}

	return domain.IndicatorSnapshot{
		RSI:      rsi(e.window.Closes(e.cfg.RSIPeriod+1), e.cfg.RSIPeriod),
		Trauma:   trauma(e.window.Tail(e.cfg.TraumaPeriod), c.Close),
		Breakout: breakout(e.window.Tail(e.cfg.BreakoutLookback), e.cfg.BreakoutLookback),
	}, nil
}

// Window exposes the underlying candle window for read-only use.
func (e *Engine) Window() *domain.PriceWindow {
	return e.window
}
