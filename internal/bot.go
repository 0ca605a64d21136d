package internal

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"breakline/config"
	"breakline/internal/domain"
	"breakline/internal/engine"
	"breakline/internal/ledger"
	"breakline/internal/metrics"
	"breakline/internal/notify"
	"breakline/internal/services/feed"
	"breakline/internal/services/gateway"
	"breakline/internal/strategy"
	"breakline/pkg/indicators"
)

const notifyTimeout = 30 * time.Second

// Bot wires the candle feed, indicator engine, signal policy and position
// ledger into one trading loop. A single goroutine owns all mutation; the
// mutex only guards the snapshot state read by the web surface.
type Bot struct {
	cfg    config.Config
	logger *zap.Logger

	feed     feed.MarketDataSource
	engine   *engine.Engine
	policy   *strategy.Policy
	ledger   *ledger.Ledger
	notifier notify.Notifier
	metrics  *metrics.Metrics

	mu           sync.RWMutex
	running      bool
	cancel       context.CancelFunc
	done         chan struct{}
	currentPrice decimal.Decimal
	indicators   *domain.StatusIndicators
	lastUpdate   time.Time
}

func NewBot(
	cfg config.Config,
	source feed.MarketDataSource,
	gw gateway.OrderGateway,
	notifier notify.Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Bot {
	eng := engine.New(engine.Config{
		RSIPeriod:        cfg.RSIPeriod,
		TraumaPeriod:     cfg.TraumaPeriod,
		BreakoutLookback: cfg.BreakoutLookback,
		WindowCapacity:   cfg.WindowSize,
	})

	policy := strategy.New(strategy.Config{
		Overbought:        cfg.Overbought,
		Oversold:          cfg.Oversold,
		MinSignalInterval: cfg.MinSignalInterval,
		DebounceExits:     cfg.DebounceExits,
	}, logger)

	return &Bot{
		cfg:      cfg,
		logger:   logger.With(zap.String("pair", cfg.Pair.String())),
		feed:     source,
		engine:   eng,
		policy:   policy,
		ledger:   ledger.New(gw, cfg.Quantity, logger),
		notifier: notifier,
		metrics:  m,
	}
}

// Start launches the trading loop. Calling Start on a bot that is running,
// or still draining a previous Stop, is a no-op.
func (b *Bot) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})
	b.running = true
	b.metrics.BotRunning.Set(1)

	go b.run(ctx)

	b.logger.Info("trading loop started")
}

// Stop cancels the loop and waits for it to drain. The bot stays marked
// running until the drain completes, so a Start arriving mid-stop cannot
// launch a second loop. Calling Stop on a stopped bot is a no-op.
func (b *Bot) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	cancel := b.cancel
	done := b.done
	b.mu.Unlock()

	cancel()
	<-done

	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	b.metrics.BotRunning.Set(0)
	b.logger.Info("trading loop stopped")
}

// Status assembles the dashboard read model from the last observed candle
// and the ledger. It never blocks on the trading loop.
func (b *Bot) Status() domain.StatusSnapshot {
	b.mu.RLock()
	running := b.running
	price := b.currentPrice
	ind := b.indicators
	updated := b.lastUpdate
	b.mu.RUnlock()

	snap := b.ledger.Snapshot(10)

	return domain.StatusSnapshot{
		Running:      running,
		CurrentPrice: price,
		Position:     snap.Position,
		Trades:       snap.Trades,
		TotalTrades:  snap.Summary.TradeCount,
		TotalPnL:     snap.TotalPnL,
		WinRate:      snap.Summary.WinRate,
		Indicators:   ind,
		Timestamp:    updated,
	}
}

func (b *Bot) run(ctx context.Context) {
	defer close(b.done)

	for {
		candle, err := b.feed.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.metrics.FeedErrors.Inc()
			b.logger.Warn("feed error, backing off",
				zap.Duration("backoff", b.cfg.ErrorBackoff), zap.Error(err))

			select {
			case <-ctx.Done():
				return
			case <-time.After(b.cfg.ErrorBackoff):
			}
			continue
		}
		if ctx.Err() != nil {
			return
		}

		b.process(ctx, candle)
	}
}

func (b *Bot) process(ctx context.Context, candle domain.Candle) {
	b.metrics.CandlesIngested.Inc()
	b.metrics.CurrentPrice.Set(candle.Close.InexactFloat64())

	snap, err := b.engine.Ingest(candle)
	if err != nil {
		if errors.Is(err, engine.ErrNotEnoughData) {
			b.updateObserved(candle, nil)
			return
		}
		b.logger.Warn("indicator computation failed", zap.Error(err))
		return
	}

	b.updateObserved(candle, &snap)

	signal := b.policy.Evaluate(snap, candle.Close, b.ledger.Position(), candle.Time)
	if signal == domain.SignalNone {
		return
	}

	b.metrics.SignalsTotal.WithLabelValues(signal.String()).Inc()
	b.logger.Info("signal accepted",
		zap.String("signal", signal.String()),
		zap.String("close", candle.Close.String()),
		zap.String("rsi", snap.RSI.StringFixed(2)))

	b.act(ctx, signal, candle)
}

func (b *Bot) act(ctx context.Context, signal domain.Signal, candle domain.Candle) {
	// an accepted signal's order finishes even if Stop cancels the loop
	// mid-placement; Stop waits on the loop draining, not on this call
	ctx = context.WithoutCancel(ctx)

	switch signal {
	case domain.SignalEnterLong, domain.SignalEnterShort:
		side := domain.SideLong
		order := gateway.SideBuy
		if signal == domain.SignalEnterShort {
			side = domain.SideShort
			order = gateway.SideSell
		}

		pos, err := b.ledger.Open(ctx, side, candle.Close, candle.Time)
		if err != nil {
			b.reportActError("open position", err)
			return
		}
		b.metrics.OrdersPlaced.WithLabelValues(string(order)).Inc()
		b.announce(notify.Event{
			Kind:     notify.EventOpened,
			Pair:     b.cfg.Pair,
			Side:     pos.Side,
			Price:    pos.EntryPrice,
			Quantity: pos.Quantity,
			Time:     candle.Time,
		})

	case domain.SignalExitLong, domain.SignalExitShort:
		side := domain.SideLong
		order := gateway.SideSell
		reason := "rsi_overbought"
		if signal == domain.SignalExitShort {
			side = domain.SideShort
			order = gateway.SideBuy
			reason = "rsi_oversold"
		}

		trade, err := b.ledger.Close(ctx, side, candle.Close, candle.Time, reason)
		if err != nil {
			b.reportActError("close position", err)
			return
		}
		b.metrics.OrdersPlaced.WithLabelValues(string(order)).Inc()
		b.metrics.TradesClosed.Inc()
		b.metrics.TotalPnL.Set(b.ledger.TotalPnL().InexactFloat64())
		b.announce(notify.Event{
			Kind:     notify.EventClosed,
			Pair:     b.cfg.Pair,
			Side:     side,
			Price:    trade.ExitPrice,
			Quantity: trade.Quantity,
			PnL:      trade.PnL,
			Reason:   trade.Reason,
			Time:     candle.Time,
		})
	}
}

func (b *Bot) reportActError(op string, err error) {
	if errors.Is(err, ledger.ErrInvariant) {
		b.logger.Error("position invariant violated", zap.String("op", op), zap.Error(err))
		return
	}
	b.logger.Warn("order failed, position unchanged", zap.String("op", op), zap.Error(err))
}

func (b *Bot) updateObserved(candle domain.Candle, snap *domain.IndicatorSnapshot) {
	var ind *domain.StatusIndicators
	if snap != nil {
		ind = &domain.StatusIndicators{
			RSI:                snap.RSI,
			Trauma:             snap.Trauma,
			Breakout:           snap.Breakout.String(),
			ExtendedIndicators: indicators.Extended(b.engine.Window()),
		}
	}

	b.mu.Lock()
	b.currentPrice = candle.Close
	b.lastUpdate = candle.Time
	if ind != nil {
		b.indicators = ind
	}
	b.mu.Unlock()
}

// announce delivers the event off the hot path. Notification failures are
// logged and never affect trading state.
func (b *Bot) announce(event notify.Event) {
	if b.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := b.notifier.Send(ctx, event); err != nil {
			b.logger.Warn("notification delivery failed", zap.Error(err))
		}
	}()
}
