// Package ledger owns the position state machine (FLAT, LONG, SHORT) and the
// append-only trade history with realized PnL accounting. It guards order
// issuance: no transition happens unless the gateway confirms the order.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"breakline/internal/domain"
	"breakline/internal/services/gateway"
)

// ErrInvariant marks an illegal transition: an exit while flat or an entry
// while a position is open. The policy filters these upstream, the ledger
// enforces them independently and reports the violation instead of
// executing it.
var ErrInvariant = errors.New("illegal position transition")

// Snapshot is an internally consistent copy of the ledger state, taken
// under one lock acquisition.
type Snapshot struct {
	Position *domain.Position
	Trades   []domain.Trade
	TotalPnL decimal.Decimal
	Summary  domain.PerformanceSummary
}

// Ledger tracks the single open position and all closed trades. Mutations
// come from the one consumer goroutine; the mutex only guards concurrent
// readers taking snapshots.
type Ledger struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	gateway  gateway.OrderGateway
	quantity decimal.Decimal
	position *domain.Position
	trades   []domain.Trade
	totalPnL decimal.Decimal
}

// New creates a ledger trading the given fixed quantity through the gateway.
func New(gw gateway.OrderGateway, quantity decimal.Decimal, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		logger:   logger,
		gateway:  gw,
		quantity: quantity,
	}
}

// Open transitions FLAT -> LONG or FLAT -> SHORT. The order is placed first;
// on gateway failure the ledger stays FLAT and the error is surfaced as
// recoverable. The caller decides whether a later cycle retries.
func (l *Ledger) Open(ctx context.Context, side domain.Side, price decimal.Decimal, now time.Time) (*domain.Position, error) {
	if l.Position() != nil {
		return nil, errors.Wrapf(ErrInvariant, "enter-%s while a position is open", side)
	}

	orderSide := gateway.SideBuy
	if side == domain.SideShort {
		orderSide = gateway.SideSell
	}

	order, err := l.gateway.PlaceOrder(ctx, orderSide, l.quantity)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s abandoned, gateway rejected order", side)
	}

	pos, err := domain.NewPosition(side, price, l.quantity, now, order.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid position parameters")
	}

	l.mu.Lock()
	l.position = pos
	l.mu.Unlock()

	l.logger.Info("position opened",
		zap.String("side", side.String()),
		zap.String("entry_price", price.String()),
		zap.String("quantity", l.quantity.String()),
		zap.String("order_id", order.ID))

	clone := *pos
	return &clone, nil
}

// Close transitions LONG -> FLAT or SHORT -> FLAT, computing realized PnL:
// (exit-entry)*quantity for longs, negated for shorts. The resulting trade
// is appended once and never mutated.
func (l *Ledger) Close(ctx context.Context, side domain.Side, price decimal.Decimal, now time.Time, reason string) (*domain.Trade, error) {
	pos := l.Position()
	if pos == nil {
		return nil, errors.Wrapf(ErrInvariant, "exit-%s while flat", side)
	}
	if pos.Side != side {
		return nil, errors.Wrapf(ErrInvariant, "exit-%s while %s position is open", side, pos.Side)
	}

	orderSide := gateway.SideSell
	if side == domain.SideShort {
		orderSide = gateway.SideBuy
	}

	if _, err := l.gateway.PlaceOrder(ctx, orderSide, pos.Quantity); err != nil {
		return nil, errors.Wrapf(err, "close %s abandoned, gateway rejected order", side)
	}

	pnl := pos.PnL(price)
	trade := domain.Trade{
		EntryTime:  pos.EntryTime,
		ExitTime:   now,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  price,
		Side:       side.String(),
		Quantity:   pos.Quantity,
		PnL:        pnl,
		Reason:     reason,
	}

	l.mu.Lock()
	l.trades = append(l.trades, trade)
	l.totalPnL = l.totalPnL.Add(pnl)
	l.position = nil
	l.mu.Unlock()

	l.logger.Info("position closed",
		zap.String("side", side.String()),
		zap.String("exit_price", price.String()),
		zap.String("pnl", pnl.String()),
		zap.String("total_pnl", l.TotalPnL().String()),
		zap.String("reason", reason))

	return &trade, nil
}

// Position returns a copy of the open position, or nil when flat.
func (l *Ledger) Position() *domain.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.position == nil {
		return nil
	}
	clone := *l.position
	return &clone
}

// TotalPnL returns the running total of realized PnL.
func (l *Ledger) TotalPnL() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalPnL
}

// Snapshot copies position, the newest lastN trades and the derived
// performance summary in one critical section so readers never observe
// the position and the totals out of step.
func (l *Ledger) Snapshot(lastN int) Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := Snapshot{
		TotalPnL: l.totalPnL,
		Summary:  domain.Summarize(l.trades, l.totalPnL),
	}
	if l.position != nil {
		clone := *l.position
		snap.Position = &clone
	}

	trades := l.trades
	if lastN > 0 && len(trades) > lastN {
		trades = trades[len(trades)-lastN:]
	}
	snap.Trades = append([]domain.Trade(nil), trades...)

	return snap
}
