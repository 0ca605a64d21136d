package gateway

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"breakline/internal/domain"
)

// Sandbox simulates order execution locally. It makes no network calls,
// never fails and synthesizes time-based order identifiers.
type Sandbox struct {
	pair   domain.Pair
	logger *zap.Logger
	seq    atomic.Uint64
	now    func() time.Time
}

// NewSandbox creates a sandbox gateway.
func NewSandbox(pair domain.Pair, logger *zap.Logger) *Sandbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sandbox{pair: pair, logger: logger, now: time.Now}
}

// PlaceOrder records the order and returns a synthetic identifier.
func (s *Sandbox) PlaceOrder(_ context.Context, side Side, quantity decimal.Decimal) (Order, error) {
	// the sequence suffix keeps ids unique when two orders land in the
	// same second
	id := fmt.Sprintf("sandbox_%d_%d", s.now().Unix(), s.seq.Add(1))

	s.logger.Info("sandbox order executed",
		zap.String("pair", s.pair.String()),
		zap.String("side", string(side)),
		zap.String("quantity", quantity.String()),
		zap.String("order_id", id))

	return Order{ID: id}, nil
}
