// Package gateway abstracts order placement against an exchange or a local
// sandbox. The engine only needs a success/failure result carrying an opaque
// order identifier; it never retries a failed placement on its own.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Side of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Order is the result of a successful placement.
type Order struct {
	ID string
}

// OrderGateway places market orders. Implementations may block on network
// I/O; the consumer loop accepts this as part of its sequential step.
type OrderGateway interface {
	PlaceOrder(ctx context.Context, side Side, quantity decimal.Decimal) (Order, error)
}
