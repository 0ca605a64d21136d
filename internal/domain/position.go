package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Side represents the direction of a trading position.
type Side int

const (
	// SideNone is the zero value: no side recorded.
	SideNone Side = iota
	// SideLong is a long position (buy to open).
	SideLong
	// SideShort is a short position (sell to open).
	SideShort
)

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case SideNone:
		return "none"
	case SideLong:
		return "long"
	case SideShort:
		return "short"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the side as its string form.
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Position represents the single open position tracked in memory.
// At most one position exists at a time; it is created only when flat and
// destroyed only by a full close.
type Position struct {
	Side       Side            `json:"side"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	EntryTime  time.Time       `json:"entry_time"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderID    string          `json:"order_id"`
}

// NewPosition constructs a validated position.
func NewPosition(side Side, entryPrice, quantity decimal.Decimal, entryTime time.Time, orderID string) (*Position, error) {
	if side != SideLong && side != SideShort {
		return nil, errors.New("position side must be long or short")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("position quantity must be greater than zero")
	}
	if entryPrice.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("entry price must be greater than zero")
	}

	return &Position{
		Side:       side,
		EntryPrice: entryPrice,
		EntryTime:  entryTime,
		Quantity:   quantity,
		OrderID:    orderID,
	}, nil
}

// PnL calculates profit and loss of the position at the given market price.
func (p *Position) PnL(currentPrice decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}

	// long: (currentPrice - entryPrice) * quantity
	// short: (entryPrice - currentPrice) * quantity
	if p.Side == SideShort {
		return p.EntryPrice.Sub(currentPrice).Mul(p.Quantity)
	}
	return currentPrice.Sub(p.EntryPrice).Mul(p.Quantity)
}
