package gateway

import (
	"context"

	"github.com/google/uuid"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"breakline/internal/domain"
)

// Bybit places live spot market orders through the Bybit V5 API.
type Bybit struct {
	client *bybit.Client
	pair   domain.Pair
}

// NewBybit creates a Bybit order gateway.
func NewBybit(client *bybit.Client, pair domain.Pair) *Bybit {
	return &Bybit{client: client, pair: pair}
}

// PlaceOrder submits a market order and returns the exchange order id.
func (g *Bybit) PlaceOrder(ctx context.Context, side Side, quantity decimal.Decimal) (Order, error) {
	orderSide := bybit.SideBuy
	if side == SideSell {
		orderSide = bybit.SideSell
	}

	clientOrderID := uuid.New().String()
	res, err := g.client.V5().Order().CreateOrder(bybit.V5CreateOrderParam{
		Category:    bybit.CategoryV5Spot,
		Symbol:      bybit.SymbolV5(g.pair.Symbol()),
		Side:        orderSide,
		OrderType:   bybit.OrderTypeMarket,
		Qty:         quantity.RoundFloor(quantityPrecision).String(),
		OrderLinkID: &clientOrderID,
	})
	if err != nil {
		return Order{}, errors.Wrapf(err, "bybit %s order failed for %s", side, g.pair.String())
	}

	return Order{ID: res.Result.OrderID}, nil
}
