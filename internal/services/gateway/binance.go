package gateway

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"breakline/internal/domain"
)

// quantityPrecision rounds order quantities to what spot endpoints accept.
const quantityPrecision = 4

// Binance places live spot market orders through the Binance REST API.
type Binance struct {
	client *binance.Client
	pair   domain.Pair
}

// NewBinance creates a Binance order gateway.
func NewBinance(client *binance.Client, pair domain.Pair) *Binance {
	return &Binance{client: client, pair: pair}
}

// PlaceOrder submits a market order and returns the exchange order id.
func (g *Binance) PlaceOrder(ctx context.Context, side Side, quantity decimal.Decimal) (Order, error) {
	orderSide := binance.SideTypeBuy
	if side == SideSell {
		orderSide = binance.SideTypeSell
	}

	clientOrderID := uuid.New().String()
	res, err := g.client.NewCreateOrderService().
		Symbol(g.pair.Symbol()).
		Side(orderSide).
		Type(binance.OrderTypeMarket).
		Quantity(quantity.RoundFloor(quantityPrecision).String()).
		NewClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		return Order{}, errors.Wrapf(err, "binance %s order failed for %s", side, g.pair.String())
	}

	return Order{ID: res.ClientOrderID}, nil
}
