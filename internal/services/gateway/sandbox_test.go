package gateway

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breakline/internal/domain"
)

func TestSandbox_PlaceOrderNeverFails(t *testing.T) {
	s := NewSandbox(domain.Pair{From: "BTC", To: "USD"}, zap.NewNop())

	order, err := s.PlaceOrder(context.Background(), SideBuy, decimal.NewFromFloat(0.01))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.ID, "sandbox_"))
}

func TestSandbox_OrderIDsUnique(t *testing.T) {
	s := NewSandbox(domain.Pair{From: "BTC", To: "USD"}, zap.NewNop())

	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		order, err := s.PlaceOrder(context.Background(), SideSell, decimal.NewFromFloat(0.01))
		require.NoError(t, err)
		_, dup := seen[order.ID]
		assert.False(t, dup, "duplicate order id %s", order.ID)
		seen[order.ID] = struct{}{}
	}
}
