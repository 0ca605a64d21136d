// Package notify delivers trade events to external channels. Delivery is
// best effort: a failed notification is logged and dropped, it never feeds
// back into trading decisions.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"breakline/internal/domain"
)

// EventKind distinguishes position lifecycle events.
type EventKind string

const (
	EventOpened EventKind = "opened"
	EventClosed EventKind = "closed"
)

// Event describes a position change worth announcing.
type Event struct {
	Kind     EventKind
	Pair     domain.Pair
	Side     domain.Side
	Price    decimal.Decimal
	Quantity decimal.Decimal
	PnL      decimal.Decimal
	Reason   string
	Time     time.Time
}

func (e Event) text() string {
	switch e.Kind {
	case EventOpened:
		return fmt.Sprintf("opened %s %s: %s @ %s",
			e.Side, e.Pair.String(), e.Quantity.String(), e.Price.String())
	case EventClosed:
		return fmt.Sprintf("closed %s %s @ %s, pnl %s (%s)",
			e.Side, e.Pair.String(), e.Price.String(), e.PnL.String(), e.Reason)
	default:
		return fmt.Sprintf("%s %s event", e.Pair.String(), e.Kind)
	}
}

// Notifier delivers one event to a channel.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// LogNotifier writes events to the structured log. It is the default when
// no external channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, event Event) error {
	n.logger.Info("trade event",
		zap.String("kind", string(event.Kind)),
		zap.String("detail", event.text()))
	return nil
}
