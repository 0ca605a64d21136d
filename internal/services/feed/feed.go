// Package feed abstracts push- and poll-based sources of price candles.
// Every source reduces to one blocking call returning candles in arrival
// order; the consumer loop handles backoff on feed errors.
package feed

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"breakline/internal/domain"
)

// MarketDataSource produces timestamped candles in arrival order.
// Next blocks until the next candle is available, the source fails, or ctx
// is cancelled.
type MarketDataSource interface {
	Next(ctx context.Context) (domain.Candle, error)
}

// candleFromStrings builds a candle from the string-typed OHLCV fields the
// exchange REST APIs return.
func candleFromStrings(ts time.Time, open, high, low, close, volume string) (domain.Candle, error) {
	o, err := decimal.NewFromString(open)
	if err != nil {
		return domain.Candle{}, errors.Wrap(err, "parse open price")
	}
	h, err := decimal.NewFromString(high)
	if err != nil {
		return domain.Candle{}, errors.Wrap(err, "parse high price")
	}
	l, err := decimal.NewFromString(low)
	if err != nil {
		return domain.Candle{}, errors.Wrap(err, "parse low price")
	}
	c, err := decimal.NewFromString(close)
	if err != nil {
		return domain.Candle{}, errors.Wrap(err, "parse close price")
	}
	v, err := decimal.NewFromString(volume)
	if err != nil {
		return domain.Candle{}, errors.Wrap(err, "parse volume")
	}

	return domain.Candle{Time: ts, Open: o, High: h, Low: l, Close: c, Volume: v}, nil
}

// waitPoll sleeps for the poll interval, honoring cancellation.
func waitPoll(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
