package feed

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"breakline/internal/domain"
)

// BinanceFeed polls the Binance klines endpoint for the latest closed candle.
type BinanceFeed struct {
	client   *binance.Client
	pair     domain.Pair
	interval string
	poll     time.Duration
	primed   bool
}

func NewBinanceFeed(client *binance.Client, pair domain.Pair, interval string, poll time.Duration) *BinanceFeed {
	return &BinanceFeed{
		client:   client,
		pair:     pair,
		interval: interval,
		poll:     poll,
	}
}

func (f *BinanceFeed) Next(ctx context.Context) (domain.Candle, error) {
	if f.primed {
		if err := waitPoll(ctx, f.poll); err != nil {
			return domain.Candle{}, err
		}
	}
	f.primed = true

	klines, err := f.client.NewKlinesService().
		Symbol(f.pair.Symbol()).
		Interval(f.interval).
		Limit(2).
		Do(ctx)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "fetch %s klines from binance", f.pair.Symbol())
	}
	if len(klines) < 2 {
		return domain.Candle{}, errors.Errorf("binance returned %d klines for %s, need 2", len(klines), f.pair.Symbol())
	}

	// the last element is the still-forming candle, the one before it is
	// the most recent closed candle
	k := klines[len(klines)-2]

	return candleFromStrings(
		time.UnixMilli(k.OpenTime).UTC(),
		k.Open, k.High, k.Low, k.Close, k.Volume,
	)
}
