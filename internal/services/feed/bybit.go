package feed

import (
	"context"
	"strconv"
	"time"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"breakline/internal/domain"
)

// BybitFeed polls the Bybit V5 market kline endpoint for the latest closed
// candle.
type BybitFeed struct {
	client   *bybit.Client
	pair     domain.Pair
	interval bybit.Interval
	poll     time.Duration
	primed   bool
}

func NewBybitFeed(client *bybit.Client, pair domain.Pair, interval string, poll time.Duration) *BybitFeed {
	return &BybitFeed{
		client:   client,
		pair:     pair,
		interval: bybit.Interval(interval),
		poll:     poll,
	}
}

func (f *BybitFeed) Next(ctx context.Context) (domain.Candle, error) {
	if f.primed {
		if err := waitPoll(ctx, f.poll); err != nil {
			return domain.Candle{}, err
		}
	}
	f.primed = true

	limit := 2
	klines, err := f.client.V5().Market().GetKline(bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(f.pair.Symbol()),
		Interval: f.interval,
		Limit:    &limit,
	})
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "fetch %s klines from bybit", f.pair.Symbol())
	}
	if len(klines.Result.List) < 2 {
		return domain.Candle{}, errors.Errorf("bybit returned %d klines for %s, need 2", len(klines.Result.List), f.pair.Symbol())
	}

	// bybit lists klines newest first, index 1 is the latest closed candle
	k := klines.Result.List[1]

	startMs, err := strconv.ParseInt(k.StartTime, 10, 64)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse bybit kline start time %q", k.StartTime)
	}

	return candleFromStrings(
		time.UnixMilli(startMs).UTC(),
		k.Open, k.High, k.Low, k.Close, k.Volume,
	)
}
