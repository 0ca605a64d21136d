package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"breakline/internal/domain"
)

// SimulateFeed synthesizes candles from a seeded random walk. The same seed
// always yields the same candle sequence, so runs are reproducible.
type SimulateFeed struct {
	rng    *rand.Rand
	price  float64
	next   time.Time
	step   time.Duration
	poll   time.Duration
	primed bool
}

func NewSimulateFeed(seed int64, startPrice float64, step, poll time.Duration) *SimulateFeed {
	return &SimulateFeed{
		rng:   rand.New(rand.NewSource(seed)),
		price: startPrice,
		next:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		step:  step,
		poll:  poll,
	}
}

func (f *SimulateFeed) Next(ctx context.Context) (domain.Candle, error) {
	if f.primed {
		if err := waitPoll(ctx, f.poll); err != nil {
			return domain.Candle{}, err
		}
	}
	f.primed = true

	open := f.price
	drift := open * (f.rng.Float64() - 0.48) * 0.02
	close := open + drift

	high := open
	if close > high {
		high = close
	}
	high += open * f.rng.Float64() * 0.005

	low := open
	if close < low {
		low = close
	}
	low -= open * f.rng.Float64() * 0.005

	volume := 500 + f.rng.Float64()*1500

	candle := domain.Candle{
		Time:   f.next,
		Open:   decimal.NewFromFloat(open),
		High:   decimal.NewFromFloat(high),
		Low:    decimal.NewFromFloat(low),
		Close:  decimal.NewFromFloat(close),
		Volume: decimal.NewFromFloat(volume),
	}

	f.price = close
	f.next = f.next.Add(f.step)

	return candle, nil
}
