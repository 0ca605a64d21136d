package internal

import (
	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"breakline/config"
	"breakline/internal/metrics"
	"breakline/internal/notify"
	"breakline/internal/services/feed"
	"breakline/internal/services/gateway"
)

// Clients carries the optional platform SDK clients. Only the one matching
// the configured platform needs to be set.
type Clients struct {
	Binance *binance.Client
	Bybit   *bybit.Client
}

// BotDeps groups the ambient collaborators every platform shares.
type BotDeps struct {
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// BuildBot dispatches on the configured platform and assembles the feed,
// gateway and bot. This is the single point of truth for platform wiring.
func BuildBot(cfg config.Config, clients Clients, bot BotDeps) (*Bot, error) {
	source, gw, err := createFeedAndGateway(cfg, clients, bot.Logger)
	if err != nil {
		return nil, err
	}
	return NewBot(cfg, source, gw, bot.Notifier, bot.Metrics, bot.Logger), nil
}

func createFeedAndGateway(cfg config.Config, clients Clients, logger *zap.Logger) (feed.MarketDataSource, gateway.OrderGateway, error) {
	switch cfg.Platform {
	case "binance":
		if clients.Binance == nil {
			return nil, nil, errors.New("binance platform selected but no binance client configured")
		}
		var source feed.MarketDataSource
		if cfg.UseStream {
			source = feed.NewStreamFeed(cfg.Pair, cfg.Interval, logger)
		} else {
			source = feed.NewBinanceFeed(clients.Binance, cfg.Pair, cfg.Interval, cfg.PollInterval)
		}
		return source, gateway.NewBinance(clients.Binance, cfg.Pair), nil

	case "bybit":
		if clients.Bybit == nil {
			return nil, nil, errors.New("bybit platform selected but no bybit client configured")
		}
		source := feed.NewBybitFeed(clients.Bybit, cfg.Pair, bybitInterval(cfg.Interval), cfg.PollInterval)
		return source, gateway.NewBybit(clients.Bybit, cfg.Pair), nil

	case "simulate":
		// real prices when a public binance client is available, otherwise
		// a seeded random walk; orders always go to the sandbox
		var source feed.MarketDataSource
		if cfg.UseStream {
			source = feed.NewStreamFeed(cfg.Pair, cfg.Interval, logger)
		} else if clients.Binance != nil {
			source = feed.NewBinanceFeed(clients.Binance, cfg.Pair, cfg.Interval, cfg.PollInterval)
		} else {
			source = feed.NewSimulateFeed(cfg.SimulateSeed, 100, cfg.PollInterval, cfg.PollInterval)
		}
		return source, gateway.NewSandbox(cfg.Pair, logger), nil

	default:
		return nil, nil, errors.Errorf("unsupported platform: %s", cfg.Platform)
	}
}

// bybitInterval maps kline sizes like "1m" or "4h" onto bybit V5 interval
// codes ("1", "240").
func bybitInterval(interval string) string {
	switch interval {
	case "1m":
		return "1"
	case "3m":
		return "3"
	case "5m":
		return "5"
	case "15m":
		return "15"
	case "30m":
		return "30"
	case "1h":
		return "60"
	case "2h":
		return "120"
	case "4h":
		return "240"
	case "6h":
		return "360"
	case "12h":
		return "720"
	case "1d":
		return "D"
	case "1w":
		return "W"
	default:
		return interval
	}
}
