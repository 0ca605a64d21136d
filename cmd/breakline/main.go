// Command breakline runs a single-instrument breakout trading bot with a
// local control dashboard.
//
// Usage:
//
//	breakline --config config.yaml
//	breakline --setup            (interactive wizard, then start)
//
// Optional environment variables:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
//	For Telegram alerts: TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"breakline/config"
	"breakline/internal"
	"breakline/internal/metrics"
	"breakline/internal/notify"
	"breakline/internal/setup"
	"breakline/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	runSetup := flag.Bool("setup", false, "run the interactive configuration wizard")
	flag.Parse()

	_ = godotenv.Load()

	if *runSetup {
		generated, err := setup.RunTUI()
		if err != nil {
			log.Fatal(err)
		}
		*configPath = generated
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	clients, err := buildClients(cfg, logger)
	if err != nil {
		logger.Fatal("client setup failed", zap.Error(err))
	}

	m := metrics.New()
	bot, err := internal.BuildBot(cfg, clients, internal.BotDeps{
		Notifier: buildNotifier(logger),
		Metrics:  m,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("bot setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoStart {
		bot.Start()
	}

	server := web.NewServer(cfg.ListenAddr, bot, m.Handler(), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutdown with error", zap.Error(err))
	}

	bot.Stop()
	logger.Info("bye")
}

func buildClients(cfg config.Config, logger *zap.Logger) (internal.Clients, error) {
	var clients internal.Clients

	switch cfg.Platform {
	case "binance":
		apiKey := os.Getenv("BINANCE_API_KEY")
		apiSecret := os.Getenv("BINANCE_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return internal.Clients{}, errors.New("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
		}
		clients.Binance = binance.NewClient(apiKey, apiSecret)

	case "bybit":
		apiKey := os.Getenv("BYBIT_API_KEY")
		apiSecret := os.Getenv("BYBIT_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return internal.Clients{}, errors.New("BYBIT_API_KEY and BYBIT_API_SECRET environment variables must be set")
		}
		clients.Bybit = bybit.NewClient().WithAuth(apiKey, apiSecret)

	case "simulate":
		// public market data only, no credentials required
		clients.Binance = binance.NewClient("", "")
		logger.Info("sandbox mode, orders are simulated")
	}

	return clients, nil
}

func buildNotifier(logger *zap.Logger) notify.Notifier {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if token != "" && chatID != "" {
		logger.Info("telegram notifications enabled")
		return notify.NewTelegramNotifier(token, chatID, logger)
	}
	return notify.NewLogNotifier(logger)
}
