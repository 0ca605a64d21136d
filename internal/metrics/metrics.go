// Package metrics exposes Prometheus counters and gauges for the trading
// loop. All metrics live in a private registry so tests can create
// independent instances.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	CandlesIngested prometheus.Counter
	FeedErrors      prometheus.Counter
	SignalsTotal    *prometheus.CounterVec
	OrdersPlaced    *prometheus.CounterVec
	TradesClosed    prometheus.Counter

	CurrentPrice prometheus.Gauge
	TotalPnL     prometheus.Gauge
	BotRunning   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CandlesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "breakline_candles_ingested_total",
			Help: "Candles consumed from the market data feed",
		}),
		FeedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "breakline_feed_errors_total",
			Help: "Feed fetch failures that triggered a backoff",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breakline_signals_total",
			Help: "Accepted trading signals by type",
		}, []string{"signal"}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breakline_orders_placed_total",
			Help: "Orders submitted to the gateway by side",
		}, []string{"side"}),
		TradesClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "breakline_trades_closed_total",
			Help: "Completed round-trip trades",
		}),
		CurrentPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "breakline_current_price",
			Help: "Close price of the last ingested candle",
		}),
		TotalPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "breakline_total_pnl",
			Help: "Cumulative realized profit and loss",
		}),
		BotRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "breakline_running",
			Help: "1 while the trading loop is active",
		}),
	}

	m.registry.MustRegister(
		m.CandlesIngested,
		m.FeedErrors,
		m.SignalsTotal,
		m.OrdersPlaced,
		m.TradesClosed,
		m.CurrentPrice,
		m.TotalPnL,
		m.BotRunning,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
