package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"breakline/internal/domain"
)

const (
	binanceStreamHost  = "wss://stream.binance.com:9443/ws"
	streamReadTimeout  = 90 * time.Second
	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

// StreamFeed subscribes to the Binance kline websocket stream and forwards
// only closed candles, one per Next call, in arrival order. The connection
// is dialed lazily on the first Next; after a read failure the next call
// redials, so the consumer's error backoff paces reconnects.
type StreamFeed struct {
	url    string
	logger *zap.Logger

	conn    *websocket.Conn
	candles chan domain.Candle
	errs    chan error
	done    chan struct{}
}

func NewStreamFeed(pair domain.Pair, interval string, logger *zap.Logger) *StreamFeed {
	symbol := strings.ToLower(pair.Symbol())
	return &StreamFeed{
		url:    fmt.Sprintf("%s/%s@kline_%s", binanceStreamHost, symbol, interval),
		logger: logger,
	}
}

func (f *StreamFeed) Next(ctx context.Context) (domain.Candle, error) {
	if f.conn == nil {
		if err := f.connect(ctx); err != nil {
			return domain.Candle{}, err
		}
	}

	select {
	case <-ctx.Done():
		f.teardown()
		return domain.Candle{}, ctx.Err()
	case err := <-f.errs:
		f.teardown()
		return domain.Candle{}, err
	case candle := <-f.candles:
		return candle, nil
	}
}

func (f *StreamFeed) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return errors.Wrapf(err, "dial %s", f.url)
	}

	f.conn = conn
	f.candles = make(chan domain.Candle, 16)
	f.errs = make(chan error, 1)
	f.done = make(chan struct{})

	go f.readPump(conn, f.candles, f.errs, f.done)
	go f.pingPump(conn, f.done)

	f.logger.Info("kline stream connected", zap.String("url", f.url))
	return nil
}

func (f *StreamFeed) teardown() {
	if f.conn == nil {
		return
	}
	close(f.done)
	f.conn.Close()
	f.conn = nil
}

// Close tears down the active connection, if any.
func (f *StreamFeed) Close() error {
	f.teardown()
	return nil
}

type wsKlineEvent struct {
	EventType string  `json:"e"`
	Kline     wsKline `json:"k"`
}

type wsKline struct {
	StartTime int64  `json:"t"`
	Open      string `json:"o"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Close     string `json:"c"`
	Volume    string `json:"v"`
	Final     bool   `json:"x"`
}

func (f *StreamFeed) readPump(conn *websocket.Conn, candles chan<- domain.Candle, errs chan<- error, done <-chan struct{}) {
	conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case errs <- errors.Wrap(err, "kline stream read"):
			case <-done:
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(streamReadTimeout))

		var event wsKlineEvent
		if err := json.Unmarshal(message, &event); err != nil {
			f.logger.Warn("unparseable stream message", zap.Error(err))
			continue
		}
		if event.EventType != "kline" || !event.Kline.Final {
			continue
		}

		candle, err := candleFromStrings(
			time.UnixMilli(event.Kline.StartTime).UTC(),
			event.Kline.Open, event.Kline.High, event.Kline.Low, event.Kline.Close, event.Kline.Volume,
		)
		if err != nil {
			f.logger.Warn("malformed kline in stream", zap.Error(err))
			continue
		}

		select {
		case candles <- candle:
		case <-done:
			return
		}
	}
}

func (f *StreamFeed) pingPump(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
