package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breakline/internal/domain"
)

func klineMessage(startMs int64, close string, final bool) string {
	finalStr := "false"
	if final {
		finalStr = "true"
	}
	return `{"e":"kline","k":{"t":` + strconv.FormatInt(startMs, 10) + `,"o":"100","h":"101","l":"99","c":"` + close + `","v":"1500","x":` + finalStr + `}}`
}

func streamServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for _, msg := range messages {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
		}
		// linger so the client can drain before the close frame
		time.Sleep(100 * time.Millisecond)
	}))
}

func newTestStreamFeed(serverURL string) *StreamFeed {
	f := NewStreamFeed(domain.Pair{From: "BTC", To: "USDT"}, "1m", zap.NewNop())
	f.url = "ws" + strings.TrimPrefix(serverURL, "http")
	return f
}

func TestStreamFeedForwardsOnlyClosedCandles(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	srv := streamServer(t, []string{
		klineMessage(start, "105", false), // still forming, skipped
		klineMessage(start, "106", true),
		`{"e":"ping"}`, // unrelated event, skipped
		klineMessage(start+60_000, "107", true),
	})
	defer srv.Close()

	f := newTestStreamFeed(srv.URL)
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first, err := f.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "106", first.Close.String())
	require.True(t, first.Time.Equal(time.UnixMilli(start).UTC()))

	second, err := f.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "107", second.Close.String())
	require.Equal(t, time.Minute, second.Time.Sub(first.Time))
}

func TestStreamFeedReportsDisconnectAndRedials(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	srv := streamServer(t, []string{klineMessage(start, "110", true)})
	defer srv.Close()

	f := newTestStreamFeed(srv.URL)
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := f.Next(ctx)
	require.NoError(t, err)

	// server closes after its script: the next call surfaces the error
	_, err = f.Next(ctx)
	require.Error(t, err)
	require.Nil(t, f.conn)

	// a fresh call dials a new connection and delivers again
	_, err = f.Next(ctx)
	require.NoError(t, err)
}

func TestStreamFeedHonorsCancellation(t *testing.T) {
	srv := streamServer(t, nil)
	defer srv.Close()

	f := newTestStreamFeed(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := f.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
