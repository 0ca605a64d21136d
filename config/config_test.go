package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "platform: simulate\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "simulate", cfg.Platform)
	require.Equal(t, "BTC_USDT", cfg.Pair.String())
	require.Equal(t, "0.01", cfg.Quantity.String())
	require.Equal(t, 60*time.Second, cfg.PollInterval)
	require.Equal(t, 30*time.Second, cfg.ErrorBackoff)
	require.Equal(t, 100, cfg.WindowSize)
	require.Equal(t, 14, cfg.RSIPeriod)
	require.Equal(t, 5*time.Minute, cfg.MinSignalInterval)
	require.False(t, cfg.AutoStart)
	require.False(t, cfg.DebounceExits)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
platform: binance
pair: ETH_USDT
quantity: "0.5"
interval: 5m
poll_interval: 10s
error_backoff: 5s
window_size: 200
rsi_period: 7
trauma_period: 10
breakout_lookback: 15
overbought: "80"
oversold: "20"
min_signal_interval: 1m
debounce_exits: true
listen_addr: "0.0.0.0:9090"
auto_start: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "binance", cfg.Platform)
	require.Equal(t, "ETH_USDT", cfg.Pair.String())
	require.Equal(t, "0.5", cfg.Quantity.String())
	require.Equal(t, "5m", cfg.Interval)
	require.Equal(t, 10*time.Second, cfg.PollInterval)
	require.Equal(t, 5*time.Second, cfg.ErrorBackoff)
	require.Equal(t, 200, cfg.WindowSize)
	require.Equal(t, 7, cfg.RSIPeriod)
	require.Equal(t, 10, cfg.TraumaPeriod)
	require.Equal(t, 15, cfg.BreakoutLookback)
	require.Equal(t, "80", cfg.Overbought.String())
	require.Equal(t, "20", cfg.Oversold.String())
	require.Equal(t, time.Minute, cfg.MinSignalInterval)
	require.True(t, cfg.DebounceExits)
	require.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	require.True(t, cfg.AutoStart)
}

func TestLoadRejectsUnknownPlatform(t *testing.T) {
	path := writeConfig(t, "platform: kraken\n")

	_, err := Load(path)
	require.ErrorContains(t, err, "unsupported platform")
}

func TestLoadRejectsInvalidPair(t *testing.T) {
	path := writeConfig(t, "pair: BTCUSDT\n")

	_, err := Load(path)
	require.ErrorContains(t, err, "pair")
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	path := writeConfig(t, "overbought: \"30\"\noversold: \"70\"\n")

	_, err := Load(path)
	require.ErrorContains(t, err, "oversold")
}

func TestLoadRejectsTooSmallWindow(t *testing.T) {
	path := writeConfig(t, "window_size: 10\n")

	_, err := Load(path)
	require.ErrorContains(t, err, "window_size")
}

func TestPairFromString(t *testing.T) {
	pair, err := PairFromString("eth_usdt")
	require.NoError(t, err)
	require.Equal(t, "ETH_USDT", pair.String())

	_, err = PairFromString("nounderscore")
	require.Error(t, err)

	_, err = PairFromString("A_B_C")
	require.Error(t, err)
}
