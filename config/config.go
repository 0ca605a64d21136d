// Package config loads the bot configuration from a yaml file, applying
// defaults for everything the file leaves out.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"breakline/internal/domain"
)

type Config struct {
	Platform string
	Pair     domain.Pair
	Quantity decimal.Decimal

	// feed
	Interval     string
	PollInterval time.Duration
	ErrorBackoff time.Duration
	UseStream    bool
	SimulateSeed int64

	// indicators
	WindowSize       int
	RSIPeriod        int
	TraumaPeriod     int
	BreakoutLookback int

	// signal policy
	Overbought        decimal.Decimal
	Oversold          decimal.Decimal
	MinSignalInterval time.Duration
	DebounceExits     bool

	// runtime
	ListenAddr string
	AutoStart  bool
}

type ConfigTmp struct {
	Platform string `yaml:"platform"`
	Pair     string `yaml:"pair"`
	Quantity string `yaml:"quantity"`

	Interval     string        `yaml:"interval"`
	PollInterval time.Duration `yaml:"poll_interval"`
	ErrorBackoff time.Duration `yaml:"error_backoff"`
	UseStream    bool          `yaml:"use_stream"`
	SimulateSeed int64         `yaml:"simulate_seed"`

	WindowSize       int `yaml:"window_size"`
	RSIPeriod        int `yaml:"rsi_period"`
	TraumaPeriod     int `yaml:"trauma_period"`
	BreakoutLookback int `yaml:"breakout_lookback"`

	Overbought        string        `yaml:"overbought"`
	Oversold          string        `yaml:"oversold"`
	MinSignalInterval time.Duration `yaml:"min_signal_interval"`
	DebounceExits     bool          `yaml:"debounce_exits"`

	ListenAddr string `yaml:"listen_addr"`
	AutoStart  bool   `yaml:"auto_start"`
}

// Default returns the configuration used when no yaml file is provided:
// sandbox trading of BTC_USDT with one-minute candles.
func Default() Config {
	return Config{
		Platform:          "simulate",
		Pair:              domain.Pair{From: "BTC", To: "USDT"},
		Quantity:          decimal.RequireFromString("0.01"),
		Interval:          "1m",
		PollInterval:      60 * time.Second,
		ErrorBackoff:      30 * time.Second,
		WindowSize:        100,
		RSIPeriod:         14,
		TraumaPeriod:      20,
		BreakoutLookback:  20,
		Overbought:        decimal.NewFromInt(70),
		Oversold:          decimal.NewFromInt(30),
		MinSignalInterval: 5 * time.Minute,
		ListenAddr:        "127.0.0.1:8080",
		AutoStart:         false,
	}
}

// Load reads a yaml config from path and merges it over the defaults.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "parse yaml config")
	}

	cfg := Default()

	if tmp.Platform != "" {
		cfg.Platform = strings.ToLower(tmp.Platform)
	}
	if tmp.Pair != "" {
		pair, err := PairFromString(tmp.Pair)
		if err != nil {
			return Config{}, errors.Wrapf(err, "incorrect 'pair' param in yaml config: %s", tmp.Pair)
		}
		cfg.Pair = pair
	}
	if tmp.Quantity != "" {
		qty, err := decimal.NewFromString(tmp.Quantity)
		if err != nil {
			return Config{}, errors.Wrap(err, "incorrect 'quantity' param in yaml config")
		}
		cfg.Quantity = qty
	}
	if tmp.Interval != "" {
		cfg.Interval = tmp.Interval
	}
	if tmp.PollInterval > 0 {
		cfg.PollInterval = tmp.PollInterval
	}
	if tmp.ErrorBackoff > 0 {
		cfg.ErrorBackoff = tmp.ErrorBackoff
	}
	cfg.UseStream = tmp.UseStream
	cfg.SimulateSeed = tmp.SimulateSeed

	if tmp.WindowSize > 0 {
		cfg.WindowSize = tmp.WindowSize
	}
	if tmp.RSIPeriod > 0 {
		cfg.RSIPeriod = tmp.RSIPeriod
	}
	if tmp.TraumaPeriod > 0 {
		cfg.TraumaPeriod = tmp.TraumaPeriod
	}
	if tmp.BreakoutLookback > 0 {
		cfg.BreakoutLookback = tmp.BreakoutLookback
	}

	if tmp.Overbought != "" {
		v, err := decimal.NewFromString(tmp.Overbought)
		if err != nil {
			return Config{}, errors.Wrap(err, "incorrect 'overbought' param in yaml config")
		}
		cfg.Overbought = v
	}
	if tmp.Oversold != "" {
		v, err := decimal.NewFromString(tmp.Oversold)
		if err != nil {
			return Config{}, errors.Wrap(err, "incorrect 'oversold' param in yaml config")
		}
		cfg.Oversold = v
	}
	if tmp.MinSignalInterval > 0 {
		cfg.MinSignalInterval = tmp.MinSignalInterval
	}
	cfg.DebounceExits = tmp.DebounceExits

	if tmp.ListenAddr != "" {
		cfg.ListenAddr = tmp.ListenAddr
	}
	cfg.AutoStart = tmp.AutoStart

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Platform {
	case "binance", "bybit", "simulate":
	default:
		return errors.Errorf("unsupported platform %q, expected binance, bybit or simulate", c.Platform)
	}
	if !c.Quantity.IsPositive() {
		return errors.New("quantity must be positive")
	}
	if !c.Oversold.LessThan(c.Overbought) {
		return errors.Errorf("oversold %s must be below overbought %s",
			c.Oversold.String(), c.Overbought.String())
	}
	if c.RSIPeriod < 2 {
		return errors.New("rsi_period must be at least 2")
	}
	minWindow := c.RSIPeriod + 1
	if c.TraumaPeriod > minWindow {
		minWindow = c.TraumaPeriod
	}
	if c.BreakoutLookback > minWindow {
		minWindow = c.BreakoutLookback
	}
	if c.WindowSize < minWindow {
		return errors.Errorf("window_size %d is too small for the configured indicator periods", c.WindowSize)
	}
	return nil
}

// PairFromString parses "BTC_USDT" into a Pair.
func PairFromString(s string) (domain.Pair, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.Pair{}, errors.Errorf("invalid pair %q, expected format BASE_QUOTE", s)
	}
	return domain.Pair{From: strings.ToUpper(parts[0]), To: strings.ToUpper(parts[1])}, nil
}
