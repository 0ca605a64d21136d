// Package setup implements the interactive terminal wizard that writes a
// starter yaml configuration.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"breakline/config"
)

const generatedConfigFile = "config.gen.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

func header(step string) {
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("BREAKLINE CONFIG WIZARD"))
	if step != "" {
		fmt.Println(stepStyle.Render(step))
	}
}

// RunTUI launches the terminal configuration wizard and writes the result
// to config.gen.yaml.
func RunTUI() (string, error) {
	var (
		platform      string
		pair          string
		quantity      string
		interval      string
		pollInterval  string
		overbought    string
		oversold      string
		minSignal     string
		listenAddr    string
		autoStart     bool
		debounceExits bool
		confirm       bool
	)

	// defaults
	pair = "BTC_USDT"
	quantity = "0.01"
	interval = "1m"
	pollInterval = "60s"
	overbought = "70"
	oversold = "30"
	minSignal = "5m"
	listenAddr = "127.0.0.1:8080"

	header("")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Breakout trading with a paper-first default.\n"))

	header("STEP 1: PLATFORM")
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Exchange Platform").
				Options(
					huh.NewOption("Sandbox (simulated orders)", "simulate"),
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return "", err
	}

	header("STEP 2: ASSET")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trading Pair").
				Description("Must contain underscore (e.g. BTC_USDT)").
				Value(&pair).
				Validate(func(s string) error {
					_, err := config.PairFromString(s)
					return err
				}),
			huh.NewInput().
				Title("Order Quantity").
				Description("Base asset amount per order (e.g. 0.01)").
				Value(&quantity).
				Validate(validateQuantity),
		),
	).Run()
	if err != nil {
		return "", err
	}

	header("STEP 3: TIMING")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Candle Interval").
				Description("Kline size (e.g. 1m, 5m, 1h)").
				Value(&interval),
			huh.NewInput().
				Title("Poll Interval").
				Description("Duration string (e.g. 30s, 60s)").
				Value(&pollInterval).
				Validate(validateDuration),
			huh.NewInput().
				Title("Min Signal Interval").
				Description("Debounce between entries (e.g. 5m)").
				Value(&minSignal).
				Validate(validateDuration),
		),
	).Run()
	if err != nil {
		return "", err
	}

	header("STEP 4: SIGNALS")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RSI Overbought Threshold").
				Value(&overbought).
				Validate(validateRSIBound),
			huh.NewInput().
				Title("RSI Oversold Threshold").
				Value(&oversold).
				Validate(validateRSIBound),
			huh.NewConfirm().
				Title("Debounce exits too?").
				Description("Off keeps exits immediate, protecting open risk").
				Value(&debounceExits),
		),
	).Run()
	if err != nil {
		return "", err
	}

	header("STEP 5: RUNTIME")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard Listen Address").
				Value(&listenAddr),
			huh.NewConfirm().
				Title("Start trading immediately on launch?").
				Value(&autoStart),
		),
	).Run()
	if err != nil {
		return "", err
	}

	header("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Platform: %s\nPair: %s\nQuantity: %s\nInterval: %s\nPoll: %s\nOverbought/Oversold: %s/%s\nAuto start: %t\n",
		platform, pair, quantity, interval, pollInterval, overbought, oversold, autoStart,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return "", err
	}
	if !confirm {
		return "", fmt.Errorf("setup cancelled by user")
	}

	poll, _ := time.ParseDuration(pollInterval)
	minSignalDur, _ := time.ParseDuration(minSignal)

	cfg := config.ConfigTmp{
		Platform:          platform,
		Pair:              pair,
		Quantity:          quantity,
		Interval:          interval,
		PollInterval:      poll,
		Overbought:        overbought,
		Oversold:          oversold,
		MinSignalInterval: minSignalDur,
		DebounceExits:     debounceExits,
		ListenAddr:        listenAddr,
		AutoStart:         autoStart,
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate yaml: %w", err)
	}
	if err := os.WriteFile(generatedConfigFile, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(
		fmt.Sprintf("\nConfiguration saved to %s", generatedConfigFile)))
	time.Sleep(1500 * time.Millisecond)
	return generatedConfigFile, nil
}

func validateQuantity(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateDuration(s string) error {
	_, err := time.ParseDuration(s)
	return err
}

func validateRSIBound(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if v < 0 || v > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}
