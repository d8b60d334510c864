// Package config loads and validates simulation configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stratsim/account"
	"stratsim/indicators"
	"stratsim/strategy"
)

// Config is the complete simulation configuration.
type Config struct {
	Account    AccountConfig   `json:"account" yaml:"account"`
	Strategy   StrategyConfig  `json:"strategy" yaml:"strategy"`
	Indicators IndicatorConfig `json:"indicators" yaml:"indicators"`
	Journal    JournalConfig   `json:"journal" yaml:"journal"`
}

// AccountConfig holds the capital and risk limits the position book
// enforces. Fractions are of capital.
type AccountConfig struct {
	InitialCapital  float64 `json:"initial_capital" yaml:"initial_capital"`
	PositionSizePct float64 `json:"position_size_pct" yaml:"position_size_pct"`
	StopLossPct     float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct   float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	MaxPositions    int     `json:"max_positions" yaml:"max_positions"`
	MaxDailyLossPct float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	MaxDrawdownPct  float64 `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`

	// IsolateCapital gives each instrument its own independent book in
	// multi-instrument runs instead of sharing one account.
	IsolateCapital bool `json:"isolate_capital,omitempty" yaml:"isolate_capital,omitempty"`
}

// StrategyConfig selects the signal rule and its thresholds.
type StrategyConfig struct {
	Name                 string  `json:"name" yaml:"name"` // rsi_macd, ma_crossover, bollinger_rsi, combined
	RSIOversold          float64 `json:"rsi_oversold" yaml:"rsi_oversold"`
	RSIOverbought        float64 `json:"rsi_overbought" yaml:"rsi_overbought"`
	MinSignalAgreement   int     `json:"min_signal_agreement" yaml:"min_signal_agreement"`
	VolumeRatioThreshold float64 `json:"volume_ratio_threshold" yaml:"volume_ratio_threshold"`
}

// IndicatorConfig holds the indicator periods.
type IndicatorConfig struct {
	RSIPeriod  int     `json:"rsi_period" yaml:"rsi_period"`
	MACDFast   int     `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow   int     `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal int     `json:"macd_signal" yaml:"macd_signal"`
	MAShort    int     `json:"ma_short" yaml:"ma_short"`
	MALong     int     `json:"ma_long" yaml:"ma_long"`
	BBPeriod   int     `json:"bb_period" yaml:"bb_period"`
	BBStd      float64 `json:"bb_std" yaml:"bb_std"`
}

// JournalConfig selects the journal backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Load reads configuration from a file, trying YAML first and JSON as a
// fallback, then validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a file, JSON when the extension says so,
// YAML otherwise.
func (c *Config) Save(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the simulation cannot run
// with.
func (c *Config) Validate() error {
	a := c.Account
	if a.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive")
	}
	if a.PositionSizePct <= 0 || a.PositionSizePct > 1 {
		return fmt.Errorf("account.position_size_pct must be in (0, 1]")
	}
	if a.StopLossPct <= 0 || a.StopLossPct >= 1 {
		return fmt.Errorf("account.stop_loss_pct must be in (0, 1)")
	}
	if a.TakeProfitPct <= 0 {
		return fmt.Errorf("account.take_profit_pct must be positive")
	}
	if a.MaxPositions <= 0 {
		return fmt.Errorf("account.max_positions must be positive")
	}
	if a.MaxDailyLossPct <= 0 || a.MaxDailyLossPct >= 1 {
		return fmt.Errorf("account.max_daily_loss_pct must be in (0, 1)")
	}
	if a.MaxDrawdownPct <= 0 || a.MaxDrawdownPct >= 1 {
		return fmt.Errorf("account.max_drawdown_pct must be in (0, 1)")
	}

	s := c.Strategy
	if _, err := strategy.ByName(s.Name, c.Params()); err != nil {
		return err
	}
	if s.RSIOversold <= 0 || s.RSIOverbought >= 100 || s.RSIOversold >= s.RSIOverbought {
		return fmt.Errorf("strategy rsi thresholds must satisfy 0 < oversold < overbought < 100")
	}
	if s.MinSignalAgreement < 1 {
		return fmt.Errorf("strategy.min_signal_agreement must be at least 1")
	}
	if s.VolumeRatioThreshold <= 0 {
		return fmt.Errorf("strategy.volume_ratio_threshold must be positive")
	}

	i := c.Indicators
	for name, v := range map[string]int{
		"rsi_period":  i.RSIPeriod,
		"macd_fast":   i.MACDFast,
		"macd_slow":   i.MACDSlow,
		"macd_signal": i.MACDSignal,
		"ma_short":    i.MAShort,
		"ma_long":     i.MALong,
		"bb_period":   i.BBPeriod,
	} {
		if v <= 0 {
			return fmt.Errorf("indicators.%s must be positive", name)
		}
	}
	if i.MAShort >= i.MALong {
		return fmt.Errorf("indicators.ma_short must be below ma_long")
	}
	if i.BBStd <= 0 {
		return fmt.Errorf("indicators.bb_std must be positive")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal.trades_file and equity_file required for csv journal")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	default:
		return fmt.Errorf("journal.type must be none, csv or sqlite")
	}
	return nil
}

// Default returns a configuration with the stock defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCapital:  100_000,
			PositionSizePct: 0.1,
			StopLossPct:     0.015,
			TakeProfitPct:   0.03,
			MaxPositions:    3,
			MaxDailyLossPct: 0.04,
			MaxDrawdownPct:  0.12,
		},
		Strategy: StrategyConfig{
			Name:                 "combined",
			RSIOversold:          30,
			RSIOverbought:        70,
			MinSignalAgreement:   2,
			VolumeRatioThreshold: 1.2,
		},
		Indicators: IndicatorConfig{
			RSIPeriod:  14,
			MACDFast:   12,
			MACDSlow:   26,
			MACDSignal: 9,
			MAShort:    20,
			MALong:     50,
			BBPeriod:   20,
			BBStd:      2,
		},
		Journal: JournalConfig{Type: "none"},
	}
}

// Limits maps the account section onto the book's risk limits.
func (c *Config) Limits() account.Limits {
	return account.Limits{
		InitialCapital:  c.Account.InitialCapital,
		PositionSizePct: c.Account.PositionSizePct,
		StopLossPct:     c.Account.StopLossPct,
		TakeProfitPct:   c.Account.TakeProfitPct,
		MaxPositions:    c.Account.MaxPositions,
		MaxDailyLossPct: c.Account.MaxDailyLossPct,
		MaxDrawdownPct:  c.Account.MaxDrawdownPct,
	}
}

// Params maps the strategy section onto the signal thresholds.
func (c *Config) Params() strategy.Params {
	return strategy.Params{
		RSIOversold:   c.Strategy.RSIOversold,
		RSIOverbought: c.Strategy.RSIOverbought,
		MinAgreement:  c.Strategy.MinSignalAgreement,
		VolumeRatio:   c.Strategy.VolumeRatioThreshold,
	}
}

// IndicatorParams maps the indicator section onto computation periods.
func (c *Config) IndicatorParams() indicators.Config {
	return indicators.Config{
		RSIPeriod:    c.Indicators.RSIPeriod,
		MACDFast:     c.Indicators.MACDFast,
		MACDSlow:     c.Indicators.MACDSlow,
		MACDSignal:   c.Indicators.MACDSignal,
		SMAShort:     c.Indicators.MAShort,
		SMALong:      c.Indicators.MALong,
		BBPeriod:     c.Indicators.BBPeriod,
		BBStdDev:     c.Indicators.BBStd,
		VolumePeriod: 20,
	}
}
