// Package config loads the complete run configuration from YAML or JSON
// files, with selected overrides from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/strategies"
)

// Config represents a complete backtest run configuration.
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	API      APIConfig      `json:"api" yaml:"api"`
	Alerts   AlertsConfig   `json:"alerts" yaml:"alerts"`
}

// DataConfig selects the price series source.
type DataConfig struct {
	Instrument string `json:"instrument" yaml:"instrument"`
	CSVPath    string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`

	// Synthetic data parameters, used when no CSV path is set.
	Bars       int     `json:"bars,omitempty" yaml:"bars,omitempty"`
	Volatility float64 `json:"volatility,omitempty" yaml:"volatility,omitempty"`
	Seed       int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// BacktestConfig mirrors backtest.Config in file form.
type BacktestConfig struct {
	InitialCapital float64  `json:"initial_capital" yaml:"initial_capital"`
	Commission     float64  `json:"commission" yaml:"commission"`
	Slippage       float64  `json:"slippage" yaml:"slippage"`
	PositionSize   float64  `json:"position_size" yaml:"position_size"`
	StopLoss       *float64 `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
	TakeProfit     *float64 `json:"take_profit,omitempty" yaml:"take_profit,omitempty"`
	MaxPositions   int      `json:"max_positions" yaml:"max_positions"`
	PeriodsPerYear int      `json:"periods_per_year,omitempty" yaml:"periods_per_year,omitempty"`
}

// StrategyConfig names the catalog strategy and its parameters.
type StrategyConfig struct {
	Name   string            `json:"name" yaml:"name"`
	Params strategies.Params `json:"params" yaml:"params"`
}

// JournalConfig points at the sqlite journal.
type JournalConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// APIConfig configures the dashboard server.
type APIConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// AlertsConfig configures run notifications.
type AlertsConfig struct {
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty"`
}

// Default fills the settings a fresh run needs.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Instrument: "BTC-USD",
			Bars:       500,
			Volatility: 0.02,
		},
		Backtest: BacktestConfig{
			InitialCapital: 10_000,
			Commission:     0.001,
			Slippage:       0.0005,
			PositionSize:   1.0,
			MaxPositions:   1,
		},
		Strategy: StrategyConfig{Name: "sma-cross"},
		Journal:  JournalConfig{DBPath: "./backtester.sqlite"},
		API:      APIConfig{Addr: ":8080"},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file, applies
// environment overrides, and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads a .env file if present (missing files are fine) so that
// overrides and secrets stay out of committed config files.
func LoadEnv() {
	_ = godotenv.Load()
}

// applyEnv layers environment overrides onto the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("BACKTESTER_DB_PATH"); v != "" {
		c.Journal.DBPath = v
	}
	if v := os.Getenv("BACKTESTER_API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("BACKTESTER_WEBHOOK_URL"); v != "" {
		c.Alerts.WebhookURL = v
	}
	if v := os.Getenv("BACKTESTER_INSTRUMENT"); v != "" {
		c.Data.Instrument = v
	}
}

// EngineConfig converts the file form to the engine's value object.
func (c *Config) EngineConfig() backtest.Config {
	return backtest.Config{
		InitialCapital: c.Backtest.InitialCapital,
		Commission:     c.Backtest.Commission,
		Slippage:       c.Backtest.Slippage,
		PositionSize:   c.Backtest.PositionSize,
		StopLoss:       c.Backtest.StopLoss,
		TakeProfit:     c.Backtest.TakeProfit,
		MaxPositions:   c.Backtest.MaxPositions,
		PeriodsPerYear: c.Backtest.PeriodsPerYear,
	}
}

// Validate checks the configuration before anything runs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Instrument) == "" {
		return fmt.Errorf("data.instrument is required")
	}
	if c.Data.CSVPath == "" && c.Data.Bars <= 0 {
		return fmt.Errorf("data requires either csv_path or bars > 0")
	}
	if strings.TrimSpace(c.Strategy.Name) == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if err := c.EngineConfig().Validate(); err != nil {
		return err
	}
	return nil
}

// SaveToFile writes the configuration as YAML or JSON by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
