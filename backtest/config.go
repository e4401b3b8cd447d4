// Package backtest replays a candle series bar by bar, simulating order
// execution with commission, slippage and risk exits, and derives
// performance metrics from the resulting trade ledger.
package backtest

import "fmt"

// Config fixes the parameters of a single backtest run. It is consumed
// read-only by the engine; construct one per run.
type Config struct {
	InitialCapital float64 // starting cash, > 0

	Commission float64 // fraction of notional charged per fill, e.g. 0.001
	Slippage   float64 // fraction of price applied adversely on entry and exit

	// PositionSize is the fraction of available cash committed per entry,
	// in (0, 1].
	PositionSize float64

	// StopLoss and TakeProfit are percent thresholds on the signed move
	// from the entry price (15 means 15%). Nil disables the check.
	StopLoss   *float64
	TakeProfit *float64

	// MaxPositions is accepted for config compatibility but the engine
	// tracks a single open position; values above 1 change nothing.
	MaxPositions int

	// PeriodsPerYear annualizes Sharpe/Sortino. Zero defaults to 252
	// (daily bars).
	PeriodsPerYear int
}

// DefaultConfig mirrors the defaults of the original research setup:
// $10k, 0.1% commission, 0.05% slippage, all-in sizing, no risk exits.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 10_000,
		Commission:     0.001,
		Slippage:       0.0005,
		PositionSize:   1.0,
		MaxPositions:   1,
		PeriodsPerYear: 252,
	}
}

// Validate fails fast on malformed configuration, before any engine state
// exists. Runtime no-ops (unfunded entries etc.) are not config errors.
func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("config: initial capital must be positive, got %.2f", c.InitialCapital)
	}
	if c.Commission < 0 {
		return fmt.Errorf("config: commission must be >= 0, got %f", c.Commission)
	}
	if c.Slippage < 0 {
		return fmt.Errorf("config: slippage must be >= 0, got %f", c.Slippage)
	}
	if c.PositionSize <= 0 || c.PositionSize > 1 {
		return fmt.Errorf("config: position size must be in (0,1], got %f", c.PositionSize)
	}
	if c.StopLoss != nil && *c.StopLoss <= 0 {
		return fmt.Errorf("config: stop loss must be positive when set, got %f", *c.StopLoss)
	}
	if c.TakeProfit != nil && *c.TakeProfit <= 0 {
		return fmt.Errorf("config: take profit must be positive when set, got %f", *c.TakeProfit)
	}
	if c.MaxPositions < 1 {
		return fmt.Errorf("config: max positions must be >= 1, got %d", c.MaxPositions)
	}
	if c.PeriodsPerYear < 0 {
		return fmt.Errorf("config: periods per year must be >= 0, got %d", c.PeriodsPerYear)
	}
	return nil
}

func (c Config) periodsPerYear() float64 {
	if c.PeriodsPerYear == 0 {
		return 252
	}
	return float64(c.PeriodsPerYear)
}
