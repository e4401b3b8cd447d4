package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/backtester/market"
)

// Engine is the bar-by-bar state machine: FLAT or IN_POSITION. A run is a
// synchronous fold over the input series with no I/O; identical inputs
// produce an identical ledger. An Engine must not be shared between
// concurrent runs; parameter sweeps use one Engine per run.
type Engine struct {
	cfg    Config
	series *market.Series

	cash   float64
	pos    Position
	trades []Trade
	equity []EquityPoint
}

// New builds an engine for the given configuration. Malformed configuration
// fails here, before any run state exists.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the run configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run replays the series through the strategy and returns the completed
// result. State is reset at the start, so an engine may be reused for
// sequential runs.
//
// Per-bar order, fixed to avoid lookahead: risk exits against this bar's
// close first; a forced exit suppresses the strategy for that bar;
// otherwise the strategy decides; the equity sample is recorded last, at
// the post-transition state.
func (e *Engine) Run(series *market.Series, strat Strategy) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("backtest: strategy is required")
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	e.series = series
	e.cash = e.cfg.InitialCapital
	e.pos = Position{}
	e.trades = nil
	e.equity = make([]EquityPoint, 0, series.Len())

	for i, c := range series.Candles {
		price := c.Close

		exited := false
		if e.pos.Open {
			if reason, hit := checkExit(&e.cfg, &e.pos, price); hit {
				e.exit(c.Time, price, reason)
				exited = true
			}
		}

		if !exited {
			strat.OnBar(&Context{engine: e, idx: i}, c)
		}

		e.equity = append(e.equity, EquityPoint{Time: c.Time, Equity: e.equityAt(price)})
	}

	// Anything still open is closed at the final bar's price.
	if e.pos.Open {
		last := series.Last()
		e.exit(last.Time, last.Close, ExitEndOfData)
	}

	res := &Result{
		Config:      e.cfg,
		Instrument:  series.Instrument,
		Start:       series.First().Time,
		End:         series.Last().Time,
		FinalEquity: e.cash,
		Trades:      e.trades,
		EquityCurve: e.equity,
	}
	res.Metrics = computeMetrics(e.cfg, e.trades, e.equity)
	return res, nil
}

// enter attempts the FLAT -> IN_POSITION transition at the bar's close.
// It reports false, without error, when the engine is already in a
// position or the sized order cannot be funded.
func (e *Engine) enter(side Side, c market.Candle) bool {
	if e.pos.Open {
		// Single-position engine; MaxPositions > 1 does not change this.
		return false
	}
	if c.Close <= 0 {
		return false
	}

	budget := e.cash * e.cfg.PositionSize
	eff := entryPrice(c.Close, side, e.cfg.Slippage)

	// Size so that notional plus entry commission consumes the budget.
	qty := budget / (eff * (1 + e.cfg.Commission))
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return false
	}

	notional := qty * eff
	comm := commission(notional, e.cfg.Commission)
	if notional+comm > e.cash*(1+1e-9) {
		return false
	}

	e.cash -= notional + comm
	e.pos = Position{
		Open:            true,
		Instrument:      e.series.Instrument,
		Side:            side,
		Quantity:        qty,
		EntryPrice:      eff,
		EntryTime:       c.Time,
		entryCommission: comm,
	}
	return true
}

// exit performs the IN_POSITION -> FLAT transition, realizing P&L and
// appending the trade record. Exiting while flat is a no-op.
func (e *Engine) exit(t time.Time, price float64, reason ExitReason) bool {
	if !e.pos.Open {
		return false
	}

	pos := e.pos
	eff := exitPrice(price, pos.Side, e.cfg.Slippage)
	exitComm := commission(pos.Quantity*eff, e.cfg.Commission)

	var gross float64
	if pos.Side == Long {
		gross = (eff - pos.EntryPrice) * pos.Quantity
	} else {
		gross = (pos.EntryPrice - eff) * pos.Quantity
	}
	pnl := gross - pos.entryCommission - exitComm

	// Return the entry notional plus the signed move, net of the exit fee.
	e.cash += pos.Quantity*pos.EntryPrice + gross - exitComm

	basis := pos.EntryPrice * pos.Quantity
	pct := 0.0
	if basis != 0 {
		pct = pnl / basis * 100
	}

	e.trades = append(e.trades, Trade{
		Instrument: pos.Instrument,
		Side:       pos.Side,
		Quantity:   pos.Quantity,
		EntryTime:  pos.EntryTime,
		ExitTime:   t,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  eff,
		Commission: pos.entryCommission + exitComm,
		PnL:        pnl,
		PnLPercent: pct,
		Reason:     reason,
	})
	e.pos = Position{}
	return true
}

// equityAt is cash plus the open position marked at the reference price.
func (e *Engine) equityAt(price float64) float64 {
	return e.cash + e.pos.MarketValue(price)
}
