// Package journal persists completed backtest runs so the CLI and the
// dashboard API can query them later. It never feeds data back into a
// running engine.
package journal

import (
	"time"

	"github.com/rustyeddy/backtester/backtest"
)

// RunRecord mirrors the runs table: one row per completed backtest.
// ProfitFactor is nil when the run had winners but no losers (the
// "infinite" sentinel), since neither SQLite nor JSON carry +Inf well.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	Created    time.Time `json:"created"`
	Instrument string    `json:"instrument"`
	Strategy   string    `json:"strategy"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`

	TotalReturnPct   float64  `json:"total_return_pct"`
	AnnualizedReturn float64  `json:"annualized_return"`
	SharpeRatio      float64  `json:"sharpe_ratio"`
	SortinoRatio     float64  `json:"sortino_ratio"`
	MaxDrawdownPct   float64  `json:"max_drawdown_pct"`
	WinRate          float64  `json:"win_rate"`
	ProfitFactor     *float64 `json:"profit_factor"`

	Trades int `json:"trades"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// TradeRecord mirrors the trades table.
type TradeRecord struct {
	TradeID    string    `json:"trade_id"`
	RunID      string    `json:"run_id"`
	Instrument string    `json:"instrument"`
	Side       string    `json:"side"`
	Quantity   float64   `json:"quantity"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Commission float64   `json:"commission"`
	PnL        float64   `json:"pnl"`
	PnLPercent float64   `json:"pnl_percent"`
	Reason     string    `json:"reason"`
}

// EquityRecord mirrors the equity table.
type EquityRecord struct {
	RunID  string    `json:"run_id"`
	Time   time.Time `json:"time"`
	Equity float64   `json:"equity"`
}

// Journal records completed runs.
type Journal interface {
	SaveRun(strategy string, res *backtest.Result) (runID string, err error)
	Close() error
}
