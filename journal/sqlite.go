package journal

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/internal/id"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// SaveRun writes the run row plus all trades and equity samples in one
// transaction and returns the generated run ID.
func (j *SQLiteJournal) SaveRun(strategy string, res *backtest.Result) (string, error) {
	runID := id.New()
	m := res.Metrics

	var pf sql.NullFloat64
	if !math.IsInf(m.ProfitFactor, 1) {
		pf = sql.NullFloat64{Float64: m.ProfitFactor, Valid: true}
	}

	tx, err := j.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created, instrument, strategy, start_time, end_time,
		 initial_capital, final_equity, total_return_pct, annualized_return,
		 sharpe_ratio, sortino_ratio, max_drawdown_pct, win_rate,
		 profit_factor, trades, wins, losses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), res.Instrument, strategy, res.Start, res.End,
		res.Config.InitialCapital, res.FinalEquity, m.TotalReturnPct, m.AnnualizedReturn,
		m.SharpeRatio, m.SortinoRatio, m.MaxDrawdownPct, m.WinRate,
		pf, m.TotalTrades, m.WinningTrades, m.LosingTrades,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	tradeStmt, err := tx.Prepare(`
		INSERT INTO trades
		(trade_id, run_id, instrument, side, quantity, entry_time, exit_time,
		 entry_price, exit_price, commission, pnl, pnl_percent, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer tradeStmt.Close()

	for _, t := range res.Trades {
		_, err := tradeStmt.Exec(
			id.New(), runID, t.Instrument, t.Side.String(), t.Quantity,
			t.EntryTime, t.ExitTime, t.EntryPrice, t.ExitPrice,
			t.Commission, t.PnL, t.PnLPercent, string(t.Reason),
		)
		if err != nil {
			return "", fmt.Errorf("insert trade: %w", err)
		}
	}

	eqStmt, err := tx.Prepare(`INSERT INTO equity (run_id, time, equity) VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer eqStmt.Close()

	for _, p := range res.EquityCurve {
		if _, err := eqStmt.Exec(runID, p.Time, p.Equity); err != nil {
			return "", fmt.Errorf("insert equity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
