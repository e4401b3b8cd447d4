package journal

import (
	"database/sql"
	"fmt"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = sql.ErrNoRows

const runColumns = `run_id, created, instrument, strategy, start_time, end_time,
	initial_capital, final_equity, total_return_pct, annualized_return,
	sharpe_ratio, sortino_ratio, max_drawdown_pct, win_rate,
	profit_factor, trades, wins, losses`

func scanRun(row interface{ Scan(...any) error }) (RunRecord, error) {
	var r RunRecord
	var pf sql.NullFloat64
	err := row.Scan(
		&r.RunID, &r.Created, &r.Instrument, &r.Strategy, &r.Start, &r.End,
		&r.InitialCapital, &r.FinalEquity, &r.TotalReturnPct, &r.AnnualizedReturn,
		&r.SharpeRatio, &r.SortinoRatio, &r.MaxDrawdownPct, &r.WinRate,
		&pf, &r.Trades, &r.Wins, &r.Losses,
	)
	if err != nil {
		return RunRecord{}, err
	}
	if pf.Valid {
		r.ProfitFactor = &pf.Float64
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first.
func (j *SQLiteJournal) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(
		fmt.Sprintf(`SELECT %s FROM runs ORDER BY created DESC LIMIT ?`, runColumns), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns a single run by ID (ErrNotFound when missing).
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM runs WHERE run_id = ?`, runColumns), runID)
	return scanRun(row)
}

// TradesByRun returns a run's trades in entry order.
func (j *SQLiteJournal) TradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, instrument, side, quantity, entry_time, exit_time,
		       entry_price, exit_price, commission, pnl, pnl_percent, reason
		FROM trades WHERE run_id = ? ORDER BY entry_time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		err := rows.Scan(
			&t.TradeID, &t.RunID, &t.Instrument, &t.Side, &t.Quantity,
			&t.EntryTime, &t.ExitTime, &t.EntryPrice, &t.ExitPrice,
			&t.Commission, &t.PnL, &t.PnLPercent, &t.Reason,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// EquityByRun returns a run's equity curve in time order.
func (j *SQLiteJournal) EquityByRun(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, equity FROM equity WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var e EquityRecord
		if err := rows.Scan(&e.RunID, &e.Time, &e.Equity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
