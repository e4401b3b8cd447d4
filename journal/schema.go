package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	strategy TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	initial_capital REAL NOT NULL,
	final_equity REAL NOT NULL,
	total_return_pct REAL NOT NULL,
	annualized_return REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	sortino_ratio REAL NOT NULL,
	max_drawdown_pct REAL NOT NULL,
	win_rate REAL NOT NULL,
	profit_factor REAL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	commission REAL NOT NULL,
	pnl REAL NOT NULL,
	pnl_percent REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	time DATETIME NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, time);
`
