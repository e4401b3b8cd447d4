package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/backtester/alerts"
	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/market/data"
	"github.com/rustyeddy/backtester/strategies"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over historical or synthetic data",
	Long: `Run a single backtest and print the performance summary.

Price data comes from a candle CSV (optionally xz-compressed), or from a
deterministic synthetic series when no CSV is given. Results are saved to
the SQLite journal unless --no-journal is set.

Examples:
  backtester run --csv data/btcusd.csv --strategy sma-cross --fast 10 --slow 30
  backtester run --config examples/configs/sma.yaml
  backtester run --bars 1000 --seed 7 --strategy rsi-reversion`,
	RunE: runRun,
}

var (
	runConfigPath string
	runCSVPath    string
	runInstrument string
	runBars       int
	runSeed       int64

	runStrategy string
	runCapital  float64
	runComm     float64
	runSlip     float64
	runSize     float64
	runStop     float64
	runTake     float64

	runDBPath    string
	runNoJournal bool

	runParams strategies.Params
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "path to candle CSV (time,open,high,low,close[,volume]; .xz supported)")
	runCmd.Flags().StringVarP(&runInstrument, "instrument", "i", "", "instrument symbol")
	runCmd.Flags().IntVar(&runBars, "bars", 0, "synthetic series length when no CSV is given")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "synthetic series seed")

	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "", "strategy name (see 'backtester strategies')")
	runCmd.Flags().Float64VarP(&runCapital, "balance", "b", 0, "starting capital")
	runCmd.Flags().Float64Var(&runComm, "commission", -1, "commission rate per side (0.001 = 0.1%)")
	runCmd.Flags().Float64Var(&runSlip, "slippage", -1, "slippage rate per side")
	runCmd.Flags().Float64Var(&runSize, "size", 0, "position size as a fraction of cash (1.0 = all in)")
	runCmd.Flags().Float64Var(&runStop, "stop", 0, "stop loss percent (5 = 5%), 0 disables")
	runCmd.Flags().Float64Var(&runTake, "take", 0, "take profit percent (10 = 10%), 0 disables")

	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "path to SQLite journal DB")
	runCmd.Flags().BoolVar(&runNoJournal, "no-journal", false, "skip journaling the run")

	runCmd.Flags().IntVar(&runParams.Fast, "fast", 0, "fast period (sma-cross, macd-cross, trend-following)")
	runCmd.Flags().IntVar(&runParams.Slow, "slow", 0, "slow period (sma-cross, macd-cross, trend-following)")
	runCmd.Flags().IntVar(&runParams.Period, "period", 0, "lookback period (rsi-reversion, bollinger-bounce, momentum)")
	runCmd.Flags().Float64Var(&runParams.Threshold, "threshold", 0, "momentum: entry threshold")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	series, err := loadSeries(cfg)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, cfg.Strategy.Params)
	if err != nil {
		return err
	}

	engine, err := backtest.New(cfg.EngineConfig())
	if err != nil {
		return err
	}

	log.Info().
		Str("strategy", strat.Name()).
		Str("instrument", series.Instrument).
		Int("bars", series.Len()).
		Msg("running backtest")

	started := time.Now()
	res, err := engine.Run(series, strat)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(started)).Msg("backtest complete")

	res.WriteSummary(os.Stdout)

	if runNoJournal {
		return nil
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	runID, err := j.SaveRun(strat.Name(), res)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	log.Info().Str("run", runID).Str("db", cfg.Journal.DBPath).Msg("run journaled")

	if cfg.Alerts.WebhookURL != "" {
		notifier := alerts.NewWebhook(cfg.Alerts.WebhookURL, log)
		if err := notifier.NotifyRun(context.Background(), runID, strat.Name(), res); err != nil {
			log.Warn().Err(err).Msg("webhook notification failed")
		}
	}
	return nil
}

// loadRunConfig resolves file config and flag overrides. Flags win.
func loadRunConfig() (*config.Config, error) {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if runCSVPath != "" {
		cfg.Data.CSVPath = runCSVPath
	}
	if runInstrument != "" {
		cfg.Data.Instrument = runInstrument
	}
	if runBars > 0 {
		cfg.Data.Bars = runBars
	}
	cfg.Data.Seed = runSeed

	if runStrategy != "" {
		cfg.Strategy.Name = runStrategy
	}
	if runParams.Fast > 0 {
		cfg.Strategy.Params.Fast = runParams.Fast
	}
	if runParams.Slow > 0 {
		cfg.Strategy.Params.Slow = runParams.Slow
	}
	if runParams.Period > 0 {
		cfg.Strategy.Params.Period = runParams.Period
	}
	if runParams.Threshold != 0 {
		cfg.Strategy.Params.Threshold = runParams.Threshold
	}

	if runCapital > 0 {
		cfg.Backtest.InitialCapital = runCapital
	}
	if runComm >= 0 {
		cfg.Backtest.Commission = runComm
	}
	if runSlip >= 0 {
		cfg.Backtest.Slippage = runSlip
	}
	if runSize > 0 {
		cfg.Backtest.PositionSize = runSize
	}
	if runStop > 0 {
		cfg.Backtest.StopLoss = &runStop
	}
	if runTake > 0 {
		cfg.Backtest.TakeProfit = &runTake
	}
	if runDBPath != "" {
		cfg.Journal.DBPath = runDBPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSeries builds the candle series from CSV or the synthetic generator.
func loadSeries(cfg *config.Config) (*market.Series, error) {
	if cfg.Data.CSVPath != "" {
		return data.LoadCSV(cfg.Data.CSVPath, cfg.Data.Instrument)
	}
	return data.Synthetic(data.SyntheticConfig{
		Instrument: cfg.Data.Instrument,
		Bars:       cfg.Data.Bars,
		Volatility: cfg.Data.Volatility,
		Seed:       cfg.Data.Seed,
	}), nil
}
