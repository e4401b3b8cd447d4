package cmd

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/strategies"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep strategy parameters across a grid",
	Long: `Sweep runs the same strategy over every fast/slow (or period) combination
in the given ranges and ranks the results by total return. Each combination
gets its own engine, so runs never share state.

Ranges are min:max:step.

Examples:
  backtester sweep --csv data/btcusd.csv --strategy sma-cross --fast-range 5:20:5 --slow-range 20:100:20
  backtester sweep --bars 1000 --strategy rsi-reversion --period-range 7:28:7`,
	RunE: runSweep,
}

var (
	sweepConfigPath  string
	sweepCSVPath     string
	sweepInstrument  string
	sweepBars        int
	sweepSeed        int64
	sweepStrategy    string
	sweepFastRange   string
	sweepSlowRange   string
	sweepPeriodRange string
	sweepTop         int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&sweepConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	sweepCmd.Flags().StringVar(&sweepCSVPath, "csv", "", "path to candle CSV")
	sweepCmd.Flags().StringVarP(&sweepInstrument, "instrument", "i", "", "instrument symbol")
	sweepCmd.Flags().IntVar(&sweepBars, "bars", 0, "synthetic series length when no CSV is given")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 42, "synthetic series seed")
	sweepCmd.Flags().StringVarP(&sweepStrategy, "strategy", "s", "sma-cross", "strategy name")
	sweepCmd.Flags().StringVar(&sweepFastRange, "fast-range", "", "fast period range, min:max:step")
	sweepCmd.Flags().StringVar(&sweepSlowRange, "slow-range", "", "slow period range, min:max:step")
	sweepCmd.Flags().StringVar(&sweepPeriodRange, "period-range", "", "lookback period range, min:max:step")
	sweepCmd.Flags().IntVar(&sweepTop, "top", 10, "show only the top N results")
}

type sweepResult struct {
	params strategies.Params
	res    *backtest.Result
	err    error
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if sweepConfigPath != "" {
		loaded, err := config.LoadFromFile(sweepConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if sweepCSVPath != "" {
		cfg.Data.CSVPath = sweepCSVPath
	}
	if sweepInstrument != "" {
		cfg.Data.Instrument = sweepInstrument
	}
	if sweepBars > 0 {
		cfg.Data.Bars = sweepBars
	}
	cfg.Data.Seed = sweepSeed
	cfg.Strategy.Name = sweepStrategy

	series, err := loadSeries(cfg)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	grid, err := buildGrid(cfg.Strategy.Params)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return fmt.Errorf("empty parameter grid; set --fast-range/--slow-range or --period-range")
	}

	log.Info().
		Str("strategy", sweepStrategy).
		Int("combinations", len(grid)).
		Int("bars", series.Len()).
		Msg("starting sweep")

	results := runGrid(cfg, series, grid)

	var failed int
	ranked := results[:0]
	for _, r := range results {
		if r.err != nil {
			failed++
			log.Warn().Err(r.err).Msg("sweep run failed")
			continue
		}
		ranked = append(ranked, r)
	}
	sort.Slice(ranked, func(i, k int) bool {
		return ranked[i].res.Metrics.TotalReturnPct > ranked[k].res.Metrics.TotalReturnPct
	})
	if sweepTop > 0 && len(ranked) > sweepTop {
		ranked = ranked[:sweepTop]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FAST\tSLOW\tPERIOD\tRETURN\tSHARPE\tMAX DD\tTRADES\tWIN RATE")
	for _, r := range ranked {
		m := r.res.Metrics
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2f%%\t%.2f\t%.2f%%\t%d\t%.1f%%\n",
			r.params.Fast, r.params.Slow, r.params.Period,
			m.TotalReturnPct, m.SharpeRatio, m.MaxDrawdownPct, m.TotalTrades, m.WinRate)
	}
	w.Flush()

	if failed > 0 {
		fmt.Printf("\n%d combination(s) failed\n", failed)
	}
	return nil
}

// runGrid fans the grid out over a fixed worker pool. Every worker builds
// its own engine and strategy, so results are independent of scheduling.
func runGrid(cfg *config.Config, series *market.Series, grid []strategies.Params) []sweepResult {
	jobs := make(chan int)
	results := make([]sweepResult, len(grid))

	workers := runtime.NumCPU()
	if workers > len(grid) {
		workers = len(grid)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runOne(cfg, series, grid[i])
			}
		}()
	}
	for i := range grid {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func runOne(cfg *config.Config, series *market.Series, p strategies.Params) sweepResult {
	out := sweepResult{params: p}

	strat, err := strategies.ByName(cfg.Strategy.Name, p)
	if err != nil {
		out.err = err
		return out
	}
	engine, err := backtest.New(cfg.EngineConfig())
	if err != nil {
		out.err = err
		return out
	}
	out.res, out.err = engine.Run(series, strat)
	return out
}

// buildGrid expands the range flags into the full parameter grid. Base
// params from the config file fill whatever the ranges leave untouched.
func buildGrid(base strategies.Params) ([]strategies.Params, error) {
	fasts, err := parseRange(sweepFastRange)
	if err != nil {
		return nil, fmt.Errorf("fast-range: %w", err)
	}
	slows, err := parseRange(sweepSlowRange)
	if err != nil {
		return nil, fmt.Errorf("slow-range: %w", err)
	}
	periods, err := parseRange(sweepPeriodRange)
	if err != nil {
		return nil, fmt.Errorf("period-range: %w", err)
	}

	if len(fasts) == 0 && len(slows) == 0 && len(periods) == 0 {
		return nil, nil
	}
	if len(fasts) == 0 {
		fasts = []int{base.Fast}
	}
	if len(slows) == 0 {
		slows = []int{base.Slow}
	}
	if len(periods) == 0 {
		periods = []int{base.Period}
	}

	var grid []strategies.Params
	for _, f := range fasts {
		for _, s := range slows {
			if f > 0 && s > 0 && f >= s {
				continue
			}
			for _, p := range periods {
				params := base
				params.Fast = f
				params.Slow = s
				params.Period = p
				grid = append(grid, params)
			}
		}
	}
	return grid, nil
}

func parseRange(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var min, max, step int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &min, &max, &step); err != nil {
		return nil, fmt.Errorf("want min:max:step, got %q", s)
	}
	if step <= 0 || min <= 0 || max < min {
		return nil, fmt.Errorf("invalid range %q", s)
	}
	var out []int
	for v := min; v <= max; v += step {
		out = append(out, v)
	}
	return out, nil
}
