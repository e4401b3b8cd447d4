package backtest

import (
	"fmt"
	"io"
	"math"
	"time"
)

// Result is the immutable output bundle of one run: the closed ledger, the
// equity curve and the derived metrics.
type Result struct {
	Config     Config
	Instrument string

	Start time.Time
	End   time.Time

	FinalEquity float64
	Trades      []Trade
	EquityCurve []EquityPoint
	Metrics     Metrics
}

// WriteSummary renders a human-readable report. Purely presentational; the
// numbers all live in Metrics.
func (r *Result) WriteSummary(w io.Writer) {
	m := r.Metrics

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Instrument:    %s\n", r.Instrument)
	fmt.Fprintf(w, "Period:        %s to %s\n",
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capital")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Initial:       %.2f\n", r.Config.InitialCapital)
	fmt.Fprintf(w, "Final:         %.2f\n", r.FinalEquity)
	fmt.Fprintf(w, "Return:        %.2f (%.2f%%)\n", m.TotalReturn, m.TotalReturnPct)
	fmt.Fprintf(w, "Annualized:    %.2f%%\n", m.AnnualizedReturn)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Sharpe Ratio:  %.2f\n", m.SharpeRatio)
	fmt.Fprintf(w, "Sortino Ratio: %.2f\n", m.SortinoRatio)
	fmt.Fprintf(w, "Max Drawdown:  %.2f (%.2f%%)\n", m.MaxDrawdown, m.MaxDrawdownPct)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trades")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total:         %d\n", m.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d (%.2f%%)\n", m.WinningTrades, m.WinRate)
	fmt.Fprintf(w, "Losses:        %d\n", m.LosingTrades)
	fmt.Fprintf(w, "Avg Win:       %.2f\n", m.AvgWin)
	fmt.Fprintf(w, "Avg Loss:      %.2f\n", m.AvgLoss)
	if math.IsInf(m.ProfitFactor, 1) {
		fmt.Fprintf(w, "Profit Factor: inf\n")
	} else {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", m.ProfitFactor)
	}
	fmt.Fprintf(w, "Best Trade:    %.2f\n", m.BestTrade)
	fmt.Fprintf(w, "Worst Trade:   %.2f\n", m.WorstTrade)
	fmt.Fprintf(w, "Avg Duration:  %s\n", m.AvgTradeDuration)
	fmt.Fprintln(w)
}
