package backtest

import (
	"math"
	"time"
)

// Metrics are derived from the closed ledger and equity curve. The
// computation is a pure function: the same inputs always produce the same
// metrics, and degenerate inputs (no trades, single-sample curves, zero
// variance) resolve to neutral zero values instead of NaN. The one
// deliberate exception is ProfitFactor, which is +Inf when there are
// winners but no losers.
type Metrics struct {
	TotalReturn      float64 // currency
	TotalReturnPct   float64
	AnnualizedReturn float64 // percent per year

	SharpeRatio  float64
	SortinoRatio float64

	MaxDrawdown     float64 // currency, >= 0
	MaxDrawdownPct  float64 // negative percent
	MaxDrawdownPeak time.Time

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // percent

	AvgWin       float64
	AvgLoss      float64 // negative
	ProfitFactor float64
	BestTrade    float64
	WorstTrade   float64

	AvgTradeDuration time.Duration
}

func computeMetrics(cfg Config, trades []Trade, equity []EquityPoint) Metrics {
	var m Metrics

	m.tradeStats(trades)

	if len(equity) == 0 {
		return m
	}

	first := equity[0].Equity
	last := equity[len(equity)-1].Equity

	m.TotalReturn = last - first
	if first != 0 {
		m.TotalReturnPct = m.TotalReturn / first * 100
	}

	// Annualize over the calendar span of the curve.
	days := equity[len(equity)-1].Time.Sub(equity[0].Time).Hours() / 24
	years := days / 365.25
	if years > 0 && first > 0 && last > 0 {
		m.AnnualizedReturn = (math.Pow(last/first, 1/years) - 1) * 100
	}

	returns := periodReturns(equity)
	m.SharpeRatio = sharpe(returns, cfg.periodsPerYear())
	m.SortinoRatio = sortino(returns, cfg.periodsPerYear())
	m.MaxDrawdown, m.MaxDrawdownPct, m.MaxDrawdownPeak = maxDrawdown(equity)

	return m
}

func (m *Metrics) tradeStats(trades []Trade) {
	m.TotalTrades = len(trades)
	if len(trades) == 0 {
		return
	}

	var grossProfit, grossLoss float64
	var sumWin, sumLoss float64
	var total time.Duration

	m.BestTrade = trades[0].PnL
	m.WorstTrade = trades[0].PnL

	for _, t := range trades {
		switch {
		case t.PnL > 0:
			m.WinningTrades++
			grossProfit += t.PnL
			sumWin += t.PnL
		case t.PnL < 0:
			m.LosingTrades++
			grossLoss += -t.PnL
			sumLoss += t.PnL
		}
		if t.PnL > m.BestTrade {
			m.BestTrade = t.PnL
		}
		if t.PnL < m.WorstTrade {
			m.WorstTrade = t.PnL
		}
		total += t.Duration()
	}

	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	if m.WinningTrades > 0 {
		m.AvgWin = sumWin / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = sumLoss / float64(m.LosingTrades)
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		m.ProfitFactor = math.Inf(1)
	}

	m.AvgTradeDuration = total / time.Duration(len(trades))
}

// periodReturns is the percent change between consecutive equity samples.
func periodReturns(equity []EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (equity[i].Equity-prev)/prev)
	}
	return out
}

func sharpe(returns []float64, periodsPerYear float64) float64 {
	mean, std := meanStd(returns)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(periodsPerYear)
}

func sortino(returns []float64, periodsPerYear float64) float64 {
	mean, _ := meanStd(returns)

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	_, downStd := meanStd(downside)
	if downStd == 0 {
		return 0
	}
	return mean / downStd * math.Sqrt(periodsPerYear)
}

// meanStd returns the mean and sample standard deviation. Fewer than two
// values yields a zero deviation.
func meanStd(xs []float64) (mean, std float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= n
	if n < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}

// maxDrawdown scans the curve for the deepest peak-to-trough decline.
// The percent is negative; the currency amount is positive. The returned
// time is the running-maximum peak preceding the trough.
func maxDrawdown(equity []EquityPoint) (amount, pct float64, peak time.Time) {
	if len(equity) == 0 {
		return 0, 0, time.Time{}
	}

	runMax := equity[0].Equity
	runPeak := equity[0].Time
	worst := 0.0

	for _, p := range equity {
		if p.Equity > runMax {
			runMax = p.Equity
			runPeak = p.Time
		}
		if runMax <= 0 {
			continue
		}
		dd := (p.Equity - runMax) / runMax
		if dd < worst {
			worst = dd
			amount = runMax - p.Equity
			peak = runPeak
		}
	}

	return amount, worst * 100, peak
}
