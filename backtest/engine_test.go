package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/backtester/market"
)

// dailySeries builds one candle per day from the close prices alone.
func dailySeries(closes ...float64) *market.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, len(closes))
	for i, c := range closes {
		candles[i] = market.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return market.NewSeries("TEST-USD", candles)
}

// frictionless removes commission and slippage so arithmetic is exact.
func frictionless() Config {
	cfg := DefaultConfig()
	cfg.Commission = 0
	cfg.Slippage = 0
	return cfg
}

func mustRun(t *testing.T, cfg Config, series *market.Series, strat Strategy) *Result {
	t.Helper()
	engine, err := New(cfg)
	assert.NoError(t, err)
	res, err := engine.Run(series, strat)
	assert.NoError(t, err)
	return res
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialCapital = 0
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.PositionSize = 1.5
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestRunRejectsBadInput(t *testing.T) {
	t.Parallel()

	engine, err := New(DefaultConfig())
	assert.NoError(t, err)

	_, err = engine.Run(dailySeries(100, 101), nil)
	assert.Error(t, err)

	_, err = engine.Run(market.NewSeries("EMPTY", nil), NewSignalStrategy("s", nil))
	assert.Error(t, err)
}

func TestSingleRoundTripFrictionless(t *testing.T) {
	t.Parallel()

	series := dailySeries(100, 110, 120, 130)
	strat := NewSignalStrategy("test", []Signal{SignalBuy, SignalHold, SignalSell, SignalHold})

	res := mustRun(t, frictionless(), series, strat)

	assert.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, Long, tr.Side)
	assert.Equal(t, ExitSignal, tr.Reason)
	assert.InDelta(t, 100.0, tr.Quantity, 1e-9)
	assert.InDelta(t, 100.0, tr.EntryPrice, 1e-9)
	assert.InDelta(t, 120.0, tr.ExitPrice, 1e-9)
	assert.InDelta(t, 2000.0, tr.PnL, 1e-9)
	assert.InDelta(t, 20.0, tr.PnLPercent, 1e-9)
	assert.Equal(t, 0.0, tr.Commission)

	assert.InDelta(t, 12_000.0, res.FinalEquity, 1e-9)

	// One equity sample per bar, at the post-transition state.
	assert.Len(t, res.EquityCurve, 4)
	want := []float64{10_000, 11_000, 12_000, 12_000}
	for i, p := range res.EquityCurve {
		assert.Equal(t, series.Candles[i].Time, p.Time)
		assert.InDelta(t, want[i], p.Equity, 1e-9, "bar %d", i)
	}
}

func TestCashConservation(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.PositionSize = 0.5

	series := dailySeries(100, 104, 99, 103, 97, 105, 101, 110, 95, 102)
	signals := []Signal{SignalBuy, 0, SignalSell, SignalBuy, 0, SignalSell, SignalBuy, 0, 0, SignalSell}

	res := mustRun(t, cfg, series, NewSignalStrategy("churn", signals))
	assert.Len(t, res.Trades, 3)

	// Final cash equals initial capital plus the sum of realized P&L.
	sum := 0.0
	for _, tr := range res.Trades {
		sum += tr.PnL
	}
	assert.InDelta(t, cfg.InitialCapital+sum, res.FinalEquity, 1e-6)
}

func TestEntrySizingWithCosts(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig() // 0.1% commission, 0.05% slippage, all in

	series := dailySeries(100, 100)
	var entryCash, entryQty, entryPx, entryComm float64
	strat := NewCallbackStrategy("probe", func(ctx *Context, c market.Candle) {
		if ctx.Index() != 0 {
			return
		}
		before := ctx.Cash()
		assert.True(t, ctx.Buy())
		pos := ctx.Position()
		entryCash = before - ctx.Cash()
		entryQty = pos.Quantity
		entryPx = pos.EntryPrice
		entryComm = entryCash - entryQty*entryPx
	})

	mustRun(t, cfg, series, strat)

	// Fill price carries adverse slippage.
	assert.InDelta(t, 100*1.0005, entryPx, 1e-9)
	// Sizing spends the full budget: notional plus entry commission.
	assert.InDelta(t, cfg.InitialCapital, entryCash, 1e-6)
	assert.InDelta(t, entryQty*entryPx*cfg.Commission, entryComm, 1e-6)
}

func TestStopLossExit(t *testing.T) {
	t.Parallel()

	cfg := frictionless()
	cfg.StopLoss = ptr(15)

	series := dailySeries(100, 95, 84, 80)
	res := mustRun(t, cfg, series, NewSignalStrategy("sl", []Signal{SignalBuy}))

	assert.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, ExitStopLoss, tr.Reason)
	assert.InDelta(t, 84.0, tr.ExitPrice, 1e-9)
	assert.InDelta(t, -16.0, tr.PnLPercent, 1e-9)
	assert.Equal(t, series.Candles[2].Time, tr.ExitTime)
	assert.InDelta(t, 8_400.0, res.FinalEquity, 1e-9)
}

func TestTakeProfitExit(t *testing.T) {
	t.Parallel()

	cfg := frictionless()
	cfg.TakeProfit = ptr(30)

	series := dailySeries(100, 120, 131, 140)
	res := mustRun(t, cfg, series, NewSignalStrategy("tp", []Signal{SignalBuy}))

	assert.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, ExitTakeProfit, tr.Reason)
	assert.InDelta(t, 131.0, tr.ExitPrice, 1e-9)
	assert.InDelta(t, 31.0, tr.PnLPercent, 1e-9)
}

func TestForcedExitSuppressesSameBarEntry(t *testing.T) {
	t.Parallel()

	cfg := frictionless()
	cfg.StopLoss = ptr(10)

	// Always re-enters when flat. The stop fires on bar 1, so the
	// re-entry must land on bar 2, not the stop bar itself.
	strat := NewCallbackStrategy("eager", func(ctx *Context, c market.Candle) {
		if !ctx.Position().Open {
			ctx.Buy()
		}
	})

	series := dailySeries(100, 85, 90, 95)
	res := mustRun(t, cfg, series, strat)

	assert.Len(t, res.Trades, 2)
	assert.Equal(t, ExitStopLoss, res.Trades[0].Reason)
	assert.Equal(t, series.Candles[1].Time, res.Trades[0].ExitTime)

	assert.Equal(t, series.Candles[2].Time, res.Trades[1].EntryTime)
	assert.InDelta(t, 90.0, res.Trades[1].EntryPrice, 1e-9)
	assert.Equal(t, ExitEndOfData, res.Trades[1].Reason)
}

func TestEndOfDataForceClose(t *testing.T) {
	t.Parallel()

	series := dailySeries(100, 105, 103)
	res := mustRun(t, frictionless(), series, NewSignalStrategy("hold", []Signal{SignalBuy}))

	assert.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, ExitEndOfData, tr.Reason)
	assert.Equal(t, series.Last().Time, tr.ExitTime)
	assert.InDelta(t, 103.0, tr.ExitPrice, 1e-9)

	// With no frictions the forced close realizes exactly the last mark.
	assert.InDelta(t, res.EquityCurve[len(res.EquityCurve)-1].Equity, res.FinalEquity, 1e-9)
}

func TestShortRoundTrip(t *testing.T) {
	t.Parallel()

	series := dailySeries(100, 95, 90)
	strat := NewCallbackStrategy("short", func(ctx *Context, c market.Candle) {
		if ctx.Index() == 0 {
			assert.True(t, ctx.Short())
		}
	})

	res := mustRun(t, frictionless(), series, strat)

	assert.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, Short, tr.Side)
	assert.InDelta(t, 1000.0, tr.PnL, 1e-9)
	assert.InDelta(t, 11_000.0, res.FinalEquity, 1e-9)

	// A short's mark moves inversely to price.
	want := []float64{10_000, 10_500, 11_000}
	for i, p := range res.EquityCurve {
		assert.InDelta(t, want[i], p.Equity, 1e-9, "bar %d", i)
	}
}

func TestDoubleEntryIsNoOp(t *testing.T) {
	t.Parallel()

	var second bool
	strat := NewCallbackStrategy("double", func(ctx *Context, c market.Candle) {
		if ctx.Index() == 0 {
			assert.True(t, ctx.Buy())
			second = ctx.Buy()
		}
	})

	res := mustRun(t, frictionless(), dailySeries(100, 101), strat)
	assert.False(t, second)
	assert.Len(t, res.Trades, 1)
}

func TestSellWhileFlatIsNoOp(t *testing.T) {
	t.Parallel()

	var sold bool
	strat := NewCallbackStrategy("flat-sell", func(ctx *Context, c market.Candle) {
		sold = ctx.Sell()
	})

	res := mustRun(t, frictionless(), dailySeries(100, 101), strat)
	assert.False(t, sold)
	assert.Empty(t, res.Trades)
}

func TestNoTradesNeutralResult(t *testing.T) {
	t.Parallel()

	series := dailySeries(100, 101, 102)
	res := mustRun(t, DefaultConfig(), series, NewCallbackStrategy("noop", func(*Context, market.Candle) {}))

	assert.Empty(t, res.Trades)
	assert.Len(t, res.EquityCurve, 3)
	assert.InDelta(t, 10_000.0, res.FinalEquity, 1e-9)

	m := res.Metrics
	assert.Equal(t, 0, m.TotalTrades)
	assert.Equal(t, 0.0, m.TotalReturnPct)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.MaxDrawdownPct)
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 0.0, m.ProfitFactor)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	series := dailySeries(100, 103, 99, 108, 104, 111, 95, 120)
	signals := []Signal{SignalBuy, 0, SignalSell, SignalBuy, 0, 0, SignalSell, SignalBuy}

	first := mustRun(t, cfg, series, NewSignalStrategy("det", signals))
	second := mustRun(t, cfg, series, NewSignalStrategy("det", signals))

	assert.Equal(t, first.Trades, second.Trades)
	assert.Equal(t, first.EquityCurve, second.EquityCurve)
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestEngineReusableAcrossRuns(t *testing.T) {
	t.Parallel()

	engine, err := New(frictionless())
	assert.NoError(t, err)

	series := dailySeries(100, 110, 120)
	strat := NewSignalStrategy("reuse", []Signal{SignalBuy, 0, SignalSell})

	first, err := engine.Run(series, strat)
	assert.NoError(t, err)
	second, err := engine.Run(series, strat)
	assert.NoError(t, err)

	assert.Equal(t, first.Trades, second.Trades)
	assert.Equal(t, first.FinalEquity, second.FinalEquity)
}

func TestHigherCostsNeverImproveOutcome(t *testing.T) {
	t.Parallel()

	series := dailySeries(100, 104, 99, 108, 97, 112, 103, 118)
	signals := []Signal{SignalBuy, 0, SignalSell, SignalBuy, 0, SignalSell, SignalBuy, SignalSell}

	prev := 0.0
	for i, comm := range []float64{0, 0.001, 0.005, 0.02} {
		cfg := frictionless()
		cfg.Commission = comm
		res := mustRun(t, cfg, series, NewSignalStrategy("cost", signals))
		if i > 0 {
			assert.Less(t, res.FinalEquity, prev, "commission %f", comm)
		}
		prev = res.FinalEquity
	}

	prev = 0.0
	for i, slip := range []float64{0, 0.0005, 0.005, 0.02} {
		cfg := frictionless()
		cfg.Slippage = slip
		res := mustRun(t, cfg, series, NewSignalStrategy("cost", signals))
		if i > 0 {
			assert.Less(t, res.FinalEquity, prev, "slippage %f", slip)
		}
		prev = res.FinalEquity
	}
}

func TestSignalMapReindexesWithHoldDefault(t *testing.T) {
	t.Parallel()

	series := dailySeries(100, 110, 120, 130)
	strat := NewSignalMap("mapped", series, map[time.Time]Signal{
		series.Candles[1].Time: SignalBuy,
		series.Candles[3].Time: SignalSell,
	})

	res := mustRun(t, frictionless(), series, strat)

	assert.Len(t, res.Trades, 1)
	assert.Equal(t, series.Candles[1].Time, res.Trades[0].EntryTime)
	assert.Equal(t, series.Candles[3].Time, res.Trades[0].ExitTime)
	assert.Equal(t, ExitSignal, res.Trades[0].Reason)
}
