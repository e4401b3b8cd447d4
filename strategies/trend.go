package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// trendFollowing rides confirmed uptrends with an ATR-based trailing
// stop. Unlike the vector strategies it has to consult the live position
// for its stop distance, so it stays a callback.
type trendFollowing struct {
	fast, slow    int
	atrPeriod     int
	atrMultiplier float64

	fastMA []float64
	slowMA []float64
	atr    []float64
	built  bool
}

// TrendFollowing buys when the fast SMA is above the slow SMA and price is
// above the fast SMA; it exits on an ATR stop below entry or a trend flip.
func TrendFollowing(fast, slow, atrPeriod int, atrMultiplier float64) backtest.Strategy {
	if fast <= 0 {
		fast = 20
	}
	if slow <= fast {
		slow = 50
	}
	if atrPeriod <= 0 {
		atrPeriod = 14
	}
	if atrMultiplier <= 0 {
		atrMultiplier = 2.0
	}
	return &trendFollowing{fast: fast, slow: slow, atrPeriod: atrPeriod, atrMultiplier: atrMultiplier}
}

func (t *trendFollowing) Name() string {
	return fmt.Sprintf("trend-following(%d/%d,atr%d*%g)", t.fast, t.slow, t.atrPeriod, t.atrMultiplier)
}

func (t *trendFollowing) prepare(s *market.Series) {
	t.built = true
	closes := s.Closes()
	n := len(closes)
	high := make([]float64, n)
	low := make([]float64, n)
	for i, c := range s.Candles {
		high[i] = c.High
		low[i] = c.Low
	}

	var err error
	if t.fastMA, err = indicators.SMA(closes, t.fast); err != nil {
		return
	}
	if t.slowMA, err = indicators.SMA(closes, t.slow); err != nil {
		t.fastMA = nil
		return
	}
	if t.atr, err = indicators.ATR(high, low, closes, t.atrPeriod); err != nil {
		t.fastMA, t.slowMA = nil, nil
	}
}

func (t *trendFollowing) OnBar(ctx *backtest.Context, c market.Candle) {
	if !t.built {
		t.prepare(ctx.Series())
	}
	i := ctx.Index()
	if t.fastMA == nil || i >= len(t.fastMA) {
		return
	}
	if !valid(t.fastMA[i]) || !valid(t.slowMA[i]) || !valid(t.atr[i]) {
		return
	}

	pos := ctx.Position()
	price := c.Close

	if !pos.Open {
		if t.fastMA[i] > t.slowMA[i] && price > t.fastMA[i] {
			ctx.Buy()
		}
		return
	}

	stop := pos.EntryPrice - t.atr[i]*t.atrMultiplier
	if price < stop || t.fastMA[i] < t.slowMA[i] {
		ctx.Sell()
	}
}
