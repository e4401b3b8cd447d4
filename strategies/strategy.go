// Package strategies is the catalog of signal generators that drive the
// backtest engine. Strategies are data: each one reduces to a per-bar
// signal or callback, and adding one never touches engine behavior.
package strategies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
)

// Params carries the tunables shared across the catalog. Zero values fall
// back to each strategy's defaults.
type Params struct {
	Fast int `json:"fast" yaml:"fast"`
	Slow int `json:"slow" yaml:"slow"`

	Period     int     `json:"period" yaml:"period"`
	Oversold   float64 `json:"oversold" yaml:"oversold"`
	Overbought float64 `json:"overbought" yaml:"overbought"`

	SignalPeriod int     `json:"signal_period" yaml:"signal_period"`
	StdDev       float64 `json:"std_dev" yaml:"std_dev"`
	Threshold    float64 `json:"threshold" yaml:"threshold"`

	ATRPeriod     int     `json:"atr_period" yaml:"atr_period"`
	ATRMultiplier float64 `json:"atr_multiplier" yaml:"atr_multiplier"`
}

type builder func(p Params) backtest.Strategy

var catalog = map[string]builder{
	"noop":             func(Params) backtest.Strategy { return Noop() },
	"buy-hold":         func(Params) backtest.Strategy { return BuyHold() },
	"sma-cross":        func(p Params) backtest.Strategy { return SMACross(p.Fast, p.Slow) },
	"rsi-reversion":    func(p Params) backtest.Strategy { return RSIReversion(p.Period, p.Oversold, p.Overbought) },
	"macd-cross":       func(p Params) backtest.Strategy { return MACDCross(p.Fast, p.Slow, p.SignalPeriod) },
	"bollinger-bounce": func(p Params) backtest.Strategy { return BollingerBounce(p.Period, p.StdDev) },
	"momentum":         func(p Params) backtest.Strategy { return Momentum(p.Period, p.Threshold) },
	"trend-following":  func(p Params) backtest.Strategy { return TrendFollowing(p.Fast, p.Slow, p.ATRPeriod, p.ATRMultiplier) },
}

// ByName looks up a catalog strategy.
func ByName(name string, p Params) (backtest.Strategy, error) {
	b, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return b(p), nil
}

// Names lists the catalog in stable order.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Noop never trades. Useful as a baseline.
func Noop() backtest.Strategy {
	return backtest.NewCallbackStrategy("noop", func(*backtest.Context, market.Candle) {})
}

// BuyHold enters long on the first bar and holds until the end of data.
func BuyHold() backtest.Strategy {
	return backtest.NewCallbackStrategy("buy-hold", func(ctx *backtest.Context, _ market.Candle) {
		if !ctx.Position().Open {
			ctx.Buy()
		}
	})
}

// vectorStrategy precomputes a signal per bar from the full series on the
// first OnBar call. The builder must only use data at indices <= i for the
// signal at i; all indicator warmups satisfy that.
type vectorStrategy struct {
	name    string
	build   func(s *market.Series) []backtest.Signal
	signals []backtest.Signal
	built   bool
}

func (v *vectorStrategy) Name() string { return v.name }

func (v *vectorStrategy) OnBar(ctx *backtest.Context, _ market.Candle) {
	if !v.built {
		v.signals = v.build(ctx.Series())
		v.built = true
	}
	i := ctx.Index()
	if i >= len(v.signals) {
		return
	}
	switch v.signals[i] {
	case backtest.SignalBuy:
		if !ctx.Position().Open {
			ctx.Buy()
		}
	case backtest.SignalSell:
		if ctx.Position().Open {
			ctx.Sell()
		}
	}
}

// crossSignals emits +1 when fast crosses above slow and -1 when it
// crosses below, skipping warmup NaNs.
func crossSignals(fast, slow []float64) []backtest.Signal {
	signals := make([]backtest.Signal, len(fast))
	for i := 1; i < len(fast); i++ {
		if !valid(fast[i-1]) || !valid(slow[i-1]) || !valid(fast[i]) || !valid(slow[i]) {
			continue
		}
		prev := fast[i-1] - slow[i-1]
		cur := fast[i] - slow[i]
		switch {
		case prev <= 0 && cur > 0:
			signals[i] = backtest.SignalBuy
		case prev >= 0 && cur < 0:
			signals[i] = backtest.SignalSell
		}
	}
	return signals
}

func valid(v float64) bool { return v == v }
