package backtest

import (
	"time"

	"github.com/rustyeddy/backtester/market"
)

// Signal is a per-bar trading decision.
type Signal int8

const (
	SignalBuy  Signal = +1
	SignalSell Signal = -1
	SignalHold Signal = 0
)

// Strategy drives the engine. It is called once per bar, after risk exits
// for that bar have been evaluated, and issues orders through the Context.
// Implementations must not look past the current bar index.
type Strategy interface {
	Name() string
	OnBar(ctx *Context, c market.Candle)
}

// Context is the per-bar handle a strategy uses to observe state and issue
// orders. Buy/Sell report whether the order actually executed; a rejected
// order is a no-op, not an error.
type Context struct {
	engine *Engine
	idx    int
}

// Series returns the full input series. Strategies must only read bars at
// indices <= Index.
func (ctx *Context) Series() *market.Series { return ctx.engine.series }

// Index is the current bar index.
func (ctx *Context) Index() int { return ctx.idx }

// Candle is the current bar.
func (ctx *Context) Candle() market.Candle { return ctx.engine.series.Candles[ctx.idx] }

// Cash is the uncommitted capital available for entries.
func (ctx *Context) Cash() float64 { return ctx.engine.cash }

// Position returns a copy of the open position (Open=false when flat).
func (ctx *Context) Position() Position { return ctx.engine.pos }

// Buy opens a long position at this bar's close.
func (ctx *Context) Buy() bool {
	return ctx.engine.enter(Long, ctx.Candle())
}

// Short opens a short position at this bar's close.
func (ctx *Context) Short() bool {
	return ctx.engine.enter(Short, ctx.Candle())
}

// Sell closes the open position at this bar's close with reason "signal".
func (ctx *Context) Sell() bool {
	c := ctx.Candle()
	return ctx.engine.exit(c.Time, c.Close, ExitSignal)
}

// SignalStrategy adapts a precomputed signal vector: +1 enter long,
// -1 exit, 0 hold. Signals beyond the vector's length are treated as hold.
type SignalStrategy struct {
	name    string
	signals []Signal
}

func NewSignalStrategy(name string, signals []Signal) *SignalStrategy {
	return &SignalStrategy{name: name, signals: signals}
}

// NewSignalMap builds a SignalStrategy from timestamped signals, reindexed
// against the series with hold as the default for missing timestamps.
func NewSignalMap(name string, s *market.Series, byTime map[time.Time]Signal) *SignalStrategy {
	signals := make([]Signal, s.Len())
	for i, c := range s.Candles {
		signals[i] = byTime[c.Time]
	}
	return &SignalStrategy{name: name, signals: signals}
}

func (s *SignalStrategy) Name() string { return s.name }

func (s *SignalStrategy) OnBar(ctx *Context, c market.Candle) {
	i := ctx.Index()
	if i >= len(s.signals) {
		return
	}
	switch s.signals[i] {
	case SignalBuy:
		if !ctx.Position().Open {
			ctx.Buy()
		}
	case SignalSell:
		if ctx.Position().Open {
			ctx.Sell()
		}
	}
}

// CallbackStrategy adapts a per-bar function. The function receives the
// Context handle and issues orders directly.
type CallbackStrategy struct {
	name string
	fn   func(ctx *Context, c market.Candle)
}

func NewCallbackStrategy(name string, fn func(ctx *Context, c market.Candle)) *CallbackStrategy {
	return &CallbackStrategy{name: name, fn: fn}
}

func (s *CallbackStrategy) Name() string { return s.name }

func (s *CallbackStrategy) OnBar(ctx *Context, c market.Candle) { s.fn(ctx, c) }
