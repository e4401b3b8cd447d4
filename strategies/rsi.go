package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// RSIReversion buys when RSI crosses back above the oversold level and
// sells when it drops back below the overbought level.
func RSIReversion(period int, oversold, overbought float64) backtest.Strategy {
	if period <= 0 {
		period = 14
	}
	if oversold <= 0 {
		oversold = 30
	}
	if overbought <= 0 || overbought <= oversold {
		overbought = 70
	}
	return &vectorStrategy{
		name: fmt.Sprintf("rsi-reversion(%d,%g/%g)", period, oversold, overbought),
		build: func(s *market.Series) []backtest.Signal {
			rsi, err := indicators.RSI(s.Closes(), period)
			if err != nil {
				return nil
			}
			signals := make([]backtest.Signal, len(rsi))
			for i := 1; i < len(rsi); i++ {
				if !valid(rsi[i-1]) || !valid(rsi[i]) {
					continue
				}
				switch {
				case rsi[i-1] <= oversold && rsi[i] > oversold:
					signals[i] = backtest.SignalBuy
				case rsi[i-1] >= overbought && rsi[i] < overbought:
					signals[i] = backtest.SignalSell
				}
			}
			return signals
		},
	}
}
