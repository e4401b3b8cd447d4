package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// MACDCross buys when the MACD line crosses above its signal line and
// sells on the opposite cross. Signals inside the warmup window
// (slow+signal bars) are suppressed.
func MACDCross(fast, slow, signal int) backtest.Strategy {
	if fast <= 0 {
		fast = 12
	}
	if slow <= fast {
		slow = 26
	}
	if signal <= 0 {
		signal = 9
	}
	return &vectorStrategy{
		name: fmt.Sprintf("macd-cross(%d/%d/%d)", fast, slow, signal),
		build: func(s *market.Series) []backtest.Signal {
			macd, sigLine, _, err := indicators.MACD(s.Closes(), fast, slow, signal)
			if err != nil {
				return nil
			}
			signals := crossSignals(macd, sigLine)
			for i := 0; i < len(signals) && i < slow+signal; i++ {
				signals[i] = backtest.SignalHold
			}
			return signals
		},
	}
}
