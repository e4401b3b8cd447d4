package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
)

// Momentum buys when the lookback return exceeds the threshold and sells
// when it turns negative.
func Momentum(period int, threshold float64) backtest.Strategy {
	if period <= 0 {
		period = 10
	}
	if threshold <= 0 {
		threshold = 0.02
	}
	return &vectorStrategy{
		name: fmt.Sprintf("momentum(%d,%g)", period, threshold),
		build: func(s *market.Series) []backtest.Signal {
			closes := s.Closes()
			signals := make([]backtest.Signal, len(closes))
			for i := period; i < len(closes); i++ {
				past := closes[i-period]
				if past == 0 {
					continue
				}
				mom := (closes[i] - past) / past
				switch {
				case mom > threshold:
					signals[i] = backtest.SignalBuy
				case mom < 0:
					signals[i] = backtest.SignalSell
				}
			}
			return signals
		},
	}
}
