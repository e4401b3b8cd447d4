package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// BollingerBounce buys when the close touches the lower band and sells
// when it touches the upper band.
func BollingerBounce(period int, stdDev float64) backtest.Strategy {
	if period <= 0 {
		period = 20
	}
	if stdDev <= 0 {
		stdDev = 2.0
	}
	return &vectorStrategy{
		name: fmt.Sprintf("bollinger-bounce(%d,%g)", period, stdDev),
		build: func(s *market.Series) []backtest.Signal {
			closes := s.Closes()
			upper, _, lower, err := indicators.BollingerBands(closes, period, stdDev)
			if err != nil {
				return nil
			}
			signals := make([]backtest.Signal, len(closes))
			for i := range closes {
				if !valid(upper[i]) || !valid(lower[i]) {
					continue
				}
				switch {
				case closes[i] <= lower[i]:
					signals[i] = backtest.SignalBuy
				case closes[i] >= upper[i]:
					signals[i] = backtest.SignalSell
				}
			}
			return signals
		},
	}
}
