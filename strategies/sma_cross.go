package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// SMACross buys when the fast SMA crosses above the slow SMA and sells on
// the opposite cross.
func SMACross(fast, slow int) backtest.Strategy {
	if fast <= 0 {
		fast = 10
	}
	if slow <= fast {
		slow = 50
	}
	return &vectorStrategy{
		name: fmt.Sprintf("sma-cross(%d/%d)", fast, slow),
		build: func(s *market.Series) []backtest.Signal {
			closes := s.Closes()
			fastMA, err := indicators.SMA(closes, fast)
			if err != nil {
				return nil
			}
			slowMA, err := indicators.SMA(closes, slow)
			if err != nil {
				return nil
			}
			return crossSignals(fastMA, slowMA)
		},
	}
}
