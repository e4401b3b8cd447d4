package backtest

import "time"

// Side: +1 long, -1 short.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// Position is the single open holding. Quantity is zero when flat; while
// open it keeps one consistent sign convention via Side (no simultaneous
// long+short).
type Position struct {
	Open       bool
	Instrument string
	Side       Side
	Quantity   float64
	EntryPrice float64 // post-slippage fill price
	EntryTime  time.Time

	// entry commission, allocated to the trade when it closes
	entryCommission float64
}

// MarketValue marks the position at the given reference price. Shorts are
// carried at entry cost plus the inverse move, mirroring the cash that was
// set aside at entry.
func (p *Position) MarketValue(price float64) float64 {
	if !p.Open {
		return 0
	}
	if p.Side == Long {
		return p.Quantity * price
	}
	return p.Quantity * (2*p.EntryPrice - price)
}

// MovePercent returns the signed percent move from the entry price, using
// the same sign convention as P&L: positive is favorable for the position.
func (p *Position) MovePercent(price float64) float64 {
	if !p.Open || p.EntryPrice == 0 {
		return 0
	}
	if p.Side == Long {
		return (price - p.EntryPrice) / p.EntryPrice * 100
	}
	return (p.EntryPrice - price) / p.EntryPrice * 100
}
