package backtest

import "time"

// ExitReason tags why a position was closed.
type ExitReason string

const (
	ExitSignal     ExitReason = "signal"
	ExitStopLoss   ExitReason = "stop_loss"
	ExitTakeProfit ExitReason = "take_profit"
	ExitEndOfData  ExitReason = "end_of_data"
)

// Trade is one closed round trip. Records are immutable once appended to
// the ledger.
type Trade struct {
	Instrument string
	Side       Side
	Quantity   float64

	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64 // post-slippage
	ExitPrice  float64 // post-slippage

	Commission float64 // entry + exit
	PnL        float64 // realized, net of commission
	PnLPercent float64
	Reason     ExitReason
}

// Duration is the holding time of the round trip.
func (t Trade) Duration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// EquityPoint is one mark-to-market equity sample. The engine records
// exactly one per input bar, in input order.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}
