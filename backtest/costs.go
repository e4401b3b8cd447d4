package backtest

// Cost model: pure numeric transforms, no engine state.
//
// Slippage always moves the fill against the trader. A long pays up on
// entry and receives less on exit; a short is the mirror image.

// entryPrice returns the effective fill price for opening a position.
func entryPrice(price float64, side Side, slippage float64) float64 {
	if side == Long {
		return price * (1 + slippage)
	}
	return price * (1 - slippage)
}

// exitPrice returns the effective fill price for closing a position.
func exitPrice(price float64, side Side, slippage float64) float64 {
	if side == Long {
		return price * (1 - slippage)
	}
	return price * (1 + slippage)
}

// commission returns the fee for a fill of the given notional. It is a
// cost, never a rebate.
func commission(notional, rate float64) float64 {
	if notional < 0 {
		notional = -notional
	}
	return notional * rate
}
