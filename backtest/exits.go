package backtest

// checkExit evaluates stop-loss and take-profit against this bar's
// reference price only; it never sees future bars. Stop-loss is checked
// first, so if one bar satisfies both thresholds the trader gets the
// worst case.
func checkExit(cfg *Config, pos *Position, price float64) (ExitReason, bool) {
	if !pos.Open {
		return "", false
	}

	move := pos.MovePercent(price)

	if cfg.StopLoss != nil && move <= -*cfg.StopLoss {
		return ExitStopLoss, true
	}
	if cfg.TakeProfit != nil && move >= *cfg.TakeProfit {
		return ExitTakeProfit, true
	}
	return "", false
}
