package indicators

// RSI calculates the Relative Strength Index (0-100) using simple rolling
// averages of gains and losses.
func RSI(values []float64, period int) ([]float64, error) {
	if err := checkPeriod(period+1, len(values)); err != nil {
		return nil, err
	}

	n := len(values)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	out := nanSlice(n)
	var gainSum, lossSum float64
	for i := 1; i < n; i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out, nil
}
