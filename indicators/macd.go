package indicators

import "fmt"

// ewm is an exponentially weighted mean seeded from the first value, the
// pandas ewm(adjust=False) recurrence. Defined from index 0; callers that
// want a warmed-up value skip the first slow+signal bars.
func ewm(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	ema := values[0]
	out[0] = ema
	for i := 1; i < len(values); i++ {
		ema = (values[i]-ema)*alpha + ema
		out[i] = ema
	}
	return out
}

// MACD calculates the Moving Average Convergence Divergence line, its
// signal line and the histogram.
func MACD(values []float64, fast, slow, signal int) (macd, signalLine, histogram []float64, err error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, nil, nil, fmt.Errorf("macd periods must be positive, got %d/%d/%d", fast, slow, signal)
	}
	if fast >= slow {
		return nil, nil, nil, fmt.Errorf("macd fast period %d must be below slow period %d", fast, slow)
	}
	if len(values) < slow+signal {
		return nil, nil, nil, fmt.Errorf("not enough values: need %d, got %d", slow+signal, len(values))
	}

	emaFast := ewm(values, fast)
	emaSlow := ewm(values, slow)

	macd = make([]float64, len(values))
	for i := range values {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	signalLine = ewm(macd, signal)

	histogram = make([]float64, len(values))
	for i := range values {
		histogram[i] = macd[i] - signalLine[i]
	}
	return macd, signalLine, histogram, nil
}
