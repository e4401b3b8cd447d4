package indicators

import (
	"fmt"
	"math"
)

func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if hc := math.Abs(high - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

// ATR calculates the Average True Range as a rolling mean of true ranges.
func ATR(high, low, close []float64, period int) ([]float64, error) {
	if len(high) != len(low) || len(high) != len(close) {
		return nil, fmt.Errorf("atr: mismatched slice lengths %d/%d/%d", len(high), len(low), len(close))
	}
	if err := checkPeriod(period+1, len(close)); err != nil {
		return nil, err
	}

	n := len(close)
	tr := make([]float64, n)
	tr[0] = high[0] - low[0]
	for i := 1; i < n; i++ {
		tr[i] = trueRange(high[i], low[i], close[i-1])
	}

	out := nanSlice(n)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += tr[i]
		if i >= period {
			sum -= tr[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}
