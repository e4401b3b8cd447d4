package indicators

import (
	"fmt"
	"math"
)

// ADX calculates the Average Directional Index: directional movement
// relative to true range, averaged twice over the period.
func ADX(high, low, close []float64, period int) ([]float64, error) {
	if len(high) != len(low) || len(high) != len(close) {
		return nil, fmt.Errorf("adx: mismatched slice lengths %d/%d/%d", len(high), len(low), len(close))
	}
	if err := checkPeriod(3*period, len(close)); err != nil {
		return nil, err
	}

	n := len(close)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	atr, err := ATR(high, low, close, period)
	if err != nil {
		return nil, err
	}

	plusAvg := rollingMeanNaN(plusDM, period)
	minusAvg := rollingMeanNaN(minusDM, period)

	dx := nanSlice(n)
	for i := 0; i < n; i++ {
		if !Valid(atr[i]) || !Valid(plusAvg[i]) || !Valid(minusAvg[i]) || atr[i] == 0 {
			continue
		}
		plusDI := 100 * plusAvg[i] / atr[i]
		minusDI := 100 * minusAvg[i] / atr[i]
		if plusDI+minusDI == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}

	return rollingMeanNaN(dx, period), nil
}
