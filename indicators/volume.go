package indicators

import "fmt"

// OBV calculates On-Balance Volume: a running sum of volume signed by the
// direction of the close-to-close move.
func OBV(close, volume []float64) ([]float64, error) {
	if len(close) != len(volume) {
		return nil, fmt.Errorf("obv: mismatched slice lengths %d/%d", len(close), len(volume))
	}

	out := make([]float64, len(close))
	for i := 1; i < len(close); i++ {
		switch {
		case close[i] > close[i-1]:
			out[i] = out[i-1] + volume[i]
		case close[i] < close[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out, nil
}

// VWAP calculates the cumulative Volume Weighted Average Price from the
// typical price (high+low+close)/3.
func VWAP(high, low, close, volume []float64) ([]float64, error) {
	if len(high) != len(low) || len(high) != len(close) || len(high) != len(volume) {
		return nil, fmt.Errorf("vwap: mismatched slice lengths")
	}

	out := nanSlice(len(close))
	var pvSum, volSum float64
	for i := range close {
		typical := (high[i] + low[i] + close[i]) / 3
		pvSum += typical * volume[i]
		volSum += volume[i]
		if volSum > 0 {
			out[i] = pvSum / volSum
		}
	}
	return out, nil
}
