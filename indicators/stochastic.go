package indicators

import "fmt"

// Stochastic calculates the stochastic oscillator: raw %K over the lookback
// period, smoothed by smoothK, and %D as the smoothD-period SMA of %K.
func Stochastic(high, low, close []float64, period, smoothK, smoothD int) (k, d []float64, err error) {
	if len(high) != len(low) || len(high) != len(close) {
		return nil, nil, fmt.Errorf("stochastic: mismatched slice lengths %d/%d/%d", len(high), len(low), len(close))
	}
	if err := checkPeriod(period+smoothK+smoothD, len(close)); err != nil {
		return nil, nil, err
	}

	n := len(close)
	raw := nanSlice(n)
	for i := period - 1; i < n; i++ {
		hi, lo := high[i], low[i]
		for j := i - period + 1; j < i; j++ {
			if high[j] > hi {
				hi = high[j]
			}
			if low[j] < lo {
				lo = low[j]
			}
		}
		if hi == lo {
			raw[i] = 50
			continue
		}
		raw[i] = 100 * (close[i] - lo) / (hi - lo)
	}

	k = rollingMeanNaN(raw, smoothK)
	d = rollingMeanNaN(k, smoothD)
	return k, d, nil
}

// rollingMeanNaN averages the trailing window, propagating NaN until the
// window holds only valid values.
func rollingMeanNaN(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if !Valid(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out
}
