// Package indicators provides technical analysis indicators over price
// slices. All functions return a slice aligned with the input; positions
// before the warmup window hold NaN and callers must guard with Valid().
package indicators

import (
	"fmt"
	"math"
)

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Valid reports whether an indicator value is past its warmup window.
func Valid(v float64) bool { return !math.IsNaN(v) }

func checkPeriod(period, n int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	if n < period {
		return fmt.Errorf("not enough values: need %d, got %d", period, n)
	}
	return nil
}

// SMA calculates the Simple Moving Average for the given period.
func SMA(values []float64, period int) ([]float64, error) {
	if err := checkPeriod(period, len(values)); err != nil {
		return nil, err
	}

	out := nanSlice(len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// EMA calculates the Exponential Moving Average for the given period,
// seeded with the SMA of the first period values.
func EMA(values []float64, period int) ([]float64, error) {
	if err := checkPeriod(period, len(values)); err != nil {
		return nil, err
	}

	out := nanSlice(len(values))
	multiplier := 2.0 / float64(period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	ema := seed / float64(period)
	out[period-1] = ema

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = ema
	}
	return out, nil
}

// RollingStd calculates the rolling sample standard deviation.
func RollingStd(values []float64, period int) ([]float64, error) {
	if err := checkPeriod(period, len(values)); err != nil {
		return nil, err
	}
	if period < 2 {
		return nil, fmt.Errorf("period must be >= 2 for a deviation, got %d", period)
	}

	out := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		win := values[i-period+1 : i+1]
		mean := 0.0
		for _, v := range win {
			mean += v
		}
		mean /= float64(period)
		ss := 0.0
		for _, v := range win {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period-1))
	}
	return out, nil
}
