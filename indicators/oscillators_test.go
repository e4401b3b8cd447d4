package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRSIBounds(t *testing.T) {
	t.Parallel()

	// Monotonic rise has no losses at all.
	rising := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	out, err := RSI(rising, 4)
	assert.NoError(t, err)
	assert.False(t, Valid(out[3]))
	for i := 4; i < len(out); i++ {
		assert.Equal(t, 100.0, out[i])
	}

	falling := []float64{8, 7, 6, 5, 4, 3, 2, 1}
	out, err = RSI(falling, 4)
	assert.NoError(t, err)
	for i := 4; i < len(out); i++ {
		assert.Equal(t, 0.0, out[i])
	}
}

func TestRSIMixedMoves(t *testing.T) {
	t.Parallel()

	// Two +2 gains and two -1 losses in the window: RS = 2.
	values := []float64{10, 12, 11, 13, 12}
	out, err := RSI(values, 4)
	assert.NoError(t, err)
	assert.InDelta(t, 100-100.0/3.0, out[4], 1e-9)
}

func TestRSIErrors(t *testing.T) {
	t.Parallel()

	_, err := RSI([]float64{1, 2, 3}, 3)
	assert.Error(t, err)
}

func TestMACDCrossesOnTrendChange(t *testing.T) {
	t.Parallel()

	values := make([]float64, 40)
	for i := range values {
		if i < 20 {
			values[i] = 100 + float64(i)
		} else {
			values[i] = 120 - float64(i-20)*2
		}
	}

	macd, signal, hist, err := MACD(values, 5, 10, 4)
	assert.NoError(t, err)
	assert.Len(t, macd, 40)
	assert.Len(t, signal, 40)
	assert.Len(t, hist, 40)

	// Rising segment: fast EMA above slow, histogram positive.
	assert.Greater(t, macd[19], 0.0)
	assert.Greater(t, hist[19], 0.0)
	// Deep into the decline the relationship flips.
	assert.Less(t, macd[39], 0.0)
	assert.Less(t, hist[39], 0.0)

	for i := range values {
		assert.InDelta(t, macd[i]-signal[i], hist[i], 1e-9)
	}
}

func TestMACDErrors(t *testing.T) {
	t.Parallel()

	vals := make([]float64, 50)
	_, _, _, err := MACD(vals, 26, 12, 9)
	assert.Error(t, err)

	_, _, _, err = MACD(vals[:10], 12, 26, 9)
	assert.Error(t, err)

	_, _, _, err = MACD(vals, 0, 26, 9)
	assert.Error(t, err)
}

func TestBollingerBands(t *testing.T) {
	t.Parallel()

	values := []float64{10, 10, 10, 10, 10}
	upper, middle, lower, err := BollingerBands(values, 3, 2)
	assert.NoError(t, err)

	// Constant input collapses all three bands onto the mean.
	for i := 2; i < len(values); i++ {
		assert.InDelta(t, 10.0, middle[i], 1e-9)
		assert.InDelta(t, 10.0, upper[i], 1e-9)
		assert.InDelta(t, 10.0, lower[i], 1e-9)
	}

	varied := []float64{10, 12, 14, 10, 12}
	upper, middle, lower, err = BollingerBands(varied, 3, 2)
	assert.NoError(t, err)
	for i := 2; i < len(varied); i++ {
		assert.Greater(t, upper[i], middle[i])
		assert.Less(t, lower[i], middle[i])
	}
}

func TestATR(t *testing.T) {
	t.Parallel()

	high := []float64{12, 13, 14, 15}
	low := []float64{10, 11, 12, 13}
	close := []float64{11, 12, 13, 14}

	out, err := ATR(high, low, close, 2)
	assert.NoError(t, err)
	assert.False(t, Valid(out[0]))
	// Every bar's range is 2 and gaps never exceed it.
	assert.InDelta(t, 2.0, out[1], 1e-9)
	assert.InDelta(t, 2.0, out[3], 1e-9)

	_, err = ATR(high, low, close[:2], 2)
	assert.Error(t, err)
}

func TestTrueRangeUsesGaps(t *testing.T) {
	t.Parallel()

	// Gap up: the high-to-prev-close distance dominates the bar range.
	assert.InDelta(t, 5.0, trueRange(15, 13, 10), 1e-9)
	// Gap down.
	assert.InDelta(t, 6.0, trueRange(9, 7, 13), 1e-9)
	// No gap.
	assert.InDelta(t, 2.0, trueRange(12, 10, 11), 1e-9)
}

func TestStochastic(t *testing.T) {
	t.Parallel()

	n := 20
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		close[i] = 100 + float64(i)
		high[i] = close[i] + 1
		low[i] = close[i] - 1
	}

	k, d, err := Stochastic(high, low, close, 5, 3, 3)
	assert.NoError(t, err)
	assert.Len(t, k, n)
	assert.Len(t, d, n)

	// A steady uptrend pins the oscillator near the top of its range.
	assert.Greater(t, k[n-1], 80.0)
	assert.Greater(t, d[n-1], 80.0)
	assert.LessOrEqual(t, k[n-1], 100.0)
}

func TestStochasticFlatRange(t *testing.T) {
	t.Parallel()

	n := 12
	flat := make([]float64, n)
	for i := range flat {
		flat[i] = 50
	}

	k, _, err := Stochastic(flat, flat, flat, 5, 2, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 50.0, k[n-1], 1e-9)
}

func TestOBV(t *testing.T) {
	t.Parallel()

	close := []float64{10, 11, 11, 9, 12}
	volume := []float64{100, 200, 300, 400, 500}

	out, err := OBV(close, volume)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0, 200, 200, -200, 300}, out)

	_, err = OBV(close, volume[:2])
	assert.Error(t, err)
}

func TestVWAP(t *testing.T) {
	t.Parallel()

	high := []float64{11, 13}
	low := []float64{9, 11}
	close := []float64{10, 12}
	volume := []float64{100, 300}

	out, err := VWAP(high, low, close, volume)
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, out[0], 1e-9)
	// (10*100 + 12*300) / 400
	assert.InDelta(t, 11.5, out[1], 1e-9)
}

func TestADXTrendStrength(t *testing.T) {
	t.Parallel()

	n := 40
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		close[i] = 100 + float64(i)*2
		high[i] = close[i] + 1
		low[i] = close[i] - 1
	}

	out, err := ADX(high, low, close, 5)
	assert.NoError(t, err)
	assert.Len(t, out, n)

	// A clean one-way trend should read as strong.
	assert.Greater(t, out[n-1], 25.0)
	assert.LessOrEqual(t, out[n-1], 100.0)

	_, err = ADX(high[:5], low[:5], close[:5], 5)
	assert.Error(t, err)
}
