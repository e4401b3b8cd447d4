package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/backtester/market"
)

func hourlySeries(closes ...float64) *market.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, len(closes))
	for i, c := range closes {
		candles[i] = market.Candle{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 10,
		}
	}
	return market.NewSeries("H1", candles)
}

func TestResample(t *testing.T) {
	t.Parallel()

	s := hourlySeries(100, 105, 95, 102, 110, 108)

	out, err := Resample(s, 4*time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 2, out.Len())

	first := out.Candles[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Time)
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 106.0, first.High)
	assert.Equal(t, 94.0, first.Low)
	assert.Equal(t, 102.0, first.Close)
	assert.Equal(t, 40.0, first.Volume)

	second := out.Candles[1]
	assert.Equal(t, time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC), second.Time)
	assert.Equal(t, 110.0, second.Open)
	assert.Equal(t, 108.0, second.Close)
	assert.Equal(t, 20.0, second.Volume)
}

func TestResampleIdentityInterval(t *testing.T) {
	t.Parallel()

	s := hourlySeries(100, 101, 102)
	out, err := Resample(s, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, s.Candles, out.Candles)
}

func TestResampleErrors(t *testing.T) {
	t.Parallel()

	s := hourlySeries(100)
	_, err := Resample(s, 0)
	assert.Error(t, err)

	_, err = Resample(market.NewSeries("EMPTY", nil), time.Hour)
	assert.Error(t, err)
}
