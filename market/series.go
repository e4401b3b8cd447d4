package market

import (
	"fmt"
	"time"
)

// Series is an ordered sequence of candles for a single instrument.
// The backtest engine requires a validated series: non-empty, strictly
// increasing timestamps, positive close prices.
type Series struct {
	Instrument string
	Candles    []Candle
}

func NewSeries(instrument string, candles []Candle) *Series {
	return &Series{Instrument: instrument, Candles: candles}
}

func (s *Series) Len() int { return len(s.Candles) }

func (s *Series) First() Candle { return s.Candles[0] }
func (s *Series) Last() Candle  { return s.Candles[len(s.Candles)-1] }

// Closes returns the close price of every candle, in order.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Span returns the calendar time covered by the series.
func (s *Series) Span() time.Duration {
	if len(s.Candles) < 2 {
		return 0
	}
	return s.Last().Time.Sub(s.First().Time)
}

// Validate checks the invariants the backtest engine depends on. It does
// not check calendar continuity; gaps are the data source's problem.
func (s *Series) Validate() error {
	if s == nil || len(s.Candles) == 0 {
		return fmt.Errorf("series %q: no candles", s.name())
	}
	for i, c := range s.Candles {
		if c.Time.IsZero() {
			return fmt.Errorf("series %q: candle %d has zero timestamp", s.Instrument, i)
		}
		if c.Close <= 0 {
			return fmt.Errorf("series %q: candle %d has non-positive close %.6f", s.Instrument, i, c.Close)
		}
		if i == 0 {
			continue
		}
		prev := s.Candles[i-1].Time
		if !c.Time.After(prev) {
			return fmt.Errorf("series %q: candle %d time %s not after %s", s.Instrument, i, c.Time, prev)
		}
	}
	return nil
}

func (s *Series) name() string {
	if s == nil {
		return ""
	}
	return s.Instrument
}
