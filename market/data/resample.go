package data

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/market"
)

// Resample aggregates a series into coarser buckets: first open, max high,
// min low, last close, summed volume. Bucket boundaries are aligned to the
// unix epoch. Empty buckets produce no candle.
func Resample(s *market.Series, interval time.Duration) (*market.Series, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("resample: interval must be positive, got %s", interval)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	var out []market.Candle
	var cur *market.Candle
	var curBucket time.Time

	for _, c := range s.Candles {
		bucket := c.Time.Truncate(interval)
		if cur == nil || !bucket.Equal(curBucket) {
			if cur != nil {
				out = append(out, *cur)
			}
			cc := c
			cc.Time = bucket
			cur = &cc
			curBucket = bucket
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	if cur != nil {
		out = append(out, *cur)
	}

	return market.NewSeries(s.Instrument, out), nil
}
