// Package data loads candle series from files and generates synthetic
// series for tests and demos.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/backtester/market"
)

// candle CSV layout: timestamp,open,high,low,close,volume
// A header row is allowed. Timestamps may be RFC3339, "2006-01-02 15:04:05"
// or a bare date.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadCSV reads an OHLCV candle file into a Series. Files ending in .xz are
// decompressed on the fly. Rows must be in ascending time order; the
// returned series is validated before it is handed back.
func LoadCSV(path, instrument string) (*market.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz %s: %w", path, err)
		}
		src = xr
	}

	candles, err := ReadCandles(src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	s := market.NewSeries(instrument, candles)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// ReadCandles parses candle CSV rows from r. Empty rows are skipped; a
// single leading header row is tolerated.
func ReadCandles(r io.Reader) ([]market.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var candles []market.Candle
	sawFirst := false

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return candles, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if isHeader(row[0]) {
				continue
			}
		}

		c, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
}

func isHeader(field string) bool {
	f := strings.ToLower(strings.TrimSpace(field))
	return f == "timestamp" || f == "time" || f == "date"
}

func parseRow(row []string) (market.Candle, error) {
	// Need at least timestamp,open,high,low,close. Volume is optional.
	if len(row) < 5 {
		return market.Candle{}, fmt.Errorf("bad row (need timestamp,open,high,low,close[,volume]): %v", row)
	}

	t, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return market.Candle{}, err
	}

	vals := make([]float64, 4)
	for i := 1; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("bad value %q: %w", row[i], err)
		}
		vals[i-1] = v
	}

	vol := 0.0
	if len(row) > 5 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64); err == nil {
			vol = v
		}
	}

	return market.Candle{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vol,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	// Fall back to unix seconds or milliseconds.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}
