package data

import (
	"math"
	"math/rand"
	"time"

	"github.com/rustyeddy/backtester/market"
)

// SyntheticConfig controls the generated random walk.
type SyntheticConfig struct {
	Instrument   string
	Start        time.Time
	Bars         int
	Interval     time.Duration
	InitialPrice float64
	Volatility   float64 // per-bar stddev of log returns, e.g. 0.02
	Seed         int64
}

// Synthetic generates a deterministic random-walk candle series. The same
// config always produces the same series, which keeps demos and tests
// reproducible.
func Synthetic(cfg SyntheticConfig) *market.Series {
	if cfg.Bars <= 0 {
		return market.NewSeries(cfg.Instrument, nil)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.InitialPrice <= 0 {
		cfg.InitialPrice = 100
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	candles := make([]market.Candle, 0, cfg.Bars)
	price := cfg.InitialPrice
	for i := 0; i < cfg.Bars; i++ {
		ret := rng.NormFloat64() * cfg.Volatility
		next := price * math.Exp(ret)

		high := math.Max(price, next) * (1 + math.Abs(rng.NormFloat64())*cfg.Volatility/2)
		low := math.Min(price, next) * (1 - math.Abs(rng.NormFloat64())*cfg.Volatility/2)

		candles = append(candles, market.Candle{
			Time:   cfg.Start.Add(time.Duration(i) * cfg.Interval),
			Open:   price,
			High:   high,
			Low:    low,
			Close:  next,
			Volume: 100 + rng.Float64()*900,
		})
		price = next
	}

	return market.NewSeries(cfg.Instrument, candles)
}
