// Package market holds the price-series data model shared by the data
// loaders, the indicators and the backtest engine.
package market

import "time"

// Candle represents one OHLCV (Open, High, Low, Close, Volume) bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
