// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Candle represents one trading day of OHLCV data for a symbol.
// A series is ordered by Time, holds at most one candle per trading day,
// and days missing upstream are simply absent.
type Candle struct {
	Symbol string    // Instrument symbol as requested (e.g., "7203", "^N225")
	Time   time.Time // Trading day (exchange-local midnight)
	Open   float64   // Opening price
	High   float64   // Highest price of the day
	Low    float64   // Lowest price of the day
	Close  float64   // Closing price
	Volume int64     // Trading volume
}
