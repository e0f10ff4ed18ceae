// Package dto defines data transfer objects for the candles HTTP API.
package dto

// CandleItem is one trading day in the series response.
type CandleItem struct {
	Time   string  `json:"time"` // YYYY-MM-DD in exchange-local date
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// ErrorResponse is the error body shared by the JSON endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
