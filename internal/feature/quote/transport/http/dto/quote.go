// Package dto defines data transfer objects for the quote HTTP API.
package dto

// QuoteItem represents one quote in the API response.
type QuoteItem struct {
	Symbol           string        `json:"symbol"`
	Name             string        `json:"name"`
	Price            float64       `json:"price"`
	UpdateTime       string        `json:"updateTime"`
	CheckTime        string        `json:"checkTime"`
	DayChange        string        `json:"dayChange"`
	DayChangePercent string        `json:"dayChangePercent"`
	Keywords         []string      `json:"keywords"`
	SourceSelector   *string       `json:"sourceSelector"`
	Status           string        `json:"status"`
	Freshness        FreshnessItem `json:"freshness"`
}

// FreshnessItem tells how old the update time is; ageMinutes is null when it is unknown.
type FreshnessItem struct {
	Level      string `json:"level"`
	Label      string `json:"label"`
	AgeMinutes *int   `json:"ageMinutes"`
}

// QuoteBatchItem is one entry of a batch response; Error is set when the lookup failed.
type QuoteBatchItem struct {
	Symbol string     `json:"symbol"`
	Quote  *QuoteItem `json:"quote,omitempty"`
	Error  string     `json:"error,omitempty"`
}
