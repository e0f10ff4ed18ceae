// Package dto defines data transfer objects for the portfolio HTTP API.
package dto

import "github.com/shopspring/decimal"

// HoldingItem is one holding with its latest snapshot and metrics.
// Money values are decimals serialized as JSON strings.
type HoldingItem struct {
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	PurchasePrice    decimal.Decimal `json:"purchasePrice"`
	CurrentPrice     decimal.Decimal `json:"currentPrice"`
	DayChange        string          `json:"dayChange"`
	DayChangePercent string          `json:"dayChangePercent"`
	UpdateTime       string          `json:"updateTime"`
	CheckTime        string          `json:"checkTime"`
	Keywords         []string        `json:"keywords"`
	Freshness        FreshnessItem   `json:"freshness"`
	Order            int             `json:"order"`
	Valuation        decimal.Decimal `json:"valuation"`
	CostBasis        decimal.Decimal `json:"costBasis"`
	ProfitLoss       decimal.Decimal `json:"profitLoss"`
	ProfitLossRate   decimal.Decimal `json:"profitLossRate"`
}

// FreshnessItem tells how old the update time is; ageMinutes is null when it is unknown.
type FreshnessItem struct {
	Level      string `json:"level"`
	Label      string `json:"label"`
	AgeMinutes *int   `json:"ageMinutes"`
}

// SummaryItem holds the portfolio totals.
type SummaryItem struct {
	TotalValuation      decimal.Decimal `json:"totalValuation"`
	TotalCost           decimal.Decimal `json:"totalCost"`
	TotalProfitLoss     decimal.Decimal `json:"totalProfitLoss"`
	TotalProfitLossRate decimal.Decimal `json:"totalProfitLossRate"`
	TotalDayChange      decimal.Decimal `json:"totalDayChange"`
}

// OverviewResponse is returned by GET /portfolio.
type OverviewResponse struct {
	Holdings []HoldingItem `json:"holdings"`
	Summary  SummaryItem   `json:"summary"`
}

// AddHoldingRequest is the body of POST /portfolio/holdings.
// Quantity and purchase price accept both JSON numbers and numeric strings.
type AddHoldingRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
}

// UpdatePositionRequest is the body of PUT /portfolio/holdings/:code.
type UpdatePositionRequest struct {
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
}

// MoveHoldingRequest is the body of POST /portfolio/holdings/:code/move.
// Direction is -1 (up) or 1 (down).
type MoveHoldingRequest struct {
	Direction int `json:"direction"`
}

// RefreshResponse reports the outcome of a bulk refresh.
type RefreshResponse struct {
	Updated []string `json:"updated"`
	Failed  []string `json:"failed"`
}

// IndexItem is one market index in the header.
type IndexItem struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name,omitempty"`
	Price            float64 `json:"price"`
	DayChange        string  `json:"dayChange,omitempty"`
	DayChangePercent string  `json:"dayChangePercent,omitempty"`
	UpdateTime       string  `json:"updateTime,omitempty"`
	Error            string  `json:"error,omitempty"`
}
