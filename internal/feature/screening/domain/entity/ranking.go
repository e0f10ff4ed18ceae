// Package entity defines the domain models for the screening feature.
package entity

import (
	"errors"
	"fmt"
)

// RankingEntry is one instrument listed on a ranking page.
type RankingEntry struct {
	Code  string   // 4-digit security code
	Name  string   // Display name; the code when the row had none
	Price *float64 // nil when the row's price could not be parsed
}

// Mode is a ranking category.
type Mode string

const (
	ModeUp           Mode = "up"
	ModeDown         Mode = "down"
	ModeVolume       Mode = "volume"
	ModeTradingValue Mode = "tradingValue"
	ModeHighPrice    Mode = "highPrice"
	ModeLowPrice     Mode = "lowPrice"
)

var validModes = map[Mode]bool{
	ModeUp: true, ModeDown: true, ModeVolume: true,
	ModeTradingValue: true, ModeHighPrice: true, ModeLowPrice: true,
}

// marketTiers maps the public tier names to the site's tier codes.
var marketTiers = map[string]string{
	"all":      "all",
	"prime":    "tokyoPrime",
	"standard": "tokyoStandard",
	"growth":   "tokyoGrowth",
}

var (
	// ErrInvalidMode is returned for an unknown ranking category.
	ErrInvalidMode = errors.New("screening: unknown ranking mode")
	// ErrInvalidMarket is returned for an unknown market tier.
	ErrInvalidMarket = errors.New("screening: unknown market tier")
	// ErrInvalidPriceRange is returned when the minimum exceeds the maximum.
	ErrInvalidPriceRange = errors.New("screening: min price exceeds max price")
)

// Criteria selects and filters a ranking.
type Criteria struct {
	Mode       Mode
	MarketTier string   // all, prime, standard, growth
	Industry   string   // TSE 33-sector code, e.g. "3700"; empty for all
	MinPrice   *float64 // inclusive
	MaxPrice   *float64 // inclusive
}

// WithDefaults fills the zero mode and tier with "up" and "all".
func (c Criteria) WithDefaults() Criteria {
	if c.Mode == "" {
		c.Mode = ModeUp
	}
	if c.MarketTier == "" {
		c.MarketTier = "all"
	}
	return c
}

// Validate checks the criteria after defaults are applied.
func (c Criteria) Validate() error {
	if !validModes[c.Mode] {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if _, ok := marketTiers[c.MarketTier]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMarket, c.MarketTier)
	}
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return ErrInvalidPriceRange
	}
	return nil
}

// MarketCode returns the site's code for the criteria's tier.
func (c Criteria) MarketCode() string {
	return marketTiers[c.MarketTier]
}

// HasPriceBounds reports whether a min or max price is set.
func (c Criteria) HasPriceBounds() bool {
	return c.MinPrice != nil || c.MaxPrice != nil
}

// PriceInRange reports whether price satisfies the bounds.
// A missing price fails whenever a bound is active.
func (c Criteria) PriceInRange(price *float64) bool {
	if !c.HasPriceBounds() {
		return true
	}
	if price == nil {
		return false
	}
	if c.MinPrice != nil && *price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && *price > *c.MaxPrice {
		return false
	}
	return true
}
