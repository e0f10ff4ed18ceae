// Package entity defines the domain models for the quote feature.
package entity

import "time"

// UnknownTime is the update time of an instrument that has not traded yet
// or whose time could not be read.
const UnknownTime = "--:--"

// Status tells how much of a Quote could be recovered.
type Status int

const (
	// StatusFailed means neither price nor name was recovered.
	StatusFailed Status = iota
	// StatusPartial means some fields carry their defaults.
	StatusPartial
	// StatusComplete means both price and name were recovered.
	StatusComplete
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusPartial:
		return "partial"
	default:
		return "failed"
	}
}

// Quote is an immutable snapshot of one instrument's market data.
// Callers replace their stored copy wholesale on every refresh.
type Quote struct {
	Symbol           string    // Instrument symbol as requested (e.g., "7203", "^N225")
	Name             string    // Display name; the symbol when no name was found
	Price            float64   // Current price; 0 when not found
	UpdateTime       string    // "HH:MM" in exchange-local time, or UnknownTime
	DayChange        string    // Signed absolute change (e.g., "+15.5"), "0" by default
	DayChangePercent string    // Signed percent change (e.g., "+1.2%"), "0%" by default
	Keywords         []string  // Up to 5 topical tags, ordered and unique
	SourceSelector   string    // Rule that produced the price; empty when none did
	FetchedAt        time.Time // Wall-clock time of the fetch
	Status           Status
}

// Failed reports whether the quote carries no usable data.
// A zero price together with the symbol as the name is the failure signal.
func (q Quote) Failed() bool {
	return q.Price == 0 && q.Name == q.Symbol
}
