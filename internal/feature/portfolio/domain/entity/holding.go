// Package entity defines the domain models for the portfolio feature.
package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownTime is shown when no update or check time is known yet.
const UnknownTime = "--:--"

// Holding is one position in the portfolio together with the most recent
// quote snapshot taken for it. Only the latest snapshot is ever kept.
type Holding struct {
	ID               uint            `gorm:"primaryKey"`
	Code             string          `gorm:"size:20;not null;uniqueIndex"`
	Name             string          `gorm:"size:255;not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PurchasePrice    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CurrentPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DayChange        string          `gorm:"size:32;not null;default:'0'"`
	DayChangePercent string          `gorm:"size:32;not null;default:'0%'"`
	UpdateTime       string          `gorm:"size:16;not null;default:'--:--'"`
	CheckTime        string          `gorm:"size:16;not null;default:'--:--'"`
	Keywords         string          `gorm:"size:512;not null;default:''"` // カンマ区切り
	SortKey          int             `gorm:"not null;default:0"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
}

// KeywordList returns the stored keywords in order.
func (h Holding) KeywordList() []string {
	if h.Keywords == "" {
		return []string{}
	}
	return strings.Split(h.Keywords, ",")
}

// Snapshot is the subset of a quote persisted on a holding.
// It carries no name: the name is fixed when the holding is added.
type Snapshot struct {
	CurrentPrice     decimal.Decimal
	DayChange        string
	DayChangePercent string
	UpdateTime       string
	CheckTime        string
	Keywords         []string
}

// JoinKeywords converts keywords to the stored comma-joined form.
// Commas inside a keyword are dropped so the list splits back unchanged.
func JoinKeywords(keywords []string) string {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(strings.ReplaceAll(k, ",", ""))
		if k != "" {
			cleaned = append(cleaned, k)
		}
	}
	return strings.Join(cleaned, ",")
}
