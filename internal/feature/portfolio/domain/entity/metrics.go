package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Metrics is the valuation of one holding at its current price.
type Metrics struct {
	Valuation      decimal.Decimal
	CostBasis      decimal.Decimal
	ProfitLoss     decimal.Decimal
	ProfitLossRate decimal.Decimal // percent, 0 when the cost basis is 0
}

// Summary aggregates the metrics of every holding.
type Summary struct {
	TotalValuation      decimal.Decimal
	TotalCost           decimal.Decimal
	TotalProfitLoss     decimal.Decimal
	TotalProfitLossRate decimal.Decimal
	TotalDayChange      decimal.Decimal // Σ dayChange × quantity
}

// Metrics computes valuation and profit/loss for h.
func (h Holding) Metrics() Metrics {
	valuation := h.CurrentPrice.Mul(h.Quantity)
	cost := h.PurchasePrice.Mul(h.Quantity)
	pl := valuation.Sub(cost)
	return Metrics{
		Valuation:      valuation,
		CostBasis:      cost,
		ProfitLoss:     pl,
		ProfitLossRate: rate(pl, cost),
	}
}

// DayChangeValue is the absolute day change of h multiplied by its quantity.
func (h Holding) DayChangeValue() decimal.Decimal {
	v, _ := ParseSigned(h.DayChange)
	return v.Mul(h.Quantity)
}

// Summarize totals the metrics of holdings.
func Summarize(holdings []Holding) Summary {
	var s Summary
	for _, h := range holdings {
		m := h.Metrics()
		s.TotalValuation = s.TotalValuation.Add(m.Valuation)
		s.TotalCost = s.TotalCost.Add(m.CostBasis)
		s.TotalDayChange = s.TotalDayChange.Add(h.DayChangeValue())
	}
	s.TotalProfitLoss = s.TotalValuation.Sub(s.TotalCost)
	s.TotalProfitLossRate = rate(s.TotalProfitLoss, s.TotalCost)
	return s
}

func rate(pl, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return pl.Div(cost).Mul(hundred).Round(2)
}

var signedReplacer = strings.NewReplacer("＋", "", "+", "", "－", "-", "−", "-", ",", "", "%", "")

// ParseSigned parses a display string such as "+15.5", "－1,200" or "-0.8%".
// ok is false when s holds no number; the value is then zero.
func ParseSigned(s string) (decimal.Decimal, bool) {
	clean := strings.TrimSpace(signedReplacer.Replace(s))
	if clean == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
