package yahoojp

import (
	"time"

	"stock_portfolio/internal/feature/quote/domain/entity"
	"stock_portfolio/internal/shared/instrument"
	"stock_portfolio/internal/shared/marketclock"
)

// ParseQuote は銘柄ページのHTMLから相場情報を抽出します。
// 価格も銘柄名も得られなかった場合は false を返します。
// それ以外は欠けた項目を既定値（価格0、銘柄名はシンボル）で補います。
func ParseQuote(html string, cls instrument.Classification, now time.Time) (entity.Quote, bool) {
	p, err := newPage(html, cls)
	if err != nil {
		return entity.Quote{}, false
	}

	name, _, nameOK := firstMatch(p, nameRules)
	price, source, priceOK := firstMatch(p, quotePriceRules)
	if !nameOK && !priceOK {
		return entity.Quote{}, false
	}

	change, _, ok := firstMatch(p, changeRules(cls))
	if !ok {
		change = noChange
	}

	updateTime := entity.UnknownTime
	if !(cls.IsDomesticEquity && marketclock.BeforePreOpen(now)) {
		if t, _, ok := firstMatch(p, updateTimeRules(cls)); ok {
			updateTime = t
		}
	}

	q := entity.Quote{
		Symbol:           cls.Display(),
		Name:             cls.Display(),
		UpdateTime:       updateTime,
		DayChange:        change.amount,
		DayChangePercent: change.percent,
		Keywords:         extractKeywords(p, name),
		FetchedAt:        now,
		Status:           entity.StatusPartial,
	}
	if nameOK {
		q.Name = name
	}
	if priceOK {
		q.Price = price
		q.SourceSelector = source
	}
	if nameOK && priceOK {
		q.Status = entity.StatusComplete
	}
	return q, true
}
