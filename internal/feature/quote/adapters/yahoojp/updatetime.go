package yahoojp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stock_portfolio/internal/feature/quote/domain/entity"
	"stock_portfolio/internal/shared/instrument"
)

// 種別ごとの時刻要素です。
const (
	usIndexTimeSelector       = `[class*="UsIndexPriceBoard__time"]`
	domesticIndexTimeSelector = `[class*="IndexPriceBoard__time"]`
	equityTimeSelector        = `[class*="PriceBoard__time"]`
)

// timeSelectors は種別に依らない時刻候補です。
var timeSelectors = []string{
	`time`,
	`._18i9z`,
	`[data-field="regularMarketTime"]`,
	`span[class*="Price_time"]`,
	`span[class*="Price_date"]`,
	`span[class*="StyledPriceTime"]`,
}

// priceAreaSelector は近傍探索の起点となる価格要素です。
const priceAreaSelector = `._3m7vS, ._3P_pZ, [class*="Price_price"]`

// maxMarkerTextLen 以上のテキストを持つ要素は全体探索で無視します（ページ全体を包む要素を避けるため）。
const maxMarkerTextLen = 60

var (
	// 15:00、02/12 15:00、15時30分、--:-- を受け付けます。
	clockRe = regexp.MustCompile(`(?:\d{1,2}/\d{1,2}\s+)?(\d{1,2}):(\d{2})|(\d{1,2})時(\d{1,2})分|--:--`)
	hhmmRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

func updateTimeRules(cls instrument.Classification) []rule[string] {
	var rules []rule[string]
	switch {
	case cls.IsUSIndex:
		rules = append(rules, rule[string]{name: "us-index", find: timeBySelector(usIndexTimeSelector)})
	case cls.IsDomesticIndex:
		rules = append(rules, rule[string]{name: "domestic-index", find: timeBySelector(domesticIndexTimeSelector)})
	case cls.IsDomesticEquity:
		rules = append(rules, rule[string]{name: "domestic-equity", find: timeBySelector(equityTimeSelector)})
	}
	return append(rules,
		rule[string]{name: "generic", find: timeFromCandidates},
		rule[string]{name: "price-area", find: timeNearPrice},
		rule[string]{name: "marker", find: timeNearMarker},
	)
}

func timeBySelector(sel string) func(p *page) (string, bool) {
	return func(p *page) (string, bool) {
		return parseClock(p.doc.Find(sel).First().Text())
	}
}

// timeFromCandidates は候補全体に "--:--" があればそれを優先し、なければ最初の時刻を返します。
func timeFromCandidates(p *page) (string, bool) {
	var first string
	unknown := false
	p.doc.Find(strings.Join(timeSelectors, ", ")).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := normalize(s.Text())
		if strings.Contains(text, entity.UnknownTime) {
			unknown = true
			return false
		}
		if first == "" {
			if t, ok := parseClock(text); ok {
				first = t
			}
		}
		return true
	})
	if unknown {
		return entity.UnknownTime, true
	}
	return first, first != ""
}

func timeNearPrice(p *page) (string, bool) {
	area := p.doc.Find(priceAreaSelector).First().Closest("div")
	if area.Length() == 0 {
		return "", false
	}
	return parseClock(area.Parent().Text())
}

func timeNearMarker(p *page) (string, bool) {
	var out string
	p.doc.Find("span, p, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := normalize(s.Text())
		if runeLen(text) >= maxMarkerTextLen {
			return true
		}
		if !strings.Contains(text, "リアルタイム") && !strings.Contains(text, "ディレイ") {
			return true
		}
		if m := hhmmRe.FindStringSubmatch(text); m != nil {
			if t, ok := formatClock(m[1], m[2]); ok {
				out = t
				return false
			}
		}
		return true
	})
	return out, out != ""
}

// parseClock はテキスト中の最初の時刻を "HH:MM" で返します。
func parseClock(text string) (string, bool) {
	m := clockRe.FindStringSubmatch(normalize(text))
	switch {
	case m == nil:
		return "", false
	case m[0] == entity.UnknownTime:
		return entity.UnknownTime, true
	case m[1] != "":
		return formatClock(m[1], m[2])
	default:
		return formatClock(m[3], m[4])
	}
}

func formatClock(hh, mm string) (string, bool) {
	h, err1 := strconv.Atoi(hh)
	m, err2 := strconv.Atoi(mm)
	if err1 != nil || err2 != nil || h > 23 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}
