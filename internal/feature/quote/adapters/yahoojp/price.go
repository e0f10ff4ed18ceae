package yahoojp

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// priceSelectors はリアルタイム値を優先した価格セレクタの優先順です。
var priceSelectors = []string{
	`._3rXWJKZ`,
	`.StyledPriceText`,
	`[data-test-id="price"]`,
	`span[class*="Price__value"]`,
	`._3m7vS`,
	`[data-field="regularMarketPrice"]`,
	`span[class*="StyledPrice"]`,
	`._3P_pZ`,
	`[class*="price_"]`,
	`[class*="Price_price"]`,
}

var (
	// priceLabels は値の隣に価格が並ぶラベルです。
	priceLabels = []string{"前日終値", "基準値", "基準価額"}
	// priceHints は現在値の近くに現れる語です。
	priceHints = []string{"現在値", "時価", "リアルタイム", "円"}
)

// maxPlausiblePrice を超える数値は価格とみなしません。
const maxPlausiblePrice = 10_000_000

func priceRules() []rule[float64] {
	rules := make([]rule[float64], 0, len(priceSelectors)+3)
	for _, sel := range priceSelectors {
		rules = append(rules, rule[float64]{name: sel, find: priceBySelector(sel)})
	}
	return append(rules,
		rule[float64]{name: "smart:label", find: priceNearLabel},
		rule[float64]{name: "smart:hint", find: priceNearHint},
		rule[float64]{name: "json-ld:offers.price", find: priceFromLD},
	)
}

var quotePriceRules = priceRules()

func priceBySelector(sel string) func(p *page) (float64, bool) {
	return func(p *page) (float64, bool) {
		var price float64
		found := false
		p.doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := normalize(s.Text())
			if looksLikeChange(text) || text == "---" || text == "0" {
				return true
			}
			if v, ok := parsePlainNumber(text); ok && v > 0 {
				price, found = v, true
				return false
			}
			return true
		})
		return price, found
	}
}

// looksLikeChange は前日比らしい記号を含むかを判定します。
func looksLikeChange(text string) bool {
	return strings.ContainsAny(text, "+-%")
}

// priceNearLabel はラベルとほぼ一致する要素を探し、兄弟・親のテキストから数値を拾います。
func priceNearLabel(p *page) (float64, bool) {
	var price float64
	found := false
	p.doc.Find("dt, th, td, dd, span, div, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !isLabel(normalize(s.Text())) {
			return true
		}
		scopes := []string{s.NextAll().Text(), s.Parent().Text()}
		for _, text := range scopes {
			if v, ok := plausibleNumber(text); ok {
				price, found = v, true
				return false
			}
		}
		return true
	})
	return price, found
}

func isLabel(text string) bool {
	text = strings.TrimRight(text, ":")
	for _, l := range priceLabels {
		if text == l {
			return true
		}
	}
	return false
}

func plausibleNumber(text string) (float64, bool) {
	for _, tok := range numberTokenRe.FindAllString(normalize(text), -1) {
		v, err := strconv.ParseFloat(tok, 64)
		if err == nil && v > 0 && v < maxPlausiblePrice {
			return v, true
		}
	}
	return 0, false
}

// priceNearHint は短い語句要素の祖父母（なければ親）配下から数値のみの要素を探します。
func priceNearHint(p *page) (float64, bool) {
	var price float64
	found := false
	p.doc.Find("span, div, p, dd, strong, b").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if runeLen(text) >= 20 || !containsAny(text, priceHints) {
			return true
		}
		scope := s.Parent().Parent()
		if scope.Length() == 0 {
			scope = s.Parent()
		}
		scope.Find("*").EachWithBreak(func(_ int, c *goquery.Selection) bool {
			t := normalize(c.Text())
			if t == "" || len(t) >= 10 {
				return true
			}
			if v, ok := parsePlainNumber(t); ok && v > 0 {
				price, found = v, true
				return false
			}
			return true
		})
		return !found
	})
	return price, found
}

func priceFromLD(p *page) (float64, bool) {
	for _, item := range p.ld {
		offers := item["offers"]
		if list, ok := offers.([]any); ok && len(list) > 0 {
			offers = list[0]
		}
		m, ok := offers.(map[string]any)
		if !ok {
			continue
		}
		raw, ok := ldString(m["price"])
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(normalize(raw), 64); err == nil && v > 0 {
			return v, true
		}
	}
	return 0, false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
