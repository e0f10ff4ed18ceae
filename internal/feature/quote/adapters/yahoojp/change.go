package yahoojp

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stock_portfolio/internal/shared/instrument"
)

// dayChange は前日比（金額・率）の正規化済みの組です。
type dayChange struct {
	amount  string
	percent string
}

var noChange = dayChange{amount: "0", percent: "0%"}

// changePair は金額と率を表示する隣接ノードのセレクタの組です。
type changePair struct {
	amount  string
	percent string
}

// 銘柄種別ごとに描画の異なる前日比ブロックです。
var (
	usIndexChange = changePair{
		amount:  `[class*="UsIndexPriceBoard__change"] [class*="StyledNumber__value"]`,
		percent: `[class*="UsIndexPriceBoard__rate"] [class*="StyledNumber__value"]`,
	}
	domesticIndexChange = changePair{
		amount:  `[class*="IndexPriceBoard__change"] [class*="StyledNumber__value"]`,
		percent: `[class*="IndexPriceBoard__rate"] [class*="StyledNumber__value"]`,
	}
	equityChange = changePair{
		amount:  `[class*="PriceChangeLabel__primary"] [class*="StyledNumber__value"]`,
		percent: `[class*="PriceChangeLabel__secondary"] [class*="StyledNumber__value"]`,
	}
	dedicatedChange = changePair{
		amount:  `[data-field="regularMarketChange"]`,
		percent: `[data-field="regularMarketChangePercent"]`,
	}
)

// changeCandidateSelector は前日比の自由文探索の対象です。
const changeCandidateSelector = "._3S6pP, ._399tF, span, div"

// maxChangeTextLen 以上の長さのテキストは前日比とみなしません。
const maxChangeTextLen = 40

func changeRules(cls instrument.Classification) []rule[dayChange] {
	var rules []rule[dayChange]
	if cls.IsUSIndex {
		rules = append(rules, rule[dayChange]{name: "us-index", find: changeFromPair(usIndexChange, true)})
	}
	if cls.IsDomesticIndex {
		rules = append(rules, rule[dayChange]{name: "domestic-index", find: changeFromPair(domesticIndexChange, true)})
	}
	if cls.IsDomesticEquity {
		rules = append(rules, rule[dayChange]{name: "domestic-equity", find: changeFromPair(equityChange, true)})
	}
	return append(rules,
		rule[dayChange]{name: "dedicated", find: changeFromPair(dedicatedChange, false)},
		rule[dayChange]{name: "free-text", find: changeFromText},
	)
}

// changeFromPair は金額ノードと率ノードを読み取ります。
// requireNonZero のときは変化なしの結果を不成立として後続に譲ります。
func changeFromPair(pair changePair, requireNonZero bool) func(p *page) (dayChange, bool) {
	return func(p *page) (dayChange, bool) {
		amountSel := p.doc.Find(pair.amount).First()
		if amountSel.Length() == 0 {
			return dayChange{}, false
		}
		amount, ok := firstNumber(normalize(amountSel.Text()))
		if !ok {
			return dayChange{}, false
		}
		if isZero(amount) {
			if requireNonZero {
				return dayChange{}, false
			}
			return noChange, true
		}
		amount = withSign(amount)

		percent := "0%"
		if pct, ok := firstNumber(normalize(p.doc.Find(pair.percent).First().Text())); ok {
			percent = signLike(amount, pct) + "%"
		}
		return dayChange{amount: amount, percent: percent}, true
	}
}

// changeFromText は短いテキストノードを走査し、符号と%を両方含む候補を優先します。
// 該当がなければ、解釈できた最初の候補を使います。
func changeFromText(p *page) (dayChange, bool) {
	var fallback *dayChange
	var best dayChange
	found := false
	p.doc.Find(changeCandidateSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("_3P_pZ") {
			return true
		}
		raw := s.Text()
		if !isChangeCandidate(raw) {
			return true
		}
		text := normalize(raw)
		c, ok := parseChangeText(text)
		if !ok {
			return true
		}
		if strings.ContainsAny(text, "+-") && strings.Contains(text, "%") {
			best, found = c, true
			return false
		}
		if fallback == nil {
			fallback = &c
		}
		return true
	})
	if found {
		return best, true
	}
	if fallback != nil {
		return *fallback, true
	}
	return dayChange{}, false
}

// changeMarkers は前日比の表示に使われる符号と%です。
// 半角の "-" は "---" などのプレースホルダにも現れるため含めず、正規化前のテキストで判定します。
const changeMarkers = "＋－+−%％"

func isChangeCandidate(raw string) bool {
	if !strings.ContainsAny(raw, changeMarkers) {
		return false
	}
	text := normalize(raw)
	// 15:00 のような時刻表記は除外
	if strings.Contains(text, ":") && !strings.Contains(text, "%") {
		return false
	}
	return runeLen(text) < maxChangeTextLen
}

// parseChangeText は正規化済みテキストから前日比を取り出します。
// 最初の符号付き数値が金額、2つ目があれば率、なければ符号なしの率に金額の符号を付けます。
func parseChangeText(text string) (dayChange, bool) {
	signed := signedNumberRe.FindAllString(text, -1)
	if len(signed) == 0 {
		return dayChange{}, false
	}
	amount := signed[0]
	if isZero(amount) {
		return noChange, true
	}

	var pct string
	if len(signed) >= 2 {
		pct = signed[1]
	} else if m := percentNumRe.FindStringSubmatch(text); m != nil {
		pct = m[1]
	}
	if pct == "" {
		return dayChange{amount: amount, percent: "0%"}, true
	}
	return dayChange{amount: amount, percent: signLike(amount, pct) + "%"}, true
}

// firstNumber は符号付きまたは符号なしの最初の数値を返します。
func firstNumber(text string) (string, bool) {
	if s := signedNumberRe.FindString(text); s != "" {
		return s, true
	}
	if s := numberTokenRe.FindString(text); s != "" {
		return s, true
	}
	return "", false
}

// withSign は符号のない正の数に "+" を付けます。
func withSign(num string) string {
	if strings.HasPrefix(num, "+") || strings.HasPrefix(num, "-") {
		return num
	}
	return "+" + num
}

// signLike は num の符号を ref の符号にそろえます。
func signLike(ref, num string) string {
	abs := strings.TrimLeft(num, "+-")
	if strings.HasPrefix(ref, "-") {
		return "-" + abs
	}
	return "+" + abs
}

func isZero(num string) bool {
	v, err := strconv.ParseFloat(num, 64)
	return err == nil && v == 0
}
