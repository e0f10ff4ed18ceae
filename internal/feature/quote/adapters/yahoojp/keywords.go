package yahoojp

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxKeywords = 5
	// minKeywords に満たない場合は次の情報源も参照します。
	minKeywords   = 3
	maxKeywordLen = 15
)

// keywordBlacklist は投資テーマとして意味を持たない汎用語です。
var keywordBlacklist = []string{
	"株", "株式", "株価", "チャート", "掲示板", "ニュース", "時系列",
	"一覧", "情報", "価格", "比較", "予想", "分析",
}

// singleRuneKeywords は1文字でも残すキーワードです。
var singleRuneKeywords = map[string]bool{"銅": true}

var keywordSplitRe = regexp.MustCompile(`[,、]`)

// keywordSet は挿入順を保つ重複なしの集合です。
type keywordSet struct {
	items []string
	seen  map[string]bool
}

func (k *keywordSet) add(s string) {
	s = strings.TrimSpace(s)
	if s == "" || k.seen[s] {
		return
	}
	if k.seen == nil {
		k.seen = make(map[string]bool)
	}
	k.seen[s] = true
	k.items = append(k.items, s)
}

// extractKeywords はメタデータ、構造化データ、リンクの順にキーワードを集めます。
func extractKeywords(p *page, name string) []string {
	var set keywordSet

	if meta, ok := p.doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		for _, k := range keywordSplitRe.Split(meta, -1) {
			if runeLen(strings.TrimSpace(k)) < maxKeywordLen {
				set.add(k)
			}
		}
	}

	if len(set.items) < minKeywords {
		for _, item := range p.ld {
			list, _ := item["itemListElement"].([]any)
			for _, el := range list {
				m, _ := el.(map[string]any)
				inner, _ := m["item"].(map[string]any)
				if n, ok := inner["name"].(string); ok {
					set.add(n)
				}
			}
		}
	}

	if len(set.items) < minKeywords {
		p.doc.Find(`a[href*="keyword"], a[href*="theme"]`).Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); runeLen(t) < maxKeywordLen {
				set.add(t)
			}
		})
	}

	return filterKeywords(set.items, name)
}

// filterKeywords は銘柄名由来の語、1文字の語、汎用語を除き、上限件数に切り詰めます。
// 銘柄名を含む語と、銘柄名の先頭に一致する語（社名の略称）を銘柄名由来とみなします。
func filterKeywords(keywords []string, name string) []string {
	out := make([]string, 0, maxKeywords)
	for _, k := range keywords {
		if len(out) == maxKeywords {
			break
		}
		if name != "" && (strings.Contains(k, name) || strings.HasPrefix(name, k)) {
			continue
		}
		if runeLen(k) <= 1 && !singleRuneKeywords[k] {
			continue
		}
		if containsAny(k, keywordBlacklist) {
			continue
		}
		out = append(out, k)
	}
	return out
}
