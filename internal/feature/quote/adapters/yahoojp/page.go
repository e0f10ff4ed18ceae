package yahoojp

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/width"

	"stock_portfolio/internal/shared/instrument"
)

// page は1回の抽出で共有する解析済みドキュメントです。
type page struct {
	doc *goquery.Document
	cls instrument.Classification
	// ld は各 application/ld+json ブロックの先頭要素です（配列なら[0]）。
	ld []map[string]any
}

func newPage(html string, cls instrument.Classification) (*page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	p := &page{doc: doc, cls: cls}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return // 壊れたブロックは無視
		}
		switch x := v.(type) {
		case map[string]any:
			p.ld = append(p.ld, x)
		case []any:
			if len(x) > 0 {
				if m, ok := x[0].(map[string]any); ok {
					p.ld = append(p.ld, m)
				}
			}
		}
	})
	return p, nil
}

var glyphReplacer = strings.NewReplacer("−", "-", "‐", "-", ",", "")

// normalize は全角英数記号を半角に畳み込み、桁区切りを除去します。
func normalize(s string) string {
	return strings.TrimSpace(glyphReplacer.Replace(width.Fold.String(s)))
}

var (
	plainNumberRe  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	numberTokenRe  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	signedNumberRe = regexp.MustCompile(`[+-]\d+(?:\.\d+)?`)
	percentNumRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// parsePlainNumber は数値のみで構成されたテキストを解釈します。
func parsePlainNumber(s string) (float64, bool) {
	s = normalize(s)
	if !plainNumberRe.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ldString は構造化データ上の文字列または数値を文字列として返します。
func ldString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

func runeLen(s string) int {
	return len([]rune(s))
}
