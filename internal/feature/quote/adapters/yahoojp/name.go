package yahoojp

import (
	"regexp"
	"strings"
)

// genericTitle はどの銘柄でも表示される汎用タイトルです。
const genericTitle = "株価・株式情報"

var (
	nameSuffixRe = regexp.MustCompile(`(?:の株価・株式情報|の株価|株価・株式情報)$`)
	codeRunRe    = regexp.MustCompile(`\d{4,}`)
	bracketRe    = regexp.MustCompile(`[【［\[(（].*?[】］\])）]`)
)

var nameRules = []rule[string]{
	{name: "og:title", find: nameFromOGTitle},
	{name: "heading", find: nameFromHeading},
	{name: "json-ld:name", find: nameFromLD},
}

func nameFromOGTitle(p *page) (string, bool) {
	title, ok := p.doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if !ok || strings.Contains(title, "Yahoo!ファイナンス一覧") {
		return "", false
	}
	for _, sep := range []string{"【", "：", ":", " - "} {
		title, _, _ = strings.Cut(title, sep)
	}
	return acceptName(title)
}

func nameFromHeading(p *page) (string, bool) {
	h := p.doc.Find("header h1").First()
	if h.Length() == 0 {
		h = p.doc.Find("h1").First()
	}
	if h.Length() == 0 {
		return "", false
	}
	text := codeRunRe.ReplaceAllString(h.Text(), "")
	text = bracketRe.ReplaceAllString(text, "")
	return acceptName(text)
}

func nameFromLD(p *page) (string, bool) {
	for _, item := range p.ld {
		if name, ok := item["name"].(string); ok {
			if n, ok := acceptName(name); ok {
				return n, true
			}
		}
	}
	return "", false
}

// acceptName は定型の接尾辞を除き、空や汎用タイトルを拒否します。
func acceptName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(nameSuffixRe.ReplaceAllString(s, ""))
	if s == "" || s == genericTitle {
		return "", false
	}
	return s, true
}
