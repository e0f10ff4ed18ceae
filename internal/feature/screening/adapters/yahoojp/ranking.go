package yahoojp

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/width"

	"stock_portfolio/internal/feature/screening/domain/entity"
	"stock_portfolio/internal/feature/screening/usecase"
)

// TextFetcher はURLの本文を取得します（フェッチゲートウェイ）。
type TextFetcher interface {
	FetchText(ctx context.Context, targetURL string) (string, error)
}

// Scraper はランキングページを取得して解析するRankingRepository実装です。
type Scraper struct {
	cfg     Config
	fetcher TextFetcher
}

var _ usecase.RankingRepository = (*Scraper)(nil)

// NewScraper は Scraper を生成します。
func NewScraper(cfg Config, fetcher TextFetcher) *Scraper {
	return &Scraper{cfg: cfg, fetcher: fetcher}
}

// rowPriceSelectors は行内で価格を表示する要素の候補です。
var rowPriceSelectors = []string{
	`[class*="StyledNumber__value"]`,
	`[class*="price"]`,
	`[class*="Price"]`,
}

var (
	quoteHrefRe = regexp.MustCompile(`/quote/(\d{4})(?:\.T)?(?:[/?#]|$)`)
	codeRe      = regexp.MustCompile(`^\d{4}$`)
	priceRe     = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// RankingURL はランキングページのURLを組み立てます。
// industry はサーバー側で無視されますが、そのまま送ります。
func (s *Scraper) RankingURL(c entity.Criteria) string {
	q := url.Values{}
	q.Set("market", c.MarketCode())
	q.Set("term", "daily")
	if c.Industry != "" {
		q.Set("industry", c.Industry)
	}
	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(s.cfg.RankingBaseURL, "/"), url.PathEscape(string(c.Mode)), q.Encode())
}

// ScrapeRanking はランキングを取得し、価格帯と業種で絞り込んだ最大3件を返します。
func (s *Scraper) ScrapeRanking(ctx context.Context, c entity.Criteria) ([]entity.RankingEntry, error) {
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	html, err := s.fetcher.FetchText(ctx, s.RankingURL(c))
	if err != nil {
		return nil, err
	}
	return ParseRanking(html, c)
}

// ParseRanking はランキングページのHTMLを解析します。
// 表の行から1件も得られなかった場合はページ内の銘柄リンクを走査します。
func ParseRanking(html string, c entity.Criteria) ([]entity.RankingEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("ranking: parse html: %w", err)
	}

	limit := defaultCap
	if c.Industry != "" {
		limit = industryCap
	}

	col := collector{criteria: c, limit: limit, seen: map[string]bool{}}
	parsedRows := 0
	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		e, ok := parseRow(row)
		if !ok {
			return true
		}
		parsedRows++
		return col.add(e)
	})
	if parsedRows == 0 {
		doc.Find(`a[href*="/quote/"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			m := quoteHrefRe.FindStringSubmatch(href)
			if m == nil {
				return true
			}
			name := strings.TrimSpace(a.Text())
			if name == "" || name == m[1] {
				name = m[1]
			}
			return col.add(entity.RankingEntry{Code: m[1], Name: name})
		})
	}

	out := make([]entity.RankingEntry, 0, maxEntries)
	for _, e := range col.entries {
		if !entity.MatchesIndustry(e.Code, c.Industry) {
			continue
		}
		out = append(out, e)
		if len(out) == maxEntries {
			break
		}
	}
	return out, nil
}

// collector は価格帯で絞り込みながら上限まで行を集めます。
type collector struct {
	criteria entity.Criteria
	limit    int
	seen     map[string]bool
	entries  []entity.RankingEntry
}

// add は行を追加し、収集を続けるかどうかを返します。
func (c *collector) add(e entity.RankingEntry) bool {
	if c.seen[e.Code] || !c.criteria.PriceInRange(e.Price) {
		return true
	}
	c.seen[e.Code] = true
	c.entries = append(c.entries, e)
	return len(c.entries) < c.limit
}

// parseRow は1行から銘柄コード、銘柄名、価格を取り出します。
func parseRow(row *goquery.Selection) (entity.RankingEntry, bool) {
	cells := row.Find("td")
	if cells.Length() == 0 {
		return entity.RankingEntry{}, false
	}

	var e entity.RankingEntry
	nameCell := -1
	link := row.Find(`a[href*="/quote/"]`).First()
	if href, ok := link.Attr("href"); ok {
		if m := quoteHrefRe.FindStringSubmatch(href); m != nil {
			e.Code = m[1]
			e.Name = strings.TrimSpace(link.Text())
			nameCell = linkCellIndex(cells)
		}
	}
	if e.Code == "" {
		cells.EachWithBreak(func(i int, td *goquery.Selection) bool {
			if t := cellText(td); codeRe.MatchString(t) {
				e.Code = t
				nameCell = i
				return false
			}
			return true
		})
	}
	if e.Code == "" {
		return entity.RankingEntry{}, false
	}
	if e.Name == "" || e.Name == e.Code {
		e.Name = nameFromCells(cells, e.Code)
	}

	e.Price = priceBySelector(row, e.Code)
	if e.Price == nil {
		e.Price = priceByPosition(cells, nameCell, e.Code)
	}
	return e, true
}

// linkCellIndex は銘柄リンクを含むセルの位置を返します。
func linkCellIndex(cells *goquery.Selection) int {
	idx := -1
	cells.EachWithBreak(func(i int, td *goquery.Selection) bool {
		if td.Find(`a[href*="/quote/"]`).Length() > 0 {
			idx = i
			return false
		}
		return true
	})
	return idx
}

func nameFromCells(cells *goquery.Selection, code string) string {
	name := code
	cells.EachWithBreak(func(_ int, td *goquery.Selection) bool {
		t := cellText(td)
		if t == "" || t == code || priceRe.MatchString(t) {
			return true
		}
		name = t
		return false
	})
	return name
}

func priceBySelector(row *goquery.Selection, code string) *float64 {
	for _, sel := range rowPriceSelectors {
		var price *float64
		row.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			price = parsePrice(cellText(s), code)
			return price == nil
		})
		if price != nil {
			return price
		}
	}
	return nil
}

// priceByPosition は銘柄名セルより後ろのセルを順に見て、コードと同じ値を除いた最初の数値を採用します。
func priceByPosition(cells *goquery.Selection, after int, code string) *float64 {
	var price *float64
	cells.EachWithBreak(func(i int, td *goquery.Selection) bool {
		if i <= after {
			return true
		}
		price = parsePrice(cellText(td), code)
		return price == nil
	})
	return price
}

func parsePrice(text, code string) *float64 {
	if !priceRe.MatchString(text) || text == code {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 {
		return nil
	}
	if c, err := strconv.ParseFloat(code, 64); err == nil && c == v {
		return nil
	}
	return &v
}

func cellText(s *goquery.Selection) string {
	t := width.Fold.String(s.Text())
	return strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
}
