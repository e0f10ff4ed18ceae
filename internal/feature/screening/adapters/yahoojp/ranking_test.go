package yahoojp

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_portfolio/internal/feature/screening/domain/entity"
)

const rankingPage = `<html><body>
<table>
<thead><tr><th>順位</th><th>名称・コード</th><th>取引値</th></tr></thead>
<tbody>
<tr><td>1</td><td><a href="https://finance.yahoo.co.jp/quote/7203.T">トヨタ自動車</a><span>7203</span></td><td><span class="StyledNumber__value_a">2,510.5</span></td></tr>
<tr><td>2</td><td><a href="/quote/6758.T">ソニーグループ</a></td><td>東証PRM</td><td>3,250</td></tr>
<tr><td>3</td><td>1234</td><td>Code Only Corp</td><td>1234</td><td>880</td></tr>
<tr><td>4</td><td><a href="/quote/9432.T">NTT</a></td><td>---</td></tr>
</tbody>
</table>
</body></html>`

func ptr(v float64) *float64 { return &v }

func codes(entries []entity.RankingEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Code
	}
	return out
}

func TestParseRanking_Rows(t *testing.T) {
	t.Parallel()

	got, err := ParseRanking(rankingPage, entity.Criteria{}.WithDefaults())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, entity.RankingEntry{Code: "7203", Name: "トヨタ自動車", Price: ptr(2510.5)}, got[0])
	assert.Equal(t, entity.RankingEntry{Code: "6758", Name: "ソニーグループ", Price: ptr(3250)}, got[1])
	// コードと同じ値のセルは価格として扱わない
	assert.Equal(t, entity.RankingEntry{Code: "1234", Name: "Code Only Corp", Price: ptr(880)}, got[2])
}

func TestParseRanking_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria entity.Criteria
		want     []string
	}{
		{
			name:     "min price drops cheap and unparsable rows",
			criteria: entity.Criteria{MinPrice: ptr(1000)},
			want:     []string{"7203", "6758"},
		},
		{
			name:     "max price",
			criteria: entity.Criteria{MaxPrice: ptr(1000)},
			want:     []string{"1234"},
		},
		{
			name:     "electric appliances",
			criteria: entity.Criteria{Industry: "3650"},
			want:     []string{"6758", "1234"},
		},
		{
			name:     "transport equipment",
			criteria: entity.Criteria{Industry: "3700"},
			want:     []string{"7203", "1234"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRanking(rankingPage, tt.criteria.WithDefaults())
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestParseRanking_IndustryCollectsDeeper(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<table>")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, `<tr><td><a href="/quote/%d.T">Electric %d</a></td><td>100</td></tr>`, 6501+i, i)
	}
	b.WriteString(`<tr><td><a href="/quote/7203.T">トヨタ自動車</a></td><td>2500</td></tr></table>`)

	got, err := ParseRanking(b.String(), entity.Criteria{Industry: "3700"}.WithDefaults())
	require.NoError(t, err)
	assert.Equal(t, []string{"7203"}, codes(got))
}

func TestParseRanking_AnchorFallback(t *testing.T) {
	t.Parallel()

	html := `<html><body><ul>
<li><a href="/quote/4063.T">信越化学工業</a></li>
<li><a href="/quote/4063.T">duplicate</a></li>
<li><a href="/quote/8306.T">三菱UFJ</a></li>
<li><a href="/quote/abc">not a code</a></li>
</ul></body></html>`

	got, err := ParseRanking(html, entity.Criteria{}.WithDefaults())
	require.NoError(t, err)
	assert.Equal(t, []entity.RankingEntry{
		{Code: "4063", Name: "信越化学工業"},
		{Code: "8306", Name: "三菱UFJ"},
	}, got)

	// 価格帯が指定されていると価格のないリンクは残らない
	got, err = ParseRanking(html, entity.Criteria{MinPrice: ptr(1)}.WithDefaults())
	require.NoError(t, err)
	assert.Empty(t, got)
}

type recordingFetcher struct {
	body string
	urls []string
}

func (f *recordingFetcher) FetchText(ctx context.Context, targetURL string) (string, error) {
	f.urls = append(f.urls, targetURL)
	return f.body, nil
}

func TestScraper_ScrapeRanking(t *testing.T) {
	t.Parallel()

	f := &recordingFetcher{body: rankingPage}
	s := NewScraper(Config{RankingBaseURL: "https://r.test/ranking/"}, f)

	got, err := s.ScrapeRanking(context.Background(), entity.Criteria{Mode: entity.ModeVolume, MarketTier: "prime", Industry: "3700"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://r.test/ranking/volume?industry=3700&market=tokyoPrime&term=daily"}, f.urls)
	assert.Equal(t, []string{"7203", "1234"}, codes(got))
}

func TestScraper_ScrapeRanking_InvalidCriteria(t *testing.T) {
	t.Parallel()

	f := &recordingFetcher{}
	s := NewScraper(Config{RankingBaseURL: "https://r.test/ranking"}, f)

	_, err := s.ScrapeRanking(context.Background(), entity.Criteria{MarketTier: "nyse"})
	assert.ErrorIs(t, err, entity.ErrInvalidMarket)
	assert.Empty(t, f.urls)
}
