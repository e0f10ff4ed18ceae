package yahoojp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_portfolio/internal/feature/quote/domain/entity"
	"stock_portfolio/internal/shared/instrument"
)

var jst = time.FixedZone("JST", 9*60*60)

// 2025-01-06 は月曜日
var (
	tradingHours  = time.Date(2025, 1, 6, 10, 0, 0, 0, jst)
	beforePreOpen = time.Date(2025, 1, 6, 7, 30, 0, 0, jst)
)

func parse(t *testing.T, html, symbol string, now time.Time) entity.Quote {
	t.Helper()
	q, ok := ParseQuote(html, instrument.Classify(symbol), now)
	require.True(t, ok, "expected a quote to be extracted")
	return q
}

func TestParseQuote_StructuredDataOnly(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<script type="application/ld+json">{"@type":"Corporation","name":"ACME Corp","offers":{"@type":"Offer","price":123.45}}</script>
</head><body><p>no market data</p></body></html>`

	q := parse(t, html, "ACME", tradingHours)
	assert.Equal(t, 123.45, q.Price)
	assert.Equal(t, "ACME Corp", q.Name)
	assert.Equal(t, "json-ld:offers.price", q.SourceSelector)
	assert.Equal(t, "0", q.DayChange)
	assert.Equal(t, "0%", q.DayChangePercent)
	assert.Equal(t, entity.UnknownTime, q.UpdateTime)
	assert.Empty(t, q.Keywords)
	assert.Equal(t, entity.StatusComplete, q.Status)
	assert.False(t, q.Failed())
}

func TestParseQuote_StructuredDataArrayAndStringPrice(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<script type="application/ld+json">{broken</script>
<script type="application/ld+json">[{"name":"Fund A","offers":[{"price":"10,234"}]}]</script>
</head><body></body></html>`

	q := parse(t, html, "FUNDA", tradingHours)
	assert.Equal(t, 10234.0, q.Price)
	assert.Equal(t, "Fund A", q.Name)
}

func TestParseQuote_FullWidthChange(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<meta property="og:title" content="トヨタ自動車(株)【7203】：株価・株式情報 - Yahoo!ファイナンス">
</head><body>
<div class="board"><span class="_3m7vS">2,510.5</span><span class="chg">＋15.5(+1.2%)</span><span class="_18i9z">15:00</span></div>
</body></html>`

	q := parse(t, html, "7203", tradingHours)
	assert.Equal(t, "トヨタ自動車(株)", q.Name)
	assert.Equal(t, 2510.5, q.Price)
	assert.Equal(t, "._3m7vS", q.SourceSelector)
	assert.Equal(t, "+15.5", q.DayChange)
	assert.Equal(t, "+1.2%", q.DayChangePercent)
	assert.Equal(t, "15:00", q.UpdateTime)
	assert.Equal(t, "7203", q.Symbol)
	assert.Equal(t, tradingHours, q.FetchedAt)
}

func TestParseQuote_PercentInheritsSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "dedicated pair",
			body: `<span data-field="regularMarketChange">-8</span><span data-field="regularMarketChangePercent">1.5%</span>`,
		},
		{
			name: "free text",
			body: `<p><span class="chg">-8 (1.5%)</span></p>`,
		},
		{
			name: "free text with opposite percent sign",
			body: `<p><span class="chg">－8(＋1.5%)</span></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><head><meta property="og:title" content="ACME"></head><body>` + tt.body + `</body></html>`
			q := parse(t, html, "ACME", tradingHours)
			assert.Equal(t, "-8", q.DayChange)
			assert.Equal(t, "-1.5%", q.DayChangePercent)
		})
	}
}

func TestParseQuote_FreeTextChangeSkipsPlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantAmount  string
		wantPercent string
	}{
		{
			name:        "dash placeholder before an amount without percent",
			body:        `<p><span class="a">---</span><span class="b">＋15.5</span></p>`,
			wantAmount:  "+15.5",
			wantPercent: "0%",
		},
		{
			name:        "hyphenated label is not a change",
			body:        `<p><span class="a">T-Bond</span><span class="b">－4(0.2%)</span></p>`,
			wantAmount:  "-4",
			wantPercent: "-0.2%",
		},
		{
			name:        "unparsable percent text falls through to the next candidate",
			body:        `<p><span class="a">--%</span><span class="b">＋7</span></p>`,
			wantAmount:  "+7",
			wantPercent: "0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><head><meta property="og:title" content="トヨタ自動車(株)【7203】：株価・株式情報 - Yahoo!ファイナンス"></head><body>` + tt.body + `</body></html>`
			q := parse(t, html, "7203", tradingHours)
			assert.Equal(t, tt.wantAmount, q.DayChange)
			assert.Equal(t, tt.wantPercent, q.DayChangePercent)
		})
	}
}

func TestParseQuote_ClassSpecificChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		symbol      string
		body        string
		wantAmount  string
		wantPercent string
	}{
		{
			name:   "domestic equity bare positive gets plus",
			symbol: "7203",
			body: `<div class="PriceChangeLabel__primary_a1"><span class="StyledNumber__value_x">15</span></div>
<div class="PriceChangeLabel__secondary_a2"><span class="StyledNumber__value_x">0.60</span></div>`,
			wantAmount:  "+15",
			wantPercent: "+0.60%",
		},
		{
			name:   "us index with minus sign glyph",
			symbol: "^DJI",
			body: `<div class="UsIndexPriceBoard__change_q"><span class="StyledNumber__value_x">−120.5</span></div>
<div class="UsIndexPriceBoard__rate_q"><span class="StyledNumber__value_x">0.3</span></div>`,
			wantAmount:  "-120.5",
			wantPercent: "-0.3%",
		},
		{
			name:   "domestic index",
			symbol: "^N225",
			body: `<div class="IndexPriceBoard__change_z"><span class="StyledNumber__value_x">＋312.04</span></div>
<div class="IndexPriceBoard__rate_z"><span class="StyledNumber__value_x">＋0.81</span></div>`,
			wantAmount:  "+312.04",
			wantPercent: "+0.81%",
		},
		{
			name:   "zero class-specific result falls through to the generic cascade",
			symbol: "7203",
			body: `<div class="PriceChangeLabel__primary_a1"><span class="StyledNumber__value_x">0</span></div>
<span data-field="regularMarketChange">-3</span><span data-field="regularMarketChangePercent">-0.1%</span>`,
			wantAmount:  "-3",
			wantPercent: "-0.1%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><head><meta property="og:title" content="Name"></head><body>` + tt.body + `</body></html>`
			q := parse(t, html, tt.symbol, tradingHours)
			assert.Equal(t, tt.wantAmount, q.DayChange)
			assert.Equal(t, tt.wantPercent, q.DayChangePercent)
		})
	}
}

func TestParseQuote_PriceCascade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantPrice  float64
		wantSource string
	}{
		{
			name:       "placeholders and change-like text are skipped",
			body:       `<span class="_3rXWJKZ">---</span><span class="StyledPriceText">+12</span><span data-test-id="price">1,500</span>`,
			wantPrice:  1500,
			wantSource: `[data-test-id="price"]`,
		},
		{
			name:       "later match of the same selector is used",
			body:       `<span class="_3P_pZ">0</span><span class="_3P_pZ">４５６</span>`,
			wantPrice:  456,
			wantSource: `._3P_pZ`,
		},
		{
			name:       "label search",
			body:       `<dl><dt>前日終値</dt><dd>3,210</dd></dl>`,
			wantPrice:  3210,
			wantSource: "smart:label",
		},
		{
			name:       "label search rejects implausible magnitude",
			body:       `<dl><dt>基準価額：</dt><dd>99999999</dd></dl><dl><dt>基準価額</dt><dd>12,345円</dd></dl>`,
			wantPrice:  12345,
			wantSource: "smart:label",
		},
		{
			name:       "hint search",
			body:       `<section><div><div><span>現在値</span></div><div><b>987.6</b></div></div></section>`,
			wantPrice:  987.6,
			wantSource: "smart:hint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><head><meta property="og:title" content="ACME"></head><body>` + tt.body + `</body></html>`
			q := parse(t, html, "ACME", tradingHours)
			assert.Equal(t, tt.wantPrice, q.Price)
			assert.Equal(t, tt.wantSource, q.SourceSelector)
		})
	}
}

func TestParseQuote_Name(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		head string
		body string
		want string
	}{
		{
			name: "og title with suffix",
			head: `<meta property="og:title" content="ソニーグループの株価・株式情報 - Yahoo!ファイナンス">`,
			want: "ソニーグループ",
		},
		{
			name: "generic og title falls back to heading",
			head: `<meta property="og:title" content="株価・株式情報 - Yahoo!ファイナンス">`,
			body: `<header><h1>ソニーグループ(株)【6758】</h1></header>`,
			want: "ソニーグループ",
		},
		{
			name: "list page title is ignored",
			head: `<meta property="og:title" content="Yahoo!ファイナンス一覧">`,
			body: `<h1>日経平均株価 998407</h1>`,
			want: "日経平均株価",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><head>` + tt.head + `</head><body>` + tt.body + `</body></html>`
			q := parse(t, html, "6758", tradingHours)
			assert.Equal(t, tt.want, q.Name)
			assert.Equal(t, entity.StatusPartial, q.Status)
			assert.Zero(t, q.Price)
		})
	}
}

func TestParseQuote_UpdateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol string
		now    time.Time
		body   string
		want   string
	}{
		{
			name:   "domestic equity before pre-open is unknown",
			symbol: "7203",
			now:    beforePreOpen,
			body:   `<span class="_18i9z">15:00</span>`,
			want:   entity.UnknownTime,
		},
		{
			name:   "index before pre-open reads the page",
			symbol: "^N225",
			now:    beforePreOpen,
			body:   `<span class="_18i9z">15:00</span>`,
			want:   "15:00",
		},
		{
			name:   "class-specific selector wins",
			symbol: "7203",
			now:    tradingHours,
			body:   `<span class="PriceBoard__time_k">9:05</span><time>10:00</time>`,
			want:   "09:05",
		},
		{
			name:   "unknown sentinel is preferred",
			symbol: "ACME",
			now:    tradingHours,
			body:   `<time>09:05</time><span class="_18i9z">--:--</span>`,
			want:   entity.UnknownTime,
		},
		{
			name:   "date and time form",
			symbol: "ACME",
			now:    tradingHours,
			body:   `<span data-field="regularMarketTime">02/12 15:00</span>`,
			want:   "15:00",
		},
		{
			name:   "kanji form",
			symbol: "ACME",
			now:    tradingHours,
			body:   `<time>15時30分</time>`,
			want:   "15:30",
		},
		{
			name:   "price area proximity",
			symbol: "ACME",
			now:    tradingHours,
			body:   `<div><div class="wrap"><span class="_3P_pZ">1,234</span></div><span>更新 11:20</span></div>`,
			want:   "11:20",
		},
		{
			name:   "real-time marker",
			symbol: "ACME",
			now:    tradingHours,
			body:   `<p>リアルタイム株価 10:15</p>`,
			want:   "10:15",
		},
		{
			name:   "nothing found",
			symbol: "ACME",
			now:    tradingHours,
			body:   `<p>no time</p>`,
			want:   entity.UnknownTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><head><meta property="og:title" content="Name"></head><body>` + tt.body + `</body></html>`
			q := parse(t, html, tt.symbol, tt.now)
			assert.Equal(t, tt.want, q.UpdateTime)
		})
	}
}

func TestParseQuote_Keywords(t *testing.T) {
	t.Parallel()

	t.Run("metadata keywords exclude name-derived and generic terms", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="og:title" content="トヨタ自動車【7203】：株価・株式情報">
<meta name="keywords" content="自動車,トヨタ,株価,製造業">
</head><body></body></html>`
		q := parse(t, html, "7203", tradingHours)
		assert.Equal(t, "トヨタ自動車", q.Name)
		assert.Equal(t, []string{"自動車", "製造業"}, q.Keywords)
	})

	t.Run("breadcrumbs and theme links supplement short metadata", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="og:title" content="Acme Motors">
<meta name="keywords" content="EV、EV">
<script type="application/ld+json">{"@type":"BreadcrumbList","itemListElement":[{"item":{"name":"輸送用機器"}}]}</script>
</head><body>
<a href="/theme/ai">生成AI</a><a href="/keyword/x">株</a><a href="/theme/news">ニュース一覧</a><a href="/other">他</a>
</body></html>`
		q := parse(t, html, "ACME", tradingHours)
		assert.Equal(t, []string{"EV", "輸送用機器", "生成AI"}, q.Keywords)
	})
}

func TestFilterKeywords(t *testing.T) {
	t.Parallel()

	got := filterKeywords([]string{"銅", "金", "半導体", "A", "株式分割", "非鉄", "資源", "商社", "景気敏感"}, "住友商事")
	assert.Equal(t, []string{"銅", "半導体", "非鉄", "資源", "商社"}, got)
}

func TestParseQuote_NothingFound(t *testing.T) {
	t.Parallel()

	_, ok := ParseQuote(`<html><body><p>maintenance</p></body></html>`, instrument.Classify("7203"), tradingHours)
	assert.False(t, ok)
}

func TestParseChangeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text        string
		wantAmount  string
		wantPercent string
		ok          bool
	}{
		{"+15.5(+1.2%)", "+15.5", "+1.2%", true},
		{"-8 (1.5%)", "-8", "-1.5%", true},
		{"+3", "+3", "0%", true},
		{"+0(0.00%)", "0", "0%", true},
		{"1.5%", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			got, ok := parseChangeText(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantAmount, got.amount)
			assert.Equal(t, tt.wantPercent, got.percent)
		})
	}
}
