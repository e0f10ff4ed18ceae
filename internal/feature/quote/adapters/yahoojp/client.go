package yahoojp

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"stock_portfolio/internal/feature/quote/domain/entity"
	"stock_portfolio/internal/feature/quote/usecase"
	"stock_portfolio/internal/platform/externalapi/yahoo"
	"stock_portfolio/internal/platform/fetch"
	"stock_portfolio/internal/shared/instrument"
	"stock_portfolio/internal/shared/marketclock"
)

// TextFetcher はURLの本文を取得します（フェッチゲートウェイ）。
type TextFetcher interface {
	FetchText(ctx context.Context, targetURL string) (string, error)
}

// SnapshotSource はチャートAPIの現在値を返します。
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, symbol string) (yahoo.Snapshot, error)
}

// Client は銘柄ページをスクレイピングし、価格が取れない場合はチャートAPIで補うQuoteRepository実装です。
type Client struct {
	cfg     Config
	fetcher TextFetcher
	chart   SnapshotSource
	now     func() time.Time
}

var _ usecase.QuoteRepository = (*Client)(nil)

// NewClient は Client を生成します。chart が nil の場合は補完を行いません。
func NewClient(cfg Config, fetcher TextFetcher, chart SnapshotSource) *Client {
	return &Client{cfg: cfg, fetcher: fetcher, chart: chart, now: time.Now}
}

// FetchQuote は銘柄の相場情報を取得します。
// 銘柄ページでもチャートAPIでも取得できなかった場合は fetch.ErrNoData を返します。
func (c *Client) FetchQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	cls := instrument.Classify(symbol)
	now := c.now().In(marketclock.Tokyo())

	primary, ok := c.scrape(ctx, cls, now)
	if ok && primary.Price > 0 {
		return primary, nil
	}
	if err := ctx.Err(); err != nil {
		return entity.Quote{}, err
	}

	fallback, err := c.fromChart(ctx, cls, primary, ok, now)
	if err == nil {
		return fallback, nil
	}
	slog.Warn("chart fallback failed", "symbol", symbol, "error", err)

	if ok {
		return primary, nil
	}
	return entity.Quote{}, fmt.Errorf("%w: quote %s", fetch.ErrNoData, symbol)
}

func (c *Client) scrape(ctx context.Context, cls instrument.Classification, now time.Time) (entity.Quote, bool) {
	u := fmt.Sprintf("%s/%s", strings.TrimRight(c.cfg.QuoteBaseURL, "/"), cls.Target)
	html, err := c.fetcher.FetchText(ctx, u)
	if err != nil {
		slog.Warn("quote page fetch failed", "symbol", cls.Original, "error", err)
		return entity.Quote{}, false
	}
	q, ok := ParseQuote(html, cls, now)
	if !ok {
		slog.Warn("quote page had no price or name", "symbol", cls.Original)
	}
	return q, ok
}

// fromChart はチャートAPIの現在値と前日終値から相場情報を組み立てます。
// 銘柄ページで名前やキーワードが得られていればそれを引き継ぎます。
func (c *Client) fromChart(ctx context.Context, cls instrument.Classification, primary entity.Quote, hasPrimary bool, now time.Time) (entity.Quote, error) {
	if c.chart == nil {
		return entity.Quote{}, fmt.Errorf("%w: no chart source", fetch.ErrNoData)
	}
	snap, err := c.chart.GetSnapshot(ctx, cls.Original)
	if err != nil {
		return entity.Quote{}, err
	}

	change := snap.Price - snap.PreviousClose
	pct := change / snap.PreviousClose * 100

	updateTime := entity.UnknownTime
	if !snap.MarketTime.IsZero() {
		updateTime = snap.MarketTime.In(marketclock.Tokyo()).Format("15:04")
	}

	q := entity.Quote{
		Symbol:           cls.Display(),
		Name:             cls.Display(),
		Price:            snap.Price,
		UpdateTime:       updateTime,
		DayChange:        formatSigned(change),
		DayChangePercent: formatSigned(pct) + "%",
		SourceSelector:   "chart:regularMarketPrice",
		FetchedAt:        now,
		Status:           entity.StatusPartial,
	}
	if hasPrimary && primary.Name != primary.Symbol {
		q.Name = primary.Name
		q.Keywords = primary.Keywords
		q.Status = entity.StatusComplete
	}
	return q, nil
}

// formatSigned は小数2桁で、0以上には "+" を付けて整形します。
func formatSigned(v float64) string {
	v = math.Round(v*100) / 100
	if v >= 0 {
		return fmt.Sprintf("+%.2f", math.Abs(v))
	}
	return fmt.Sprintf("%.2f", v)
}
