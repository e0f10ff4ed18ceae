// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	quoteyahoo "stock_portfolio/internal/feature/quote/adapters/yahoojp"
	rankingyahoo "stock_portfolio/internal/feature/screening/adapters/yahoojp"
	"stock_portfolio/internal/platform/cache"
	"stock_portfolio/internal/platform/externalapi/yahoo"
	"stock_portfolio/internal/platform/fetch"
	infrahttp "stock_portfolio/internal/platform/http"
	"stock_portfolio/internal/shared/ratelimiter"
)

// NewGateway creates the fetch gateway with a resty client and an optional outbound rate limit.
func NewGateway() *fetch.Gateway {
	cfg := fetch.LoadConfig()
	client := infrahttp.NewRestyClient(cfg.Timeout)

	var limiter ratelimiter.RateLimiterInterface
	if cfg.RatePerMinute > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.RatePerMinute, time.Minute)
	}
	return fetch.NewGateway(cfg, client, limiter)
}

// NewChartMarket creates the chart API client used for series and quote fallback.
func NewChartMarket(g *fetch.Gateway) *yahoo.ChartMarket {
	return yahoo.NewChartMarket(yahoo.LoadConfig(), g)
}

// NewQuoteRepository creates the quote page scraper with chart fallback.
func NewQuoteRepository(g *fetch.Gateway, chart *yahoo.ChartMarket) *quoteyahoo.Client {
	return quoteyahoo.NewClient(quoteyahoo.LoadConfig(), g, chart)
}

// NewRankingScraper creates the ranking page scraper.
func NewRankingScraper(g *fetch.Gateway) *rankingyahoo.Scraper {
	return rankingyahoo.NewScraper(rankingyahoo.LoadConfig(), g)
}

// NewSeriesRepository wraps the chart client with the series cache.
// rdb may be nil, in which case only the in-process level is used.
func NewSeriesRepository(rdb *redis.Client, chart *yahoo.ChartMarket) *cache.CachingSeriesRepository {
	return cache.NewCachingSeriesRepository(rdb, cache.DefaultSeriesTTL, chart, "series")
}
