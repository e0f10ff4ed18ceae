package di

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_portfolio/internal/app/router"
	candleshandler "stock_portfolio/internal/feature/candles/transport/handler"
	candlesusecase "stock_portfolio/internal/feature/candles/usecase"
	portfolioadapters "stock_portfolio/internal/feature/portfolio/adapters"
	portfoliohandler "stock_portfolio/internal/feature/portfolio/transport/handler"
	portfoliousecase "stock_portfolio/internal/feature/portfolio/usecase"
	quotehandler "stock_portfolio/internal/feature/quote/transport/handler"
	quoteusecase "stock_portfolio/internal/feature/quote/usecase"
	screeninghandler "stock_portfolio/internal/feature/screening/transport/handler"
	screeningusecase "stock_portfolio/internal/feature/screening/usecase"
	"stock_portfolio/internal/platform/cache"
	"stock_portfolio/internal/platform/fetch"
	infrahttp "stock_portfolio/internal/platform/http"
	platformhandler "stock_portfolio/internal/platform/http/handler"
)

// App holds the wired components shared by the binaries.
type App struct {
	Quotes    *quoteusecase.QuoteUsecase
	Portfolio *portfoliousecase.PortfolioUsecase
	Screening *screeningusecase.ScreeningUsecase
	Series    *cache.CachingSeriesRepository
}

// NewApp wires repositories and usecases. rdb may be nil.
func NewApp(db *gorm.DB, rdb *redis.Client) *App {
	gateway := NewGateway()
	chart := NewChartMarket(gateway)
	series := NewSeriesRepository(rdb, chart)

	quotes := quoteusecase.NewQuoteUsecase(NewQuoteRepository(gateway, chart))
	return &App{
		Quotes:    quotes,
		Portfolio: portfoliousecase.NewPortfolioUsecase(portfolioadapters.NewHoldingRepository(db), quotes),
		Screening: screeningusecase.NewScreeningUsecase(NewRankingScraper(gateway), series),
		Series:    series,
	}
}

// Router builds the HTTP router for a.
func (a *App) Router() *gin.Engine {
	proxyCfg := platformhandler.LoadProxyConfig()
	return router.NewRouter(router.Handlers{
		Quote:     quotehandler.NewQuoteHandler(a.Quotes),
		Candles:   candleshandler.NewCandlesHandler(candlesusecase.NewCandlesUsecase(a.Series)),
		Screening: screeninghandler.NewScreeningHandler(a.Screening),
		Portfolio: portfoliohandler.NewPortfolioHandler(a.Portfolio),
		Proxy:     platformhandler.NewProxy(proxyCfg, infrahttp.NewRestyClient(fetch.LoadConfig().Timeout)),
	})
}
