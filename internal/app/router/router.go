// Package router はHTTPルーティングを組み立てます。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	candleshandler "stock_portfolio/internal/feature/candles/transport/handler"
	portfoliohandler "stock_portfolio/internal/feature/portfolio/transport/handler"
	quotehandler "stock_portfolio/internal/feature/quote/transport/handler"
	screeninghandler "stock_portfolio/internal/feature/screening/transport/handler"
	"stock_portfolio/internal/platform/http/handler"
)

// Handlers はルーターに登録するハンドラー群です。
type Handlers struct {
	Quote     *quotehandler.QuoteHandler
	Candles   *candleshandler.CandlesHandler
	Screening *screeninghandler.ScreeningHandler
	Portfolio *portfoliohandler.PortfolioHandler
	Proxy     *handler.Proxy
}

// NewRouter は全エンドポイントを登録したginエンジンを返します。
func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// ブラウザのUIから直接呼ばれるためCORSを許可
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)

	// 取得先ページの中継（フェッチゲートウェイの第一候補）
	r.GET("/proxy", h.Proxy.Handle)

	// 相場
	r.GET("/quotes", h.Quote.List)
	r.GET("/quotes/:code", h.Quote.Get)
	r.GET("/candles/:code", h.Candles.GetCandlesHandler)

	// スクリーニング
	r.GET("/screening", h.Screening.Screen)
	r.GET("/screening/ranking", h.Screening.Ranking)
	r.GET("/judgment/:code", h.Screening.Judge)

	// ポートフォリオ
	p := r.Group("/portfolio")
	{
		p.GET("", h.Portfolio.Overview)
		p.POST("/holdings", h.Portfolio.Add)
		p.PUT("/holdings/:code", h.Portfolio.Update)
		p.DELETE("/holdings/:code", h.Portfolio.Remove)
		p.POST("/holdings/:code/move", h.Portfolio.Move)
		p.POST("/refresh", h.Portfolio.Refresh)
	}
	r.GET("/market/indices", h.Portfolio.Indices)

	return r
}
