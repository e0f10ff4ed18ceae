// Package handler はquoteフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/feature/quote/domain/entity"
	"stock_portfolio/internal/feature/quote/transport/http/dto"
	"stock_portfolio/internal/feature/quote/usecase"
	"stock_portfolio/internal/shared/marketclock"
)

// maxBatchSymbols は一括取得で受け付ける銘柄数の上限です。
const maxBatchSymbols = 50

// QuoteUsecase は相場取得のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QuoteUsecase interface {
	GetQuote(ctx context.Context, symbol string) (entity.Quote, error)
	GetQuotes(ctx context.Context, symbols []string) []usecase.QuoteResult
}

// QuoteHandler は相場情報のHTTPリクエストを処理します。
type QuoteHandler struct {
	uc QuoteUsecase
}

// NewQuoteHandler は新しい QuoteHandler を作成します。
func NewQuoteHandler(uc QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Get は1銘柄の相場情報を返します。
//
// エンドポイント例:
// GET /quotes/:code
func (h *QuoteHandler) Get(c *gin.Context) {
	q, err := h.uc.GetQuote(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ToQuoteItem(q))
}

// List はカンマ区切りの銘柄をまとめて取得します。失敗した銘柄は error を持つ要素になります。
//
// エンドポイント例:
// GET /quotes?codes=7203,6758,^N225
func (h *QuoteHandler) List(c *gin.Context) {
	var symbols []string
	for _, s := range strings.Split(c.Query("codes"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codes is required"})
		return
	}
	if len(symbols) > maxBatchSymbols {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many codes"})
		return
	}

	results := h.uc.GetQuotes(c.Request.Context(), symbols)
	out := make([]dto.QuoteBatchItem, 0, len(results))
	for _, r := range results {
		item := dto.QuoteBatchItem{Symbol: r.Symbol}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			qi := ToQuoteItem(r.Quote)
			item.Quote = &qi
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, out)
}

// ToQuoteItem はエンティティをレスポンス用DTOに変換します。
// 鮮度は取得時刻（未設定なら現在時刻）を基準に評価します。
func ToQuoteItem(q entity.Quote) dto.QuoteItem {
	item := dto.QuoteItem{
		Symbol:           q.Symbol,
		Name:             q.Name,
		Price:            q.Price,
		UpdateTime:       q.UpdateTime,
		DayChange:        q.DayChange,
		DayChangePercent: q.DayChangePercent,
		Keywords:         q.Keywords,
		Status:           q.Status.String(),
	}
	if item.Keywords == nil {
		item.Keywords = []string{}
	}
	at := time.Now()
	if !q.FetchedAt.IsZero() {
		at = q.FetchedAt
		item.CheckTime = q.FetchedAt.In(marketclock.Tokyo()).Format("15:04")
	}
	f := marketclock.FreshnessAt(q.UpdateTime, at)
	item.Freshness = dto.FreshnessItem{Level: string(f.Level), Label: f.Label, AgeMinutes: f.AgeMinutes}
	if q.SourceSelector != "" {
		s := q.SourceSelector
		item.SourceSelector = &s
	}
	return item
}

func statusFor(err error) int {
	if errors.Is(err, usecase.ErrEmptySymbol) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
