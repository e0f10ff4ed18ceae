// Package handler はportfolioフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/feature/portfolio/domain/entity"
	"stock_portfolio/internal/feature/portfolio/transport/http/dto"
	"stock_portfolio/internal/feature/portfolio/usecase"
	"stock_portfolio/internal/shared/marketclock"
)

// PortfolioUsecase はポートフォリオ操作のユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PortfolioUsecase interface {
	Overview(ctx context.Context) (usecase.Overview, error)
	AddHolding(ctx context.Context, in usecase.NewHolding) (entity.Holding, error)
	UpdatePosition(ctx context.Context, code string, p usecase.Position) error
	RemoveHolding(ctx context.Context, code string) error
	MoveHolding(ctx context.Context, code string, direction int) error
	RefreshAll(ctx context.Context) (usecase.RefreshReport, error)
	MarketIndices(ctx context.Context) []usecase.IndexResult
}

// PortfolioHandler は保有銘柄に関するHTTPリクエストを処理します。
type PortfolioHandler struct {
	uc  PortfolioUsecase
	now func() time.Time
}

// NewPortfolioHandler は新しい PortfolioHandler を作成します。
func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc, now: time.Now}
}

// Overview は前日比（％）降順の保有銘柄一覧と合計を返します。
// GET /portfolio
func (h *PortfolioHandler) Overview(c *gin.Context) {
	ov, err := h.uc.Overview(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	now := h.now()
	items := make([]dto.HoldingItem, 0, len(ov.Lines))
	for _, l := range ov.Lines {
		items = append(items, toHoldingItem(l.Holding, l.Metrics, now))
	}
	s := ov.Summary
	c.JSON(http.StatusOK, dto.OverviewResponse{
		Holdings: items,
		Summary: dto.SummaryItem{
			TotalValuation:      s.TotalValuation,
			TotalCost:           s.TotalCost,
			TotalProfitLoss:     s.TotalProfitLoss,
			TotalProfitLossRate: s.TotalProfitLossRate,
			TotalDayChange:      s.TotalDayChange,
		},
	})
}

// Add は保有銘柄を追加します。
// POST /portfolio/holdings
func (h *PortfolioHandler) Add(c *gin.Context) {
	var req dto.AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	created, err := h.uc.AddHolding(c.Request.Context(), usecase.NewHolding{
		Code: req.Code,
		Name: req.Name,
		Position: usecase.Position{
			Quantity:      req.Quantity,
			PurchasePrice: req.PurchasePrice,
		},
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toHoldingItem(created, created.Metrics(), h.now()))
}

// Update は数量と取得単価を更新します。
// PUT /portfolio/holdings/:code
func (h *PortfolioHandler) Update(c *gin.Context) {
	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	err := h.uc.UpdatePosition(c.Request.Context(), c.Param("code"), usecase.Position{
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove は保有銘柄を削除します。
// DELETE /portfolio/holdings/:code
func (h *PortfolioHandler) Remove(c *gin.Context) {
	if err := h.uc.RemoveHolding(c.Request.Context(), c.Param("code")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Move は保有銘柄を上下の銘柄と入れ替えます。端を越える移動は何もしません。
// POST /portfolio/holdings/:code/move
func (h *PortfolioHandler) Move(c *gin.Context) {
	var req dto.MoveHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.uc.MoveHolding(c.Request.Context(), c.Param("code"), req.Direction); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Refresh はすべての保有銘柄の相場を更新します。失敗した銘柄は前回値のままです。
// POST /portfolio/refresh
func (h *PortfolioHandler) Refresh(c *gin.Context) {
	report, err := h.uc.RefreshAll(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.RefreshResponse{Updated: report.Updated, Failed: report.Failed})
}

// Indices は日経平均とドル円を返します。取得に失敗した指数は error を持ちます。
// GET /market/indices
func (h *PortfolioHandler) Indices(c *gin.Context) {
	results := h.uc.MarketIndices(c.Request.Context())
	out := make([]dto.IndexItem, 0, len(results))
	for _, r := range results {
		item := dto.IndexItem{Symbol: r.Symbol}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			item.Name = r.Quote.Name
			item.Price = r.Quote.Price
			item.DayChange = r.Quote.DayChange
			item.DayChangePercent = r.Quote.DayChangePercent
			item.UpdateTime = r.Quote.UpdateTime
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, out)
}

func toHoldingItem(h entity.Holding, m entity.Metrics, now time.Time) dto.HoldingItem {
	f := marketclock.FreshnessAt(h.UpdateTime, now)
	return dto.HoldingItem{
		Code:             h.Code,
		Name:             h.Name,
		Quantity:         h.Quantity,
		PurchasePrice:    h.PurchasePrice,
		CurrentPrice:     h.CurrentPrice,
		DayChange:        h.DayChange,
		DayChangePercent: h.DayChangePercent,
		UpdateTime:       h.UpdateTime,
		CheckTime:        h.CheckTime,
		Keywords:         h.KeywordList(),
		Freshness:        dto.FreshnessItem{Level: string(f.Level), Label: f.Label, AgeMinutes: f.AgeMinutes},
		Order:            h.SortKey,
		Valuation:        m.Valuation,
		CostBasis:        m.CostBasis,
		ProfitLoss:       m.ProfitLoss,
		ProfitLossRate:   m.ProfitLossRate,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidHolding):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrHoldingExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
