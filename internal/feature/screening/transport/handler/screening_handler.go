// Package handler はscreeningフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/feature/screening/domain/entity"
	"stock_portfolio/internal/feature/screening/domain/judgment"
	"stock_portfolio/internal/feature/screening/transport/http/dto"
	"stock_portfolio/internal/feature/screening/usecase"
)

// ScreeningUsecase はスクリーニングのユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ScreeningUsecase interface {
	Ranking(ctx context.Context, c entity.Criteria) ([]entity.RankingEntry, error)
	Screen(ctx context.Context, c entity.Criteria) ([]usecase.Candidate, error)
	JudgeSymbol(ctx context.Context, symbol string) (judgment.Result, error)
}

// ScreeningHandler はランキングと判定のHTTPリクエストを処理します。
type ScreeningHandler struct {
	uc ScreeningUsecase
}

// NewScreeningHandler は新しい ScreeningHandler を作成します。
func NewScreeningHandler(uc ScreeningUsecase) *ScreeningHandler {
	return &ScreeningHandler{uc: uc}
}

// Ranking はランキング上位（最大3件）を返します。
//
// エンドポイント例:
// GET /screening/ranking?mode=up&market=prime&industry=3700&min=500&max=5000
func (h *ScreeningHandler) Ranking(c *gin.Context) {
	crit, err := criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entries, err := h.uc.Ranking(c.Request.Context(), crit)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.RankingItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, toRankingItem(e))
	}
	c.JSON(http.StatusOK, out)
}

// Screen はランキング上位それぞれに新規買いの判定を付けて返します。
//
// エンドポイント例:
// GET /screening?mode=up&market=all
func (h *ScreeningHandler) Screen(c *gin.Context) {
	crit, err := criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	candidates, err := h.uc.Screen(c.Request.Context(), crit)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.CandidateItem, 0, len(candidates))
	for _, cd := range candidates {
		out = append(out, dto.CandidateItem{
			RankingItem: toRankingItem(cd.Entry),
			Judgment:    dto.JudgmentItem{Buy: cd.Judgment.Buy, Reason: cd.Judgment.Reason},
		})
	}
	c.JSON(http.StatusOK, out)
}

// Judge は1銘柄の新規買い判定を返します。
//
// エンドポイント例:
// GET /judgment/:code
func (h *ScreeningHandler) Judge(c *gin.Context) {
	code := c.Param("code")
	res, err := h.uc.JudgeSymbol(c.Request.Context(), code)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.JudgmentResponse{
		Code:         code,
		JudgmentItem: dto.JudgmentItem{Buy: res.Buy, Reason: res.Reason},
	})
}

func criteriaFromQuery(c *gin.Context) (entity.Criteria, error) {
	crit := entity.Criteria{
		Mode:       entity.Mode(c.Query("mode")),
		MarketTier: c.Query("market"),
		Industry:   c.Query("industry"),
	}
	var err error
	if crit.MinPrice, err = optionalFloat(c, "min"); err != nil {
		return entity.Criteria{}, err
	}
	if crit.MaxPrice, err = optionalFloat(c, "max"); err != nil {
		return entity.Criteria{}, err
	}
	return crit, nil
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}

func toRankingItem(e entity.RankingEntry) dto.RankingItem {
	return dto.RankingItem{Code: e.Code, Name: e.Name, Price: e.Price}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidMode),
		errors.Is(err, entity.ErrInvalidMarket),
		errors.Is(err, entity.ErrInvalidPriceRange),
		errors.Is(err, usecase.ErrEmptySymbol):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
