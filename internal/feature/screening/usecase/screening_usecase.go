// Package usecase implements the ranking-then-judge screening pipeline.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	candle "stock_portfolio/internal/feature/candles/domain/entity"
	"stock_portfolio/internal/feature/screening/domain/entity"
	"stock_portfolio/internal/feature/screening/domain/judgment"
)

// ReferenceIndex is the index whose trend decides the market regime.
const ReferenceIndex = "^N225"

// ErrEmptySymbol is returned when no symbol was given.
var ErrEmptySymbol = errors.New("screening: symbol is required")

// RankingRepository fetches a filtered ranking.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type RankingRepository interface {
	ScrapeRanking(ctx context.Context, c entity.Criteria) ([]entity.RankingEntry, error)
}

// SeriesRepository fetches a daily series, usually through the TTL cache.
type SeriesRepository interface {
	GetTimeSeries(ctx context.Context, symbol string) ([]candle.Candle, error)
}

// Candidate is a ranked instrument together with its judgment.
type Candidate struct {
	Entry    entity.RankingEntry
	Judgment judgment.Result
}

// ScreeningUsecase runs the ranking scraper and judges each entry.
type ScreeningUsecase struct {
	ranking RankingRepository
	series  SeriesRepository
}

// NewScreeningUsecase creates a new ScreeningUsecase.
func NewScreeningUsecase(ranking RankingRepository, series SeriesRepository) *ScreeningUsecase {
	return &ScreeningUsecase{ranking: ranking, series: series}
}

// Ranking returns up to three ranked entries matching c.
func (u *ScreeningUsecase) Ranking(ctx context.Context, c entity.Criteria) ([]entity.RankingEntry, error) {
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return u.ranking.ScrapeRanking(ctx, c)
}

// Screen fetches the ranking first, then the reference index and every ranked
// symbol's series concurrently, and judges each entry.
// An entry whose series could not be fetched is reported with ReasonNoData.
func (u *ScreeningUsecase) Screen(ctx context.Context, c entity.Criteria) ([]Candidate, error) {
	entries, err := u.Ranking(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []Candidate{}, nil
	}

	var index []candle.Candle
	stocks := make([][]candle.Candle, len(entries))
	failed := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := u.series.GetTimeSeries(gctx, ReferenceIndex)
		if err != nil {
			// 指数が取れない場合は地合い条件を満たさないものとして扱う
			slog.Warn("reference index series unavailable", "symbol", ReferenceIndex, "error", err)
			return nil
		}
		index = s
		return nil
	})
	for i, e := range entries {
		g.Go(func() error {
			s, err := u.series.GetTimeSeries(gctx, e.Code)
			if err != nil {
				slog.Warn("series unavailable", "symbol", e.Code, "error", err)
				failed[i] = true
				return nil
			}
			stocks[i] = s
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Candidate, len(entries))
	for i, e := range entries {
		out[i] = Candidate{Entry: e}
		if failed[i] {
			out[i].Judgment = judgment.Result{Buy: false, Reason: judgment.ReasonNoData}
			continue
		}
		out[i].Judgment = judgment.CanBuyNewStock(neutralInput(stocks[i], index))
	}
	return out, nil
}

// JudgeSymbol judges a single symbol against the reference index.
func (u *ScreeningUsecase) JudgeSymbol(ctx context.Context, symbol string) (judgment.Result, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return judgment.Result{}, ErrEmptySymbol
	}

	var stock, index []candle.Candle
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := u.series.GetTimeSeries(gctx, symbol)
		stock = s
		return err
	})
	g.Go(func() error {
		s, err := u.series.GetTimeSeries(gctx, ReferenceIndex)
		index = s
		return err
	})
	if err := g.Wait(); err != nil {
		return judgment.Result{}, err
	}
	return judgment.CanBuyNewStock(neutralInput(stock, index)), nil
}

// neutralInput builds the judgment input. No live source exists for the
// credit ratio or the earnings calendar, so both are passed as neutral values.
func neutralInput(stock, index []candle.Candle) judgment.Input {
	return judgment.Input{Stock: stock, Index: index, CreditRatio: 0, EarningsSoon: false}
}
