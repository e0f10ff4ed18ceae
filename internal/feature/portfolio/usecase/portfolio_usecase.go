// Package usecase implements holdings management, valuation and bulk refresh.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"stock_portfolio/internal/feature/portfolio/domain/entity"
	quote "stock_portfolio/internal/feature/quote/domain/entity"
	"stock_portfolio/internal/shared/marketclock"
)

var (
	// ErrNotFound is returned when no holding has the given code.
	ErrNotFound = errors.New("portfolio: holding not found")
	// ErrHoldingExists is returned when adding a code that is already held.
	ErrHoldingExists = errors.New("portfolio: holding already exists")
	// ErrInvalidHolding is returned for a missing code or a non-positive quantity.
	ErrInvalidHolding = errors.New("portfolio: invalid holding")
)

// MarketIndexSymbols are the instruments shown in the market header.
var MarketIndexSymbols = []string{"^N225", "USDJPY=X"}

const defaultConcurrency = 8

// HoldingRepository abstracts the persistence layer for holdings.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type HoldingRepository interface {
	List(ctx context.Context) ([]entity.Holding, error)
	Get(ctx context.Context, code string) (entity.Holding, error)
	Create(ctx context.Context, h *entity.Holding) error
	Delete(ctx context.Context, code string) error
	UpdatePosition(ctx context.Context, code string, p Position) error
	UpdateSnapshot(ctx context.Context, code string, s entity.Snapshot) error
	Move(ctx context.Context, code string, offset int) error
}

// QuoteSource returns the current quote of one instrument.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (quote.Quote, error)
}

// Position is the user-entered part of a holding.
type Position struct {
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
}

// NewHolding is the input of AddHolding. Name may be empty; the quote name is used then.
type NewHolding struct {
	Code string
	Name string
	Position
}

// Line is one holding with its metrics.
type Line struct {
	Holding entity.Holding
	Metrics entity.Metrics
}

// Overview is the valuation of the whole portfolio.
type Overview struct {
	Lines   []Line
	Summary entity.Summary
}

// RefreshReport lists which holdings were refreshed and which kept their previous values.
type RefreshReport struct {
	Updated []string
	Failed  []string
}

// IndexResult is the outcome of fetching one market index.
type IndexResult struct {
	Symbol string
	Quote  quote.Quote
	Err    error
}

// PortfolioUsecase provides business logic for the portfolio.
type PortfolioUsecase struct {
	repo        HoldingRepository
	quotes      QuoteSource
	concurrency int
}

// NewPortfolioUsecase creates a new PortfolioUsecase.
func NewPortfolioUsecase(repo HoldingRepository, quotes QuoteSource) *PortfolioUsecase {
	return &PortfolioUsecase{repo: repo, quotes: quotes, concurrency: defaultConcurrency}
}

// Overview returns the holdings sorted by day-change percent, highest first,
// with per-holding metrics and portfolio totals.
// Holdings without a parsable percent sort last; ties keep the stored order.
func (u *PortfolioUsecase) Overview(ctx context.Context) (Overview, error) {
	holdings, err := u.repo.List(ctx)
	if err != nil {
		return Overview{}, err
	}

	lines := make([]Line, 0, len(holdings))
	for _, h := range holdings {
		lines = append(lines, Line{Holding: h, Metrics: h.Metrics()})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		pi, oki := entity.ParseSigned(lines[i].Holding.DayChangePercent)
		pj, okj := entity.ParseSigned(lines[j].Holding.DayChangePercent)
		if oki != okj {
			return oki
		}
		return pi.GreaterThan(pj)
	})

	return Overview{Lines: lines, Summary: entity.Summarize(holdings)}, nil
}

// AddHolding registers a new holding and tries to attach a first snapshot.
// A failed quote does not prevent the holding from being stored.
func (u *PortfolioUsecase) AddHolding(ctx context.Context, in NewHolding) (entity.Holding, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || !in.Quantity.IsPositive() || in.PurchasePrice.IsNegative() {
		return entity.Holding{}, ErrInvalidHolding
	}

	h := entity.Holding{
		Code:             code,
		Name:             strings.TrimSpace(in.Name),
		Quantity:         in.Quantity,
		PurchasePrice:    in.PurchasePrice,
		CurrentPrice:     decimal.Zero,
		DayChange:        "0",
		DayChangePercent: "0%",
		UpdateTime:       entity.UnknownTime,
		CheckTime:        entity.UnknownTime,
	}

	q, err := u.quotes.GetQuote(ctx, code)
	switch {
	case err != nil:
		slog.Warn("initial quote failed", "code", code, "error", err)
	case q.Failed():
		slog.Warn("initial quote had no data", "code", code)
	default:
		applySnapshot(&h, snapshotOf(q))
		if h.Name == "" && q.Name != q.Symbol {
			h.Name = q.Name
		}
	}
	if h.Name == "" {
		h.Name = code
	}

	if err := u.repo.Create(ctx, &h); err != nil {
		return entity.Holding{}, fmt.Errorf("add holding %s: %w", code, err)
	}
	return h, nil
}

// UpdatePosition changes the quantity and purchase price of a holding.
func (u *PortfolioUsecase) UpdatePosition(ctx context.Context, code string, p Position) error {
	code = strings.TrimSpace(code)
	if code == "" || !p.Quantity.IsPositive() || p.PurchasePrice.IsNegative() {
		return ErrInvalidHolding
	}
	return u.repo.UpdatePosition(ctx, code, p)
}

// RemoveHolding deletes a holding.
func (u *PortfolioUsecase) RemoveHolding(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrInvalidHolding
	}
	return u.repo.Delete(ctx, code)
}

// MoveHolding swaps a holding with its neighbour in the stored order.
// direction is -1 (up) or +1 (down); moving past either end is a no-op.
func (u *PortfolioUsecase) MoveHolding(ctx context.Context, code string, direction int) error {
	code = strings.TrimSpace(code)
	if code == "" || (direction != -1 && direction != 1) {
		return ErrInvalidHolding
	}
	return u.repo.Move(ctx, code, direction)
}

// RefreshAll fetches a quote for every holding concurrently and waits for all of them.
// Successful snapshots overwrite the stored ones; a holding whose fetch failed keeps
// its previous values and is listed in the report.
func (u *PortfolioUsecase) RefreshAll(ctx context.Context) (RefreshReport, error) {
	holdings, err := u.repo.List(ctx)
	if err != nil {
		return RefreshReport{}, err
	}

	ok := make([]bool, len(holdings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, h := range holdings {
		g.Go(func() error {
			ok[i] = u.refreshOne(gctx, h.Code)
			return nil
		})
	}
	_ = g.Wait() // per-item failures are recorded in ok

	report := RefreshReport{Updated: []string{}, Failed: []string{}}
	for i, h := range holdings {
		if ok[i] {
			report.Updated = append(report.Updated, h.Code)
		} else {
			report.Failed = append(report.Failed, h.Code)
		}
	}
	return report, nil
}

func (u *PortfolioUsecase) refreshOne(ctx context.Context, code string) bool {
	q, err := u.quotes.GetQuote(ctx, code)
	if err != nil {
		slog.Warn("refresh quote failed", "code", code, "error", err)
		return false
	}
	if q.Failed() {
		slog.Warn("refresh quote had no data", "code", code)
		return false
	}
	if err := u.repo.UpdateSnapshot(ctx, code, snapshotOf(q)); err != nil {
		slog.Error("failed to save snapshot", "code", code, "error", err)
		return false
	}
	return true
}

// MarketIndices fetches the header indices concurrently.
func (u *PortfolioUsecase) MarketIndices(ctx context.Context) []IndexResult {
	results := make([]IndexResult, len(MarketIndexSymbols))
	var g errgroup.Group
	for i, s := range MarketIndexSymbols {
		g.Go(func() error {
			q, err := u.quotes.GetQuote(ctx, s)
			results[i] = IndexResult{Symbol: s, Quote: q, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// snapshotOf converts a quote into the persisted snapshot.
// A snapshot has no name, so a refresh never renames a holding.
func snapshotOf(q quote.Quote) entity.Snapshot {
	return entity.Snapshot{
		CurrentPrice:     decimal.NewFromFloat(q.Price),
		DayChange:        q.DayChange,
		DayChangePercent: q.DayChangePercent,
		UpdateTime:       q.UpdateTime,
		CheckTime:        q.FetchedAt.In(marketclock.Tokyo()).Format("15:04"),
		Keywords:         q.Keywords,
	}
}

func applySnapshot(h *entity.Holding, s entity.Snapshot) {
	h.CurrentPrice = s.CurrentPrice
	h.DayChange = s.DayChange
	h.DayChangePercent = s.DayChangePercent
	h.UpdateTime = s.UpdateTime
	h.CheckTime = s.CheckTime
	h.Keywords = entity.JoinKeywords(s.Keywords)
}
