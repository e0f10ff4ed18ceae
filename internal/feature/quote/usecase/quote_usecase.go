// Package usecase implements the business logic for quote lookups.
package usecase

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"stock_portfolio/internal/feature/quote/domain/entity"
)

// ErrEmptySymbol is returned when no symbol was given.
var ErrEmptySymbol = errors.New("quote: symbol is required")

// defaultConcurrency bounds the number of page fetches in flight for one batch.
const defaultConcurrency = 8

// QuoteRepository fetches the current quote for one instrument.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type QuoteRepository interface {
	FetchQuote(ctx context.Context, symbol string) (entity.Quote, error)
}

// QuoteResult is the outcome of one symbol in a batch.
// Exactly one of Quote and Err is meaningful.
type QuoteResult struct {
	Symbol string
	Quote  entity.Quote
	Err    error
}

// QuoteUsecase provides quote lookups for single symbols and batches.
type QuoteUsecase struct {
	repo        QuoteRepository
	concurrency int
}

// NewQuoteUsecase creates a new QuoteUsecase with the given repository.
func NewQuoteUsecase(r QuoteRepository) *QuoteUsecase {
	return &QuoteUsecase{repo: r, concurrency: defaultConcurrency}
}

// GetQuote returns the current quote for symbol.
func (u *QuoteUsecase) GetQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return entity.Quote{}, ErrEmptySymbol
	}
	return u.repo.FetchQuote(ctx, symbol)
}

// GetQuotes fetches every symbol concurrently and waits for all of them.
// A failure is reported in that symbol's result and never aborts the batch.
// Results keep the order of symbols.
func (u *QuoteUsecase) GetQuotes(ctx context.Context, symbols []string) []QuoteResult {
	results := make([]QuoteResult, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, s := range symbols {
		g.Go(func() error {
			q, err := u.GetQuote(gctx, s)
			results[i] = QuoteResult{Symbol: strings.TrimSpace(s), Quote: q, Err: err}
			return nil
		})
	}
	_ = g.Wait() // per-item errors live in results
	return results
}
