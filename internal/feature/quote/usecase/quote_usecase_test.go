package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_portfolio/internal/feature/quote/domain/entity"
	"stock_portfolio/internal/feature/quote/usecase"
)

// mockQuoteRepository はQuoteRepositoryインターフェースのモック実装です。
type mockQuoteRepository struct {
	mu     sync.Mutex
	called []string
	fn     func(ctx context.Context, symbol string) (entity.Quote, error)
}

func (m *mockQuoteRepository) FetchQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	m.mu.Lock()
	m.called = append(m.called, symbol)
	m.mu.Unlock()
	return m.fn(ctx, symbol)
}

// TestQuoteUsecase_GetQuote は単一銘柄の取得と入力検証を検証します。
func TestQuoteUsecase_GetQuote(t *testing.T) {
	t.Parallel()

	errUpstream := errors.New("upstream")
	tests := []struct {
		name    string
		symbol  string
		fn      func(ctx context.Context, symbol string) (entity.Quote, error)
		want    entity.Quote
		wantErr error
	}{
		{
			name:   "success: symbol is trimmed",
			symbol: " 7203 ",
			fn: func(ctx context.Context, symbol string) (entity.Quote, error) {
				return entity.Quote{Symbol: symbol, Name: "トヨタ自動車", Price: 2500}, nil
			},
			want: entity.Quote{Symbol: "7203", Name: "トヨタ自動車", Price: 2500},
		},
		{
			name:    "error: empty symbol",
			symbol:  "  ",
			wantErr: usecase.ErrEmptySymbol,
		},
		{
			name:   "error: repository error is propagated",
			symbol: "7203",
			fn: func(ctx context.Context, symbol string) (entity.Quote, error) {
				return entity.Quote{}, errUpstream
			},
			wantErr: errUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockQuoteRepository{fn: tt.fn}
			uc := usecase.NewQuoteUsecase(repo)

			got, err := uc.GetQuote(context.Background(), tt.symbol)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestQuoteUsecase_GetQuotes は一部の失敗がバッチ全体を止めず、順序が保たれることを検証します。
func TestQuoteUsecase_GetQuotes(t *testing.T) {
	t.Parallel()

	errFail := errors.New("no data")
	repo := &mockQuoteRepository{fn: func(ctx context.Context, symbol string) (entity.Quote, error) {
		if symbol == "9999" {
			return entity.Quote{}, errFail
		}
		return entity.Quote{Symbol: symbol, Name: symbol + " Corp", Price: 100}, nil
	}}
	uc := usecase.NewQuoteUsecase(repo)

	results := uc.GetQuotes(context.Background(), []string{"7203", "9999", "6758", ""})
	require.Len(t, results, 4)

	assert.Equal(t, "7203", results[0].Symbol)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "7203 Corp", results[0].Quote.Name)

	assert.Equal(t, "9999", results[1].Symbol)
	assert.ErrorIs(t, results[1].Err, errFail)

	assert.Equal(t, "6758", results[2].Symbol)
	assert.NoError(t, results[2].Err)

	assert.ErrorIs(t, results[3].Err, usecase.ErrEmptySymbol)
	assert.Len(t, repo.called, 3)
}
