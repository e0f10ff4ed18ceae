// Package usecase はローソク足（日足の時系列）取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	"stock_portfolio/internal/feature/candles/domain/entity"
)

// ErrEmptySymbol は銘柄コードが指定されていないことを示します。
var ErrEmptySymbol = errors.New("candles: symbol is required")

// MarketRepository は日足の時系列を取得するリポジトリのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	// GetTimeSeries は直近約3か月分の日足を日付昇順で返します。
	GetTimeSeries(ctx context.Context, symbol string) ([]entity.Candle, error)
}

// candlesUsecase はローソク足データ操作のユースケースを定義します。
type candlesUsecase struct {
	market MarketRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
// market には通常キャッシュ付きのリポジトリを渡します。
func NewCandlesUsecase(market MarketRepository) *candlesUsecase {
	return &candlesUsecase{market: market}
}

// GetCandles は指定された銘柄の日足時系列を取得します。
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol string) ([]entity.Candle, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}

	cs, err := cu.market.GetTimeSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return cs, nil
}
