package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"stock_portfolio/internal/feature/candles/domain/entity"
	"stock_portfolio/internal/feature/candles/usecase"
	"stock_portfolio/internal/platform/externalapi/yahoo/dto"
	"stock_portfolio/internal/shared/instrument"
	"stock_portfolio/internal/shared/marketclock"
)

// ErrNoChartData はチャートAPIが有効な結果を返さなかったことを示します。
var ErrNoChartData = errors.New("yahoo chart: no result")

// TextFetcher はURLの本文を取得します（フェッチゲートウェイ）。
type TextFetcher interface {
	FetchText(ctx context.Context, targetURL string) (string, error)
}

// ChartMarket はチャートAPIから株価データを取得するMarketRepository実装です。
type ChartMarket struct {
	cfg     Config
	fetcher TextFetcher
}

// ChartMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*ChartMarket)(nil)

// NewChartMarket は指定された設定とフェッチャーでChartMarketを生成します。
func NewChartMarket(cfg Config, fetcher TextFetcher) *ChartMarket {
	return &ChartMarket{cfg: cfg, fetcher: fetcher}
}

// Snapshot はチャートAPIのメタ情報から得られる現在値です。
type Snapshot struct {
	Price         float64
	PreviousClose float64
	MarketTime    time.Time // 最終取引時刻が返されない場合はゼロ値
}

// GetChart はチャートAPIを呼び出して最初の結果を返します。
// rng と interval が空の場合はクエリを付けずに呼び出します（API既定の当日分）。
func (c *ChartMarket) GetChart(ctx context.Context, symbol, rng, interval string) (*dto.ChartResult, error) {
	chartSymbol := instrument.Classify(symbol).ChartSymbol()
	u := fmt.Sprintf("%s/%s", c.cfg.ChartBaseURL, url.PathEscape(chartSymbol))
	if rng != "" || interval != "" {
		q := url.Values{}
		if rng != "" {
			q.Set("range", rng)
		}
		if interval != "" {
			q.Set("interval", interval)
		}
		u += "?" + q.Encode()
	}

	text, err := c.fetcher.FetchText(ctx, u)
	if err != nil {
		return nil, err
	}

	// JSONレスポンスをDTOにデコード
	var body dto.ChartResponse
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		return nil, fmt.Errorf("yahoo chart: decode %s: %w", chartSymbol, err)
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart: %s: %s", body.Chart.Error.Code, body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChartData, chartSymbol)
	}
	return &body.Chart.Result[0], nil
}

// GetSnapshot は現在値・前日終値・最終取引時刻を返します。
func (c *ChartMarket) GetSnapshot(ctx context.Context, symbol string) (Snapshot, error) {
	res, err := c.GetChart(ctx, symbol, "", "")
	if err != nil {
		return Snapshot{}, err
	}
	m := res.Meta
	prev := m.ChartPreviousClose
	if prev <= 0 {
		prev = m.PreviousClose
	}
	if m.RegularMarketPrice <= 0 || prev <= 0 {
		return Snapshot{}, fmt.Errorf("%w: %s has no price", ErrNoChartData, symbol)
	}
	snap := Snapshot{Price: m.RegularMarketPrice, PreviousClose: prev}
	if m.RegularMarketTime > 0 {
		snap.MarketTime = time.Unix(m.RegularMarketTime, 0).In(marketclock.Tokyo())
	}
	return snap, nil
}

// GetTimeSeries はチャートAPIから約3か月分の日足を取得し、
// entity.Candleのスライスとして日付昇順で返します。
func (c *ChartMarket) GetTimeSeries(ctx context.Context, symbol string) ([]entity.Candle, error) {
	res, err := c.GetChart(ctx, symbol, SeriesRange, SeriesInterval)
	if err != nil {
		return nil, err
	}
	return ToCandles(symbol, res), nil
}

// ToCandles は並列配列を日足に変換します。
// 終値または出来高が欠けたインデックスは捨て、同じ日付は後に現れた値で上書きします。
func ToCandles(symbol string, res *dto.ChartResult) []entity.Candle {
	if len(res.Indicators.Quote) == 0 {
		return []entity.Candle{}
	}
	q := res.Indicators.Quote[0]
	loc := marketclock.Tokyo()

	byDay := make(map[time.Time]entity.Candle, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		cl, vol := at(q.Close, i), at(q.Volume, i)
		if cl == nil || vol == nil {
			continue
		}
		t := time.Unix(ts, 0).In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		byDay[day] = entity.Candle{
			Symbol: symbol,
			Time:   day,
			Open:   orDefault(at(q.Open, i), *cl),
			High:   orDefault(at(q.High, i), *cl),
			Low:    orDefault(at(q.Low, i), *cl),
			Close:  *cl,
			Volume: int64(*vol),
		}
	}

	candles := make([]entity.Candle, 0, len(byDay))
	for _, cd := range byDay {
		candles = append(candles, cd)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles
}

func at(xs []*float64, i int) *float64 {
	if i < 0 || i >= len(xs) {
		return nil
	}
	return xs[i]
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
