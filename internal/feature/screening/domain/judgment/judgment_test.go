package judgment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	candle "stock_portfolio/internal/feature/candles/domain/entity"
	"stock_portfolio/internal/feature/screening/domain/judgment"
)

// series は終値と出来高から日足を組み立てます。
func series(closes []float64, volumes []int64) []candle.Candle {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	out := make([]candle.Candle, len(closes))
	for i, c := range closes {
		out[i] = candle.Candle{Symbol: "T", Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: volumes[i]}
	}
	return out
}

// rising は base から1ずつ上がる n 本の終値です。
func rising(n int, base float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64(i)
	}
	return out
}

func flatVolumes(n int, v, latest int64) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = v
	}
	out[n-1] = latest
	return out
}

func goodStock() []candle.Candle {
	return series(rising(30, 1000), flatVolumes(30, 1000, 1300))
}

func goodIndex() []candle.Candle {
	return series(rising(30, 38000), flatVolumes(30, 0, 0))
}

func TestCanBuyNewStock_AllGatesPass(t *testing.T) {
	t.Parallel()

	got := judgment.CanBuyNewStock(judgment.Input{Stock: goodStock(), Index: goodIndex()})
	assert.Equal(t, judgment.Result{Buy: true, Reason: judgment.ReasonAccepted}, got)
}

func TestCanBuyNewStock_SingleGateFlips(t *testing.T) {
	t.Parallel()

	fallingIndex := make([]float64, 30)
	for i := range fallingIndex {
		fallingIndex[i] = 40000 - float64(i)
	}

	// 平均の外に出る古い足が高く、移動平均が下向きになる系列
	saggingMA := make([]float64, 30)
	for i := range saggingMA {
		saggingMA[i] = 1000
	}
	saggingMA[30-26] = 1100
	saggingMA[29] = 1050

	// 終値が移動平均の5%超上に乖離する系列
	stretched := rising(30, 1000)
	stretched[29] = 1078

	tests := []struct {
		name string
		in   judgment.Input
		want string
	}{
		{
			name: "index below its average",
			in:   judgment.Input{Stock: goodStock(), Index: series(fallingIndex, flatVolumes(30, 0, 0))},
			want: judgment.ReasonMarketRegime,
		},
		{
			name: "index equal to its average",
			in:   judgment.Input{Stock: goodStock(), Index: series(make([]float64, 30), flatVolumes(30, 0, 0))},
			want: judgment.ReasonMarketRegime,
		},
		{
			name: "index too short",
			in:   judgment.Input{Stock: goodStock(), Index: goodIndex()[:24]},
			want: judgment.ReasonMarketRegime,
		},
		{
			name: "stock has only 25 bars",
			in:   judgment.Input{Stock: goodStock()[5:], Index: goodIndex()},
			want: judgment.ReasonNoUptrend,
		},
		{
			name: "moving average not rising",
			in:   judgment.Input{Stock: series(saggingMA, flatVolumes(30, 1000, 1300)), Index: goodIndex()},
			want: judgment.ReasonNoUptrend,
		},
		{
			name: "volume at 119 percent of average",
			in:   judgment.Input{Stock: series(rising(30, 1000), flatVolumes(30, 1000, 1202)), Index: goodIndex()},
			want: judgment.ReasonVolume,
		},
		{
			name: "credit ratio above bound",
			in:   judgment.Input{Stock: goodStock(), Index: goodIndex(), CreditRatio: 10.01},
			want: judgment.ReasonSupplyDemand,
		},
		{
			name: "earnings soon",
			in:   judgment.Input{Stock: goodStock(), Index: goodIndex(), EarningsSoon: true},
			want: judgment.ReasonSupplyDemand,
		},
		{
			name: "close stretched above average",
			in:   judgment.Input{Stock: series(stretched, flatVolumes(30, 1000, 1300)), Index: goodIndex()},
			want: judgment.ReasonRisk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := judgment.CanBuyNewStock(tt.in)
			assert.False(t, got.Buy)
			assert.Equal(t, tt.want, got.Reason)
		})
	}
}

func TestCanBuyNewStock_Boundaries(t *testing.T) {
	t.Parallel()

	// 直近出来高がちょうど平均の120%
	exact := series(rising(30, 1000), flatVolumes(30, 940, 1140))
	got := judgment.CanBuyNewStock(judgment.Input{Stock: exact, Index: goodIndex()})
	assert.True(t, got.Buy, got.Reason)

	// 信用倍率ちょうど10倍は許容
	got = judgment.CanBuyNewStock(judgment.Input{Stock: goodStock(), Index: goodIndex(), CreditRatio: 10})
	assert.True(t, got.Buy, got.Reason)
}

func TestCanBuyNewStock_ShortCircuitOrder(t *testing.T) {
	t.Parallel()

	// 出来高もリスクも満たさない場合は先に評価される出来高の理由になる
	stretched := rising(30, 1000)
	stretched[29] = 1078
	got := judgment.CanBuyNewStock(judgment.Input{
		Stock: series(stretched, flatVolumes(30, 1000, 1000)),
		Index: goodIndex(),
	})
	assert.Equal(t, judgment.ReasonVolume, got.Reason)

	// 地合いが悪ければ銘柄側がどれだけ良くても地合いの理由になる
	got = judgment.CanBuyNewStock(judgment.Input{Stock: goodStock(), Index: nil, CreditRatio: 50, EarningsSoon: true})
	assert.Equal(t, judgment.ReasonMarketRegime, got.Reason)
}
