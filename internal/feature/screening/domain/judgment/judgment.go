// Package judgment は新規買いの可否を判定するテクニカル条件を実装します。
// 判定は純粋関数で、入力が同じなら結果も同じです。
package judgment

import (
	candle "stock_portfolio/internal/feature/candles/domain/entity"
)

// 判定理由です。条件は以下の順に評価され、最初に満たさなかった条件の理由を返します。
const (
	ReasonMarketRegime = "market regime unfavorable"
	ReasonNoUptrend    = "no uptrend"
	ReasonVolume       = "insufficient volume"
	ReasonSupplyDemand = "supply-demand unfavorable"
	ReasonRisk         = "risk exceeds bound"
	ReasonAccepted     = "all conditions satisfied"
	// ReasonNoData は時系列を取得できず判定しなかったことを示します。
	ReasonNoData = "no data"
)

const (
	maPeriod     = 25
	volumePeriod = 20
	// volumeRatioPct は直近出来高が平均に対して必要な割合（%）です。
	volumeRatioPct = 120
	// maxCreditRatio を超える信用倍率は需給悪化とみなします。
	maxCreditRatio = 10
	// maxDeviation は終値が移動平均を上回ってよい割合です。
	maxDeviation = 1.05
)

// Input は判定の入力です。
// CreditRatio と EarningsSoon は取得元がないため、呼び出し側は中立値（0, false）を渡します。
type Input struct {
	Stock        []candle.Candle // 判定対象の日足（日付昇順）
	Index        []candle.Candle // 参照指数の日足（日付昇順）
	CreditRatio  float64
	EarningsSoon bool
}

// Result は判定結果です。
type Result struct {
	Buy    bool   `json:"buy"`
	Reason string `json:"reason"`
}

func reject(reason string) Result {
	return Result{Buy: false, Reason: reason}
}

// CanBuyNewStock は5つの条件を順に評価します。
//  1. 地合い: 指数の終値が25日移動平均を上回る
//  2. 上昇トレンド: 26本以上あり、終値が25日移動平均を上回り、移動平均自体が上向き
//  3. 出来高: 直近出来高が20日平均の120%以上
//  4. 需給: 信用倍率10倍以下かつ決算発表が近くない
//  5. リスク: 終値が25日移動平均の105%以下
func CanBuyNewStock(in Input) Result {
	// 1. 地合い
	if len(in.Index) < maPeriod {
		return reject(ReasonMarketRegime)
	}
	idx := closes(in.Index)
	if idx[len(idx)-1] <= sma(idx, len(idx), maPeriod) {
		return reject(ReasonMarketRegime)
	}

	// 2. 上昇トレンド
	if len(in.Stock) < maPeriod+1 {
		return reject(ReasonNoUptrend)
	}
	cl := closes(in.Stock)
	n := len(cl)
	last := cl[n-1]
	ma := sma(cl, n, maPeriod)
	prevMA := sma(cl, n-1, maPeriod)
	if last <= ma || ma <= prevMA {
		return reject(ReasonNoUptrend)
	}

	// 3. 出来高
	if !volumeConfirmed(in.Stock) {
		return reject(ReasonVolume)
	}

	// 4. 需給
	if in.CreditRatio > maxCreditRatio || in.EarningsSoon {
		return reject(ReasonSupplyDemand)
	}

	// 5. リスク
	if last > ma*maxDeviation {
		return reject(ReasonRisk)
	}

	return Result{Buy: true, Reason: ReasonAccepted}
}

// volumeConfirmed は直近を含む20本の平均に対して直近出来高が120%以上かを整数演算で判定します。
func volumeConfirmed(bars []candle.Candle) bool {
	window := bars[len(bars)-volumePeriod:]
	var sum int64
	for _, b := range window {
		sum += b.Volume
	}
	latest := window[len(window)-1].Volume
	// latest >= 1.2 * sum / n
	return latest*volumePeriod*100 >= sum*volumeRatioPct
}

func closes(bars []candle.Candle) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// sma は xs[end-period:end] の単純移動平均です。
func sma(xs []float64, end, period int) float64 {
	var sum float64
	for _, x := range xs[end-period : end] {
		sum += x
	}
	return sum / float64(period)
}
