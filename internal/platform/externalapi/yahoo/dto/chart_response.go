// Package dto はYahoo!ファイナンスのチャートAPIレスポンスのデータ転送オブジェクトを定義します。
package dto

// ChartResponse は /v8/finance/chart エンドポイントからのJSONレスポンスを表します。
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// ChartError はAPIが返すエラー本体です。
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartResult は1銘柄分の時系列です。配列はインデックスで対応し、欠損は null になります。
type ChartResult struct {
	Meta       ChartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []QuoteIndicator `json:"quote"`
	} `json:"indicators"`
}

// ChartMeta は現在値や前日終値などのメタ情報です。
type ChartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	PreviousClose      float64 `json:"previousClose"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
}

// QuoteIndicator は四本値と出来高の並列配列です。
type QuoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}
