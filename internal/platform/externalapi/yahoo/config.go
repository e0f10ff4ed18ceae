// Package yahoo はYahoo!ファイナンスのチャートAPIのクライアントを提供します。
package yahoo

import (
	"os"
)

const (
	defaultChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	// SeriesRange は時系列取得で要求する期間です。
	SeriesRange = "3mo"
	// SeriesInterval は時系列取得で要求する足の間隔です。
	SeriesInterval = "1d"
)

// Config はチャートAPIクライアントの設定を保持します。
type Config struct {
	ChartBaseURL string // チャートAPIのベースURL（末尾にシンボルを付与）
}

// LoadConfig は環境変数からチャートAPIの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{ChartBaseURL: defaultChartBaseURL}
	if v := os.Getenv("YAHOO_CHART_BASE_URL"); v != "" {
		cfg.ChartBaseURL = v
	}
	return cfg
}
