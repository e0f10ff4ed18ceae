// Package yahoojp はYahoo!ファイナンス（日本）のランキングページを解析します。
package yahoojp

import "os"

const defaultRankingBaseURL = "https://finance.yahoo.co.jp/stocks/ranking"

const (
	// defaultCap は業種フィルタなしで収集する行数の上限です。
	defaultCap = 10
	// industryCap は業種フィルタありで収集する行数の上限です（フィルタは取得後に適用するため多めに集める）。
	industryCap = 50
	// maxEntries は返す件数の上限です。
	maxEntries = 3
)

// Config はランキング取得の設定を保持します。
type Config struct {
	RankingBaseURL string
}

// LoadConfig は環境変数から設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{RankingBaseURL: defaultRankingBaseURL}
	if v := os.Getenv("YAHOO_RANKING_BASE_URL"); v != "" {
		cfg.RankingBaseURL = v
	}
	return cfg
}
