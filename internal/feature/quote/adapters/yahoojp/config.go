// Package yahoojp はYahoo!ファイナンス（日本）の銘柄ページから相場情報を抽出します。
package yahoojp

import "os"

const defaultQuoteBaseURL = "https://finance.yahoo.co.jp/quote"

// Config は銘柄ページ取得の設定を保持します。
type Config struct {
	QuoteBaseURL string // 銘柄ページのベースURL（末尾に対象シンボルを付与）
}

// LoadConfig は環境変数から設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{QuoteBaseURL: defaultQuoteBaseURL}
	if v := os.Getenv("YAHOO_QUOTE_BASE_URL"); v != "" {
		cfg.QuoteBaseURL = v
	}
	return cfg
}
