// Package fetch は取得先ページの本文を、同一オリジンのプロキシと公開CORSリレーを順に試して取得します。
package fetch

import (
	"os"
	"strconv"
	"time"
)

// Relay は対象URLをクエリに埋め込んで中継する公開プロキシです。
type Relay struct {
	Name         string // ログ用の名前
	Prefix       string // エンコード済み対象URLの直前までのURL
	JSONEnvelope bool   // 本文が {"contents": "..."} で包まれている場合 true
}

// Config はフェッチゲートウェイの設定を保持します。
type Config struct {
	ProxyURL      string        // 同一オリジンのプロキシ（例: "http://localhost:8080/proxy"）。空なら直接取得
	Relays        []Relay       // フォールバック用の公開リレー（順に試行）
	MinBodyLength int           // 成功とみなす最小文字数（これ以下はエラーページとみなす）
	Timeout       time.Duration // 1リクエストあたりのタイムアウト
	RatePerMinute int           // 1分あたりの送信上限（0以下で無制限）
}

const (
	defaultMinBodyLength = 500
	defaultTimeout       = 10 * time.Second
)

// DefaultRelays は既定の公開リレーを返します。
func DefaultRelays() []Relay {
	return []Relay{
		{Name: "corsproxy", Prefix: "https://corsproxy.io/?"},
		{Name: "allorigins", Prefix: "https://api.allorigins.win/get?url=", JSONEnvelope: true},
	}
}

// LoadConfig は環境変数からフェッチゲートウェイの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		ProxyURL:      os.Getenv("PROXY_URL"),
		Relays:        DefaultRelays(),
		MinBodyLength: defaultMinBodyLength,
		Timeout:       defaultTimeout,
	}
	if v, err := time.ParseDuration(os.Getenv("FETCH_TIMEOUT")); err == nil && v > 0 {
		cfg.Timeout = v
	}
	if v, err := strconv.Atoi(os.Getenv("FETCH_MIN_BODY")); err == nil && v >= 0 {
		cfg.MinBodyLength = v
	}
	if v, err := strconv.Atoi(os.Getenv("FETCH_RATE_PER_MINUTE")); err == nil {
		cfg.RatePerMinute = v
	}
	return cfg
}
