package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
)

// DefaultAllowedHosts は PROXY_ALLOWED_HOSTS 未設定時に中継を許可するホストです。
var DefaultAllowedHosts = []string{
	"finance.yahoo.co.jp",
	"query1.finance.yahoo.com",
	"query2.finance.yahoo.com",
}

// ProxyConfig は中継エンドポイントの設定を保持します。
type ProxyConfig struct {
	AllowedHosts []string // 完全一致またはそのサブドメインを許可
}

// LoadProxyConfig は環境変数 PROXY_ALLOWED_HOSTS（カンマ区切り）から設定を読み込みます。
func LoadProxyConfig() ProxyConfig {
	raw := os.Getenv("PROXY_ALLOWED_HOSTS")
	if strings.TrimSpace(raw) == "" {
		return ProxyConfig{AllowedHosts: DefaultAllowedHosts}
	}
	var hosts []string
	for _, h := range strings.Split(raw, ",") {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	return ProxyConfig{AllowedHosts: hosts}
}

// Proxy はブラウザから直接取得できないページを同一オリジンで中継します。
type Proxy struct {
	cfg    ProxyConfig
	client *resty.Client
}

// NewProxy は Proxy を生成します。client にはブラウザ相当のヘッダーを持つ resty クライアントを渡します。
func NewProxy(cfg ProxyConfig, client *resty.Client) *Proxy {
	return &Proxy{cfg: cfg, client: client}
}

// Handle は GET /proxy?url=<encoded>&_cb=<cache-buster> を処理します。
// 本文はそのまま返し、CORSを全許可、キャッシュを無効化します。
// url がなければ400、許可リスト外のホストは403、上流への接続失敗は500を返します。
func (p *Proxy) Handle(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.String(http.StatusBadRequest, "Missing url parameter")
		return
	}
	target, err := url.Parse(raw)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		c.String(http.StatusBadRequest, "Invalid url parameter")
		return
	}
	if !p.allowed(target.Hostname()) {
		c.String(http.StatusForbidden, "Host not allowed")
		return
	}

	resp, err := p.client.R().SetContext(c.Request.Context()).Get(target.String())
	if err != nil {
		slog.Warn("proxy upstream failed", "host", target.Hostname(), "error", err)
		c.String(http.StatusInternalServerError, "Error fetching data: %s", err.Error())
		return
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(resp.StatusCode(), contentType, resp.Body())
}

func (p *Proxy) allowed(host string) bool {
	host = strings.ToLower(host)
	for _, h := range p.cfg.AllowedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
