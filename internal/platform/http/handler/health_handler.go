// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/shared/marketclock"
)

// now はテストで差し替えられる現在時刻です。
var now = time.Now

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// GET では東証の取引時間帯もあわせて返します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	// すべてのGET/HEAD/OPTIONSリクエストに対して200または204を返す
	switch c.Request.Method {
	case "HEAD":
		c.Status(200)
	case "OPTIONS":
		c.Status(204)
	default:
		st := marketclock.StatusAt(now())
		c.JSON(200, gin.H{
			"status": "ok",
			"market": gin.H{
				"open":    st.IsOpen,
				"session": st.Session,
				"label":   st.Label,
			},
		})
	}
}
