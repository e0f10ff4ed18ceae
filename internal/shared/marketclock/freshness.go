package marketclock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FreshnessLevel はデータの鮮度の区分です。
type FreshnessLevel string

const (
	FreshnessUnknown FreshnessLevel = "unknown" // 更新時刻が不明
	FreshnessFresh   FreshnessLevel = "fresh"   // 1時間未満
	FreshnessStale   FreshnessLevel = "stale"   // 24時間未満
	FreshnessOld     FreshnessLevel = "old"     // 24時間以上
)

// notFetchedLabel は更新時刻が得られていない銘柄の表示です。
const notFetchedLabel = "未取得"

// Freshness は更新時刻 "HH:MM" からの経過時間です。
// AgeMinutes は更新時刻が不明な場合 nil です。
type Freshness struct {
	Level      FreshnessLevel
	Label      string
	AgeMinutes *int
}

var hhmmRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// FreshnessAt は now（日本時間に変換して評価）時点での更新時刻の鮮度を返します。
// 更新時刻が now より後なら前日の時刻とみなし、土日は直前の金曜日まで遡ります。
func FreshnessAt(updateTime string, now time.Time) Freshness {
	if updateTime == "" || updateTime == "--:--" || strings.Contains(updateTime, "日") {
		return Freshness{Level: FreshnessUnknown, Label: notFetchedLabel}
	}
	m := hhmmRe.FindStringSubmatch(updateTime)
	if m == nil {
		return Freshness{Level: FreshnessUnknown, Label: updateTime}
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])

	now = now.In(tokyo)
	updated := time.Date(now.Year(), now.Month(), now.Day(), h, mm, 0, 0, tokyo)
	if updated.After(now) {
		updated = updated.AddDate(0, 0, -1)
	}
	for updated.Weekday() == time.Saturday || updated.Weekday() == time.Sunday {
		updated = updated.AddDate(0, 0, -1)
	}

	age := now.Sub(updated)
	minutes := int(age / time.Minute)
	switch {
	case age < time.Hour:
		return Freshness{Level: FreshnessFresh, Label: fmt.Sprintf("%d分前", minutes), AgeMinutes: &minutes}
	case age < 24*time.Hour:
		return Freshness{Level: FreshnessStale, Label: fmt.Sprintf("%d時間前", int(age/time.Hour)), AgeMinutes: &minutes}
	default:
		return Freshness{Level: FreshnessOld, Label: fmt.Sprintf("%d日前", int(age/(24*time.Hour))), AgeMinutes: &minutes}
	}
}
