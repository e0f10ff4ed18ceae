package usecase

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"stock_portfolio/internal/shared/marketclock"
)

// DefaultAutoRefreshInterval は自動更新の既定間隔です。
const DefaultAutoRefreshInterval = 2 * time.Minute

// maxCheckInterval は市場の再開を検知するための最大チェック間隔です。
const maxCheckInterval = time.Minute

// Refresher は保有銘柄を一括更新します。
type Refresher interface {
	RefreshAll(ctx context.Context) (RefreshReport, error)
}

// AutoRefresher は市場が開いている間、一定間隔で保有銘柄を更新します。
type AutoRefresher struct {
	refresher Refresher
	interval  time.Duration
	now       func() time.Time
	isOpen    func(time.Time) bool
}

// NewAutoRefresher は AutoRefresher を生成します。interval が0以下の場合、Run は何もしません。
func NewAutoRefresher(r Refresher, interval time.Duration) *AutoRefresher {
	return &AutoRefresher{
		refresher: r,
		interval:  interval,
		now:       time.Now,
		isOpen:    func(t time.Time) bool { return marketclock.StatusAt(t).IsOpen },
	}
}

// AutoRefreshIntervalFromEnv は AUTO_REFRESH_MINUTES を読み込みます。
// 未設定や不正値の場合は既定値、0 の場合は無効（0）を返します。
func AutoRefreshIntervalFromEnv() time.Duration {
	v, err := strconv.Atoi(os.Getenv("AUTO_REFRESH_MINUTES"))
	if err != nil || v < 0 {
		return DefaultAutoRefreshInterval
	}
	return time.Duration(v) * time.Minute
}

// CheckInterval は市場状態を確認する間隔（間隔と1分の短い方）です。
func (a *AutoRefresher) CheckInterval() time.Duration {
	return min(a.interval, maxCheckInterval)
}

// Run は ctx がキャンセルされるまで定期チェックを続けます。
func (a *AutoRefresher) Run(ctx context.Context) error {
	if a.interval <= 0 {
		slog.Info("auto refresh disabled")
		return nil
	}
	check := a.CheckInterval()
	slog.Info("auto refresh started", "interval", a.interval, "check", check)

	ticker := time.NewTicker(check)
	defer ticker.Stop()

	last := a.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			last = a.step(ctx, last)
		}
	}
}

// step は1回分のチェックを行い、次の基準時刻を返します。
// 市場が閉じている間は基準時刻を進めないため、開場後の最初のチェックで即座に更新されます。
func (a *AutoRefresher) step(ctx context.Context, last time.Time) time.Time {
	now := a.now()
	if now.Sub(last) < a.interval {
		return last
	}
	if !a.isOpen(now) {
		slog.Debug("market closed, skipping refresh", "session", marketclock.StatusAt(now).Session)
		return last
	}

	report, err := a.refresher.RefreshAll(ctx)
	if err != nil {
		slog.Error("auto refresh failed", "error", err)
	} else {
		slog.Info("auto refresh done", "updated", len(report.Updated), "failed", len(report.Failed))
	}
	return now
}
