package handler

import "time"

// SetClock はテストで現在時刻を固定します。
func SetClock(h *PortfolioHandler, now func() time.Time) {
	h.now = now
}
