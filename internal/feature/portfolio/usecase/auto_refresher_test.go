package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) RefreshAll(ctx context.Context) (RefreshReport, error) {
	c.calls.Add(1)
	return RefreshReport{}, nil
}

func TestAutoRefresher_Step(t *testing.T) {
	t.Parallel()

	r := &countingRefresher{}
	a := NewAutoRefresher(r, 2*time.Minute)
	open := false
	start := time.Date(2025, 1, 6, 8, 50, 0, 0, time.UTC)
	now := start
	a.now = func() time.Time { return now }
	a.isOpen = func(time.Time) bool { return open }

	// 間隔未満は何もしない
	now = start.Add(time.Minute)
	assert.Equal(t, start, a.step(context.Background(), start))
	assert.Equal(t, int32(0), r.calls.Load())

	// 間隔経過でも市場が閉じていれば基準時刻は進まない
	now = start.Add(5 * time.Minute)
	assert.Equal(t, start, a.step(context.Background(), start))
	assert.Equal(t, int32(0), r.calls.Load())

	// 開場後の最初のチェックで即座に更新する
	open = true
	now = start.Add(11 * time.Minute)
	assert.Equal(t, now, a.step(context.Background(), start))
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestAutoRefresher_CheckInterval(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Minute, NewAutoRefresher(nil, 5*time.Minute).CheckInterval())
	assert.Equal(t, 30*time.Second, NewAutoRefresher(nil, 30*time.Second).CheckInterval())
}

func TestAutoRefresher_RunDisabled(t *testing.T) {
	t.Parallel()

	r := &countingRefresher{}
	assert.NoError(t, NewAutoRefresher(r, 0).Run(context.Background()))
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestAutoRefresher_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	r := &countingRefresher{}
	a := NewAutoRefresher(r, 10*time.Millisecond)
	a.isOpen = func(time.Time) bool { return true }

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := a.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, r.calls.Load())
}

func TestAutoRefreshIntervalFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", DefaultAutoRefreshInterval},
		{"abc", DefaultAutoRefreshInterval},
		{"-1", DefaultAutoRefreshInterval},
		{"0", 0},
		{"5", 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("AUTO_REFRESH_MINUTES", tt.value)
			assert.Equal(t, tt.want, AutoRefreshIntervalFromEnv())
		})
	}
}
