package domain

import (
	"context"
	"time"
)

// DailyStat is one calendar day's rollup. Date is day-granularity
// (time components stripped) and unique per user.
type DailyStat struct {
	Date      time.Time
	Pomodoros int
	FocusTime int // minutes
}

// WeeklyStat is one week's focus-time rollup, keyed by the most recent
// Sunday at or before the recorded day.
type WeeklyStat struct {
	WeekStart time.Time
	FocusTime int // minutes
}

// Statistics is the per-user summary document: running totals, the
// retained daily/weekly rollup windows, and derived fields recomputed
// on every recorded pomodoro.
type Statistics struct {
	ID               int64
	UserID           int64
	Daily            []DailyStat
	Weekly           []WeeklyStat
	TotalPomodoros   int
	TotalFocusTime   int // minutes
	DailyStreak      int
	AveragePomodoros float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Retention windows for rollup lists; oldest entries are dropped first.
const (
	DailyStatRetention  = 30
	WeeklyStatRetention = 12
)

// StatisticsRepository persists the statistics document. Save replaces
// the summary and both rollup lists atomically.
type StatisticsRepository interface {
	GetByUser(ctx context.Context, userID int64) (*Statistics, error)
	Save(ctx context.Context, stats *Statistics) error
}
