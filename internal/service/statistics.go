package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/msomdec/focusdoro/internal/domain"
)

// RecordTypePomodoro is the only event type that contributes to rollups.
// Other types are accepted but not aggregated.
const RecordTypePomodoro = "pomodoro"

// StatisticsService maintains per-user rollups: daily and weekly focus
// time, running totals, the windowed pomodoro average, and the daily
// streak. All derived fields are recomputed on write; reads return cached
// state.
type StatisticsService struct {
	stats domain.StatisticsRepository
	locks *userLocks
}

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(stats domain.StatisticsRepository) *StatisticsService {
	return &StatisticsService{stats: stats, locks: newUserLocks()}
}

// Get returns the user's statistics, lazily creating an empty summary on
// first read.
func (s *StatisticsService) Get(ctx context.Context, userID int64) (*domain.Statistics, error) {
	unlock := s.locks.Acquire(userID)
	defer unlock()
	return s.getOrCreate(ctx, userID)
}

func (s *StatisticsService) getOrCreate(ctx context.Context, userID int64) (*domain.Statistics, error) {
	stats, err := s.stats.GetByUser(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get statistics: %w", err)
	}

	stats = &domain.Statistics{UserID: userID}
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("create statistics: %w", err)
	}
	return stats, nil
}

// Record applies a completed-session event to the user's rollups and
// returns the updated summary. The whole read-modify-write is serialized
// per user to avoid lost updates from concurrent completions.
func (s *StatisticsService) Record(ctx context.Context, userID int64, kind string, durationMinutes int) (*domain.Statistics, error) {
	if durationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", domain.ErrInvalidInput)
	}

	unlock := s.locks.Acquire(userID)
	defer unlock()

	stats, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if kind != RecordTypePomodoro {
		return stats, nil
	}

	now := time.Now()
	today := dayStart(now)

	// Streak is decided by the most recent active day before today's entry
	// is upserted: first-ever day seeds 1, yesterday extends, same day
	// keeps, anything older resets.
	stats.DailyStreak = nextStreak(stats, today)

	applyDaily(stats, today, durationMinutes)
	applyWeekly(stats, weekStart(today), durationMinutes)

	stats.TotalPomodoros++
	stats.TotalFocusTime += durationMinutes

	if n := len(stats.Daily); n > domain.DailyStatRetention {
		stats.Daily = stats.Daily[n-domain.DailyStatRetention:]
	}
	if n := len(stats.Weekly); n > domain.WeeklyStatRetention {
		stats.Weekly = stats.Weekly[n-domain.WeeklyStatRetention:]
	}

	// Average over the retained daily window, not lifetime.
	stats.AveragePomodoros = 0
	if len(stats.Daily) > 0 {
		sum := 0
		for _, d := range stats.Daily {
			sum += d.Pomodoros
		}
		stats.AveragePomodoros = float64(sum) / float64(len(stats.Daily))
	}

	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("save statistics: %w", err)
	}
	return stats, nil
}

func nextStreak(stats *domain.Statistics, today time.Time) int {
	if len(stats.Daily) == 0 {
		return 1
	}
	last := dayStart(stats.Daily[len(stats.Daily)-1].Date)
	switch daysBetween(last, today) {
	case 0:
		return stats.DailyStreak
	case 1:
		return stats.DailyStreak + 1
	default:
		return 0
	}
}

func applyDaily(stats *domain.Statistics, today time.Time, durationMinutes int) {
	for i := range stats.Daily {
		if sameDay(stats.Daily[i].Date, today) {
			stats.Daily[i].Pomodoros++
			stats.Daily[i].FocusTime += durationMinutes
			return
		}
	}
	stats.Daily = append(stats.Daily, domain.DailyStat{
		Date:      today,
		Pomodoros: 1,
		FocusTime: durationMinutes,
	})
}

func applyWeekly(stats *domain.Statistics, week time.Time, durationMinutes int) {
	for i := range stats.Weekly {
		if sameDay(stats.Weekly[i].WeekStart, week) {
			stats.Weekly[i].FocusTime += durationMinutes
			return
		}
	}
	stats.Weekly = append(stats.Weekly, domain.WeeklyStat{
		WeekStart: week,
		FocusTime: durationMinutes,
	})
}

// dayStart normalizes to the local calendar day, time components stripped.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekStart returns the most recent Sunday at or before the given day.
func weekStart(day time.Time) time.Time {
	return dayStart(day.AddDate(0, 0, -int(day.Weekday())))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysBetween counts whole calendar days from a to b. Rounding absorbs
// the 23/25-hour days around DST transitions.
func daysBetween(a, b time.Time) int {
	return int(math.Round(dayStart(b).Sub(dayStart(a)).Hours() / 24))
}
