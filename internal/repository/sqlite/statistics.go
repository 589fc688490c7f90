package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/focusdoro/internal/domain"
)

// StatisticsRepository implements domain.StatisticsRepository using SQLite.
// The summary row and both rollup lists are treated as one logical document.
type StatisticsRepository struct {
	db *sql.DB
}

// NewStatisticsRepository creates a new SQLite-backed StatisticsRepository.
func NewStatisticsRepository(db *DB) *StatisticsRepository {
	return &StatisticsRepository{db: db.SqlDB}
}

func (r *StatisticsRepository) GetByUser(ctx context.Context, userID int64) (*domain.Statistics, error) {
	stats := &domain.Statistics{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, total_pomodoros, total_focus_time, daily_streak, average_pomodoros,
		 created_at, updated_at
		 FROM statistics WHERE user_id = ?`, userID,
	).Scan(&stats.ID, &stats.UserID, &stats.TotalPomodoros, &stats.TotalFocusTime,
		&stats.DailyStreak, &stats.AveragePomodoros, &stats.CreatedAt, &stats.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query statistics: %w", err)
	}

	if stats.Daily, err = r.listDaily(ctx, userID); err != nil {
		return nil, err
	}
	if stats.Weekly, err = r.listWeekly(ctx, userID); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *StatisticsRepository) listDaily(ctx context.Context, userID int64) ([]domain.DailyStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, pomodoros, focus_time FROM daily_stats
		 WHERE user_id = ? ORDER BY date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list daily stats: %w", err)
	}
	defer rows.Close()

	var daily []domain.DailyStat
	for rows.Next() {
		var d domain.DailyStat
		if err := rows.Scan(&d.Date, &d.Pomodoros, &d.FocusTime); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		daily = append(daily, d)
	}
	return daily, rows.Err()
}

func (r *StatisticsRepository) listWeekly(ctx context.Context, userID int64) ([]domain.WeeklyStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT week_start, focus_time FROM weekly_stats
		 WHERE user_id = ? ORDER BY week_start ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list weekly stats: %w", err)
	}
	defer rows.Close()

	var weekly []domain.WeeklyStat
	for rows.Next() {
		var w domain.WeeklyStat
		if err := rows.Scan(&w.WeekStart, &w.FocusTime); err != nil {
			return nil, fmt.Errorf("scan weekly stat: %w", err)
		}
		weekly = append(weekly, w)
	}
	return weekly, rows.Err()
}

// Save upserts the summary row and replaces both rollup lists in a single
// transaction, preserving the document-at-a-time write semantics the
// service layer relies on.
func (r *StatisticsRepository) Save(ctx context.Context, stats *domain.Statistics) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO statistics (user_id, total_pomodoros, total_focus_time, daily_streak,
		 average_pomodoros, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		 total_pomodoros = excluded.total_pomodoros,
		 total_focus_time = excluded.total_focus_time,
		 daily_streak = excluded.daily_streak,
		 average_pomodoros = excluded.average_pomodoros,
		 updated_at = excluded.updated_at`,
		stats.UserID, stats.TotalPomodoros, stats.TotalFocusTime, stats.DailyStreak,
		stats.AveragePomodoros, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert statistics: %w", err)
	}
	if stats.ID == 0 {
		if id, err := result.LastInsertId(); err == nil {
			stats.ID = id
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_stats WHERE user_id = ?", stats.UserID); err != nil {
		return fmt.Errorf("clear daily stats: %w", err)
	}
	for _, d := range stats.Daily {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_stats (user_id, date, pomodoros, focus_time) VALUES (?, ?, ?, ?)`,
			stats.UserID, d.Date, d.Pomodoros, d.FocusTime); err != nil {
			return fmt.Errorf("insert daily stat: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM weekly_stats WHERE user_id = ?", stats.UserID); err != nil {
		return fmt.Errorf("clear weekly stats: %w", err)
	}
	for _, w := range stats.Weekly {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO weekly_stats (user_id, week_start, focus_time) VALUES (?, ?, ?)`,
			stats.UserID, w.WeekStart, w.FocusTime); err != nil {
			return fmt.Errorf("insert weekly stat: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit statistics: %w", err)
	}
	stats.UpdatedAt = now
	return nil
}
