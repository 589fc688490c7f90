package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/focusdoro/internal/domain"
)

// TimerRepository implements domain.TimerRepository using SQLite.
type TimerRepository struct {
	db *sql.DB
}

// NewTimerRepository creates a new SQLite-backed TimerRepository.
func NewTimerRepository(db *DB) *TimerRepository {
	return &TimerRepository{db: db.SqlDB}
}

const timerColumns = `id, user_id, work_duration, short_break_duration, long_break_duration,
	long_break_interval, auto_start_breaks, auto_start_pomodoros,
	mode, time_left_seconds, running, consecutive_work_sessions, completed_pomodoros,
	created_at, updated_at`

func scanTimer(row *sql.Row) (*domain.Timer, error) {
	t := &domain.Timer{}
	err := row.Scan(&t.ID, &t.UserID,
		&t.Settings.WorkDuration, &t.Settings.ShortBreakDuration, &t.Settings.LongBreakDuration,
		&t.Settings.LongBreakInterval, &t.Settings.AutoStartBreaks, &t.Settings.AutoStartPomodoros,
		&t.State.Mode, &t.State.TimeLeftSeconds, &t.State.Running,
		&t.State.ConsecutiveWorkSessions, &t.State.CompletedPomodoros,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan timer: %w", err)
	}
	return t, nil
}

func (r *TimerRepository) GetByUser(ctx context.Context, userID int64) (*domain.Timer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+timerColumns+` FROM timers WHERE user_id = ?`, userID)
	return scanTimer(row)
}

func (r *TimerRepository) Create(ctx context.Context, timer *domain.Timer) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO timers (user_id, work_duration, short_break_duration, long_break_duration,
		 long_break_interval, auto_start_breaks, auto_start_pomodoros,
		 mode, time_left_seconds, running, consecutive_work_sessions, completed_pomodoros,
		 created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		timer.UserID,
		timer.Settings.WorkDuration, timer.Settings.ShortBreakDuration, timer.Settings.LongBreakDuration,
		timer.Settings.LongBreakInterval, timer.Settings.AutoStartBreaks, timer.Settings.AutoStartPomodoros,
		timer.State.Mode, timer.State.TimeLeftSeconds, timer.State.Running,
		timer.State.ConsecutiveWorkSessions, timer.State.CompletedPomodoros,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("insert timer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get timer id: %w", err)
	}

	timer.ID = id
	timer.CreatedAt = now
	timer.UpdatedAt = now
	return nil
}

func (r *TimerRepository) Update(ctx context.Context, timer *domain.Timer) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE timers SET
		 work_duration = ?, short_break_duration = ?, long_break_duration = ?,
		 long_break_interval = ?, auto_start_breaks = ?, auto_start_pomodoros = ?,
		 mode = ?, time_left_seconds = ?, running = ?,
		 consecutive_work_sessions = ?, completed_pomodoros = ?, updated_at = ?
		 WHERE id = ?`,
		timer.Settings.WorkDuration, timer.Settings.ShortBreakDuration, timer.Settings.LongBreakDuration,
		timer.Settings.LongBreakInterval, timer.Settings.AutoStartBreaks, timer.Settings.AutoStartPomodoros,
		timer.State.Mode, timer.State.TimeLeftSeconds, timer.State.Running,
		timer.State.ConsecutiveWorkSessions, timer.State.CompletedPomodoros, now,
		timer.ID,
	)
	if err != nil {
		return fmt.Errorf("update timer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	timer.UpdatedAt = now
	return nil
}

func (r *TimerRepository) CreateSession(ctx context.Context, session *domain.TimerSession) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO timer_sessions (user_id, type, start_time, end_time, duration_minutes, completed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.UserID, session.Type, session.StartTime, session.EndTime,
		session.DurationMinutes, session.Completed,
	)
	if err != nil {
		return fmt.Errorf("insert timer session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get timer session id: %w", err)
	}

	session.ID = id
	return nil
}

func (r *TimerRepository) GetSession(ctx context.Context, id int64) (*domain.TimerSession, error) {
	s := &domain.TimerSession{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, start_time, end_time, duration_minutes, completed
		 FROM timer_sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.Type, &s.StartTime, &s.EndTime, &s.DurationMinutes, &s.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get timer session: %w", err)
	}
	return s, nil
}

func (r *TimerRepository) UpdateSession(ctx context.Context, session *domain.TimerSession) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE timer_sessions SET end_time = ?, duration_minutes = ?, completed = ?
		 WHERE id = ?`,
		session.EndTime, session.DurationMinutes, session.Completed, session.ID,
	)
	if err != nil {
		return fmt.Errorf("update timer session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TimerRepository) ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]domain.TimerSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, start_time, end_time, duration_minutes, completed
		 FROM timer_sessions WHERE user_id = ?
		 ORDER BY start_time DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list timer sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.TimerSession
	for rows.Next() {
		var s domain.TimerSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Type, &s.StartTime, &s.EndTime,
			&s.DurationMinutes, &s.Completed); err != nil {
			return nil, fmt.Errorf("scan timer session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
