package domain

import (
	"context"
	"time"
)

type SessionType string

const (
	SessionTypeWork       SessionType = "work"
	SessionTypeShortBreak SessionType = "shortBreak"
	SessionTypeLongBreak  SessionType = "longBreak"
)

// Valid reports whether t is one of the known session types.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeWork, SessionTypeShortBreak, SessionTypeLongBreak:
		return true
	}
	return false
}

// TimerSettings holds a user's configured phase durations. Durations are
// in minutes; the countdown itself runs in whole seconds.
type TimerSettings struct {
	WorkDuration       int
	ShortBreakDuration int
	LongBreakDuration  int
	LongBreakInterval  int
	AutoStartBreaks    bool
	AutoStartPomodoros bool
}

// DefaultTimerSettings returns the settings applied to new users.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		WorkDuration:       25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		LongBreakInterval:  4,
	}
}

// CycleState is the per-user pomodoro/break cycle position.
// ConsecutiveWorkSessions resets to zero whenever a long break is entered.
type CycleState struct {
	Mode                    SessionType
	TimeLeftSeconds         int
	Running                 bool
	ConsecutiveWorkSessions int
	CompletedPomodoros      int
}

// Timer is the one-per-user timer document: settings plus cycle state.
type Timer struct {
	ID        int64
	UserID    int64
	Settings  TimerSettings
	State     CycleState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimerSession records a single started phase. It is closed (end time and
// duration set) when the phase completes or is skipped, and is immutable
// afterwards except for being read during aggregation.
type TimerSession struct {
	ID              int64
	UserID          int64
	Type            SessionType
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int
	Completed       bool
}

// TimerRepository defines persistence operations for timers and their sessions.
type TimerRepository interface {
	GetByUser(ctx context.Context, userID int64) (*Timer, error)
	Create(ctx context.Context, timer *Timer) error
	Update(ctx context.Context, timer *Timer) error

	CreateSession(ctx context.Context, session *TimerSession) error
	GetSession(ctx context.Context, id int64) (*TimerSession, error)
	UpdateSession(ctx context.Context, session *TimerSession) error
	ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]TimerSession, error)
}
