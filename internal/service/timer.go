package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/focusdoro/internal/domain"
)

// SessionRecorder consumes completed-session events. Satisfied by
// *StatisticsService.
type SessionRecorder interface {
	Record(ctx context.Context, userID int64, kind string, durationMinutes int) (*domain.Statistics, error)
}

// TimerService manages per-user timer settings, the pomodoro/break cycle
// state machine, and timer session lifecycle.
type TimerService struct {
	timers   domain.TimerRepository
	recorder SessionRecorder
}

// NewTimerService creates a new TimerService.
func NewTimerService(timers domain.TimerRepository, recorder SessionRecorder) *TimerService {
	return &TimerService{timers: timers, recorder: recorder}
}

// PhaseSeconds returns the countdown length for a phase. Durations are
// configured in minutes; the countdown runs in whole seconds, so timeLeft
// is re-derived as minutes*60 whenever a phase starts.
func PhaseSeconds(mode domain.SessionType, settings domain.TimerSettings) int {
	return PhaseMinutes(mode, settings) * 60
}

// PhaseMinutes returns the configured duration for a phase in minutes.
func PhaseMinutes(mode domain.SessionType, settings domain.TimerSettings) int {
	switch mode {
	case domain.SessionTypeShortBreak:
		return settings.ShortBreakDuration
	case domain.SessionTypeLongBreak:
		return settings.LongBreakDuration
	default:
		return settings.WorkDuration
	}
}

// Tick decrements the countdown by one second while running. Returns true
// when the countdown reached zero and the phase completion should fire.
func Tick(state *domain.CycleState) bool {
	if !state.Running || state.TimeLeftSeconds <= 0 {
		return state.Running && state.TimeLeftSeconds == 0
	}
	state.TimeLeftSeconds--
	return state.TimeLeftSeconds == 0
}

// AdvanceCycle applies the completion transition to the cycle state and
// returns the phase that just finished. Skipping a phase forces the same
// transition.
//
// work → shortBreak, or longBreak once ConsecutiveWorkSessions reaches the
// configured interval (resetting the counter). Either break → work. The
// next phase starts running only if the matching auto-start flag is set.
func AdvanceCycle(state *domain.CycleState, settings domain.TimerSettings) domain.SessionType {
	finished := state.Mode

	switch state.Mode {
	case domain.SessionTypeWork:
		state.CompletedPomodoros++
		state.ConsecutiveWorkSessions++
		if state.ConsecutiveWorkSessions >= settings.LongBreakInterval {
			state.Mode = domain.SessionTypeLongBreak
			state.ConsecutiveWorkSessions = 0
		} else {
			state.Mode = domain.SessionTypeShortBreak
		}
		state.Running = settings.AutoStartBreaks
	default:
		state.Mode = domain.SessionTypeWork
		state.Running = settings.AutoStartPomodoros
	}

	state.TimeLeftSeconds = PhaseSeconds(state.Mode, settings)
	return finished
}

// GetOrCreate returns the user's timer, lazily creating one with default
// settings on first access.
func (s *TimerService) GetOrCreate(ctx context.Context, userID int64) (*domain.Timer, error) {
	timer, err := s.timers.GetByUser(ctx, userID)
	if err == nil {
		return timer, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get timer: %w", err)
	}

	settings := domain.DefaultTimerSettings()
	timer = &domain.Timer{
		UserID:   userID,
		Settings: settings,
		State: domain.CycleState{
			Mode:            domain.SessionTypeWork,
			TimeLeftSeconds: settings.WorkDuration * 60,
		},
	}
	if err := s.timers.Create(ctx, timer); err != nil {
		return nil, fmt.Errorf("create timer: %w", err)
	}
	return timer, nil
}

// SettingsPatch carries a partial settings update. Nil fields keep the
// current value.
type SettingsPatch struct {
	WorkDuration       *int
	ShortBreakDuration *int
	LongBreakDuration  *int
	LongBreakInterval  *int
	AutoStartBreaks    *bool
	AutoStartPomodoros *bool
}

// UpdateSettings applies a partial settings update. When the timer is not
// running, the countdown is re-derived from the new duration of the
// current phase.
func (s *TimerService) UpdateSettings(ctx context.Context, userID int64, patch SettingsPatch) (*domain.Timer, error) {
	timer, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := &timer.Settings
	if patch.WorkDuration != nil {
		set.WorkDuration = *patch.WorkDuration
	}
	if patch.ShortBreakDuration != nil {
		set.ShortBreakDuration = *patch.ShortBreakDuration
	}
	if patch.LongBreakDuration != nil {
		set.LongBreakDuration = *patch.LongBreakDuration
	}
	if patch.LongBreakInterval != nil {
		set.LongBreakInterval = *patch.LongBreakInterval
	}
	if patch.AutoStartBreaks != nil {
		set.AutoStartBreaks = *patch.AutoStartBreaks
	}
	if patch.AutoStartPomodoros != nil {
		set.AutoStartPomodoros = *patch.AutoStartPomodoros
	}

	if err := validateSettings(*set); err != nil {
		return nil, err
	}

	if !timer.State.Running {
		timer.State.TimeLeftSeconds = PhaseSeconds(timer.State.Mode, *set)
	}

	if err := s.timers.Update(ctx, timer); err != nil {
		return nil, fmt.Errorf("update timer: %w", err)
	}
	return timer, nil
}

// validateSettings enforces the allowed ranges: work 1-60, short break
// 1-30, long break 1-60, interval 1-10.
func validateSettings(set domain.TimerSettings) error {
	if set.WorkDuration < 1 || set.WorkDuration > 60 {
		return fmt.Errorf("%w: work duration must be between 1 and 60 minutes", domain.ErrInvalidInput)
	}
	if set.ShortBreakDuration < 1 || set.ShortBreakDuration > 30 {
		return fmt.Errorf("%w: short break duration must be between 1 and 30 minutes", domain.ErrInvalidInput)
	}
	if set.LongBreakDuration < 1 || set.LongBreakDuration > 60 {
		return fmt.Errorf("%w: long break duration must be between 1 and 60 minutes", domain.ErrInvalidInput)
	}
	if set.LongBreakInterval < 1 || set.LongBreakInterval > 10 {
		return fmt.Errorf("%w: long break interval must be between 1 and 10", domain.ErrInvalidInput)
	}
	return nil
}

// StartSession opens a session for the given phase and points the timer at
// it: mode set, countdown re-derived, running.
func (s *TimerService) StartSession(ctx context.Context, userID int64, kind domain.SessionType) (*domain.TimerSession, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown session type %q", domain.ErrInvalidInput, kind)
	}

	timer, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := &domain.TimerSession{
		UserID:    userID,
		Type:      kind,
		StartTime: time.Now().UTC(),
	}
	if err := s.timers.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	timer.State.Mode = kind
	timer.State.TimeLeftSeconds = PhaseSeconds(kind, timer.Settings)
	timer.State.Running = true
	if err := s.timers.Update(ctx, timer); err != nil {
		return nil, fmt.Errorf("update timer: %w", err)
	}

	return session, nil
}

// CompleteSession closes a session (normally or via skip), applies the
// cycle transition, and on a finished work phase emits a completed-session
// record to the statistics aggregator. Aggregator failures are logged and
// swallowed; the timer proceeds and the event is lost.
func (s *TimerService) CompleteSession(ctx context.Context, userID, sessionID int64, skipped bool) (*domain.Timer, *domain.TimerSession, error) {
	session, err := s.timers.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != userID {
		return nil, nil, domain.ErrNotFound
	}
	if session.Completed {
		return nil, nil, fmt.Errorf("%w: session already completed", domain.ErrInvalidInput)
	}

	timer, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	session.EndTime = &now
	session.Completed = true
	session.DurationMinutes = PhaseMinutes(session.Type, timer.Settings)
	if err := s.timers.UpdateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("close session: %w", err)
	}

	timer.State.Mode = session.Type
	finished := AdvanceCycle(&timer.State, timer.Settings)
	if err := s.timers.Update(ctx, timer); err != nil {
		return nil, nil, fmt.Errorf("update timer: %w", err)
	}

	if finished == domain.SessionTypeWork {
		if _, err := s.recorder.Record(ctx, userID, "pomodoro", timer.Settings.WorkDuration); err != nil {
			slog.Error("record completed pomodoro", "user_id", userID, "skipped", skipped, "error", err)
		}
	}

	return timer, session, nil
}

// ListSessions returns the user's most recent sessions.
func (s *TimerService) ListSessions(ctx context.Context, userID int64, limit int) ([]domain.TimerSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.timers.ListSessionsByUser(ctx, userID, limit)
}
