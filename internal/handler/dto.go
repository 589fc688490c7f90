package handler

import (
	"time"

	"github.com/msomdec/focusdoro/internal/domain"
	"github.com/msomdec/focusdoro/internal/service"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

// TimerSettingsDTO is the JSON representation of timer settings.
type TimerSettingsDTO struct {
	WorkDuration       int  `json:"workDuration"`
	ShortBreakDuration int  `json:"shortBreakDuration"`
	LongBreakDuration  int  `json:"longBreakDuration"`
	LongBreakInterval  int  `json:"longBreakInterval"`
	AutoStartBreaks    bool `json:"autoStartBreaks"`
	AutoStartPomodoros bool `json:"autoStartPomodoros"`
}

func toTimerSettingsDTO(s domain.TimerSettings) TimerSettingsDTO {
	return TimerSettingsDTO{
		WorkDuration:       s.WorkDuration,
		ShortBreakDuration: s.ShortBreakDuration,
		LongBreakDuration:  s.LongBreakDuration,
		LongBreakInterval:  s.LongBreakInterval,
		AutoStartBreaks:    s.AutoStartBreaks,
		AutoStartPomodoros: s.AutoStartPomodoros,
	}
}

// TimerDTO is the JSON representation of a user's timer document.
type TimerDTO struct {
	Settings                TimerSettingsDTO `json:"settings"`
	Mode                    string           `json:"mode"`
	TimeLeftSeconds         int              `json:"timeLeftSeconds"`
	Running                 bool             `json:"running"`
	ConsecutiveWorkSessions int              `json:"consecutiveWorkSessions"`
	CompletedPomodoros      int              `json:"completedPomodoros"`
}

func toTimerDTO(t *domain.Timer) TimerDTO {
	return TimerDTO{
		Settings:                toTimerSettingsDTO(t.Settings),
		Mode:                    string(t.State.Mode),
		TimeLeftSeconds:         t.State.TimeLeftSeconds,
		Running:                 t.State.Running,
		ConsecutiveWorkSessions: t.State.ConsecutiveWorkSessions,
		CompletedPomodoros:      t.State.CompletedPomodoros,
	}
}

// TimerSessionDTO is the JSON representation of a timer session.
type TimerSessionDTO struct {
	ID              int64   `json:"id"`
	Type            string  `json:"type"`
	StartTime       string  `json:"startTime"`
	EndTime         *string `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Completed       bool    `json:"completed"`
}

func toTimerSessionDTO(s *domain.TimerSession) TimerSessionDTO {
	dto := TimerSessionDTO{
		ID:              s.ID,
		Type:            string(s.Type),
		StartTime:       s.StartTime.Format(time.RFC3339),
		DurationMinutes: s.DurationMinutes,
		Completed:       s.Completed,
	}
	if s.EndTime != nil {
		t := s.EndTime.Format(time.RFC3339)
		dto.EndTime = &t
	}
	return dto
}

func toTimerSessionDTOs(sessions []domain.TimerSession) []TimerSessionDTO {
	dtos := make([]TimerSessionDTO, len(sessions))
	for i := range sessions {
		dtos[i] = toTimerSessionDTO(&sessions[i])
	}
	return dtos
}

// DailyStatDTO is one day's rollup.
type DailyStatDTO struct {
	Date      string `json:"date"`
	Pomodoros int    `json:"pomodoros"`
	FocusTime int    `json:"focusTime"`
}

// WeeklyStatDTO is one week's rollup.
type WeeklyStatDTO struct {
	WeekStart string `json:"weekStart"`
	FocusTime int    `json:"focusTime"`
}

// StatisticsDTO is the JSON representation of a statistics summary.
type StatisticsDTO struct {
	Daily            []DailyStatDTO  `json:"daily"`
	Weekly           []WeeklyStatDTO `json:"weekly"`
	TotalPomodoros   int             `json:"totalPomodoros"`
	TotalFocusTime   int             `json:"totalFocusTime"`
	DailyStreak      int             `json:"dailyStreak"`
	AveragePomodoros float64         `json:"averagePomodoros"`
}

func toStatisticsDTO(s *domain.Statistics) StatisticsDTO {
	daily := make([]DailyStatDTO, len(s.Daily))
	for i, d := range s.Daily {
		daily[i] = DailyStatDTO{
			Date:      d.Date.Format("2006-01-02"),
			Pomodoros: d.Pomodoros,
			FocusTime: d.FocusTime,
		}
	}
	weekly := make([]WeeklyStatDTO, len(s.Weekly))
	for i, w := range s.Weekly {
		weekly[i] = WeeklyStatDTO{
			WeekStart: w.WeekStart.Format("2006-01-02"),
			FocusTime: w.FocusTime,
		}
	}
	return StatisticsDTO{
		Daily:            daily,
		Weekly:           weekly,
		TotalPomodoros:   s.TotalPomodoros,
		TotalFocusTime:   s.TotalFocusTime,
		DailyStreak:      s.DailyStreak,
		AveragePomodoros: s.AveragePomodoros,
	}
}

// FeaturesDTO is the JSON representation of plan entitlements.
type FeaturesDTO struct {
	AdFree         bool `json:"adFree"`
	UnlimitedTasks bool `json:"unlimitedTasks"`
	AdvancedStats  bool `json:"advancedStats"`
	CustomThemes   bool `json:"customThemes"`
}

func toFeaturesDTO(f domain.Features) FeaturesDTO {
	return FeaturesDTO{
		AdFree:         f.AdFree,
		UnlimitedTasks: f.UnlimitedTasks,
		AdvancedStats:  f.AdvancedStats,
		CustomThemes:   f.CustomThemes,
	}
}

// SubscriptionStatusDTO is the entitlement query response.
type SubscriptionStatusDTO struct {
	HasSubscription bool        `json:"hasSubscription"`
	Plan            string      `json:"plan"`
	Status          string      `json:"status,omitempty"`
	RemainingDays   int         `json:"remainingDays"`
	Features        FeaturesDTO `json:"features"`
}

func toSubscriptionStatusDTO(info *service.StatusInfo) SubscriptionStatusDTO {
	return SubscriptionStatusDTO{
		HasSubscription: info.HasSubscription,
		Plan:            string(info.Plan),
		Status:          string(info.Status),
		RemainingDays:   info.RemainingDays,
		Features:        toFeaturesDTO(info.Features),
	}
}

// SubscriptionDTO is the JSON representation of a subscription record.
type SubscriptionDTO struct {
	Plan      string      `json:"plan"`
	Status    string      `json:"status"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	PaymentID string      `json:"paymentId"`
	Features  FeaturesDTO `json:"features"`
}

func toSubscriptionDTO(s *domain.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		Plan:      string(s.Plan),
		Status:    string(s.Status),
		StartDate: s.StartDate.Format(time.RFC3339),
		EndDate:   s.EndDate.Format(time.RFC3339),
		PaymentID: s.PaymentID,
		Features:  toFeaturesDTO(s.Features),
	}
}

// TaskDTO is the JSON representation of a task.
type TaskDTO struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Priority           string `json:"priority"`
	EstimatedPomodoros int    `json:"estimatedPomodoros"`
	Completed          bool   `json:"completed"`
	CreatedAt          string `json:"createdAt"`
}

func toTaskDTO(t *domain.Task) TaskDTO {
	return TaskDTO{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Priority:           string(t.Priority),
		EstimatedPomodoros: t.EstimatedPomodoros,
		Completed:          t.Completed,
		CreatedAt:          t.CreatedAt.Format(time.RFC3339),
	}
}

func toTaskDTOs(tasks []domain.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i := range tasks {
		dtos[i] = toTaskDTO(&tasks[i])
	}
	return dtos
}
