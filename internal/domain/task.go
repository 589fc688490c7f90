package domain

import (
	"context"
	"time"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is a user-owned todo item with a pomodoro estimate.
type Task struct {
	ID                 int64
	UserID             int64
	Title              string
	Description        string
	Priority           TaskPriority
	EstimatedPomodoros int
	Completed          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	ListByUser(ctx context.Context, userID int64) ([]Task, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id int64) error
}
