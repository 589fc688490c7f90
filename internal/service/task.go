package service

import (
	"context"
	"fmt"

	"github.com/msomdec/focusdoro/internal/domain"
)

// TaskService handles task CRUD with the free-tier limit enforced
// server-side at creation time. The client-side check is advisory only.
type TaskService struct {
	tasks        domain.TaskRepository
	entitlements *SubscriptionService
	freeLimit    int
}

// NewTaskService creates a new TaskService. freeLimit caps concurrent
// tasks for users without an active subscription.
func NewTaskService(tasks domain.TaskRepository, entitlements *SubscriptionService, freeLimit int) *TaskService {
	return &TaskService{tasks: tasks, entitlements: entitlements, freeLimit: freeLimit}
}

// Create adds a task after checking the free-tier cap against the
// entitlement gate.
func (s *TaskService) Create(ctx context.Context, userID int64, title, description string, priority domain.TaskPriority, estimatedPomodoros int) (*domain.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if estimatedPomodoros < 1 {
		estimatedPomodoros = 1
	}
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	switch priority {
	case domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh:
	default:
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, priority)
	}

	status, err := s.entitlements.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.HasSubscription {
		count, err := s.tasks.CountByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count >= s.freeLimit {
			return nil, fmt.Errorf("%w: free plan allows at most %d tasks", domain.ErrTaskLimitReached, s.freeLimit)
		}
	}

	task := &domain.Task{
		UserID:             userID,
		Title:              title,
		Description:        description,
		Priority:           priority,
		EstimatedPomodoros: estimatedPomodoros,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

// Update modifies a task owned by the user.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, title, description string, priority domain.TaskPriority, estimatedPomodoros int, completed bool) (*domain.Task, error) {
	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		task.Title = title
	}
	task.Description = description
	if priority != "" {
		task.Priority = priority
	}
	if estimatedPomodoros > 0 {
		task.EstimatedPomodoros = estimatedPomodoros
	}
	task.Completed = completed

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// ToggleComplete flips a task's completed flag.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return task, nil
}

// Delete removes a task owned by the user.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	if _, err := s.getOwned(ctx, userID, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

// getOwned loads a task and hides other users' tasks behind ErrNotFound.
func (s *TaskService) getOwned(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}
