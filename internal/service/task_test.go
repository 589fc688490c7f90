package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/msomdec/focusdoro/internal/domain"
	"github.com/msomdec/focusdoro/internal/service"
)

const testFreeTaskLimit = 5

func newTaskFixtures(t *testing.T) (*service.TaskService, *service.SubscriptionService, *domain.User) {
	t.Helper()
	db := newTestDB(t)
	subs := service.NewSubscriptionService(db.Subscriptions(), service.NewPaymentProcessor())
	tasks := service.NewTaskService(db.Tasks(), subs, testFreeTaskLimit)
	user := createTestUser(t, db, "tasks@example.com")
	return tasks, subs, user
}

func TestTaskService_Create(t *testing.T) {
	tasks, _, user := newTaskFixtures(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, user.ID, "Write tests", "cover the cycle", domain.TaskPriorityHigh, 3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if task.ID == 0 {
		t.Fatal("expected task ID to be set")
	}
	if task.Priority != domain.TaskPriorityHigh {
		t.Fatalf("expected priority %q, got %q", domain.TaskPriorityHigh, task.Priority)
	}
	if task.Completed {
		t.Fatal("new task must not be completed")
	}
}

func TestTaskService_Create_Defaults(t *testing.T) {
	tasks, _, user := newTaskFixtures(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, user.ID, "Defaults", "", "", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Priority != domain.TaskPriorityMedium {
		t.Fatalf("expected default priority %q, got %q", domain.TaskPriorityMedium, task.Priority)
	}
	if task.EstimatedPomodoros != 1 {
		t.Fatalf("expected estimate floored to 1, got %d", task.EstimatedPomodoros)
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	tasks, _, user := newTaskFixtures(t)
	ctx := context.Background()

	if _, err := tasks.Create(ctx, user.ID, "", "", domain.TaskPriorityLow, 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}
	if _, err := tasks.Create(ctx, user.ID, "T", "", "urgent", 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown priority, got %v", err)
	}
}

func TestTaskService_Create_FreeLimit(t *testing.T) {
	tasks, subs, user := newTaskFixtures(t)
	ctx := context.Background()

	for i := 0; i < testFreeTaskLimit; i++ {
		if _, err := tasks.Create(ctx, user.ID, fmt.Sprintf("Task %d", i+1), "", domain.TaskPriorityLow, 1); err != nil {
			t.Fatalf("Create %d: %v", i+1, err)
		}
	}

	_, err := tasks.Create(ctx, user.ID, "One too many", "", domain.TaskPriorityLow, 1)
	if !errors.Is(err, domain.ErrTaskLimitReached) {
		t.Fatalf("expected ErrTaskLimitReached, got %v", err)
	}

	// Upgrading lifts the cap.
	if _, err := subs.Subscribe(ctx, user.ID, domain.PlanPremium, ""); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := tasks.Create(ctx, user.ID, "Now it fits", "", domain.TaskPriorityLow, 1); err != nil {
		t.Fatalf("Create after upgrade: %v", err)
	}

	// Cancelling brings the cap back.
	if _, err := subs.Cancel(ctx, user.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	_, err = tasks.Create(ctx, user.ID, "Capped again", "", domain.TaskPriorityLow, 1)
	if !errors.Is(err, domain.ErrTaskLimitReached) {
		t.Fatalf("expected ErrTaskLimitReached after cancel, got %v", err)
	}
}

func TestTaskService_Update(t *testing.T) {
	tasks, _, user := newTaskFixtures(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, user.ID, "Before", "", domain.TaskPriorityLow, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := tasks.Update(ctx, user.ID, task.ID, "After", "new description", domain.TaskPriorityHigh, 2, true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "After" {
		t.Fatalf("expected title %q, got %q", "After", updated.Title)
	}
	if updated.Priority != domain.TaskPriorityHigh {
		t.Fatalf("expected priority %q, got %q", domain.TaskPriorityHigh, updated.Priority)
	}
	if !updated.Completed {
		t.Fatal("expected task to be completed")
	}
}

func TestTaskService_ToggleComplete(t *testing.T) {
	tasks, _, user := newTaskFixtures(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, user.ID, "Toggle me", "", domain.TaskPriorityMedium, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	toggled, err := tasks.ToggleComplete(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected task completed after first toggle")
	}

	toggled, err = tasks.ToggleComplete(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("second ToggleComplete: %v", err)
	}
	if toggled.Completed {
		t.Fatal("expected task reopened after second toggle")
	}
}

func TestTaskService_Delete(t *testing.T) {
	tasks, _, user := newTaskFixtures(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, user.ID, "Delete me", "", domain.TaskPriorityMedium, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := tasks.Delete(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	listed, err := tasks.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no tasks after delete, got %d", len(listed))
	}
}

func TestTaskService_OtherUsersTasksHidden(t *testing.T) {
	db := newTestDB(t)
	subs := service.NewSubscriptionService(db.Subscriptions(), service.NewPaymentProcessor())
	tasks := service.NewTaskService(db.Tasks(), subs, testFreeTaskLimit)
	ctx := context.Background()

	owner := createTestUser(t, db, "taskowner@example.com")
	intruder := createTestUser(t, db, "taskintruder@example.com")

	task, err := tasks.Create(ctx, owner.ID, "Private", "", domain.TaskPriorityMedium, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := tasks.Update(ctx, intruder.ID, task.ID, "Stolen", "", "", 0, false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if _, err := tasks.ToggleComplete(ctx, intruder.ID, task.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on toggle, got %v", err)
	}
	if err := tasks.Delete(ctx, intruder.ID, task.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}
