package ports

import (
	"context"
	"time"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

// AddTaskInput carries the data for a manual task creation.
type AddTaskInput struct {
	ClientID    string
	Description string
	AssigneeIDs []string
	DueDate     *time.Time
}

// TaskService owns the task lifecycle for client records: milestone
// synchronization plus manual add/toggle/delete.
type TaskService interface {
	// ListTasks synchronizes milestone tasks for the client and returns the
	// resulting list. Requires ViewClient capability on the client.
	ListTasks(ctx context.Context, actor *domain.User, clientID string) ([]*domain.ToDoTask, error)

	// Synchronize generates due milestone tasks for the client. The result
	// is always a superset of existing, adds at most one task per milestone
	// per call, and is idempotent for a fixed current date.
	Synchronize(ctx context.Context, client *domain.Client, existing []*domain.ToDoTask) ([]*domain.ToDoTask, error)

	// AddTask creates a manual task. Fails with domain.ErrAssigneeRequired
	// when no assignees are given.
	AddTask(ctx context.Context, actor *domain.User, input AddTaskInput) (*domain.ToDoTask, error)

	// ToggleTask flips a task's done state, stamping or clearing
	// CompletedAt/CompletedBy. Completing a system-generated task re-runs
	// Synchronize so the next milestone can materialize immediately.
	ToggleTask(ctx context.Context, actor *domain.User, taskID string) (*domain.ToDoTask, error)

	// DeleteTask removes a task subject to system-task protection.
	DeleteTask(ctx context.Context, actor *domain.User, taskID string) error
}
