package ports

import (
	"context"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// CreateTaskInput carries everything needed to create a task.
type CreateTaskInput struct {
	Fields  domain.TaskFields
	OwnerID string
	// IdempotencyKey is optional; a repeated key returns the original task.
	IdempotencyKey string
}

// CreateTaskResult is returned by TaskService.Create.
type CreateTaskResult struct {
	Task *domain.Task
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// TaskService defines the owner-scoped task use cases.
type TaskService interface {
	List(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Get(ctx context.Context, id int64, ownerID string) (*domain.Task, error)
	Create(ctx context.Context, input CreateTaskInput) (*CreateTaskResult, error)
	Update(ctx context.Context, id int64, ownerID string, fields domain.TaskFields) (*domain.Task, error)
	Delete(ctx context.Context, id int64, ownerID string) error
	ToggleCompletion(ctx context.Context, id int64, ownerID string) (*domain.Task, error)
}
