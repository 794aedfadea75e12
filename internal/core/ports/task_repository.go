package ports

import (
	"context"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. Every method is
// scoped to ownerID: a task owned by someone else behaves exactly like a
// missing one and yields domain.ErrTaskNotFound.
type TaskRepository interface {
	// List returns the owner's tasks, unfinished first, then by deadline
	// ascending with undated tasks last, then by id.
	List(ctx context.Context, ownerID string) ([]*domain.Task, error)
	FindByID(ctx context.Context, id int64, ownerID string) (*domain.Task, error)
	// Create assigns t.ID and persists t.
	Create(ctx context.Context, t *domain.Task) error
	// Update replaces the editable fields of the task identified by
	// (t.ID, t.OwnerID) and returns the stored result.
	Update(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id int64, ownerID string) error
}

// IdempotencyStore remembers which task a client-supplied key produced.
type IdempotencyStore interface {
	// Lookup returns the task id recorded for key, or found=false.
	Lookup(ctx context.Context, ownerID, key string) (id int64, found bool, err error)
	Remember(ctx context.Context, ownerID, key string, id int64) error
}
