package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

// TaskService implements the owner-scoped task use cases. The idempotency
// store is optional.
type TaskService struct {
	repo        ports.TaskRepository
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
	now         func() time.Time
}

func NewTaskService(repo ports.TaskRepository, idempotency ports.IdempotencyStore, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, idempotency: idempotency, logger: logger, now: time.Now}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	tasks, err := s.repo.List(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id int64, ownerID string) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.FindByID(ctx, id, ownerID)
}

// Create persists a new task for the owner. If an idempotency key is supplied
// and already recorded, the earlier task is returned without side effects.
func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	fields := normalizeFields(input.Fields)
	if err := domain.Validate(fields); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if existing := s.replay(ctx, input.OwnerID, key); existing != nil {
		return &ports.CreateTaskResult{Task: existing, AlreadyExisted: true}, nil
	}

	task := &domain.Task{
		OwnerID:   input.OwnerID,
		CreatedAt: s.now().UTC(),
	}
	fields.Apply(task)

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create task")
		return nil, err
	}

	if key != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, input.OwnerID, key, task.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Int64("task_id", task.ID).Str("owner_id", input.OwnerID).Msg("task created")
	return &ports.CreateTaskResult{Task: task}, nil
}

// replay returns the task previously created under key, or nil.
func (s *TaskService) replay(ctx context.Context, ownerID, key string) *domain.Task {
	if key == "" || s.idempotency == nil {
		return nil
	}

	id, found, err := s.idempotency.Lookup(ctx, ownerID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}

	existing, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		// The recorded task may have been deleted since; treat as a fresh create.
		if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Warn().Err(err).Int64("task_id", id).Msg("idempotent replay lookup failed")
		}
		return nil
	}

	s.logger.Info().Str("idempotency_key", key).Int64("task_id", id).Msg("idempotent replay")
	return existing
}

// Update replaces every editable field of the task.
func (s *TaskService) Update(ctx context.Context, id int64, ownerID string, fields domain.TaskFields) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	fields = normalizeFields(fields)
	if err := domain.Validate(fields); err != nil {
		return nil, err
	}

	task := &domain.Task{ID: id, OwnerID: ownerID}
	fields.Apply(task)

	updated, err := s.repo.Update(ctx, task)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Error().Err(err).Int64("task_id", id).Msg("failed to update task")
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the task. Deleting a task that is already gone yields
// domain.ErrTaskNotFound.
func (s *TaskService) Delete(ctx context.Context, id int64, ownerID string) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Error().Err(err).Int64("task_id", id).Msg("failed to delete task")
		}
		return err
	}
	s.logger.Info().Int64("task_id", id).Str("owner_id", ownerID).Msg("task deleted")
	return nil
}

// ToggleCompletion flips IsFinished on the task and returns the result.
func (s *TaskService) ToggleCompletion(ctx context.Context, id int64, ownerID string) (*domain.Task, error) {
	task, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	task.IsFinished = !task.IsFinished
	return s.repo.Update(ctx, task)
}

func normalizeFields(f domain.TaskFields) domain.TaskFields {
	f.Name = strings.TrimSpace(f.Name)
	if f.Deadline != nil {
		d := f.Deadline.UTC()
		f.Deadline = &d
	}
	return f
}
