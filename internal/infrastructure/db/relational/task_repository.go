package relational

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

// listOrder puts unfinished tasks first, then orders by deadline with undated
// tasks last, then by id.
const listOrder = "is_finished ASC, deadline IS NULL ASC, deadline ASC, id ASC"

// TaskRepository implements ports.TaskRepository with GORM. Every query is
// filtered by user_id.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []taskRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order(listOrder).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].toDomain())
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64, ownerID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(r.db.WithContext(ctx), id, ownerID)
}

func (r *TaskRepository) find(db *gorm.DB, id int64, ownerID string) (*domain.Task, error) {
	var row taskRow
	err := db.Where("id = ? AND user_id = ?", id, ownerID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return row.toDomain(), nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := toTaskRow(t)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID = row.ID
	return nil
}

// Update writes every editable column, including zero values, then reads the
// row back so CreatedAt reflects what is stored.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	db := r.db.WithContext(ctx)
	row := toTaskRow(t)
	res := db.Model(&taskRow{}).
		Where("id = ? AND user_id = ?", t.ID, t.OwnerID).
		Select("name", "description", "priority", "deadline", "is_finished").
		Updates(row)
	if res.Error != nil {
		return nil, fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.find(db, t.ID, t.OwnerID)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&taskRow{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
