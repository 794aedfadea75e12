package relational

import (
	"time"

	"github.com/taskly/taskly-api/internal/core/domain"
)

type userRow struct {
	ID              string `gorm:"primaryKey;size:36"`
	Email           string `gorm:"size:320;not null"`
	NormalizedEmail string `gorm:"size:320;not null;uniqueIndex"`
	PasswordHash    string `gorm:"not null"`
	CreatedAt       time.Time
}

func (userRow) TableName() string {
	return "users"
}

type taskRow struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Name        string     `gorm:"size:500;not null"`
	Description string     `gorm:"size:1500"`
	Priority    int        `gorm:"not null"`
	Deadline    *time.Time `gorm:"index"`
	IsFinished  bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time  `gorm:"not null"`
	UserID      string     `gorm:"size:36;not null;index"`
	User        *userRow   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (taskRow) TableName() string {
	return "tasks"
}

func toUserRow(u *domain.User) *userRow {
	return &userRow{
		ID:              u.ID,
		Email:           u.Email,
		NormalizedEmail: domain.NormalizeEmail(u.Email),
		PasswordHash:    u.PasswordHash,
		CreatedAt:       u.CreatedAt,
	}
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func toTaskRow(t *domain.Task) *taskRow {
	return &taskRow{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Priority:    int(t.Priority),
		Deadline:    t.Deadline,
		IsFinished:  t.IsFinished,
		CreatedAt:   t.CreatedAt,
		UserID:      t.OwnerID,
	}
}

func (r *taskRow) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Priority:    domain.Priority(r.Priority),
		IsFinished:  r.IsFinished,
		CreatedAt:   r.CreatedAt.UTC(),
		OwnerID:     r.UserID,
	}
	if r.Deadline != nil {
		d := r.Deadline.UTC()
		t.Deadline = &d
	}
	return t
}
