package handler

import (
	"time"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// taskRequest is the body of POST and PUT /api/task. Priority is a pointer so
// an absent value is distinguishable from Low.
type taskRequest struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"        validate:"required,max=500"`
	Description string           `json:"description" validate:"max=1500"`
	Priority    *domain.Priority `json:"priority"    validate:"required" swaggertype:"string" enums:"Low,Medium,High"`
	Deadline    *time.Time       `json:"deadline"`
	IsFinished  bool             `json:"isFinished"`
}

type taskResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority" swaggertype:"string" enums:"Low,Medium,High"`
	Deadline    *time.Time      `json:"deadline"`
	IsFinished  bool            `json:"isFinished"`
	CreatedAt   time.Time       `json:"createdAt"`
}
