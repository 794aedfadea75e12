package handler

import (
	"github.com/taskly/taskly-api/internal/core/domain"
)

// --- Request → domain fields ---

func toTaskFields(req taskRequest) domain.TaskFields {
	f := domain.TaskFields{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		IsFinished:  req.IsFinished,
	}
	if req.Priority != nil {
		f.Priority = *req.Priority
	}
	return f
}

// --- Domain → HTTP response ---

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Priority:    t.Priority,
		Deadline:    t.Deadline,
		IsFinished:  t.IsFinished,
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}
