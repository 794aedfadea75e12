package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrTaskNotFound = errors.New("task not found")

const (
	MaxTaskNameLength        = 500
	MaxTaskDescriptionLength = 1500
)

// Priority is the urgency of a task. The numeric values are part of the
// persisted format and must not be reordered.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = [...]string{"Low", "Medium", "High"}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	if !p.Valid() {
		return "Priority(" + strconv.Itoa(int(p)) + ")"
	}
	return priorityNames[p]
}

// ParsePriority accepts a priority name (any case) or its numeric value.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for i, name := range priorityNames {
		if strings.EqualFold(s, name) {
			return Priority(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Priority(n).Valid() {
		return Priority(n), nil
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("marshal priority: invalid value %d", int(p))
	}
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParsePriority(name)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("priority must be a name or a number")
	}
	if !Priority(n).Valid() {
		return fmt.Errorf("unknown priority %d", n)
	}
	*p = Priority(n)
	return nil
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          int64
	Name        string
	Description string
	Priority    Priority
	Deadline    *time.Time
	IsFinished  bool
	CreatedAt   time.Time
	OwnerID     string
}

// TaskFields are the user-editable attributes of a task. Updates replace all
// of them at once.
type TaskFields struct {
	Name        string     `json:"name"        validate:"required,max=500"`
	Description string     `json:"description" validate:"max=1500"`
	Priority    Priority   `json:"priority"    validate:"priority"`
	Deadline    *time.Time `json:"deadline"`
	IsFinished  bool       `json:"isFinished"`
}

// Apply copies the editable fields onto t, leaving ID, OwnerID and CreatedAt alone.
func (f TaskFields) Apply(t *Task) {
	t.Name = f.Name
	t.Description = f.Description
	t.Priority = f.Priority
	t.Deadline = f.Deadline
	t.IsFinished = f.IsFinished
}
