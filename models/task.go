package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Priorities lists every accepted priority in display order.
var Priorities = []TaskPriority{PriorityHigh, PriorityMedium, PriorityLow}

// TaskFilter selects which tasks are visible in a listing.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
)

// Filters lists every filter mode in tab order.
var Filters = []TaskFilter{FilterAll, FilterActive, FilterCompleted}

// Task represents a single to-do item.
// Field order matches the persisted JSON layout.
type Task struct {
	ID        string       `json:"id" yaml:"id" toml:"id" validate:"required"`
	Text      string       `json:"text" yaml:"text" toml:"text" validate:"required,notblank"`
	Priority  TaskPriority `json:"priority" yaml:"priority" toml:"priority" validate:"required,oneof=high medium low"`
	Completed bool         `json:"completed" yaml:"completed" toml:"completed"`
}

// TaskPatch is a partial task. Nil fields are left untouched when merged.
type TaskPatch struct {
	ID        string        `json:"id" validate:"required"`
	Text      *string       `json:"text,omitempty" validate:"omitempty,notblank"`
	Priority  *TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Completed *bool         `json:"completed,omitempty"`
}

// ErrInvalidTask is wrapped by every validation failure returned from ValidateStruct.
var ErrInvalidTask = errors.New("invalid task")

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", notBlank)
}

// notBlank rejects strings that are empty once surrounding whitespace is removed.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidTask, strings.Join(messages, "; "))
}

// NewTask builds an active task. Text is trimmed; validation is left to the caller.
func NewTask(id, text string, priority TaskPriority) Task {
	return Task{
		ID:        id,
		Text:      strings.TrimSpace(text),
		Priority:  priority,
		Completed: false,
	}
}

// Apply returns t with every non-nil field of p merged over it.
// The ID is never changed.
func (p TaskPatch) Apply(t Task) Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Matches reports whether t equals every field set in p.
// An empty ID matches any task.
func (p TaskPatch) Matches(t Task) bool {
	if p.ID != "" && p.ID != t.ID {
		return false
	}
	if p.Text != nil && *p.Text != t.Text {
		return false
	}
	if p.Priority != nil && *p.Priority != t.Priority {
		return false
	}
	if p.Completed != nil && *p.Completed != t.Completed {
		return false
	}
	return true
}

// CompletedPatch builds the patch used for status toggles.
func CompletedPatch(id string, completed bool) TaskPatch {
	return TaskPatch{ID: id, Completed: &completed}
}

// ParsePriority converts user input into a TaskPriority.
func ParsePriority(s string) (TaskPriority, error) {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown priority %q (want high, medium or low)", ErrInvalidTask, s)
}

// ParseFilter converts user input into a TaskFilter.
func ParseFilter(s string) (TaskFilter, error) {
	f := TaskFilter(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// Includes reports whether a task is visible under the filter.
func (f TaskFilter) Includes(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the filter that follows f in tab order.
func (f TaskFilter) Next() TaskFilter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Next returns the priority that follows p in display order.
func (p TaskPriority) Next() TaskPriority {
	for i, candidate := range Priorities {
		if candidate == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityMedium
}
