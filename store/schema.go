package store

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/squillaiugis/todo-app/models"
)

//go:embed task.schema.json
var taskSchemaSource string

var taskSchema = jsonschema.MustCompileString("task.schema.json", taskSchemaSource)

// ValidationError describes why a stored element is not a task.
type ValidationError struct {
	Path    string // dotted path inside the element, empty for the element itself
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// TaskCheck is the tagged result of checking one decoded element.
// Exactly one of Task (when Err is nil) or Err is meaningful.
type TaskCheck struct {
	Index int
	Task  models.Task
	Err   *ValidationError
}

// Valid reports whether the element passed the shape check.
func (c TaskCheck) Valid() bool {
	return c.Err == nil
}

// CheckTask validates a decoded JSON value against the task schema.
// Shape mismatches are reported in the result, never as a panic.
func CheckTask(index int, v any) TaskCheck {
	if err := taskSchema.Validate(v); err != nil {
		return TaskCheck{Index: index, Err: firstSchemaError(err)}
	}
	// The schema guarantees the object shape and field types below.
	obj := v.(map[string]any)
	return TaskCheck{
		Index: index,
		Task: models.Task{
			ID:        obj["id"].(string),
			Text:      obj["text"].(string),
			Priority:  models.TaskPriority(obj["priority"].(string)),
			Completed: obj["completed"].(bool),
		},
	}
}

// CheckTasks checks every element of a decoded collection and returns the
// tasks, or the first failing check.
func CheckTasks(items []any) ([]models.Task, *TaskCheck) {
	tasks := make([]models.Task, 0, len(items))
	for i, item := range items {
		check := CheckTask(i, item)
		if !check.Valid() {
			return nil, &check
		}
		tasks = append(tasks, check.Task)
	}
	return tasks, nil
}

// firstSchemaError walks to the deepest first cause of a schema failure.
func firstSchemaError(err error) *ValidationError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Message: err.Error()}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Path:    jsonPointerToPath(ve.InstanceLocation),
		Message: ve.Message,
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
