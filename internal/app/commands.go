package app

import (
	"fmt"
	"strings"

	"github.com/squillaiugis/todo-app/internal/view"
	"github.com/squillaiugis/todo-app/models"
)

// Command is a user action handled by Dispatch.
type Command interface {
	command()
}

// AddTask creates a task. Blank text is ignored.
// An empty priority means medium.
type AddTask struct {
	Text     string
	Priority models.TaskPriority
}

// DeleteTask removes a task.
type DeleteTask struct {
	ID string
}

// SetCompleted marks a task completed or active.
type SetCompleted struct {
	ID        string
	Completed bool
}

// ToggleTask flips a task's completion.
type ToggleTask struct {
	ID string
}

// SetFilter switches the visible filter and returns to page 1.
type SetFilter struct {
	Filter models.TaskFilter
}

// SetPage moves to another page. Out of range pages are ignored.
type SetPage struct {
	Page int
}

func (AddTask) command()      {}
func (DeleteTask) command()   {}
func (SetCompleted) command() {}
func (ToggleTask) command()   {}
func (SetFilter) command()    {}
func (SetPage) command()      {}

// Counts summarizes the whole collection regardless of filter.
type Counts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// Snapshot is everything a front end needs to render.
type Snapshot struct {
	Filter models.TaskFilter `json:"filter"`
	Page   view.Page         `json:"page"`
	Counts Counts            `json:"counts"`
}

func countTasks(tasks []models.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// Dispatch applies cmd and returns the resulting snapshot.
// On error the session state is left as it was.
func (a *App) Dispatch(cmd Command) (Snapshot, error) {
	switch c := cmd.(type) {
	case AddTask:
		text := strings.TrimSpace(c.Text)
		if text == "" {
			break
		}
		priority := c.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		if _, err := a.manager.AddTask(text, priority); err != nil {
			return Snapshot{}, err
		}
	case DeleteTask:
		if err := a.manager.RemoveTask(c.ID); err != nil {
			return Snapshot{}, err
		}
	case SetCompleted:
		if err := a.manager.SetCompleted(c.ID, c.Completed); err != nil {
			return Snapshot{}, err
		}
	case ToggleTask:
		if _, err := a.manager.Toggle(c.ID); err != nil {
			return Snapshot{}, err
		}
	case SetFilter:
		f, err := models.ParseFilter(string(c.Filter))
		if err != nil {
			return Snapshot{}, err
		}
		a.view.SetFilter(f)
	case SetPage:
		// Bring the page count up to date before checking the bounds.
		a.view.Apply(a.manager.Tasks())
		a.view.SetPage(c.Page)
	default:
		return Snapshot{}, fmt.Errorf("unknown command %T", cmd)
	}
	return a.Snapshot(), nil
}
