// Package collection keeps the in-memory task ordering in step with a store.
package collection

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/squillaiugis/todo-app/models"
	"github.com/squillaiugis/todo-app/store"
)

// Manager owns the canonical ordering of tasks for a session.
//
// The store always writes new tasks to the front, but completion changes
// reorder only the in-memory list: a completed task moves to the tail and a
// reactivated one to the head.
// Every mutation is persisted first and applied in memory only on success.
type Manager struct {
	store store.TaskStore
	ids   IDGenerator
	tasks []models.Task
}

// NewManager creates a manager with an empty list. Call Load to read the store.
func NewManager(s store.TaskStore, ids IDGenerator) *Manager {
	if ids == nil {
		ids = NewTimeIDs()
	}
	return &Manager{store: s, ids: ids, tasks: []models.Task{}}
}

// Load replaces the in-memory list with the stored collection.
func (m *Manager) Load() error {
	tasks, err := m.store.GetAll()
	if err != nil {
		return err
	}
	m.tasks = tasks
	return nil
}

// Tasks returns a copy of the ordered list.
func (m *Manager) Tasks() []models.Task {
	return slices.Clone(m.tasks)
}

// Len returns the number of tasks.
func (m *Manager) Len() int {
	return len(m.tasks)
}

// Get returns the task with the given ID.
func (m *Manager) Get(id string) (models.Task, bool) {
	i := m.index(id)
	if i < 0 {
		return models.Task{}, false
	}
	return m.tasks[i], true
}

// AddTask creates an active task with a fresh ID at the head of the list.
func (m *Manager) AddTask(text string, priority models.TaskPriority) (models.Task, error) {
	task := models.NewTask(m.ids.NewID(), text, priority)
	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, err
	}
	if _, err := m.store.Add(task); err != nil {
		return models.Task{}, fmt.Errorf("add task: %w", err)
	}
	m.tasks = slices.Insert(m.tasks, 0, task)
	slog.Debug("task added", "id", task.ID, "priority", task.Priority)
	return task, nil
}

// RemoveTask deletes the task with the given ID. An unknown ID is a no-op.
func (m *Manager) RemoveTask(id string) error {
	if _, err := m.store.Delete(id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if i := m.index(id); i >= 0 {
		m.tasks = slices.Delete(m.tasks, i, i+1)
		slog.Debug("task removed", "id", id)
	}
	return nil
}

// SetCompleted changes a task's completion flag and reorders it.
// An unknown ID is a no-op.
func (m *Manager) SetCompleted(id string, completed bool) error {
	if _, err := m.store.Update(models.CompletedPatch(id, completed)); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	i := m.index(id)
	if i < 0 {
		return nil
	}
	task := m.tasks[i]
	task.Completed = completed
	m.tasks = slices.Delete(m.tasks, i, i+1)
	if completed {
		m.tasks = append(m.tasks, task)
	} else {
		m.tasks = slices.Insert(m.tasks, 0, task)
	}
	slog.Debug("task completion changed", "id", id, "completed", completed)
	return nil
}

// Toggle flips a task's completion flag. It reports false for an unknown ID.
func (m *Manager) Toggle(id string) (bool, error) {
	task, ok := m.Get(id)
	if !ok {
		return false, nil
	}
	return true, m.SetCompleted(id, !task.Completed)
}

func (m *Manager) index(id string) int {
	return slices.IndexFunc(m.tasks, func(t models.Task) bool { return t.ID == id })
}
