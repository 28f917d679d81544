package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/squillaiugis/todo-app/models"
)

// KVTaskStore implements TaskStore on top of a key-value Backend.
// The whole collection is one JSON array under a single key, most recent first.
//
// Every mutation is a full read-modify-write. There is exactly one writer,
// so no locking is done here.
type KVTaskStore struct {
	backend Backend
	key     string
}

// NewKVTaskStore creates a store persisting under DefaultKey.
func NewKVTaskStore(backend Backend) *KVTaskStore {
	return NewKVTaskStoreWithKey(backend, DefaultKey)
}

// NewKVTaskStoreWithKey creates a store persisting under key.
func NewKVTaskStoreWithKey(backend Backend, key string) *KVTaskStore {
	if key == "" {
		key = DefaultKey
	}
	return &KVTaskStore{backend: backend, key: key}
}

// Key returns the backend key the collection is stored under.
func (s *KVTaskStore) Key() string {
	return s.key
}

// Exists reports whether a value is stored under the key.
func (s *KVTaskStore) Exists() (bool, error) {
	raw, ok, err := s.backend.GetItem(s.key)
	if err != nil {
		return false, fmt.Errorf("read %q: %w", s.key, err)
	}
	return ok && raw != "", nil
}

// GetAll reads, parses and validates the stored collection.
func (s *KVTaskStore) GetAll() ([]models.Task, error) {
	raw, ok, err := s.backend.GetItem(s.key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", s.key, err)
	}
	if !ok || raw == "" {
		return []models.Task{}, nil
	}
	return DecodeTasks(s.key, []byte(raw))
}

// DecodeTasks parses raw JSON into tasks, applying the same structural
// checks as a store read. key only labels errors.
func DecodeTasks(key string, raw []byte) ([]models.Task, error) {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &MalformedStoreError{Key: key, Kind: MalformedJSON, Err: err}
	}
	items, isArray := data.([]any)
	if !isArray {
		return nil, &MalformedStoreError{Key: key, Kind: MalformedNotArray}
	}
	tasks, failed := CheckTasks(items)
	if failed != nil {
		return nil, &MalformedStoreError{
			Key:   key,
			Kind:  MalformedInvalidElement,
			Index: failed.Index,
			Path:  failed.Err.Path,
			Err:   failed.Err,
		}
	}
	return tasks, nil
}

// Filter returns the tasks matching every field set in cond.
func (s *KVTaskStore) Filter(cond models.TaskPatch) ([]models.Task, error) {
	tasks, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	matched := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if cond.Matches(t) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// Add inserts task at the front of the collection.
func (s *KVTaskStore) Add(task models.Task) ([]models.Task, error) {
	if err := models.ValidateStruct(task); err != nil {
		return nil, err
	}
	tasks, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	for _, existing := range tasks {
		if existing.ID == task.ID {
			return nil, fmt.Errorf("%w: task with id %q already exists", models.ErrInvalidTask, task.ID)
		}
	}
	tasks = append([]models.Task{task}, tasks...)
	if err := s.write(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update shallow-merges patch over the task with the same ID.
// An unknown ID silently leaves the collection as it was.
func (s *KVTaskStore) Update(patch models.TaskPatch) ([]models.Task, error) {
	if err := models.ValidateStruct(patch); err != nil {
		return nil, err
	}
	tasks, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	found := false
	for i, t := range tasks {
		if t.ID == patch.ID {
			tasks[i] = patch.Apply(t)
			found = true
		}
	}
	if !found {
		slog.Debug("update for unknown task ignored", "id", patch.ID)
	}
	if err := s.write(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Delete removes the task with the given ID.
func (s *KVTaskStore) Delete(id string) ([]models.Task, error) {
	tasks, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		slog.Debug("delete for unknown task ignored", "id", id)
	}
	if err := s.write(kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Replace validates and writes tasks as the whole collection.
func (s *KVTaskStore) Replace(tasks []models.Task) error {
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if err := models.ValidateStruct(t); err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate id %q", models.ErrInvalidTask, t.ID)
		}
		seen[t.ID] = true
	}
	return s.write(tasks)
}

func (s *KVTaskStore) write(tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := s.backend.SetItem(s.key, string(data)); err != nil {
		return fmt.Errorf("write %q: %w", s.key, err)
	}
	return nil
}
