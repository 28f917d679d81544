package store

import "github.com/squillaiugis/todo-app/models"

// DefaultKey is the backend key the task collection lives under.
const DefaultKey = "tasks"

// Backend is the raw key-value store the task collection is persisted to.
// Values are opaque strings; an absent key and an empty value are both "no value".
type Backend interface {
	// GetItem returns the value stored under key. ok is false when the key is absent.
	GetItem(key string) (value string, ok bool, err error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// TaskStore defines the contract for task persistence.
// Every mutation reads the whole collection, modifies it and writes it back,
// returning the new ordered sequence.
type TaskStore interface {
	// Exists reports whether a collection has ever been written.
	// An absent key or an empty value means it has not; an empty array means it has.
	Exists() (bool, error)

	// GetAll returns every stored task in stored order.
	// Structurally invalid data fails with *MalformedStoreError.
	GetAll() ([]models.Task, error)

	// Filter returns the tasks matching every field set in cond, in stored order.
	Filter(cond models.TaskPatch) ([]models.Task, error)

	// Add inserts task at the front of the collection.
	Add(task models.Task) ([]models.Task, error)

	// Update merges patch over the task with the same ID.
	// An unknown ID leaves the collection unchanged.
	Update(patch models.TaskPatch) ([]models.Task, error)

	// Delete removes the task with the given ID. An unknown ID is a no-op.
	Delete(id string) ([]models.Task, error)

	// Replace overwrites the whole collection.
	Replace(tasks []models.Task) error
}
