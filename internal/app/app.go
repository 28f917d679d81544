// Package app is the application shell: it owns the task collection and the
// view state and turns user commands into updates of both.
// The CLI and the board are thin adapters over it.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/squillaiugis/todo-app/internal/collection"
	"github.com/squillaiugis/todo-app/internal/view"
	"github.com/squillaiugis/todo-app/models"
	"github.com/squillaiugis/todo-app/store"
)

// Options configures an App.
type Options struct {
	PageSize int
	IDs      collection.IDGenerator
	// Seed fills a never written store with sample tasks on Bootstrap.
	Seed bool
}

// DefaultOptions seeds the store and uses time based IDs.
func DefaultOptions() Options {
	return Options{PageSize: view.DefaultPageSize, IDs: collection.NewTimeIDs(), Seed: true}
}

// App holds shared state for one session.
type App struct {
	store   store.TaskStore
	manager *collection.Manager
	view    *view.State
	seed    bool
}

// New wires a manager and view state over s.
func New(s store.TaskStore, opts Options) *App {
	return &App{
		store:   s,
		manager: collection.NewManager(s, opts.IDs),
		view:    view.NewState(opts.PageSize),
		seed:    opts.Seed,
	}
}

// SeedTasks returns the sample tasks written to a new store, in display order.
func SeedTasks() []models.Task {
	return []models.Task{
		{ID: "1", Text: "Write the project plan", Priority: models.PriorityHigh},
		{ID: "2", Text: "Make a shopping list", Priority: models.PriorityMedium},
		{ID: "3", Text: "Check email", Priority: models.PriorityLow, Completed: true},
	}
}

// Bootstrap loads the stored tasks, seeding the store first when enabled and
// nothing has been written yet. A store holding an empty list is left empty.
// A malformed store is returned as is; nothing is overwritten.
func (a *App) Bootstrap() (Snapshot, error) {
	exists, err := a.store.Exists()
	if err != nil {
		return Snapshot{}, err
	}
	if _, err := a.store.GetAll(); err != nil {
		return Snapshot{}, err
	}
	if !exists && a.seed {
		if err := a.store.Replace(SeedTasks()); err != nil {
			return Snapshot{}, fmt.Errorf("seed tasks: %w", err)
		}
		slog.Info("seeded new task store", "count", len(SeedTasks()))
	}
	if err := a.manager.Load(); err != nil {
		return Snapshot{}, err
	}
	return a.Snapshot(), nil
}

// Reload re-reads the store, keeping the filter and clamping the page.
func (a *App) Reload() (Snapshot, error) {
	if err := a.manager.Load(); err != nil {
		return Snapshot{}, err
	}
	return a.Snapshot(), nil
}

// Tasks returns the full ordered list.
func (a *App) Tasks() []models.Task {
	return a.manager.Tasks()
}

// Task returns one task by ID.
func (a *App) Task(id string) (models.Task, bool) {
	return a.manager.Get(id)
}

// Snapshot returns the current page and counts.
func (a *App) Snapshot() Snapshot {
	tasks := a.manager.Tasks()
	return Snapshot{
		Filter: a.view.Filter(),
		Page:   a.view.Apply(tasks),
		Counts: countTasks(tasks),
	}
}

// Export writes every task, in session order, to w.
func (a *App) Export(w io.Writer, format store.Format) error {
	return store.Export(w, a.manager.Tasks(), format)
}

// Import replaces the whole collection with the tasks read from r.
func (a *App) Import(r io.Reader, format store.Format) (Snapshot, error) {
	tasks, err := store.Import(r, format)
	if err != nil {
		return Snapshot{}, err
	}
	if err := a.store.Replace(tasks); err != nil {
		return Snapshot{}, fmt.Errorf("replace tasks: %w", err)
	}
	slog.Info("imported tasks", "count", len(tasks), "format", format)
	return a.Reload()
}
