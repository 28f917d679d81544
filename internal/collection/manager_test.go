package collection

import (
	"errors"
	"strconv"
	"testing"

	"github.com/squillaiugis/todo-app/models"
	"github.com/squillaiugis/todo-app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqIDs hands out "id-1", "id-2", ...
type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return "id-" + strconv.Itoa(s.n)
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func newManager(t *testing.T, initial ...models.Task) (*Manager, *store.KVTaskStore) {
	t.Helper()
	s := store.NewKVTaskStore(store.NewMemoryBackend())
	if len(initial) > 0 {
		require.NoError(t, s.Replace(initial))
	}
	m := NewManager(s, &seqIDs{})
	require.NoError(t, m.Load())
	return m, s
}

var (
	taskA = models.Task{ID: "A", Text: "a", Priority: models.PriorityHigh}
	taskB = models.Task{ID: "B", Text: "b", Priority: models.PriorityMedium}
	taskC = models.Task{ID: "C", Text: "c", Priority: models.PriorityLow, Completed: true}
)

func TestManager_LoadUsesStoreOrder(t *testing.T) {
	m, _ := newManager(t, taskA, taskB, taskC)
	assert.Equal(t, []string{"A", "B", "C"}, ids(m.Tasks()))
	assert.Equal(t, 3, m.Len())
}

func TestManager_AddTaskPrependsAndPersists(t *testing.T) {
	m, s := newManager(t, taskA)

	task, err := m.AddTask("  buy milk ", models.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, models.Task{ID: "id-1", Text: "buy milk", Priority: models.PriorityLow}, task)
	assert.Equal(t, []string{"id-1", "A"}, ids(m.Tasks()))

	stored, err := s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "A"}, ids(stored))
}

func TestManager_AddTaskValidation(t *testing.T) {
	m, s := newManager(t)

	_, err := m.AddTask("x", "urgent")
	assert.ErrorIs(t, err, models.ErrInvalidTask)
	_, err = m.AddTask("   ", models.PriorityLow)
	assert.ErrorIs(t, err, models.ErrInvalidTask)

	assert.Zero(t, m.Len())
	stored, err := s.GetAll()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestManager_RemoveTask(t *testing.T) {
	m, s := newManager(t, taskA, taskB)

	require.NoError(t, m.RemoveTask("A"))
	assert.Equal(t, []string{"B"}, ids(m.Tasks()))

	require.NoError(t, m.RemoveTask("missing"))
	assert.Equal(t, []string{"B"}, ids(m.Tasks()))

	stored, err := s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, ids(stored))
}

func TestManager_SetCompletedReorders(t *testing.T) {
	m, s := newManager(t, taskA, taskB, taskC)

	require.NoError(t, m.SetCompleted("A", true))
	assert.Equal(t, []string{"B", "C", "A"}, ids(m.Tasks()))
	a, ok := m.Get("A")
	require.True(t, ok)
	assert.True(t, a.Completed)

	require.NoError(t, m.SetCompleted("C", false))
	assert.Equal(t, []string{"C", "B", "A"}, ids(m.Tasks()))

	// The store keeps its own order and only sees the flag change.
	stored, err := s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []models.Task{
		{ID: "A", Text: "a", Priority: models.PriorityHigh, Completed: true},
		taskB,
		{ID: "C", Text: "c", Priority: models.PriorityLow, Completed: false},
	}, stored)
}

func TestManager_SetCompletedUnknownIsNoop(t *testing.T) {
	m, _ := newManager(t, taskA, taskB)
	require.NoError(t, m.SetCompleted("missing", true))
	assert.Equal(t, []string{"A", "B"}, ids(m.Tasks()))
}

func TestManager_Toggle(t *testing.T) {
	m, _ := newManager(t, taskA, taskC)

	found, err := m.Toggle("C")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"C", "A"}, ids(m.Tasks()))

	found, err = m.Toggle("missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestManager_TasksReturnsCopy(t *testing.T) {
	m, _ := newManager(t, taskA)
	tasks := m.Tasks()
	tasks[0].Text = "changed"
	got, _ := m.Get("A")
	assert.Equal(t, "a", got.Text)
}

// failingStore fails every write.
type failingStore struct {
	store.TaskStore
}

var errWrite = errors.New("disk full")

func (failingStore) Add(models.Task) ([]models.Task, error) { return nil, errWrite }
func (failingStore) Delete(string) ([]models.Task, error) { return nil, errWrite }
func (failingStore) Update(models.TaskPatch) ([]models.Task, error) { return nil, errWrite }

func TestManager_StoreFailureLeavesMemoryUntouched(t *testing.T) {
	m, _ := newManager(t, taskA, taskB)
	m.store = failingStore{}

	_, err := m.AddTask("new", models.PriorityLow)
	assert.ErrorIs(t, err, errWrite)
	assert.ErrorIs(t, m.RemoveTask("A"), errWrite)
	assert.ErrorIs(t, m.SetCompleted("A", true), errWrite)

	assert.Equal(t, []string{"A", "B"}, ids(m.Tasks()))
}

func TestManager_LoadMalformed(t *testing.T) {
	backend := store.NewMemoryBackend()
	require.NoError(t, backend.SetItem(store.DefaultKey, `{"not":"an array"}`))
	m := NewManager(store.NewKVTaskStore(backend), nil)

	err := m.Load()
	assert.True(t, store.IsMalformed(err))
	assert.Zero(t, m.Len())
}
