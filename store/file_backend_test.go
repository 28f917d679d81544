package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/squillaiugis/todo-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemFileBackend(t *testing.T) (*FileBackend, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	b, err := NewFileBackend(fsys, "/data")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, fsys
}

func TestFileBackend_SetGetRemove(t *testing.T) {
	b, fsys := newMemFileBackend(t)

	_, ok, err := b.GetItem("tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.SetItem("tasks", `[]`))
	v, ok, err := b.GetItem("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	exists, err := afero.Exists(fsys, "/data/tasks.json.checksum")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = afero.Exists(fsys, "/data/tasks.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, b.RemoveItem("tasks"))
	_, ok, err = b.GetItem("tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is fine.
	require.NoError(t, b.RemoveItem("tasks"))
}

func TestFileBackend_ChecksumMismatch(t *testing.T) {
	b, fsys := newMemFileBackend(t)
	require.NoError(t, b.SetItem("tasks", `[]`))

	require.NoError(t, afero.WriteFile(fsys, "/data/tasks.json", []byte(`[{"tampered":true}]`), 0o644))

	_, _, err := b.GetItem("tasks")
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	// A fresh write repairs the sidecar.
	require.NoError(t, b.SetItem("tasks", `[]`))
	_, ok, err := b.GetItem("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileBackend_HandWrittenFileWithoutChecksum(t *testing.T) {
	b, fsys := newMemFileBackend(t)
	require.NoError(t, afero.WriteFile(fsys, "/data/tasks.json", []byte(`[]`), 0o644))

	v, ok, err := b.GetItem("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestFileBackend_InvalidKey(t *testing.T) {
	b, _ := newMemFileBackend(t)
	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.Error(t, b.SetItem(key, "x"), key)
	}
}

func TestFileBackend_Closed(t *testing.T) {
	b, _ := newMemFileBackend(t)
	require.NoError(t, b.Close())
	_, _, err := b.GetItem("tasks")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, b.SetItem("tasks", "[]"), ErrClosed)
}

func TestFileBackend_WatchNeedsOsFs(t *testing.T) {
	b, _ := newMemFileBackend(t)
	_, err := b.Watch("tasks")
	assert.ErrorIs(t, err, ErrWatchUnsupported)
}

func TestFileBackend_OsStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	b, err := NewOsFileBackend(dir)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	s := NewKVTaskStore(b)
	_, err = s.Add(models.Task{ID: "1", Text: "persisted", Priority: models.PriorityMedium})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tasks.json"), b.Path("tasks"))

	// A second backend over the same directory sees the write.
	other, err := NewOsFileBackend(dir)
	require.NoError(t, err)
	defer func() { _ = other.Close() }()

	tasks, err := NewKVTaskStore(other).GetAll()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "persisted", tasks[0].Text)
}

func TestFileBackend_WatchSeesExternalWrites(t *testing.T) {
	dir := t.TempDir()
	watched, err := NewOsFileBackend(dir)
	require.NoError(t, err)
	defer func() { _ = watched.Close() }()

	changes, err := watched.Watch("tasks")
	require.NoError(t, err)

	writer, err := NewOsFileBackend(dir)
	require.NoError(t, err)
	defer func() { _ = writer.Close() }()
	require.NoError(t, writer.SetItem("tasks", `[]`))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification for an external write")
	}
}
