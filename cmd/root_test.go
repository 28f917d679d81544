package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/squillaiugis/todo-app/internal/app"
	"github.com/squillaiugis/todo-app/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME, XDG_DATA_HOME and the working directory at a temp dir
// so no real config or data is touched. It returns the data directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)
	return filepath.Join(dir, "data")
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and stdin, returning combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetFlags(rootCmd)
	bindFlags()

	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	_ = closeLog()
	return b.String(), err
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func listSnapshot(t *testing.T, dataDir string, extra ...string) app.Snapshot {
	t.Helper()
	args := append([]string{"--data-dir", dataDir, "--json", "list"}, extra...)
	out := run(t, args...)
	var snap app.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap), out)
	return snap
}

func ids(snap app.Snapshot) []string {
	out := make([]string, len(snap.Page.Tasks))
	for i, task := range snap.Page.Tasks {
		out[i] = task.ID
	}
	return out
}

func TestRootCmd(t *testing.T) {
	isolate(t)

	out := run(t, "--help")
	assert.Contains(t, out, "todo - a small to-do list that remembers")
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "Available Commands:")
}

func TestVersion(t *testing.T) {
	isolate(t)

	assert.Equal(t, "1.0.0", GetVersion())
	out := run(t, "version")
	assert.Contains(t, out, "todo 1.0.0")
}

func TestTaskLifecycle(t *testing.T) {
	dataDir := isolate(t)

	out := run(t, "--data-dir", dataDir, "list")
	assert.Contains(t, out, "Write the project plan")
	assert.Contains(t, out, "page 1/1 · 3 tasks")
	assert.FileExists(t, filepath.Join(dataDir, "tasks.json"))

	out = run(t, "--data-dir", dataDir, "add", "Walk", "the", "dog", "-p", "high")
	assert.Contains(t, out, "Added task")
	assert.Contains(t, out, "Walk the dog")

	snap := listSnapshot(t, dataDir)
	require.Len(t, snap.Page.Tasks, 4)
	assert.Equal(t, "Walk the dog", snap.Page.Tasks[0].Text)
	assert.Equal(t, app.Counts{Total: 4, Active: 3, Completed: 1}, snap.Counts)

	out = run(t, "--data-dir", dataDir, "done", "1")
	assert.Contains(t, out, "Completed 1: Write the project plan")
	snap = listSnapshot(t, dataDir, "--filter", "completed")
	assert.Equal(t, []string{"1", "3"}, ids(snap))

	// Completion changes the flag in place; each run lists stored order.
	walk := listSnapshot(t, dataDir).Page.Tasks[0].ID
	snap = listSnapshot(t, dataDir)
	assert.Equal(t, []string{walk, "1", "2", "3"}, ids(snap))

	out = run(t, "--data-dir", dataDir, "undo", "3")
	assert.Contains(t, out, "Reactivated 3: Check email")

	out = run(t, "--data-dir", dataDir, "toggle", "3")
	assert.Contains(t, out, "Completed 3")

	out = run(t, "--data-dir", dataDir, "rm", "2", "--yes")
	assert.Contains(t, out, "Deleted task 2: Make a shopping list")

	snap = listSnapshot(t, dataDir)
	assert.NotContains(t, ids(snap), "2")
	assert.Equal(t, 3, snap.Counts.Total)
}

func TestDeleteAll_DoesNotReseed(t *testing.T) {
	dataDir := isolate(t)

	for _, id := range []string{"1", "2", "3"} {
		run(t, "--data-dir", dataDir, "rm", id, "--yes")
	}

	snap := listSnapshot(t, dataDir)
	assert.Empty(t, snap.Page.Tasks)
	assert.Equal(t, 0, snap.Counts.Total)

	out := run(t, "--data-dir", dataDir, "list")
	assert.NotContains(t, out, "Write the project plan")

	data, err := os.ReadFile(filepath.Join(dataDir, "tasks.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestAdd_Validation(t *testing.T) {
	dataDir := isolate(t)

	_, err := execute(t, "", "--data-dir", dataDir, "add", "   ")
	var cliErr *types.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, types.CodeValidation, cliErr.Code)

	_, err = execute(t, "", "--data-dir", dataDir, "add", "x", "-p", "urgent")
	require.Error(t, err)
	assert.Equal(t, types.CodeValidation, toCLIError(err).Code)
}

func TestDelete_Confirmation(t *testing.T) {
	dataDir := isolate(t)

	out, err := execute(t, "n\n", "--data-dir", dataDir, "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete task 'Make a shopping list'")
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, ids(listSnapshot(t, dataDir)), "2")

	out, err = execute(t, "yes\n", "--data-dir", dataDir, "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task 2")
	assert.NotContains(t, ids(listSnapshot(t, dataDir)), "2")
}

func TestDone_UnknownID(t *testing.T) {
	dataDir := isolate(t)

	_, err := execute(t, "", "--data-dir", dataDir, "done", "nope")
	require.Error(t, err)
	assert.Equal(t, types.CodeNotFound, toCLIError(err).Code)
}

func TestList_FilterAndPaging(t *testing.T) {
	dataDir := isolate(t)

	snap := listSnapshot(t, dataDir, "--page-size", "2", "--page", "2")
	assert.Equal(t, 2, snap.Page.Current)
	assert.Equal(t, 2, snap.Page.Total)
	assert.Equal(t, []string{"3"}, ids(snap))

	snap = listSnapshot(t, dataDir, "--filter", "active")
	assert.Equal(t, []string{"1", "2"}, ids(snap))

	out := run(t, "--data-dir", dataDir, "list", "--page", "7")
	assert.Contains(t, out, "page 7 does not exist; showing page 1 of 1")

	_, err := execute(t, "", "--data-dir", dataDir, "list", "--filter", "someday")
	require.Error(t, err)
	assert.Equal(t, types.CodeValidation, toCLIError(err).Code)
}

func TestMalformedStoreIsReportedNotOverwritten(t *testing.T) {
	dataDir := isolate(t)
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	path := filepath.Join(dataDir, "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))

	_, err := execute(t, "", "--data-dir", dataDir, "list")
	require.Error(t, err)
	cliErr := toCLIError(err)
	assert.Equal(t, types.CodeMalformedStore, cliErr.Code)
	assert.Equal(t, "not an array", cliErr.Details["kind"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"not":"a list"}`, string(data))
}

func TestExportImport(t *testing.T) {
	dataDir := isolate(t)
	run(t, "--data-dir", dataDir, "add", "Exported task")

	archive := filepath.Join(t.TempDir(), "tasks.yaml")
	out := run(t, "--data-dir", dataDir, "export", "-o", archive)
	assert.Contains(t, out, "Exported 4 tasks")

	content, err := os.ReadFile(archive)
	require.NoError(t, err)
	assert.Contains(t, string(content), "text: Exported task")

	otherDir := filepath.Join(t.TempDir(), "other")
	out = run(t, "--data-dir", otherDir, "import", archive, "--yes")
	assert.Contains(t, out, "Imported 4 tasks")
	assert.Equal(t, ids(listSnapshot(t, dataDir)), ids(listSnapshot(t, otherDir)))

	out = run(t, "--data-dir", dataDir, "export", "--format", "csv")
	assert.True(t, strings.HasPrefix(out, "id,text,priority,completed\n"), out)

	_, err = execute(t, "", "--data-dir", dataDir, "import", archive, "--format", "pdf")
	require.Error(t, err)
	assert.Equal(t, types.CodeValidation, toCLIError(err).Code)
}

func TestImport_InvalidFileLeavesTasks(t *testing.T) {
	dataDir := isolate(t)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id":"x"}]`), 0o644))

	_, err := execute(t, "", "--data-dir", dataDir, "import", bad, "--yes")
	require.Error(t, err)
	assert.Equal(t, types.CodeMalformedStore, toCLIError(err).Code)
	assert.Equal(t, []string{"1", "2", "3"}, ids(listSnapshot(t, dataDir)))
}

func TestEphemeralBackendKeepsNothing(t *testing.T) {
	dataDir := isolate(t)

	run(t, "--data-dir", dataDir, "--ephemeral", "add", "gone soon")
	out := run(t, "--data-dir", dataDir, "--ephemeral", "--json", "list")
	assert.NotContains(t, out, "gone soon")
	assert.NoFileExists(t, filepath.Join(dataDir, "tasks.json"))
}

func TestSQLiteBackend(t *testing.T) {
	dataDir := isolate(t)

	run(t, "--data-dir", dataDir, "--backend", "sqlite", "add", "stored in sqlite")
	assert.FileExists(t, filepath.Join(dataDir, "todo.db"))

	out := run(t, "--data-dir", dataDir, "--backend", "sqlite", "list")
	assert.Contains(t, out, "stored in sqlite")
}

func TestBoard_RequiresTerminal(t *testing.T) {
	dataDir := isolate(t)

	_, err := execute(t, "", "--data-dir", dataDir, "board")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestConfigInitAndShow(t *testing.T) {
	dataDir := isolate(t)
	path := filepath.Join(t.TempDir(), "todo.yaml")

	out := run(t, "--data-dir", dataDir, "config", "init", "--path", path)
	assert.Contains(t, out, "Wrote "+path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "backend: file")

	_, err = execute(t, "", "config", "init", "--path", path)
	require.Error(t, err)
	assert.Equal(t, types.CodeConfig, toCLIError(err).Code)

	t.Setenv("TODO_VIEW_PAGESIZE", "4")
	out = run(t, "--config", path, "--json", "config", "show")
	var shown struct {
		File   string         `json:"file"`
		Config map[string]any `json:"config"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown), out)
	assert.Equal(t, path, shown.File)
	assert.EqualValues(t, 4, shown.Config["view"].(map[string]any)["pageSize"])
}
