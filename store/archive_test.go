package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/squillaiugis/todo-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var archiveTasks = []models.Task{
	{ID: "1", Text: "Write the project plan", Priority: models.PriorityHigh},
	{ID: "3", Text: "Check email", Priority: models.PriorityLow, Completed: true},
}

func TestArchive_ExportImport(t *testing.T) {
	for _, format := range ImportFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, archiveTasks, format))

			got, err := Import(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, archiveTasks, got)
		})
	}
}

func TestArchive_ExportJSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, archiveTasks[:1], FormatJSON))
	assert.Equal(t, `[
  {
    "id": "1",
    "text": "Write the project plan",
    "priority": "high",
    "completed": false
  }
]
`, buf.String())
}

func TestArchive_ExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, archiveTasks, FormatCSV))
	assert.Equal(t, "id,text,priority,completed\n1,Write the project plan,high,false\n3,Check email,low,true\n", buf.String())
}

var errBrokenPipe = errors.New("broken pipe")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errBrokenPipe }

func TestArchive_ExportCSVWriteError(t *testing.T) {
	long := []models.Task{{ID: "1", Text: strings.Repeat("x", 8192), Priority: models.PriorityLow}}

	err := Export(failingWriter{}, long, FormatCSV)
	require.ErrorIs(t, err, errBrokenPipe)
	assert.Contains(t, err.Error(), "write csv row 1")

	err = Export(failingWriter{}, archiveTasks, FormatCSV)
	assert.ErrorIs(t, err, errBrokenPipe)
}

func TestArchive_ExportPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, archiveTasks, FormatPDF))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestArchive_ExportEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestArchive_ImportEmptyInput(t *testing.T) {
	got, err := Import(strings.NewReader("  \n"), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestArchive_ImportRejectsBadShape(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		kind   MalformedKind
	}{
		{"json object", FormatJSON, `{"id":"1"}`, MalformedNotArray},
		{"yaml bad priority", FormatYAML, "- id: \"1\"\n  text: a\n  priority: urgent\n  completed: false\n", MalformedInvalidElement},
		{"yaml syntax", FormatYAML, "- [unclosed", MalformedJSON},
		{"toml missing field", FormatTOML, "[[tasks]]\nid = \"1\"\ntext = \"a\"\npriority = \"low\"\n", MalformedInvalidElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.input), tt.format)
			var malformed *MalformedStoreError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.kind, malformed.Kind)
		})
	}
}

func TestArchive_UnsupportedImport(t *testing.T) {
	_, err := Import(strings.NewReader("id,text"), FormatCSV)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, FormatTOML, FormatFromPath("backup.toml"))
	assert.Equal(t, FormatJSON, FormatFromPath("backup"))
	assert.Equal(t, FormatJSON, FormatFromPath("backup.txt"))
}
