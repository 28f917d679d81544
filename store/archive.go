package store

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jung-kurt/gofpdf"
	"github.com/squillaiugis/todo-app/models"
	yaml "gopkg.in/yaml.v3"
)

// Format is an archive encoding for Export and Import.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ExportFormats lists every format Export accepts.
var ExportFormats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatCSV, FormatPDF}

// ImportFormats lists every format Import accepts.
var ImportFormats = []Format{FormatJSON, FormatYAML, FormatTOML}

// importKey labels errors for archives that fail the task shape check.
const importKey = "import"

// tomlArchive wraps the list, since a TOML document cannot be a bare array.
type tomlArchive struct {
	Tasks []models.Task `toml:"tasks"`
}

// ParseFormat accepts a format name, case-insensitively. "yml" is an alias for yaml.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = FormatYAML
	}
	for _, known := range ExportFormats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q, supported formats are json, yaml, toml, csv, pdf", s)
}

// FormatFromPath guesses the format from a file extension, falling back to json.
func FormatFromPath(path string) Format {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return FormatJSON
	}
	f, err := ParseFormat(path[i+1:])
	if err != nil {
		return FormatJSON
	}
	return f
}

// Export writes tasks to w in the given format.
func Export(w io.Writer, tasks []models.Task, format Format) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(tomlArchive{Tasks: tasks}); err != nil {
			return fmt.Errorf("marshal toml: %w", err)
		}
		return nil
	case FormatCSV:
		return exportCSV(w, tasks)
	case FormatPDF:
		return exportPDF(w, tasks)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func exportCSV(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "text", "priority", "completed"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		if err := cw.Write([]string{t.ID, t.Text, string(t.Priority), strconv.FormatBool(t.Completed)}); err != nil {
			return fmt.Errorf("write csv row %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// exportPDF renders a printable checklist.
func exportPDF(w io.Writer, tasks []models.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "To-Do List")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.MultiCell(0, 6, "No tasks.", "0", "L", false)
	}
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s (%s)", box, t.Text, t.Priority)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// Import reads an archive and returns its tasks after the same checks a store read applies.
func Import(r io.Reader, format Format) ([]models.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Task{}, nil
	}

	var generic any
	switch format {
	case FormatJSON:
		return DecodeTasks(importKey, data)
	case FormatYAML:
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, &MalformedStoreError{Key: importKey, Kind: MalformedJSON, Err: err}
		}
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, &MalformedStoreError{Key: importKey, Kind: MalformedJSON, Err: err}
		}
		generic = doc["tasks"]
		if generic == nil {
			generic = []any{}
		}
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}

	// Re-encode so every format goes through the JSON shape check.
	normalized, err := json.Marshal(generic)
	if err != nil {
		return nil, &MalformedStoreError{Key: importKey, Kind: MalformedJSON, Err: err}
	}
	return DecodeTasks(importKey, normalized)
}
