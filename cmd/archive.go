package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/squillaiugis/todo-app/internal/utils"
	"github.com/squillaiugis/todo-app/store"
	"github.com/squillaiugis/todo-app/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks to a file or stdout",
	Long: `Export every task in list order.

Formats: json, yaml, toml, csv, pdf. When --format is not given it is taken
from the output file extension, defaulting to json.

Examples:
  todo export > tasks.json
  todo export -o tasks.yaml
  todo export -o checklist.pdf`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all tasks with the contents of a file",
	Long: `Import tasks from a json, yaml or toml file ("-" reads stdin).
The current list is replaced. Invalid files are rejected and nothing is changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	exportOutput string
	exportFormat string
	importFormat string
	importYes    bool
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Export format (json, yaml, toml, csv, pdf)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "Import format (json, yaml, toml)")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Skip the confirmation prompt")
}

// resolveFormat picks the flag value or falls back to the file extension.
func resolveFormat(flagValue, path string, allowed []store.Format) (store.Format, error) {
	format := store.FormatJSON
	if flagValue != "" {
		f, err := store.ParseFormat(flagValue)
		if err != nil {
			return "", types.NewCLIError(types.CodeValidation, err.Error(), nil)
		}
		format = f
	} else if path != "" && path != "-" {
		format = store.FormatFromPath(path)
	}
	for _, f := range allowed {
		if f == format {
			return format, nil
		}
	}
	return "", types.NewCLIError(types.CodeValidation, fmt.Sprintf("format %q is not supported here", format), nil)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(exportFormat, exportOutput, store.ExportFormats)
	if err != nil {
		return err
	}

	s, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if exportOutput == "" || exportOutput == "-" {
		return s.app.Export(cmd.OutOrStdout(), format)
	}

	if err := os.MkdirAll(filepath.Dir(exportOutput), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOutput, err)
	}
	if err := s.app.Export(f, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", exportOutput, err)
	}

	n := len(s.app.Tasks())
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{"path": exportOutput, "format": format, "count": n})
	}
	info(cmd, "Exported %s to %s", utils.Plural(n, "task"), exportOutput)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := resolveFormat(importFormat, path, store.ImportFormats)
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	s, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	current := len(s.app.Tasks())
	if !importYes && current > 0 && path != "-" {
		prompt := fmt.Sprintf("Replace %s with the contents of %s? [y/N]: ", utils.Plural(current, "task"), path)
		if !confirmOrAbort(cmd, prompt) {
			return nil
		}
	}

	snap, err := s.app.Import(r, format)
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{"imported": snap.Counts.Total, "counts": snap.Counts})
	}
	info(cmd, "Imported %s from %s", utils.Plural(snap.Counts.Total, "task"), path)
	return nil
}
