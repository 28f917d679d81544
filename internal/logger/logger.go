package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/squillaiugis/todo-app/types"
)

// Options controls the process-wide logger.
type Options struct {
	Level     string
	Format    string
	Verbose   bool // forces debug level
	Timestamp bool
}

// FromConfig builds Options from the log section of the app config.
func FromConfig(cfg types.LogConfig, verbose bool) Options {
	return Options{Level: cfg.Level, Format: cfg.Format, Verbose: verbose}
}

// New creates a charmbracelet logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = log.DebugLevel
	}
	formatter, err := parseFormatter(opts.Format)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.Timestamp,
		Prefix:          "todo",
	}), nil
}

func parseFormatter(name string) (log.Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q (want text, json or logfmt)", name)
	}
}

// Setup installs the logger as the slog default. When file is set, output is
// appended there instead of w. The returned func closes the file.
func Setup(w io.Writer, file string, opts Options) (func() error, error) {
	closeFn := func() error { return nil }
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return closeFn, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
		opts.Timestamp = true
	}
	l, err := New(w, opts)
	if err != nil {
		_ = closeFn()
		return func() error { return nil }, err
	}
	slog.SetDefault(slog.New(l))
	return closeFn, nil
}
