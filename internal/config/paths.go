package config

import (
	"os"
	"path/filepath"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.todo).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigName), nil
}

// DefaultDataDir returns where task data lives when storage.dir is not set.
// Resolution order (first match wins):
// 1. XDG_DATA_HOME/todo/data (if XDG_DATA_HOME is set)
// 2. ~/.todo/data
// 3. ./.todo/data
func DefaultDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "todo", "data")
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(ConfigName, "data")
	}
	return filepath.Join(dir, "data")
}

// SQLitePath returns the database file for the sqlite backend.
func SQLitePath(dsn, dataDir string) string {
	if dsn != "" {
		return dsn
	}
	return filepath.Join(dataDir, SQLiteFileName)
}
