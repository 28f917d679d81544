// Package config provides centralized configuration for the todo CLI.
// All default values are defined here to keep a single source of truth.
package config

import "time"

const (
	// ConfigName is the config file base name searched for (.todo.yaml, .todo.toml, ...).
	ConfigName = ".todo"

	// EnvPrefix prefixes every environment override, e.g. TODO_STORAGE_BACKEND.
	EnvPrefix = "TODO"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// Defaults
const (
	DefaultBackend    = BackendFile
	DefaultStorageKey = "tasks"
	DefaultTimeout    = 5 * time.Second
	DefaultPageSize   = 10
	DefaultIDStrategy = "time"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"

	// SQLiteFileName is the database created in the data directory when no DSN is set.
	SQLiteFileName = "todo.db"
)
