package types

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Seed    bool          `mapstructure:"seed"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	View    ViewConfig    `mapstructure:"view" validate:"required"`
	IDs     IDConfig      `mapstructure:"ids" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
}

// StorageConfig selects and configures the key-value backend
type StorageConfig struct {
	Backend string        `mapstructure:"backend" validate:"required,oneof=file sqlite mysql memory"`
	Dir     string        `mapstructure:"dir" validate:"required_if=Backend file"`
	Key     string        `mapstructure:"key" validate:"required,max=128"`
	// DSN is a sqlite file path or a MySQL data source name. For sqlite it defaults to <dir>/todo.db.
	DSN     string        `mapstructure:"dsn" validate:"required_if=Backend mysql"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// ViewConfig holds listing settings
type ViewConfig struct {
	PageSize int `mapstructure:"pageSize" validate:"min=1,max=1000"`
}

// IDConfig selects how new task IDs are generated
type IDConfig struct {
	Strategy string `mapstructure:"strategy" validate:"required,oneof=time uuid"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json logfmt"`
	// File receives log output instead of stderr when set.
	File   string `mapstructure:"file"`
}
