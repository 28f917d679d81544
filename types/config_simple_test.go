package types

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func validConfig() AppConfig {
	return AppConfig{
		Seed: true,
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "/tmp/todo/data",
			Key:     "tasks",
			Timeout: 5 * time.Second,
		},
		View: ViewConfig{PageSize: 10},
		IDs:  IDConfig{Strategy: "time"},
		Log:  LogConfig{Level: "warn", Format: "text"},
	}
}

func TestAppConfig_Validation(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.Struct(validConfig()))

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"unknown backend", func(c *AppConfig) { c.Storage.Backend = "redis" }},
		{"file backend without dir", func(c *AppConfig) { c.Storage.Dir = "" }},
		{"mysql without dsn", func(c *AppConfig) { c.Storage.Backend = "mysql" }},
		{"empty key", func(c *AppConfig) { c.Storage.Key = "" }},
		{"zero page size", func(c *AppConfig) { c.View.PageSize = 0 }},
		{"unknown id strategy", func(c *AppConfig) { c.IDs.Strategy = "serial" }},
		{"unknown log level", func(c *AppConfig) { c.Log.Level = "trace" }},
		{"unknown log format", func(c *AppConfig) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, v.Struct(cfg))
		})
	}
}

func TestAppConfig_MemoryBackendNeedsNoDir(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = "memory"
	cfg.Storage.Dir = ""
	assert.NoError(t, validator.New().Struct(cfg))
}

func TestCLIError(t *testing.T) {
	err := NewCLIError(CodeNotFound, "no task with id 7", map[string]any{"id": "7"})
	assert.Equal(t, "not_found: no task with id 7", err.Error())
}
