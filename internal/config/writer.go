package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/squillaiugis/todo-app/types"
	yaml "gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteFile when the target exists and force is not set.
var ErrConfigExists = errors.New("config file already exists")

// DefaultConfigPath returns ~/.todo.yaml, the global config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigName+".yaml"), nil
}

// ToMap converts cfg to the nested key layout used in config files.
// Runtime-only keys (config, verbose) are left out.
func ToMap(cfg types.AppConfig) map[string]any {
	return map[string]any{
		"seed": cfg.Seed,
		"storage": map[string]any{
			"backend": cfg.Storage.Backend,
			"dir":     cfg.Storage.Dir,
			"key":     cfg.Storage.Key,
			"dsn":     cfg.Storage.DSN,
			"timeout": cfg.Storage.Timeout.String(),
		},
		"view": map[string]any{
			"pageSize": cfg.View.PageSize,
		},
		"ids": map[string]any{
			"strategy": cfg.IDs.Strategy,
		},
		"log": map[string]any{
			"level":  cfg.Log.Level,
			"format": cfg.Log.Format,
			"file":   cfg.Log.File,
		},
	}
}

// WriteFile saves cfg as YAML at path, creating parent directories.
// An existing file is only replaced when force is set.
func WriteFile(path string, cfg types.AppConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check %s: %w", path, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	body, err := yaml.Marshal(ToMap(cfg))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	content := append([]byte("# todo configuration\n"), body...)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
