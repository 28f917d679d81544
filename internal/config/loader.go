package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/squillaiugis/todo-app/types"
)

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("seed", true)
	v.SetDefault("storage.backend", DefaultBackend)
	v.SetDefault("storage.dir", DefaultDataDir())
	v.SetDefault("storage.key", DefaultStorageKey)
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.timeout", DefaultTimeout)
	v.SetDefault("view.pageSize", DefaultPageSize)
	v.SetDefault("ids.strategy", DefaultIDStrategy)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.file", "")
}

// Load reads .env, environment variables and the config file into v and
// returns the validated configuration. The key "config" names an explicit
// config file; otherwise .todo.* is searched in ./.todo, $HOME and the
// working directory.
func Load(v *viper.Viper) (types.AppConfig, error) {
	// It's okay if the .env file doesn't exist.
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	SetDefaults(v)

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if info, err := os.Stat(ConfigName); err == nil && info.IsDir() {
			v.AddConfigPath(ConfigName)
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.AppConfig{}, fmt.Errorf("read config file %s: %w", v.ConfigFileUsed(), err)
		}
		slog.Debug("no config file found, using defaults and environment")
	} else {
		slog.Debug("using config file", "path", v.ConfigFileUsed())
	}

	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = DefaultDataDir()
	}
	if err := Validate(cfg); err != nil {
		return types.AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its validation tags.
func Validate(cfg types.AppConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		if e.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s must satisfy %s=%s (got '%v')", e.Namespace(), e.Tag(), e.Param(), e.Value()))
		} else {
			messages = append(messages, fmt.Sprintf("%s failed %s (got '%v')", e.Namespace(), e.Tag(), e.Value()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
