package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/squillaiugis/todo-app/internal/app"
	"github.com/squillaiugis/todo-app/internal/collection"
	"github.com/squillaiugis/todo-app/internal/config"
	"github.com/squillaiugis/todo-app/internal/logger"
	"github.com/squillaiugis/todo-app/store"
	"github.com/squillaiugis/todo-app/types"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// version is the application version.
	version = "1.0.0"

	// appConfig is loaded before every command runs.
	appConfig types.AppConfig
	closeLog  = func() error { return nil }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "todo - a small to-do list that remembers",
	Long: `todo keeps a prioritized to-do list in a local data directory
(or a SQLite/MySQL database) and lets you add, complete, filter and page
through tasks from the command line or an interactive board.

Examples:
  todo add "Water the plants" -p high
  todo list --filter active
  todo done 1718000000000
  todo board`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  initConfig,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return closeLog() },
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		HandleError(os.Stderr, err)
		_ = closeLog()
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.todo.yaml or ./.todo.yaml)")
	flags.BoolP("verbose", "v", false, "enable verbose output")
	flags.Bool("json", false, "print machine readable JSON")
	flags.BoolP("quiet", "q", false, "suppress informational output")
	flags.String("backend", "", "storage backend: file, sqlite, mysql or memory")
	flags.String("data-dir", "", "directory task data is stored in")
	flags.Bool("ephemeral", false, "keep tasks in memory only (nothing is saved)")

	bindFlags()
}

// bindFlags binds the persistent flags to Viper.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("json", flags.Lookup("json"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("storage.backend", flags.Lookup("backend"))
	_ = viper.BindPFlag("storage.dir", flags.Lookup("data-dir"))
	_ = viper.BindPFlag("ephemeral", flags.Lookup("ephemeral"))
}

// initConfig loads configuration, installs the logger and records crash context.
func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return types.NewCLIError(types.CodeConfig, err.Error(), nil)
	}
	if viper.GetBool("ephemeral") {
		cfg.Storage.Backend = config.BackendMemory
	}
	appConfig = cfg

	closeFn, err := logger.Setup(cmd.ErrOrStderr(), cfg.Log.File, logger.FromConfig(cfg.Log, cfg.Verbose))
	if err != nil {
		return types.NewCLIError(types.CodeConfig, err.Error(), nil)
	}
	closeLog = closeFn

	logger.SetBasePath(cfg.Storage.Dir)
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath())
	slog.Debug("configuration loaded", "backend", cfg.Storage.Backend, "dir", cfg.Storage.Dir, "key", cfg.Storage.Key)
	return nil
}

// session is one opened backend plus the app over it.
type session struct {
	app     *app.App
	backend store.Backend
}

// Close releases the backend.
func (s *session) Close() error {
	return s.backend.Close()
}

// openBackend creates the storage backend selected in cfg.
func openBackend(cfg types.StorageConfig) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryBackend(), nil
	case config.BackendSQLite:
		path := config.SQLitePath(cfg.DSN, cfg.Dir)
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		return store.OpenSQLite(path, cfg.Timeout)
	case config.BackendMySQL:
		return store.OpenMySQL(cfg.DSN, cfg.Timeout)
	default:
		return store.NewOsFileBackend(cfg.Dir)
	}
}

// openApp opens the configured store and bootstraps an app over it.
// The caller must Close the session.
func openApp() (*session, error) {
	backend, err := openBackend(appConfig.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", appConfig.Storage.Backend, err)
	}
	ids, err := collection.NewIDGenerator(appConfig.IDs.Strategy)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	s := store.NewKVTaskStoreWithKey(backend, appConfig.Storage.Key)
	a := app.New(s, app.Options{
		PageSize: appConfig.View.PageSize,
		IDs:      ids,
		Seed:     appConfig.Seed,
	})
	if _, err := a.Bootstrap(); err != nil {
		_ = backend.Close()
		return nil, err
	}
	return &session{app: a, backend: backend}, nil
}
