package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/squillaiugis/todo-app/internal/ui"
	"github.com/squillaiugis/todo-app/store"
	"github.com/squillaiugis/todo-app/types"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive task board",
	Long: `Open a full-screen board to browse, add, complete and delete tasks.
With the file backend the board reloads when another process changes the list.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return types.NewCLIError(types.CodeValidation, "the board needs an interactive terminal; use 'todo list' instead", nil)
	}

	s, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	var changes <-chan struct{}
	if fb, ok := s.backend.(*store.FileBackend); ok {
		changes, err = fb.Watch(appConfig.Storage.Key)
		if err != nil && !errors.Is(err, store.ErrWatchUnsupported) {
			slog.Warn("live reload disabled", "error", err)
		}
	}
	return ui.RunBoard(s.app, changes)
}
