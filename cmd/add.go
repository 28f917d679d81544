package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/squillaiugis/todo-app/internal/app"
	"github.com/squillaiugis/todo-app/internal/logger"
	"github.com/squillaiugis/todo-app/internal/ui"
	"github.com/squillaiugis/todo-app/models"
	"github.com/squillaiugis/todo-app/types"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a task to the top of the list",
	Long: `Add a task. New tasks start active and are placed at the top of the list.

Examples:
  todo add "Call the bank"
  todo add "Renew passport" --priority high`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addPriority string

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(models.PriorityMedium), "Task priority (high, medium, low)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	logger.SetLastInput(text)
	if text == "" {
		return types.NewCLIError(types.CodeValidation, "task text cannot be empty", nil)
	}
	priority, err := models.ParsePriority(addPriority)
	if err != nil {
		return err
	}

	s, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if _, err := s.app.Dispatch(app.AddTask{Text: text, Priority: priority}); err != nil {
		return err
	}
	tasks := s.app.Tasks()
	if len(tasks) == 0 {
		return errors.New("task was not added")
	}
	added := tasks[0]

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), added)
	}
	info(cmd, "%s Added task %s (%s): %s", ui.Icon("✓", ui.StyleSuccess), added.ID, added.Priority, added.Text)
	return nil
}
