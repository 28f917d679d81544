package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/squillaiugis/todo-app/internal/app"
	"github.com/squillaiugis/todo-app/internal/ui"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long:    `Delete a task by its ID or a unique ID prefix. A confirmation prompt is shown unless --yes is given.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var deleteYes bool

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	id, err := resolveID(s, args[0])
	if err != nil {
		return err
	}
	task, _ := s.app.Task(id)

	if !deleteYes && !confirmOrAbort(cmd, fmt.Sprintf("Delete task '%s' (ID: %s)? [y/N]: ", task.Text, task.ID)) {
		return nil
	}
	if _, err := s.app.Dispatch(app.DeleteTask{ID: id}); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{"deleted": task})
	}
	info(cmd, "%s Deleted task %s: %s", ui.Icon("✗", ui.StyleWarning), task.ID, task.Text)
	return nil
}
