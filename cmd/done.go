package cmd

import (
	"github.com/spf13/cobra"
	"github.com/squillaiugis/todo-app/internal/app"
	"github.com/squillaiugis/todo-app/internal/ui"
	"github.com/squillaiugis/todo-app/models"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed. The task keeps its place in the stored list.
A unique ID prefix is accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetStatus(cmd, args[0], statusDone)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Mark a completed task as active again",
	Long:  `Reactivate a completed task. The task keeps its place in the stored list.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetStatus(cmd, args[0], statusUndo)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task between active and completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetStatus(cmd, args[0], statusToggle)
	},
}

type statusChange int

const (
	statusDone statusChange = iota
	statusUndo
	statusToggle
)

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(toggleCmd)
}

func runSetStatus(cmd *cobra.Command, idOrPrefix string, change statusChange) error {
	s, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	id, err := resolveID(s, idOrPrefix)
	if err != nil {
		return err
	}

	var command app.Command
	switch change {
	case statusDone:
		command = app.SetCompleted{ID: id, Completed: true}
	case statusUndo:
		command = app.SetCompleted{ID: id, Completed: false}
	default:
		command = app.ToggleTask{ID: id}
	}
	if _, err := s.app.Dispatch(command); err != nil {
		return err
	}

	task, _ := s.app.Task(id)
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), task)
	}
	info(cmd, "%s %s %s: %s", statusIcon(task), statusLabel(task), task.ID, task.Text)
	return nil
}

func statusIcon(t models.Task) string {
	if t.Completed {
		return ui.Icon("✓", ui.StyleSuccess)
	}
	return ui.Icon("○", ui.StylePrimary)
}

func statusLabel(t models.Task) string {
	if t.Completed {
		return "Completed"
	}
	return "Reactivated"
}
