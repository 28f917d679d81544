package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/squillaiugis/todo-app/internal/app"
	"github.com/squillaiugis/todo-app/internal/ui"
	"github.com/squillaiugis/todo-app/models"
	"github.com/squillaiugis/todo-app/types"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks, one page at a time",
	Long: `List tasks in stored order, newest first. Completing or reactivating a
task changes its flag in place; only the interactive board moves completed
tasks to the bottom for the rest of its session.

Examples:
  todo list
  todo list --filter completed
  todo list --page 2 --page-size 5`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listFilter   string
	listPage     int
	listPageSize int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFilter, "filter", "f", string(models.FilterAll), "Filter: all, active or completed")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page to show")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Tasks per page (default from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := models.ParseFilter(listFilter)
	if err != nil {
		return types.NewCLIError(types.CodeValidation, err.Error(), nil)
	}
	if listPageSize < 0 {
		return types.NewCLIError(types.CodeValidation, "page size must be positive", nil)
	}
	if listPageSize > 0 {
		appConfig.View.PageSize = listPageSize
	}

	s, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	snap, err := s.app.Dispatch(app.SetFilter{Filter: filter})
	if err != nil {
		return err
	}
	if listPage != snap.Page.Current {
		snap, err = s.app.Dispatch(app.SetPage{Page: listPage})
		if err != nil {
			return err
		}
		if snap.Page.Current != listPage && !isQuiet() && !isJSON() {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.StyleWarning.Render(fmt.Sprintf(
				"page %d does not exist; showing page %d of %d", listPage, snap.Page.Current, snap.Page.Total)))
		}
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), snap)
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.RenderList(snap))
	return nil
}
