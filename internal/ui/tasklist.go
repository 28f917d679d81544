package ui

import (
	"fmt"
	"strings"

	"github.com/squillaiugis/todo-app/internal/app"
	"github.com/squillaiugis/todo-app/internal/utils"
	"github.com/squillaiugis/todo-app/internal/view"
	"github.com/squillaiugis/todo-app/models"
)

// MaxTextWidth caps the task column in list output.
const MaxTextWidth = 60

// Checkbox renders the completion marker.
func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// TaskTable builds the table for one page of tasks.
func TaskTable(tasks []models.Task) *Table {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			Checkbox(t.Completed),
			t.ID,
			string(t.Priority),
			utils.Truncate(t.Text, MaxTextWidth),
		})
	}
	return &Table{Headers: []string{"", "ID", "Priority", "Task"}, Rows: rows}
}

// PageFooter renders "page X/Y · N tasks".
func PageFooter(p view.Page) string {
	return fmt.Sprintf("page %d/%d · %s", p.Current, p.Total, utils.Plural(p.FilteredCount, "task"))
}

// FilterTabs renders the filter names with the current one highlighted.
func FilterTabs(current models.TaskFilter) string {
	tabs := make([]string, len(models.Filters))
	for i, f := range models.Filters {
		label := utils.ToTitle(string(f))
		if f == current {
			tabs[i] = StyleTabActive.Render(label)
		} else {
			tabs[i] = StyleTabNormal.Render(label)
		}
	}
	return strings.Join(tabs, "  ")
}

// RenderList renders a snapshot for the list command.
func RenderList(snap app.Snapshot) string {
	var sb strings.Builder
	if len(snap.Page.Tasks) == 0 {
		sb.WriteString(StyleSubtle.Render(emptyMessage(snap.Filter)) + "\n")
	} else {
		sb.WriteString(TaskTable(snap.Page.Tasks).Render())
	}
	sb.WriteString("\n" + StyleSubtle.Render(PageFooter(snap.Page)))
	sb.WriteString(StyleSubtle.Render(fmt.Sprintf(" · %d active, %d completed", snap.Counts.Active, snap.Counts.Completed)))
	sb.WriteString("\n")
	return sb.String()
}

func emptyMessage(f models.TaskFilter) string {
	switch f {
	case models.FilterActive:
		return "Nothing left to do."
	case models.FilterCompleted:
		return "No completed tasks yet."
	default:
		return "No tasks. Add one with: todo add <text>"
	}
}
