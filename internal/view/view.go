// Package view computes the visible slice of a task list for a filter and page.
// Everything here is a pure computation over its inputs.
package view

import (
	"github.com/squillaiugis/todo-app/models"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10

// Page is one screen of filtered tasks.
type Page struct {
	Tasks         []models.Task `json:"tasks"`
	Current       int           `json:"currentPage"`
	Total         int           `json:"totalPages"`
	FilteredCount int           `json:"filteredCount"`
	HasPrev       bool          `json:"hasPrev"`
	HasNext       bool          `json:"hasNext"`
}

// Filter returns the tasks visible under f, keeping their relative order.
func Filter(tasks []models.Task, f models.TaskFilter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Includes(t) {
			out = append(out, t)
		}
	}
	return out
}

// TotalPages is the number of pages needed for count items. It is never less than 1.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// Clamp limits page to [1, total].
func Clamp(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate filters tasks and returns the requested page, clamped into range.
func Paginate(tasks []models.Task, f models.TaskFilter, pageSize, page int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	filtered := Filter(tasks, f)
	total := TotalPages(len(filtered), pageSize)
	current := Clamp(page, total)

	start := (current - 1) * pageSize
	end := min(start+pageSize, len(filtered))

	return Page{
		Tasks:         filtered[start:end],
		Current:       current,
		Total:         total,
		FilteredCount: len(filtered),
		HasPrev:       current > 1,
		HasNext:       current < total,
	}
}
