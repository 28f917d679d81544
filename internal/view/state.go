package view

import "github.com/squillaiugis/todo-app/models"

// State remembers the filter and page between renders.
type State struct {
	filter   models.TaskFilter
	page     int
	total    int
	pageSize int
}

// NewState starts on page 1 of the "all" filter.
func NewState(pageSize int) *State {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &State{filter: models.FilterAll, page: 1, total: 1, pageSize: pageSize}
}

func (s *State) Filter() models.TaskFilter { return s.filter }
func (s *State) Page() int { return s.page }
func (s *State) PageSize() int { return s.pageSize }

// SetFilter switches the filter. The page always goes back to 1.
func (s *State) SetFilter(f models.TaskFilter) {
	s.filter = f
	s.page = 1
}

// SetPage moves to page p. Requests outside [1, total pages] or for the
// current page are ignored. It reports whether the page changed.
func (s *State) SetPage(p int) bool {
	if p < 1 || p > s.total || p == s.page {
		return false
	}
	s.page = p
	return true
}

// NextPage and PrevPage step one page, within bounds.
func (s *State) NextPage() bool { return s.SetPage(s.page + 1) }
func (s *State) PrevPage() bool { return s.SetPage(s.page - 1) }

// Apply recomputes the total page count for tasks, clamps the current page
// to it and returns the visible page.
func (s *State) Apply(tasks []models.Task) Page {
	p := Paginate(tasks, s.filter, s.pageSize, s.page)
	s.total = p.Total
	s.page = p.Current
	return p
}
