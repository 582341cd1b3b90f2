// Package view derives the task list presentation state: free-text and
// attribute filters plus client-side pagination. Everything here is a
// pure function of the task slice and the view state; nothing talks to
// the network.
package view

import (
	"strings"

	"taskdash/internal/domain"
)

// DefaultPageSize matches the dashboard's task table.
const DefaultPageSize = 10

// Filters narrow the visible task list. Zero values match everything;
// Search is a case-insensitive substring match over title and
// description.
type Filters struct {
	Status   string
	Priority string
	Search   string
}

func (f Filters) Match(t domain.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

// State is the task view: current filters and pagination cursor.
type State struct {
	Filters  Filters
	Page     int
	PageSize int
}

func NewState() State {
	return State{Page: 1, PageSize: DefaultPageSize}
}

// WithFilters returns the state with new filters applied. Any filter
// change snaps the view back to the first page.
func (s State) WithFilters(f Filters) State {
	if f != s.Filters {
		s.Page = 1
	}
	s.Filters = f
	return s
}

// WithPage moves to the given page; out-of-range values are clamped by
// Apply against the filtered result.
func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// Page is one screen of the filtered task list.
type Page struct {
	Items      []domain.Task
	Page       int
	TotalPages int
	Total      int
}

// Filtered returns the tasks matching the filters, preserving order.
func Filtered(tasks []domain.Task, f Filters) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Apply filters and paginates. The requested page is clamped to the
// valid range so a shrinking result set never yields an empty screen
// while matches remain.
func (s State) Apply(tasks []domain.Task) Page {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	filtered := Filtered(tasks, s.Filters)
	total := len(filtered)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	page := s.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{
		Items:      filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}
