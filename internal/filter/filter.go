// Package filter selects the tasks and recurring tasks shown for a search
// query and tab.
package filter

import (
	"strings"

	"github.com/sadopc/dayboard/internal/store"
)

// Tab names. Category tabs are CategoryTab(name).
const (
	TabAll       = "all"
	TabCompleted = "completed"
	TabPending   = "pending"

	categoryPrefix = "category-"
)

// CategoryTab returns the tab value that selects category name.
func CategoryTab(name string) string {
	return categoryPrefix + name
}

// Tabs returns the fixed tabs followed by one tab per category.
func Tabs(categories []string) []string {
	tabs := []string{TabAll, TabPending, TabCompleted}
	for _, c := range categories {
		tabs = append(tabs, CategoryTab(c))
	}
	return tabs
}

// TabLabel is the display label for tab.
func TabLabel(tab string) string {
	if c, ok := strings.CutPrefix(tab, categoryPrefix); ok {
		return c
	}
	return tab
}

// MatchesQuery reports whether title or description contains query,
// ignoring case. An empty query matches everything.
func MatchesQuery(title, description, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(title), q) ||
		strings.Contains(strings.ToLower(description), q)
}

// matchesTab applies the tab predicate. Unknown tabs behave like TabAll.
func matchesTab(tab string, completed bool, category string) bool {
	switch tab {
	case TabCompleted:
		return completed
	case TabPending:
		return !completed
	}
	if c, ok := strings.CutPrefix(tab, categoryPrefix); ok {
		return category == c
	}
	return true
}

// Tasks returns the tasks that match query and tab, preserving order.
func Tasks(tasks []store.Task, query, tab string) []store.Task {
	var out []store.Task
	for _, t := range tasks {
		if !MatchesQuery(t.Title, t.Description, query) {
			continue
		}
		if !matchesTab(tab, t.Completed, t.CategoryName()) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Recurring returns the active recurring tasks that match query and tab.
// completedToday reports whether a task has a completed entry for today;
// it drives the completed and pending tabs.
func Recurring(tasks []store.RecurringTask, query, tab string, completedToday func(id string) bool) []store.RecurringTask {
	var out []store.RecurringTask
	for _, r := range tasks {
		if !r.Active {
			continue
		}
		if !MatchesQuery(r.Title, r.Description, query) {
			continue
		}
		done := completedToday != nil && completedToday(r.ID)
		if !matchesTab(tab, done, r.CategoryName()) {
			continue
		}
		out = append(out, r)
	}
	return out
}
