package workspace

import (
	"github.com/sadopc/dayboard/internal/filter"
	"github.com/sadopc/dayboard/internal/progress"
	"github.com/sadopc/dayboard/internal/store"
)

// WeeklyProgress aggregates the current week from the loaded collections.
func (w *Workspace) WeeklyProgress() progress.WeeklyProgressStats {
	return progress.Calculate(w.Entries(), w.Tasks(), w.Now())
}

// FilteredTasks applies the search query and tab to the tasks.
func (w *Workspace) FilteredTasks(query, tab string) []store.Task {
	return filter.Tasks(w.Tasks(), query, tab)
}

// FilteredRecurring applies the search query and tab to the active recurring
// tasks, using today's entries for the completed and pending tabs.
func (w *Workspace) FilteredRecurring(query, tab string) []store.RecurringTask {
	return filter.Recurring(w.RecurringTasks(), query, tab, w.CompletedToday)
}

// Tabs lists the filter tabs for the current categories.
func (w *Workspace) Tabs() []string {
	return filter.Tabs(w.CategoryNames())
}

// DaySummary counts today's scheduled tasks and active recurring tasks.
type DaySummary struct {
	Total     int
	Completed int
}

// TodaySummary summarizes what is due today.
func (w *Workspace) TodaySummary() DaySummary {
	today := w.Today()
	var s DaySummary
	for _, t := range w.TasksOn(today) {
		s.Total++
		if t.Completed {
			s.Completed++
		}
	}
	for _, r := range w.RecurringTasks() {
		if !r.Active {
			continue
		}
		s.Total++
		if w.CompletedOn(r.ID, today) {
			s.Completed++
		}
	}
	return s
}
