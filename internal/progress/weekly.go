// Package progress aggregates tasks and recurring task entries into weekly
// statistics.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/sadopc/dayboard/internal/store"
)

// DaysInWeek is the length of the aggregation window.
const DaysInWeek = 7

// DayTaskData counts the items scheduled on one calendar day.
type DayTaskData struct {
	Date      time.Time `json:"date"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
}

// CategoryData is the number of completed items in one category.
type CategoryData struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// WeeklyProgressStats is the result of Calculate.
type WeeklyProgressStats struct {
	WeekStart time.Time                  `json:"week_start"`
	WeekEnd   time.Time                  `json:"week_end"`
	Entries   []store.RecurringTaskEntry `json:"entries"`
	Tasks     []store.Task               `json:"tasks"`

	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	CompletionRate int `json:"completion_rate"`

	// TasksByDay always holds seven days, Sunday first.
	TasksByDay        []DayTaskData  `json:"tasks_by_day"`
	CategoryData      []CategoryData `json:"category_data"`
	MostProductiveDay *DayTaskData   `json:"most_productive_day,omitempty"`

	// InvalidDates counts items whose date could not be parsed. They are
	// left out of every aggregate.
	InvalidDates int `json:"invalid_dates"`
}

// WeekRange returns midnight of the Sunday at or before now and midnight of
// the following Saturday, both in now's location.
func WeekRange(now time.Time) (start, end time.Time) {
	day := startOfDay(now)
	start = day.AddDate(0, 0, -int(day.Weekday()))
	end = start.AddDate(0, 0, DaysInWeek-1)
	return start, end
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayIndex returns the offset of date from start in calendar days, or -1 when
// date falls outside the week. ok is false when date does not parse.
func dayIndex(date string, start time.Time) (idx int, ok bool) {
	d, err := time.ParseInLocation(store.DateLayout, date, start.Location())
	if err != nil {
		return -1, false
	}
	for i := 0; i < DaysInWeek; i++ {
		if sameDay(d, start.AddDate(0, 0, i)) {
			return i, true
		}
	}
	return -1, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Calculate computes the statistics for the calendar week containing now.
// It does not modify its inputs.
func Calculate(entries []store.RecurringTaskEntry, tasks []store.Task, now time.Time) WeeklyProgressStats {
	start, end := WeekRange(now)
	stats := WeeklyProgressStats{
		WeekStart:  start,
		WeekEnd:    end,
		Entries:    []store.RecurringTaskEntry{},
		Tasks:      []store.Task{},
		TasksByDay: make([]DayTaskData, DaysInWeek),
	}
	for i := range stats.TasksByDay {
		stats.TasksByDay[i].Date = start.AddDate(0, 0, i)
	}

	counts := map[string]int{}
	add := func(idx int, completed bool, category string) {
		day := &stats.TasksByDay[idx]
		day.Total++
		stats.TotalTasks++
		if completed {
			day.Completed++
			stats.CompletedTasks++
			counts[category]++
		}
	}

	for _, e := range entries {
		idx, ok := dayIndex(e.Date, start)
		if !ok {
			stats.InvalidDates++
			continue
		}
		if idx < 0 {
			continue
		}
		stats.Entries = append(stats.Entries, e)
		add(idx, e.Completed, e.CategoryName())
	}
	for _, t := range tasks {
		idx, ok := dayIndex(t.Date, start)
		if !ok {
			stats.InvalidDates++
			continue
		}
		if idx < 0 {
			continue
		}
		stats.Tasks = append(stats.Tasks, t)
		add(idx, t.Completed, t.CategoryName())
	}

	stats.CompletionRate = Rate(stats.CompletedTasks, stats.TotalTasks)
	stats.CategoryData = sortCategories(counts)
	stats.MostProductiveDay = mostProductive(stats.TasksByDay)
	return stats
}

// Rate is completed/total as a rounded percentage, 0 when total is 0.
func Rate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func sortCategories(counts map[string]int) []CategoryData {
	out := make([]CategoryData, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryData{Name: name, Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func mostProductive(days []DayTaskData) *DayTaskData {
	best := -1
	for i, d := range days {
		if best < 0 || d.Completed > days[best].Completed {
			best = i
		}
	}
	if best < 0 || days[best].Completed == 0 {
		return nil
	}
	day := days[best]
	return &day
}
