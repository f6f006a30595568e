package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/dayboard/internal/progress"
	"github.com/sadopc/dayboard/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Tasks      []jsonTask `json:"tasks"`
	Week       *jsonWeek  `json:"week,omitempty"`
}

type jsonTask struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category"`
	Date         string `json:"date"`
	Time         string `json:"time,omitempty"`
	TimeEstimate *int   `json:"time_estimate,omitempty"`
	Estimate     string `json:"estimate,omitempty"`
	Completed    bool   `json:"completed"`
}

type jsonWeek struct {
	Start             string                  `json:"start"`
	End               string                  `json:"end"`
	TotalTasks        int                     `json:"total_tasks"`
	CompletedTasks    int                     `json:"completed_tasks"`
	CompletionRate    int                     `json:"completion_rate"`
	Days              []jsonDay               `json:"days"`
	Categories        []progress.CategoryData `json:"categories"`
	MostProductiveDay string                  `json:"most_productive_day,omitempty"`
	InvalidDates      int                     `json:"invalid_dates,omitempty"`
}

type jsonDay struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// ToJSON writes tasks and, when stats is non-nil, the weekly report to a new
// JSON file at path.
func ToJSON(tasks []store.Task, stats *progress.WeeklyProgressStats, path string) error {
	return toFile(path, func(w io.Writer) error { return WriteJSON(w, tasks, stats, time.Now()) })
}

// WriteJSON writes the export document stamped with exportedAt.
func WriteJSON(w io.Writer, tasks []store.Task, stats *progress.WeeklyProgressStats, exportedAt time.Time) error {
	export := jsonExport{
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
		Count:      len(tasks),
		Tasks:      []jsonTask{},
	}

	for _, t := range tasks {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			Category:     t.CategoryName(),
			Date:         t.Date,
			Time:         t.Time,
			TimeEstimate: t.TimeEstimate,
			Estimate:     formatEstimate(t.TimeEstimate),
			Completed:    t.Completed,
		})
	}
	if stats != nil {
		export.Week = weekReport(*stats)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteWeekJSON writes only the weekly report.
func WriteWeekJSON(w io.Writer, stats progress.WeeklyProgressStats) error {
	data, err := json.MarshalIndent(weekReport(stats), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func weekReport(stats progress.WeeklyProgressStats) *jsonWeek {
	week := &jsonWeek{
		Start:          stats.WeekStart.Format(store.DateLayout),
		End:            stats.WeekEnd.Format(store.DateLayout),
		TotalTasks:     stats.TotalTasks,
		CompletedTasks: stats.CompletedTasks,
		CompletionRate: stats.CompletionRate,
		Categories:     stats.CategoryData,
		InvalidDates:   stats.InvalidDates,
	}
	if week.Categories == nil {
		week.Categories = []progress.CategoryData{}
	}
	for _, d := range stats.TasksByDay {
		week.Days = append(week.Days, jsonDay{
			Date:      d.Date.Format(store.DateLayout),
			Weekday:   d.Date.Weekday().String(),
			Total:     d.Total,
			Completed: d.Completed,
		})
	}
	if stats.MostProductiveDay != nil {
		week.MostProductiveDay = stats.MostProductiveDay.Date.Format(store.DateLayout)
	}
	return week
}
