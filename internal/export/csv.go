package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sadopc/dayboard/internal/progress"
	"github.com/sadopc/dayboard/internal/store"
)

// ToCSV writes tasks to a new CSV file at path.
func ToCSV(tasks []store.Task, path string) error {
	return toFile(path, func(w io.Writer) error { return WriteTasksCSV(w, tasks) })
}

// WriteTasksCSV writes one row per task after a header row.
func WriteTasksCSV(out io.Writer, tasks []store.Task) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"ID", "Title", "Category", "Date", "Time", "Estimate (min)", "Estimate", "Completed", "Description"}); err != nil {
		return err
	}

	for _, t := range tasks {
		minutes := ""
		if t.TimeEstimate != nil {
			minutes = strconv.Itoa(*t.TimeEstimate)
		}
		row := []string{
			t.ID,
			t.Title,
			t.CategoryName(),
			t.Date,
			t.Time,
			minutes,
			formatEstimate(t.TimeEstimate),
			strconv.FormatBool(t.Completed),
			t.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteWeekCSV writes the per-day breakdown of a week, followed by a totals
// row.
func WriteWeekCSV(out io.Writer, stats progress.WeeklyProgressStats) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"Date", "Weekday", "Total", "Completed", "Rate (%)"}); err != nil {
		return err
	}
	for _, d := range stats.TasksByDay {
		row := []string{
			d.Date.Format(store.DateLayout),
			d.Date.Weekday().String(),
			strconv.Itoa(d.Total),
			strconv.Itoa(d.Completed),
			strconv.Itoa(progress.Rate(d.Completed, d.Total)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	total := []string{
		"total", "",
		strconv.Itoa(stats.TotalTasks),
		strconv.Itoa(stats.CompletedTasks),
		strconv.Itoa(stats.CompletionRate),
	}
	if err := w.Write(total); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func toFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// formatEstimate renders minutes as "1h30m", "45m" or "" when unset.
func formatEstimate(minutes *int) string {
	if minutes == nil {
		return ""
	}
	h := *minutes / 60
	m := *minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
