package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/dayboard/internal/progress"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func sampleTasks() []store.Task {
	return []store.Task{
		{
			ID:           "t1",
			Title:        "Estudar Go",
			Description:  "canais e select",
			Category:     "Estudos",
			Date:         "2026-10-13",
			Time:         "08:30",
			TimeEstimate: intPtr(90),
			Completed:    true,
		},
		{
			ID:    "t2",
			Title: "Pagar contas",
			Date:  "2026-10-14",
		},
		{
			ID:           "t3",
			Title:        "Revisar",
			Category:     "Trabalho",
			Date:         "2026-10-20",
			TimeEstimate: intPtr(45),
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, ToCSV(sampleTasks(), path))

	records := readCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"ID", "Title", "Category", "Date", "Time", "Estimate (min)", "Estimate", "Completed", "Description"}, records[0])
	assert.Equal(t, []string{"t1", "Estudar Go", "Estudos", "2026-10-13", "08:30", "90", "1h30m", "true", "canais e select"}, records[1])

	// Missing category and estimate.
	assert.Equal(t, store.NoCategory, records[2][2])
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "false", records[2][7])
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, ToCSV(nil, path))
	assert.Len(t, readCSV(t, path), 1)
}

func TestToCSVBadPath(t *testing.T) {
	assert.Error(t, ToCSV(nil, "/nonexistent/dir/file.csv"))
}

func TestToCSVSpecialCharacters(t *testing.T) {
	tasks := []store.Task{{
		ID:          "t1",
		Title:       `Task "Special"`,
		Description: `notes with "quotes" and, commas`,
		Date:        "2026-10-14",
	}}
	path := filepath.Join(t.TempDir(), "special.csv")
	require.NoError(t, ToCSV(tasks, path))

	records := readCSV(t, path)
	assert.Equal(t, `Task "Special"`, records[1][1])
	assert.Equal(t, `notes with "quotes" and, commas`, records[1][8])
}

func TestWriteWeekCSV(t *testing.T) {
	stats := progress.Calculate(nil, sampleTasks(), now)

	var buf bytes.Buffer
	require.NoError(t, WriteWeekCSV(&buf, stats))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+progress.DaysInWeek+1)
	assert.Equal(t, []string{"2026-10-11", "Sunday", "0", "0", "0"}, records[1])
	assert.Equal(t, []string{"2026-10-13", "Tuesday", "1", "1", "100"}, records[3])
	assert.Equal(t, []string{"total", "", "2", "1", "50"}, records[len(records)-1])
}

// ============================================================
// JSON
// ============================================================

func TestWriteJSON(t *testing.T) {
	stats := progress.Calculate(nil, sampleTasks(), now)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleTasks(), &stats, now))

	var result jsonExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

	assert.Equal(t, "2026-10-14T09:00:00Z", result.ExportedAt)
	assert.Equal(t, 3, result.Count)
	require.Len(t, result.Tasks, 3)

	first := result.Tasks[0]
	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, "Estudos", first.Category)
	require.NotNil(t, first.TimeEstimate)
	assert.Equal(t, 90, *first.TimeEstimate)
	assert.Equal(t, "1h30m", first.Estimate)
	assert.Nil(t, result.Tasks[1].TimeEstimate)

	require.NotNil(t, result.Week)
	assert.Equal(t, "2026-10-11", result.Week.Start)
	assert.Equal(t, "2026-10-17", result.Week.End)
	assert.Equal(t, 2, result.Week.TotalTasks)
	assert.Equal(t, 50, result.Week.CompletionRate)
	assert.Len(t, result.Week.Days, progress.DaysInWeek)
	assert.Equal(t, "2026-10-13", result.Week.MostProductiveDay)
	assert.Equal(t, []progress.CategoryData{{Name: "Estudos", Value: 1}}, result.Week.Categories)
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, ToJSON(nil, nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var result jsonExport
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Tasks)
	assert.Nil(t, result.Week)
	assert.Contains(t, string(data), `"tasks": []`)

	_, err = time.Parse(time.RFC3339, result.ExportedAt)
	assert.NoError(t, err)
}

func TestToJSONBadPath(t *testing.T) {
	assert.Error(t, ToJSON(nil, nil, "/nonexistent/dir/file.json"))
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	require.NoError(t, ToJSON(sampleTasks(), nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  "))
}

func TestWriteWeekJSONEmptyWeek(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWeekJSON(&buf, progress.Calculate(nil, nil, now)))

	var week jsonWeek
	require.NoError(t, json.Unmarshal(buf.Bytes(), &week))
	assert.Equal(t, 0, week.CompletionRate)
	assert.Empty(t, week.MostProductiveDay)
	assert.NotContains(t, buf.String(), "most_productive_day")
	assert.Contains(t, buf.String(), `"categories": []`)
}

// ============================================================
// formatEstimate (internal helper)
// ============================================================

func TestFormatEstimate(t *testing.T) {
	tests := []struct {
		minutes *int
		want    string
	}{
		{nil, ""},
		{intPtr(0), "0m"},
		{intPtr(45), "45m"},
		{intPtr(60), "1h"},
		{intPtr(90), "1h30m"},
		{intPtr(125), "2h05m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatEstimate(tt.minutes))
	}
}
