package progress

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/sadopc/dayboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday; the week runs from Sunday 2026-10-11 to Saturday 2026-10-17.
var now = time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

const (
	sunday   = "2026-10-11"
	monday   = "2026-10-12"
	tuesday  = "2026-10-13"
	thursday = "2026-10-15"
	saturday = "2026-10-17"
	lastSat  = "2026-10-10"
	nextSun  = "2026-10-18"
)

// ============================================================================
// Window
// ============================================================================

func TestWeekRange(t *testing.T) {
	start, end := WeekRange(now)
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, time.Saturday, end.Weekday())
}

func TestWeekRangeOnSundayAndSaturday(t *testing.T) {
	sun := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	start, _ := WeekRange(sun)
	assert.Equal(t, sun, start)

	sat := time.Date(2026, 10, 17, 23, 59, 59, 0, time.UTC)
	start, end := WeekRange(sat)
	assert.Equal(t, sun, start)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekRangeUsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 01:00 UTC on Sunday is still Saturday evening in BRT.
	at := time.Date(2026, 10, 11, 1, 0, 0, 0, time.UTC).In(loc)
	start, _ := WeekRange(at)
	assert.Equal(t, "2026-10-04", start.Format(store.DateLayout))
}

// ============================================================================
// Scenarios
// ============================================================================

func TestSingleCompletedEntryOnSunday(t *testing.T) {
	entries := []store.RecurringTaskEntry{{Date: sunday, Completed: true, Category: "Estudos"}}

	stats := Calculate(entries, nil, now)
	assert.Equal(t, 1, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 100, stats.CompletionRate)
	assert.Equal(t, []CategoryData{{Name: "Estudos", Value: 1}}, stats.CategoryData)
	require.NotNil(t, stats.MostProductiveDay)
	assert.Equal(t, sunday, stats.MostProductiveDay.Date.Format(store.DateLayout))
	assert.Len(t, stats.Entries, 1)
}

func TestSinglePendingTaskOnMonday(t *testing.T) {
	tasks := []store.Task{{Date: monday, Completed: false}}

	stats := Calculate(nil, tasks, now)
	assert.Equal(t, 1, stats.TotalTasks)
	assert.Equal(t, 0, stats.CompletedTasks)
	assert.Equal(t, 0, stats.CompletionRate)
	assert.Nil(t, stats.MostProductiveDay)
	assert.Empty(t, stats.CategoryData)
	assert.Equal(t, 1, stats.TasksByDay[1].Total)
}

func TestTasksOnDifferentDays(t *testing.T) {
	tasks := []store.Task{
		{Date: tuesday, Completed: true, Category: "Trabalho"},
		{Date: thursday, Completed: false, Category: "Trabalho"},
	}

	stats := Calculate(nil, tasks, now)
	assert.Equal(t, 1, stats.TasksByDay[2].Completed)
	assert.Equal(t, 1, stats.TasksByDay[4].Total)
	assert.Equal(t, 0, stats.TasksByDay[4].Completed)
	require.NotNil(t, stats.MostProductiveDay)
	assert.Equal(t, tuesday, stats.MostProductiveDay.Date.Format(store.DateLayout))
	assert.Equal(t, 50, stats.CompletionRate)
}

func TestEntryBeforeWeekStartExcluded(t *testing.T) {
	entries := []store.RecurringTaskEntry{
		{RecurringTaskID: "r1", Date: lastSat, Completed: true, Category: "Saúde"},
		{RecurringTaskID: "r1", Date: monday, Completed: true, Category: "Saúde"},
	}

	stats := Calculate(entries, nil, now)
	assert.Equal(t, 1, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, []CategoryData{{Name: "Saúde", Value: 1}}, stats.CategoryData)
	require.Len(t, stats.Entries, 1)
	assert.Equal(t, monday, stats.Entries[0].Date)
}

// ============================================================================
// Edge cases
// ============================================================================

func TestEmptyInput(t *testing.T) {
	stats := Calculate(nil, nil, now)
	assert.Equal(t, 0, stats.TotalTasks)
	assert.Equal(t, 0, stats.CompletionRate)
	assert.Len(t, stats.TasksByDay, DaysInWeek)
	assert.Nil(t, stats.MostProductiveDay)
	assert.Empty(t, stats.CategoryData)
	assert.NotNil(t, stats.Entries)
	assert.NotNil(t, stats.Tasks)
}

func TestWindowBoundsInclusive(t *testing.T) {
	tasks := []store.Task{
		{Date: sunday, Completed: true},
		{Date: saturday, Completed: true},
		{Date: nextSun, Completed: true},
	}
	stats := Calculate(nil, tasks, now)
	assert.Equal(t, 2, stats.TotalTasks)
	assert.Equal(t, 1, stats.TasksByDay[0].Completed)
	assert.Equal(t, 1, stats.TasksByDay[6].Completed)
}

func TestInvalidDatesExcludedAndCounted(t *testing.T) {
	tasks := []store.Task{
		{Date: "not-a-date", Completed: true},
		{Date: "", Completed: true},
		{Date: "2026-13-01", Completed: true},
		{Date: monday, Completed: true},
	}
	entries := []store.RecurringTaskEntry{{Date: "14/10/2026", Completed: true}}

	stats := Calculate(entries, tasks, now)
	assert.Equal(t, 1, stats.TotalTasks)
	assert.Equal(t, 4, stats.InvalidDates)
}

func TestMissingCategoryUsesSentinel(t *testing.T) {
	tasks := []store.Task{{Date: monday, Completed: true}}
	entries := []store.RecurringTaskEntry{{Date: monday, Completed: true, Category: "  "}}

	stats := Calculate(entries, tasks, now)
	assert.Equal(t, []CategoryData{{Name: store.NoCategory, Value: 2}}, stats.CategoryData)
}

func TestCategoryOrdering(t *testing.T) {
	tasks := []store.Task{
		{Date: monday, Completed: true, Category: "Casa"},
		{Date: monday, Completed: true, Category: "Estudos"},
		{Date: tuesday, Completed: true, Category: "Estudos"},
		{Date: tuesday, Completed: true, Category: "Academia"},
		{Date: tuesday, Completed: false, Category: "Lazer"},
	}

	stats := Calculate(nil, tasks, now)
	assert.Equal(t, []CategoryData{
		{Name: "Estudos", Value: 2},
		{Name: "Academia", Value: 1},
		{Name: "Casa", Value: 1},
	}, stats.CategoryData)
}

func TestMostProductiveDayFirstOnTie(t *testing.T) {
	tasks := []store.Task{
		{Date: tuesday, Completed: true},
		{Date: monday, Completed: true},
		{Date: thursday, Completed: true},
	}
	stats := Calculate(nil, tasks, now)
	require.NotNil(t, stats.MostProductiveDay)
	assert.Equal(t, monday, stats.MostProductiveDay.Date.Format(store.DateLayout))
}

func TestCompletionRateRounds(t *testing.T) {
	tasks := []store.Task{
		{Date: monday, Completed: true},
		{Date: monday, Completed: true},
		{Date: monday},
	}
	stats := Calculate(nil, tasks, now)
	assert.Equal(t, 67, stats.CompletionRate)

	assert.Equal(t, 0, Rate(0, 0))
	assert.Equal(t, 33, Rate(1, 3))
	assert.Equal(t, 100, Rate(4, 4))
}

func TestEntriesAndTasksSummedPerDay(t *testing.T) {
	entries := []store.RecurringTaskEntry{
		{Date: tuesday, Completed: true},
		{Date: tuesday, Completed: false},
	}
	tasks := []store.Task{{Date: tuesday, Completed: true}}

	stats := Calculate(entries, tasks, now)
	assert.Equal(t, DayTaskData{Date: time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), Total: 3, Completed: 2}, stats.TasksByDay[2])
}

// ============================================================================
// Properties
// ============================================================================

func randomDate(r *rand.Rand, inWeek bool) string {
	if inWeek {
		return time.Date(2026, 10, 11+r.Intn(7), 0, 0, 0, 0, time.UTC).Format(store.DateLayout)
	}
	offset := 1 + r.Intn(60)
	if r.Intn(2) == 0 {
		return time.Date(2026, 10, 10-offset+1, 0, 0, 0, 0, time.UTC).Format(store.DateLayout)
	}
	return time.Date(2026, 10, 17+offset, 0, 0, 0, 0, time.UTC).Format(store.DateLayout)
}

func randomItems(r *rand.Rand, n int, inWeek bool) ([]store.RecurringTaskEntry, []store.Task) {
	var entries []store.RecurringTaskEntry
	var tasks []store.Task
	for i := 0; i < n; i++ {
		cat := fmt.Sprintf("c%d", r.Intn(4))
		if r.Intn(2) == 0 {
			entries = append(entries, store.RecurringTaskEntry{Date: randomDate(r, inWeek), Completed: r.Intn(2) == 0, Category: cat})
		} else {
			tasks = append(tasks, store.Task{Date: randomDate(r, inWeek), Completed: r.Intn(2) == 0, Category: cat})
		}
	}
	return entries, tasks
}

func TestOutOfWindowItemsNeverAffectResult(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		inE, inT := randomItems(r, r.Intn(20), true)
		outE, outT := randomItems(r, r.Intn(20), false)

		base := Calculate(inE, inT, now)
		mixed := Calculate(append(append([]store.RecurringTaskEntry{}, outE...), inE...), append(append([]store.Task{}, inT...), outT...), now)

		assert.Equal(t, base.TotalTasks, mixed.TotalTasks)
		assert.Equal(t, base.CompletedTasks, mixed.CompletedTasks)
		assert.Equal(t, base.TasksByDay, mixed.TasksByDay)
		assert.Equal(t, base.CategoryData, mixed.CategoryData)
	}
}

func TestDayBreakdownInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		entries, tasks := randomItems(r, r.Intn(30), r.Intn(3) > 0)
		stats := Calculate(entries, tasks, now)

		require.Len(t, stats.TasksByDay, DaysInWeek)
		assert.Equal(t, time.Sunday, stats.TasksByDay[0].Date.Weekday())

		sum := 0
		for j, d := range stats.TasksByDay {
			sum += d.Completed
			if j > 0 {
				assert.True(t, d.Date.After(stats.TasksByDay[j-1].Date))
			}
		}
		assert.Equal(t, stats.CompletedTasks, sum)
		assert.GreaterOrEqual(t, stats.CompletionRate, 0)
		assert.LessOrEqual(t, stats.CompletionRate, 100)

		if sum == 0 {
			assert.Nil(t, stats.MostProductiveDay)
		} else {
			require.NotNil(t, stats.MostProductiveDay)
			for _, d := range stats.TasksByDay {
				assert.LessOrEqual(t, d.Completed, stats.MostProductiveDay.Completed)
			}
		}
	}
}
