package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/dayboard/internal/cache"
	"github.com/sadopc/dayboard/internal/notify"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/sadopc/dayboard/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday; the week runs Sunday 2026-10-11 to Saturday 2026-10-17.
var fixedNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func newTestWorkspace(t *testing.T) (*workspace.Workspace, *store.Store) {
	t.Helper()
	ctx := context.Background()

	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	kv, err := cache.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	u, err := s.EnsureUser(ctx, "ana@example.com")
	require.NoError(t, err)

	ws := workspace.New(s, kv, notify.NewBus(), workspace.Options{
		Now: func() time.Time { return fixedNow },
	})
	require.NoError(t, ws.SwitchUser(ctx, u))
	return ws, s
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

// run executes cmd and fails the test if it produced nothing.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.NotNil(t, msg)
	return msg
}

// ============================================================
// Today view
// ============================================================

func TestTodayListsTasksAndRecurring(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)

	_, err := ws.AddTask(ctx, store.Task{Title: "Late", Time: "18:00"})
	require.NoError(t, err)
	_, err = ws.AddTask(ctx, store.Task{Title: "Early", Time: "08:00"})
	require.NoError(t, err)
	_, err = ws.AddTask(ctx, store.Task{Title: "Tomorrow", Date: "2026-10-15"})
	require.NoError(t, err)
	_, err = ws.AddRecurring(ctx, store.RecurringTask{Title: "Meditate"})
	require.NoError(t, err)

	m := newTodayModel(ctx, ws, s)
	m.setSize(100, 30)
	m, _ = m.update(run(t, m.refresh()))

	require.Len(t, m.items, 3)
	assert.Equal(t, "Early", m.items[0].title)
	assert.Equal(t, "Late", m.items[1].title)
	assert.True(t, m.items[2].recurring)
	assert.Equal(t, 5, m.goal)
	assert.Contains(t, m.view(), "Meditate")
}

func TestTodayToggleTask(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	task, err := ws.AddTask(ctx, store.Task{Title: "Write report"})
	require.NoError(t, err)

	m := newTodayModel(ctx, ws, s)
	m, _ = m.update(run(t, m.refresh()))

	_, cmd := m.update(spaceKey)
	msg := run(t, cmd)
	changed, ok := msg.(dataChangedMsg)
	require.True(t, ok)
	assert.NoError(t, changed.err)

	got, ok := ws.Task(task.ID)
	require.True(t, ok)
	assert.True(t, got.Completed)
}

func TestTodayToggleRecurring(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	r, err := ws.AddRecurring(ctx, store.RecurringTask{Title: "Meditate"})
	require.NoError(t, err)

	m := newTodayModel(ctx, ws, s)
	m, _ = m.update(run(t, m.refresh()))
	_, cmd := m.update(spaceKey)
	run(t, cmd)

	assert.True(t, ws.CompletedToday(r.ID))
}

func TestTodayHidesCompletedWhenPreferred(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	task, err := ws.AddTask(ctx, store.Task{Title: "Done already"})
	require.NoError(t, err)
	_, err = ws.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	require.NoError(t, s.SetSetting(ctx, store.SettingShowCompleted, "false"))

	m := newTodayModel(ctx, ws, s)
	m.setSize(100, 30)
	m, _ = m.update(run(t, m.refresh()))

	assert.Len(t, m.items, 1)
	assert.Empty(t, m.visible())
	assert.Contains(t, m.view(), "Everything is done")
}

// ============================================================
// Tasks view
// ============================================================

func TestTasksFilterCycling(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	_, err := ws.AddCategory(ctx, "Work", "")
	require.NoError(t, err)
	_, err = ws.AddTask(ctx, store.Task{Title: "Ship", Category: "Work"})
	require.NoError(t, err)
	done, err := ws.AddTask(ctx, store.Task{Title: "Groceries"})
	require.NoError(t, err)
	_, err = ws.ToggleTask(ctx, done.ID)
	require.NoError(t, err)

	m := newTasksModel(ctx, ws, s)
	m.setSize(100, 30)
	m, _ = m.update(run(t, m.refresh()))

	assert.Equal(t, []string{"all", "pending", "completed", "category-Work"}, m.tabs)
	assert.Len(t, m.visible(), 2)

	m, _ = m.update(runeKey("f"))
	assert.Equal(t, "pending", m.currentTab())
	require.Len(t, m.visible(), 1)
	assert.Equal(t, "Ship", m.visible()[0].Title)

	m, _ = m.update(runeKey("f"))
	assert.Equal(t, "completed", m.currentTab())
	require.Len(t, m.visible(), 1)
	assert.Equal(t, "Groceries", m.visible()[0].Title)

	m, _ = m.update(runeKey("f"))
	assert.Equal(t, "category-Work", m.currentTab())
	assert.Len(t, m.visible(), 1)

	m, _ = m.update(runeKey("f"))
	assert.Equal(t, "all", m.currentTab())
}

func TestTasksTabSurvivesRefresh(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	m := newTasksModel(ctx, ws, s)
	m, _ = m.update(run(t, m.refresh()))
	m, _ = m.update(runeKey("f"))
	require.Equal(t, "pending", m.currentTab())

	m, _ = m.update(run(t, m.refresh()))
	assert.Equal(t, "pending", m.currentTab())
}

func TestTasksSearch(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	_, err := ws.AddTask(ctx, store.Task{Title: "Buy milk"})
	require.NoError(t, err)
	_, err = ws.AddTask(ctx, store.Task{Title: "Call mom", Description: "about the milk run"})
	require.NoError(t, err)
	_, err = ws.AddTask(ctx, store.Task{Title: "Gym"})
	require.NoError(t, err)

	m := newTasksModel(ctx, ws, s)
	m, _ = m.update(run(t, m.refresh()))

	m, _ = m.update(runeKey("/"))
	assert.True(t, m.inputActive())

	for _, r := range "MILK" {
		m, _ = m.update(runeKey(string(r)))
	}
	assert.Len(t, m.visible(), 2)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.inputActive())
	assert.Len(t, m.visible(), 2)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.visible(), 3)
}

func TestTasksNewOpensForm(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	m := newTasksModel(ctx, ws, s)
	m.setSize(100, 30)
	m, _ = m.update(run(t, m.refresh()))

	m, _ = m.update(runeKey("n"))
	assert.True(t, m.formActive)
	assert.Equal(t, "new", m.formType)
	assert.Equal(t, ws.Today(), *m.formDate)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.formActive)
}

func TestCategoryOptionsKeepsCurrent(t *testing.T) {
	opts := categoryOptions([]string{"Work"}, "Gone")
	require.Len(t, opts, 3)
	assert.Equal(t, "", opts[0].Value)
	assert.Equal(t, "Work", opts[1].Value)
	assert.Equal(t, "Gone", opts[2].Value)

	assert.Len(t, categoryOptions([]string{"Work"}, "Work"), 2)
}

// ============================================================
// Recurring view
// ============================================================

func TestRecurringWeekGrid(t *testing.T) {
	ctx := context.Background()
	ws, _ := newTestWorkspace(t)
	r, err := ws.AddRecurring(ctx, store.RecurringTask{Title: "Read"})
	require.NoError(t, err)
	_, err = ws.SetRecurringDone(ctx, r.ID, "2026-10-12", true, "")
	require.NoError(t, err)
	_, err = ws.CompleteToday(ctx, r.ID, "chapter 3")
	require.NoError(t, err)

	m := newRecurringModel(ctx, ws)
	m.setSize(100, 30)
	m, _ = m.update(run(t, m.refresh()))

	require.Len(t, m.rows, 1)
	assert.Equal(t, [7]bool{false, true, false, true, false, false, false}, m.rows[0].week)
	assert.True(t, m.rows[0].today)
	assert.Equal(t, 3, m.todayIdx)
	assert.Contains(t, m.view(), "Read")
}

func TestRecurringPauseKey(t *testing.T) {
	ctx := context.Background()
	ws, _ := newTestWorkspace(t)
	r, err := ws.AddRecurring(ctx, store.RecurringTask{Title: "Read"})
	require.NoError(t, err)

	m := newRecurringModel(ctx, ws)
	m, _ = m.update(run(t, m.refresh()))
	_, cmd := m.update(runeKey("p"))
	run(t, cmd)

	got, ok := ws.Recurring(r.ID)
	require.True(t, ok)
	assert.False(t, got.Active)
}

// ============================================================
// Week view
// ============================================================

func TestWeekViewShowsRate(t *testing.T) {
	ctx := context.Background()
	ws, _ := newTestWorkspace(t)
	a, err := ws.AddTask(ctx, store.Task{Title: "A", Date: "2026-10-12"})
	require.NoError(t, err)
	_, err = ws.AddTask(ctx, store.Task{Title: "B", Date: "2026-10-13"})
	require.NoError(t, err)
	_, err = ws.ToggleTask(ctx, a.ID)
	require.NoError(t, err)

	m := newWeekModel(ctx, ws)
	m.setSize(100, 40)
	m, _ = m.update(run(t, m.refresh()))

	assert.Equal(t, 2, m.stats.TotalTasks)
	assert.Equal(t, 50, m.stats.CompletionRate)
	out := m.view()
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "This week")
	assert.Contains(t, out, "Monday")
}

func TestWeekNavigation(t *testing.T) {
	ctx := context.Background()
	ws, _ := newTestWorkspace(t)
	m := newWeekModel(ctx, ws)
	m.setSize(100, 40)

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.offset)
	m, _ = m.update(run(t, cmd))
	assert.Equal(t, time.Date(2026, time.October, 4, 0, 0, 0, 0, time.UTC), m.stats.WeekStart)
	assert.Contains(t, m.view(), "Last week")

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.offset)
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.offset)
}

// ============================================================
// Journal view
// ============================================================

func TestJournalMarkdownFallback(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	m := newJournalModel(context.Background(), ws)
	assert.Equal(t, "**plain**", m.renderMarkdown("**plain**"))

	m.setSize(100, 30)
	assert.NotEmpty(t, m.renderMarkdown("# Title\n\nsome *text*"))
}

func TestJournalListsEntries(t *testing.T) {
	ctx := context.Background()
	ws, _ := newTestWorkspace(t)
	_, err := ws.AddAchievement(ctx, store.Achievement{Title: "Shipped v1"})
	require.NoError(t, err)
	_, err = ws.AddThought(ctx, store.Thought{Content: "calm day", Mood: "calm"})
	require.NoError(t, err)

	m := newJournalModel(ctx, ws)
	m.setSize(100, 40)
	m, _ = m.update(run(t, m.refresh()))

	require.Len(t, m.achievements, 1)
	require.Len(t, m.thoughts, 1)
	assert.Contains(t, m.view(), "Shipped v1")

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, paneThoughts, m.pane)
	_, cmd := m.update(runeKey("d"))
	run(t, cmd)
	assert.Empty(t, ws.Thoughts())
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsListsCategories(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	_, err := ws.AddCategory(ctx, "Work", "#123456")
	require.NoError(t, err)

	m := newSettingsModel(ctx, ws, s, nil)
	m.setSize(100, 40)
	m, _ = m.update(run(t, m.refresh()))

	require.Len(t, m.categories, 1)
	assert.Equal(t, "#123456", m.colors["Work"])
	out := m.view()
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "#123456")
	assert.Contains(t, out, "daily_goal")
	assert.Contains(t, out, "Recent Activity")
	assert.Contains(t, out, "Category created")
}

func TestSettingsDeleteCategory(t *testing.T) {
	ctx := context.Background()
	ws, s := newTestWorkspace(t)
	_, err := ws.AddCategory(ctx, "Work", "")
	require.NoError(t, err)

	m := newSettingsModel(ctx, ws, s, nil)
	m, _ = m.update(run(t, m.refresh()))
	_, cmd := m.update(runeKey("d"))
	run(t, cmd)

	assert.Empty(t, ws.Categories())
}

func TestSettingsColorOptions(t *testing.T) {
	ws, s := newTestWorkspace(t)
	m := newSettingsModel(context.Background(), ws, s, []string{"#111111", "#222222"})

	opts := m.colorOptions("")
	require.Len(t, opts, 3)
	assert.Equal(t, "", opts[0].Value)

	opts = m.colorOptions("#ABCDEF")
	require.Len(t, opts, 3)
	assert.Equal(t, "#ABCDEF", opts[2].Value)
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{store.SettingDefaultCategory, "", store.NoCategory},
		{store.SettingDefaultCategory, "Work", "Work"},
		{store.SettingShowCompleted, "true", "yes"},
		{store.SettingShowCompleted, "false", "no"},
		{store.SettingShowCompleted, "maybe", "maybe"},
		{store.SettingDailyGoal, "5", "5 items"},
		{"unknown", "x", "x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSettingValue(tt.key, tt.value), tt.key+"="+tt.value)
	}
}

func TestValidGoal(t *testing.T) {
	assert.NoError(t, validGoal("3"))
	assert.NoError(t, validGoal(" 0 "))
	assert.Error(t, validGoal("-1"))
	assert.Error(t, validGoal("many"))
}

// ============================================================
// App
// ============================================================

func newTestApp(t *testing.T) (App, *workspace.Workspace) {
	t.Helper()
	ws, s := newTestWorkspace(t)
	return NewApp(context.Background(), ws, s, Options{ExportDir: t.TempDir()}), ws
}

func TestViewNames(t *testing.T) {
	assert.Equal(t, []string{"Today", "Tasks", "Recurring", "Week", "Journal", "Settings"}, viewNames)
	assert.Equal(t, viewState(5), viewSettings)
}

func TestAppLoadingState(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, "Loading...", app.View())
}

func TestAppHeaderContainsTabsAndUser(t *testing.T) {
	app, _ := newTestApp(t)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	header := m.(App).renderHeader()

	assert.Contains(t, header, "dayboard")
	assert.Contains(t, header, "ana@example.com")
	for _, name := range viewNames {
		assert.Contains(t, header, name)
	}
}

func TestAppTabSwitching(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, viewToday, app.activeView)

	m, cmd := app.Update(runeKey("4"))
	assert.Equal(t, viewWeek, m.(App).activeView)
	assert.NotNil(t, cmd)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, viewJournal, m.(App).activeView)

	m, _ = m.Update(runeKey("6"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, viewToday, m.(App).activeView)
}

func TestAppSearchCapturesKeys(t *testing.T) {
	app, _ := newTestApp(t)
	m, _ := app.Update(runeKey("2"))
	m, _ = m.Update(runeKey("/"))
	require.True(t, m.(App).isInputActive())

	// "q" is typed into the search box instead of quitting.
	m, _ = m.Update(runeKey("q"))
	assert.Equal(t, "q", m.(App).tasks.search.Value())
	assert.Equal(t, viewTasks, m.(App).activeView)
}

func TestAppRoutesDataToOwner(t *testing.T) {
	app, ws := newTestApp(t)
	_, err := ws.AddTask(context.Background(), store.Task{Title: "Routed"})
	require.NoError(t, err)

	// The tasks view is not active but still receives its data.
	m, _ := app.Update(run(t, app.tasks.refresh()))
	require.Len(t, m.(App).tasks.all, 1)
	assert.Equal(t, "Routed", m.(App).tasks.all[0].Title)
}

func TestAppDataChangedRefreshes(t *testing.T) {
	app, _ := newTestApp(t)
	_, cmd := app.Update(dataChangedMsg{})
	assert.NotNil(t, cmd)
}

func TestAppNotificationsReachFooter(t *testing.T) {
	app, ws := newTestApp(t)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 160, Height: 40})

	ws.Bus().Successf("Task created", "Write report")
	msg := run(t, waitForNotification(app.notifications))
	n, ok := msg.(notificationMsg)
	require.True(t, ok)
	assert.Equal(t, "Task created", n.Title)

	m, cmd := m.Update(msg)
	assert.NotNil(t, cmd, "keeps listening for the next notification")
	assert.Contains(t, m.(App).renderFooter(), "Task created")
}

func TestAppBusNeverBlocks(t *testing.T) {
	app, ws := newTestApp(t)
	for i := 0; i < notificationBuffer*2; i++ {
		ws.Bus().Infof("n", "%d", i)
	}
	assert.Len(t, app.notifications, notificationBuffer)
}

func TestAppExportPicker(t *testing.T) {
	app, _ := newTestApp(t)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(runeKey("x"))
	require.True(t, m.(App).exportPicking)
	assert.Contains(t, m.View(), "Export Tasks")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.(App).exportPicking)
}

func TestAppExportWritesFiles(t *testing.T) {
	app, ws := newTestApp(t)
	_, err := ws.AddTask(context.Background(), store.Task{Title: "Export me"})
	require.NoError(t, err)

	for format, name := range []string{"dayboard-export-2026-10-14.csv", "dayboard-export-2026-10-14.json"} {
		msg := run(t, app.doExport(format))
		done, ok := msg.(exportDoneMsg)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(app.opts.ExportDir, name), done.path)

		data, err := os.ReadFile(done.path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Export me")
	}
	assert.Equal(t, notify.LevelSuccess, ws.Bus().Recent(1)[0].Level)
}

func TestAppExportFailureNotifies(t *testing.T) {
	ws, s := newTestWorkspace(t)
	app := NewApp(context.Background(), ws, s, Options{ExportDir: filepath.Join(t.TempDir(), "missing")})

	assert.Nil(t, app.doExport(0)())
	assert.Equal(t, notify.LevelError, ws.Bus().Recent(1)[0].Level)
}

// ============================================================
// Helpers
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	assert.NotEmpty(t, keys.ShortHelp())
	groups := keys.FullHelp()
	assert.Len(t, groups, 5)
	for _, g := range groups {
		for _, b := range g {
			assert.NotEmpty(t, b.Help().Key)
		}
	}
	assert.True(t, key.Matches(runeKey("x"), keys.Export))
}

func TestParseEstimate(t *testing.T) {
	n, err := parseEstimate("")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = parseEstimate(" 45 ")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 45, *n)

	_, err = parseEstimate("-5")
	assert.Error(t, err)
	_, err = parseEstimate("1h")
	assert.Error(t, err)
}

func TestFormatEstimate(t *testing.T) {
	n := 45
	assert.Equal(t, "45m", formatEstimate(&n))
	n = 90
	assert.Equal(t, "1.5h", formatEstimate(&n))
	assert.Equal(t, "", formatEstimate(nil))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validDate("2026-10-14"))
	assert.Error(t, validDate("14/10/2026"))
	assert.NoError(t, validTime(""))
	assert.NoError(t, validTime("09:30"))
	assert.Error(t, validTime("9h"))
	assert.Error(t, notEmpty("   "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Equal(t, "", truncate("hello", 0))
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(3, 0))
	assert.Equal(t, 1, clampCursor(3, 2))
	assert.Equal(t, 1, clampCursor(1, 5))
}

func TestLevelStyleColors(t *testing.T) {
	assert.Equal(t, colorDone, levelStyle(notify.LevelSuccess).GetForeground())
	assert.Equal(t, colorWarn, levelStyle(notify.LevelWarning).GetForeground())
	assert.Equal(t, colorDanger, levelStyle(notify.LevelError).GetForeground())
	assert.Equal(t, colorFocus, levelStyle(notify.LevelInfo).GetForeground())
}

func TestProgressStylesShareCompletionColors(t *testing.T) {
	assert.Equal(t, successStyle.GetForeground(), doneBarStyle.GetForeground())
	assert.NotEqual(t, doneBarStyle.GetForeground(), pendingBarStyle.GetForeground())
	assert.Contains(t, checkbox(true), "[x]")
	assert.Contains(t, checkbox(false), "[ ]")
}
