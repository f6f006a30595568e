package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayboard/internal/export"
	"github.com/sadopc/dayboard/internal/notify"
	"github.com/sadopc/dayboard/internal/workspace"
)

const notificationBuffer = 32

// Options configures the TUI.
type Options struct {
	ExportDir string   // defaults to the home directory
	Palette   []string // colors offered when creating categories
}

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	ws     *workspace.Workspace
	opts   Options
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today     todayModel
	tasks     tasksModel
	recurring recurringModel
	week      weekModel
	journal   journalModel
	settings  settingsModel

	help          help.Model
	notifications chan notify.Notification
	last          *notify.Notification
}

func NewApp(ctx context.Context, ws *workspace.Workspace, prefs Preferences, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}

	// Publish runs inside commands; never block it on a slow UI.
	ch := make(chan notify.Notification, notificationBuffer)
	ws.Bus().Subscribe(func(n notify.Notification) {
		select {
		case ch <- n:
		default:
		}
	})

	return App{
		ctx:           ctx,
		ws:            ws,
		opts:          opts,
		activeView:    viewToday,
		today:         newTodayModel(ctx, ws, prefs),
		tasks:         newTasksModel(ctx, ws, prefs),
		recurring:     newRecurringModel(ctx, ws),
		week:          newWeekModel(ctx, ws),
		journal:       newJournalModel(ctx, ws),
		settings:      newSettingsModel(ctx, ws, prefs, opts.Palette),
		help:          h,
		notifications: ch,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.refreshAll(),
		waitForNotification(a.notifications),
	)
}

func (a App) refreshAll() tea.Cmd {
	return tea.Batch(
		a.today.refresh(),
		a.tasks.refresh(),
		a.recurring.refresh(),
		a.week.refresh(),
		a.journal.refresh(),
		a.settings.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.recurring.setSize(a.width, contentHeight)
		a.week.setSize(a.width, contentHeight)
		a.journal.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isInputActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewTasks)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewRecurring)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewWeek)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewJournal)
		case key.Matches(msg, keys.Tab6):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case dataChangedMsg:
		return a, a.refreshAll()

	case notificationMsg:
		n := notify.Notification(msg)
		a.last = &n
		return a, waitForNotification(a.notifications)

	case exportDoneMsg:
		a.exportPicking = false
		return a, nil

	// Data messages go to their owner regardless of the active view.
	case todayDataMsg:
		a.today, cmd = a.today.update(msg)
		return a, cmd
	case tasksDataMsg:
		a.tasks, cmd = a.tasks.update(msg)
		return a, cmd
	case recurringDataMsg:
		a.recurring, cmd = a.recurring.update(msg)
		return a, cmd
	case weekDataMsg:
		a.week, cmd = a.week.update(msg)
		return a, cmd
	case journalDataMsg:
		a.journal, cmd = a.journal.update(msg)
		return a, cmd
	case settingsDataMsg:
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewRecurring:
		a.recurring, cmd = a.recurring.update(msg)
	case viewWeek:
		a.week, cmd = a.week.update(msg)
	case viewJournal:
		a.journal, cmd = a.journal.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isInputActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.inputActive()
	case viewRecurring:
		return a.recurring.formActive
	case viewJournal:
		return a.journal.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.refresh()
	case viewTasks:
		return a.tasks.refresh()
	case viewRecurring:
		return a.recurring.refresh()
	case viewWeek:
		return a.week.refresh()
	case viewJournal:
		return a.journal.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewTasks:
		content = a.tasks.view()
	case viewRecurring:
		content = a.recurring.view()
	case viewWeek:
		content = a.week.view()
	case viewJournal:
		content = a.journal.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := brandStyle.Render("dayboard")
	if u, ok := a.ws.User(); ok {
		title += mutedStyle.Render(" " + u.Email)
	}
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	right := ""
	if a.ws.Offline() {
		right += warningStyle.Render(" ● offline")
	}
	if a.last != nil {
		text := a.last.Title
		if a.last.Description != "" {
			text += ": " + a.last.Description
		}
		right += levelStyle(a.last.Level).Render(" " + truncate(text, max(a.width/2, 20)))
	}

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export Tasks"))
	rows = append(rows, mutedStyle.Render("  to "+a.opts.ExportDir))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes every task, plus the current week for JSON, and announces
// the outcome on the bus.
func (a App) doExport(format int) tea.Cmd {
	ws, dir := a.ws, a.opts.ExportDir
	return func() tea.Msg {
		tasks := ws.Tasks()
		dateStr := ws.Today()

		var path string
		var err error
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("dayboard-export-%s.csv", dateStr))
			err = export.ToCSV(tasks, path)
		} else {
			stats := ws.WeeklyProgress()
			path = filepath.Join(dir, fmt.Sprintf("dayboard-export-%s.json", dateStr))
			err = export.ToJSON(tasks, &stats, path)
		}
		if err != nil {
			ws.Bus().Errorf("Export failed", "%v", err)
			return nil
		}

		ws.Bus().Successf("Exported", "%d tasks to %s", len(tasks), path)
		return exportDoneMsg{path: path}
	}
}
