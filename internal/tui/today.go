package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/sadopc/dayboard/internal/workspace"
)

// todayItem is a task or recurring task due today.
type todayItem struct {
	recurring bool
	id        string
	title     string
	category  string
	clock     string
	done      bool
}

type todayModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	prefs  Preferences
	width  int
	height int

	date          time.Time
	items         []todayItem
	summary       workspace.DaySummary
	goal          int
	showCompleted bool
	colors        map[string]string
	cursor        int
}

func newTodayModel(ctx context.Context, ws *workspace.Workspace, prefs Preferences) todayModel {
	return todayModel{ctx: ctx, ws: ws, prefs: prefs, showCompleted: true}
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type todayDataMsg struct {
	date          time.Time
	items         []todayItem
	summary       workspace.DaySummary
	goal          int
	showCompleted bool
	colors        map[string]string
}

func (d todayModel) refresh() tea.Cmd {
	return func() tea.Msg {
		today := d.ws.Today()
		var items []todayItem
		for _, t := range d.ws.TasksOn(today) {
			items = append(items, todayItem{
				id:       t.ID,
				title:    t.Title,
				category: t.CategoryName(),
				clock:    t.Time,
				done:     t.Completed,
			})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return clockKey(items[i].clock) < clockKey(items[j].clock)
		})
		for _, r := range d.ws.RecurringTasks() {
			if !r.Active {
				continue
			}
			items = append(items, todayItem{
				recurring: true,
				id:        r.ID,
				title:     r.Title,
				category:  r.CategoryName(),
				done:      d.ws.CompletedOn(r.ID, today),
			})
		}

		msg := todayDataMsg{
			date:          d.ws.Now(),
			items:         items,
			summary:       d.ws.TodaySummary(),
			goal:          5,
			showCompleted: true,
			colors:        d.ws.CategoryColors(d.ctx),
		}
		if d.prefs != nil {
			msg.goal = d.prefs.IntSetting(d.ctx, store.SettingDailyGoal, msg.goal)
			msg.showCompleted = d.prefs.BoolSetting(d.ctx, store.SettingShowCompleted, true)
		}
		return msg
	}
}

// clockKey sorts untimed tasks after timed ones.
func clockKey(clock string) string {
	if clock == "" {
		return "~"
	}
	return clock
}

// visible applies the show-completed preference.
func (d todayModel) visible() []todayItem {
	if d.showCompleted {
		return d.items
	}
	var out []todayItem
	for _, it := range d.items {
		if !it.done {
			out = append(out, it)
		}
	}
	return out
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todayDataMsg:
		d.date = msg.date
		d.items = msg.items
		d.summary = msg.summary
		d.goal = msg.goal
		d.showCompleted = msg.showCompleted
		d.colors = msg.colors
		d.cursor = clampCursor(d.cursor, len(d.visible()))
		return d, nil

	case tea.KeyMsg:
		items := d.visible()
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(items)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			if len(items) == 0 {
				return d, nil
			}
			it := items[d.cursor]
			if it.recurring {
				return d, mutate(d.ctx, func(ctx context.Context) error {
					_, err := d.ws.ToggleToday(ctx, it.id)
					return err
				})
			}
			return d, mutate(d.ctx, func(ctx context.Context) error {
				_, err := d.ws.ToggleTask(ctx, it.id)
				return err
			})
		}
	}
	return d, nil
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left, d.renderSummaryPanel(w), d.renderListPanel(w))
}

func (d todayModel) renderSummaryPanel(w int) string {
	title := titleStyle.Render("Today")
	date := subtitleStyle.Render(d.date.Format("Monday, Jan 02"))
	header := fmt.Sprintf("%s  %s", title, date)

	count := highlightStyle.Render(fmt.Sprintf("%d/%d done", d.summary.Completed, d.summary.Total))
	goal := mutedStyle.Render(fmt.Sprintf("daily goal %d", d.goal))
	if d.goal > 0 && d.summary.Completed >= d.goal {
		goal = successStyle.Render(fmt.Sprintf("daily goal %d reached", d.goal))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, count+"  "+goal))
}

func (d todayModel) renderListPanel(w int) string {
	items := d.visible()
	if len(items) == 0 {
		hint := "Nothing planned for today. Press 2 to add a task."
		if len(d.items) > 0 {
			hint = "Everything is done for today."
		}
		return panelStyle.Width(w).Render(mutedStyle.Render(hint))
	}

	var rows []string
	for i, it := range items {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		if it.done && i != d.cursor {
			style = doneTitleStyle
		}

		marker := " "
		if it.recurring {
			marker = accentStyle.Render("↻")
		}
		clock := it.clock
		if clock == "" {
			clock = "     "
		}
		dot := colorDot(d.colors[it.category])
		row := fmt.Sprintf("%s%s %s %s %s %s %s",
			cursor, checkbox(it.done), marker, mutedStyle.Render(clock),
			style.Render(truncate(it.title, w-40)), dot, mutedStyle.Render(it.category))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: toggle done  ↻ recurring"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
