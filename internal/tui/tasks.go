package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayboard/internal/filter"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/sadopc/dayboard/internal/workspace"
)

type tasksModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	prefs  Preferences
	width  int
	height int

	all             []store.Task
	tabs            []string
	tab             int
	categories      []string
	colors          map[string]string
	defaultCategory string
	cursor          int

	search    textinput.Model
	searching bool

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle    *string
	formDesc     *string
	formCategory *string
	formDate     *string
	formTime     *string
	formEstimate *string
	formDone     *bool
}

func newTasksModel(ctx context.Context, ws *workspace.Workspace, prefs Preferences) tasksModel {
	ti := textinput.New()
	ti.Placeholder = "Search title or description..."
	ti.CharLimit = 100
	ti.Prompt = "/ "

	title, desc, cat, date, clock, est := "", "", "", "", "", ""
	done := false
	return tasksModel{
		ctx:          ctx,
		ws:           ws,
		prefs:        prefs,
		tabs:         filter.Tabs(nil),
		search:       ti,
		formTitle:    &title,
		formDesc:     &desc,
		formCategory: &cat,
		formDate:     &date,
		formTime:     &clock,
		formEstimate: &est,
		formDone:     &done,
	}
}

func (p *tasksModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.search.Width = max(w-12, 10)
}

type tasksDataMsg struct {
	tasks           []store.Task
	categories      []string
	colors          map[string]string
	defaultCategory string
}

func (p tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		msg := tasksDataMsg{
			tasks:      p.ws.Tasks(),
			categories: p.ws.CategoryNames(),
			colors:     p.ws.CategoryColors(p.ctx),
		}
		if p.prefs != nil {
			msg.defaultCategory, _ = p.prefs.GetSetting(p.ctx, store.SettingDefaultCategory)
		}
		return msg
	}
}

func (p tasksModel) currentTab() string {
	if p.tab < 0 || p.tab >= len(p.tabs) {
		return filter.TabAll
	}
	return p.tabs[p.tab]
}

// visible is the task list after search and tab filtering.
func (p tasksModel) visible() []store.Task {
	return filter.Tasks(p.all, p.search.Value(), p.currentTab())
}

func (p tasksModel) inputActive() bool {
	return p.formActive || p.searching
}

func (p tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		current := p.currentTab()
		p.all = msg.tasks
		p.categories = msg.categories
		p.colors = msg.colors
		p.defaultCategory = msg.defaultCategory
		p.tabs = filter.Tabs(msg.categories)
		p.tab = 0
		for i, t := range p.tabs {
			if t == current {
				p.tab = i
			}
		}
		p.cursor = clampCursor(p.cursor, len(p.visible()))
		return p, nil

	case tea.KeyMsg:
		if p.searching {
			return p.updateSearch(msg)
		}
		return p.updateList(msg)
	}
	return p, nil
}

func (p tasksModel) updateSearch(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		p.searching = false
		p.search.Blur()
		return p, nil
	case "esc":
		p.searching = false
		p.search.Blur()
		p.search.SetValue("")
		p.cursor = 0
		return p, nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	p.cursor = clampCursor(p.cursor, len(p.visible()))
	return p, cmd
}

func (p tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	tasks := p.visible()
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(tasks)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Search):
		p.searching = true
		return p, p.search.Focus()
	case key.Matches(msg, keys.Filter), key.Matches(msg, keys.Right):
		p.tab = (p.tab + 1) % len(p.tabs)
		p.cursor = 0
	case key.Matches(msg, keys.Left):
		p.tab = (p.tab - 1 + len(p.tabs)) % len(p.tabs)
		p.cursor = 0
	case key.Matches(msg, keys.Back):
		p.search.SetValue("")
		p.tab = 0
		p.cursor = 0
	case key.Matches(msg, keys.New):
		return p.showForm(nil)
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		if len(tasks) > 0 {
			t := tasks[p.cursor]
			return p.showForm(&t)
		}
	case key.Matches(msg, keys.Toggle):
		if len(tasks) > 0 {
			id := tasks[p.cursor].ID
			return p, mutate(p.ctx, func(ctx context.Context) error {
				_, err := p.ws.ToggleTask(ctx, id)
				return err
			})
		}
	case key.Matches(msg, keys.Delete):
		if len(tasks) > 0 {
			id := tasks[p.cursor].ID
			return p, mutate(p.ctx, func(ctx context.Context) error {
				return p.ws.DeleteTask(ctx, id)
			})
		}
	}
	return p, nil
}

// showForm opens the task form, prefilled from t when editing.
func (p tasksModel) showForm(t *store.Task) (tasksModel, tea.Cmd) {
	if t == nil {
		p.formType = "new"
		p.editingID = ""
		*p.formTitle = ""
		*p.formDesc = ""
		*p.formCategory = p.defaultCategory
		*p.formDate = p.ws.Today()
		*p.formTime = ""
		*p.formEstimate = ""
		*p.formDone = false
	} else {
		p.formType = "edit"
		p.editingID = t.ID
		*p.formTitle = t.Title
		*p.formDesc = t.Description
		*p.formCategory = t.Category
		*p.formDate = t.Date
		*p.formTime = t.Time
		*p.formEstimate = ""
		if t.TimeEstimate != nil {
			*p.formEstimate = fmt.Sprint(*t.TimeEstimate)
		}
		*p.formDone = t.Completed
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(p.formTitle).Validate(notEmpty),
			huh.NewText().Title("Description").Value(p.formDesc).Lines(3),
			huh.NewSelect[string]().Title("Category").Options(categoryOptions(p.categories, *p.formCategory)...).Value(p.formCategory),
		),
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(p.formDate).Validate(validDate),
			huh.NewInput().Title("Time (HH:MM, optional)").Value(p.formTime).Validate(validTime),
			huh.NewInput().Title("Estimate (minutes, optional)").Value(p.formEstimate).Validate(validEstimate),
			huh.NewConfirm().Title("Completed?").Value(p.formDone),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

// categoryOptions lists "no category" followed by every category. current is
// kept selectable even if it no longer exists.
func categoryOptions(categories []string, current string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption(store.NoCategory, "")}
	seen := false
	for _, c := range categories {
		opts = append(opts, huh.NewOption(c, c))
		seen = seen || c == current
	}
	if current != "" && current != store.NoCategory && !seen {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func (p tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, p.submit()
	}
	return p, cmd
}

func (p tasksModel) submit() tea.Cmd {
	est, _ := parseEstimate(*p.formEstimate)
	t := store.Task{
		ID:           p.editingID,
		Title:        strings.TrimSpace(*p.formTitle),
		Description:  strings.TrimSpace(*p.formDesc),
		Category:     *p.formCategory,
		Date:         strings.TrimSpace(*p.formDate),
		Time:         strings.TrimSpace(*p.formTime),
		TimeEstimate: est,
		Completed:    *p.formDone,
	}
	if p.formType == "edit" {
		if prev, ok := p.ws.Task(p.editingID); ok {
			t.CreatedAt = prev.CreatedAt
		}
		return mutate(p.ctx, func(ctx context.Context) error {
			_, err := p.ws.UpdateTask(ctx, t)
			return err
		})
	}
	return mutate(p.ctx, func(ctx context.Context) error {
		_, err := p.ws.AddTask(ctx, t)
		return err
	})
}

func (p tasksModel) view() string {
	w := p.width - 4
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Task")
		if p.formType == "edit" {
			title = titleStyle.Render("Edit Task")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()))
	}

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Tasks"), "  ", p.renderTabs()))
	if p.searching || p.search.Value() != "" {
		rows = append(rows, p.search.View())
	}
	rows = append(rows, "")

	tasks := p.visible()
	if len(tasks) == 0 {
		hint := "No tasks yet. Press n to create one."
		if len(p.all) > 0 {
			hint = "No tasks match this filter."
		}
		rows = append(rows, mutedStyle.Render(hint))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-10s %-5s %-32s %-16s %s", "", "Date", "Time", "Title", "Category", "Est.")))
	for i, t := range tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := fmt.Sprintf("%s%s %-10s %-5s %s %s %-14s %s",
			cursor, checkbox(t.Completed), t.Date, t.Time,
			style.Render(fmt.Sprintf("%-32s", truncate(t.Title, 32))),
			colorDot(p.colors[t.CategoryName()]), truncate(t.CategoryName(), 14),
			mutedStyle.Render(formatEstimate(t.TimeEstimate)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  space: toggle  d: delete  /: search  f/←/→: filter  esc: clear"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p tasksModel) renderTabs() string {
	var tabs []string
	for i, t := range p.tabs {
		label := filter.TabLabel(t)
		if i == p.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}
