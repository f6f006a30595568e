package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayboard/internal/progress"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/sadopc/dayboard/internal/workspace"
)

// recurringRow is a recurring task with its status for each day of the
// current week.
type recurringRow struct {
	task  store.RecurringTask
	week  [progress.DaysInWeek]bool
	today bool
}

type recurringModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	width  int
	height int

	rows       []recurringRow
	categories []string
	colors     map[string]string
	todayIdx   int
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "complete"
	editingID  string

	formTitle    *string
	formDesc     *string
	formCategory *string
	formDetails  *string
}

func newRecurringModel(ctx context.Context, ws *workspace.Workspace) recurringModel {
	title, desc, cat, details := "", "", "", ""
	return recurringModel{
		ctx:          ctx,
		ws:           ws,
		formTitle:    &title,
		formDesc:     &desc,
		formCategory: &cat,
		formDetails:  &details,
	}
}

func (r *recurringModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type recurringDataMsg struct {
	rows       []recurringRow
	categories []string
	colors     map[string]string
	todayIdx   int
}

func (r recurringModel) refresh() tea.Cmd {
	return func() tea.Msg {
		now := r.ws.Now()
		start, _ := progress.WeekRange(now)
		today := r.ws.Today()

		msg := recurringDataMsg{
			categories: r.ws.CategoryNames(),
			colors:     r.ws.CategoryColors(r.ctx),
			todayIdx:   int(now.Weekday()),
		}
		for _, t := range r.ws.RecurringTasks() {
			row := recurringRow{task: t, today: r.ws.CompletedOn(t.ID, today)}
			for i := range row.week {
				day := start.AddDate(0, 0, i).Format(store.DateLayout)
				row.week[i] = r.ws.CompletedOn(t.ID, day)
			}
			msg.rows = append(msg.rows, row)
		}
		return msg
	}
}

func (r recurringModel) update(msg tea.Msg) (recurringModel, tea.Cmd) {
	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	switch msg := msg.(type) {
	case recurringDataMsg:
		r.rows = msg.rows
		r.categories = msg.categories
		r.colors = msg.colors
		r.todayIdx = msg.todayIdx
		r.cursor = clampCursor(r.cursor, len(r.rows))
		return r, nil

	case tea.KeyMsg:
		return r.updateList(msg)
	}
	return r, nil
}

func (r recurringModel) updateList(msg tea.KeyMsg) (recurringModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if r.cursor > 0 {
			r.cursor--
		}
	case key.Matches(msg, keys.Down):
		if r.cursor < len(r.rows)-1 {
			r.cursor++
		}
	case key.Matches(msg, keys.New):
		return r.showTaskForm(nil)
	}

	if len(r.rows) == 0 {
		return r, nil
	}
	task := r.rows[r.cursor].task

	switch {
	case key.Matches(msg, keys.Edit):
		return r.showTaskForm(&task)
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if !task.Active {
			return r, nil
		}
		return r, mutate(r.ctx, func(ctx context.Context) error {
			_, err := r.ws.ToggleToday(ctx, task.ID)
			return err
		})
	case key.Matches(msg, keys.Complete):
		if !task.Active {
			return r, nil
		}
		return r.showCompleteForm(task)
	case key.Matches(msg, keys.Pause):
		return r, mutate(r.ctx, func(ctx context.Context) error {
			_, err := r.ws.ToggleRecurringActive(ctx, task.ID)
			return err
		})
	case key.Matches(msg, keys.Delete):
		return r, mutate(r.ctx, func(ctx context.Context) error {
			return r.ws.DeleteRecurring(ctx, task.ID)
		})
	}
	return r, nil
}

func (r recurringModel) showTaskForm(t *store.RecurringTask) (recurringModel, tea.Cmd) {
	if t == nil {
		r.formType = "new"
		r.editingID = ""
		*r.formTitle, *r.formDesc, *r.formCategory = "", "", ""
	} else {
		r.formType = "edit"
		r.editingID = t.ID
		*r.formTitle, *r.formDesc, *r.formCategory = t.Title, t.Description, t.Category
	}

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(r.formTitle).Validate(notEmpty),
			huh.NewText().Title("Description").Value(r.formDesc).Lines(3),
			huh.NewSelect[string]().Title("Category").Options(categoryOptions(r.categories, *r.formCategory)...).Value(r.formCategory),
		),
	).WithShowHelp(true).WithShowErrors(true)

	r.formActive = true
	return r, r.form.Init()
}

func (r recurringModel) showCompleteForm(t store.RecurringTask) (recurringModel, tea.Cmd) {
	r.formType = "complete"
	r.editingID = t.ID
	*r.formDetails = ""
	if e, ok := r.ws.EntryFor(t.ID, r.ws.Today()); ok {
		*r.formDetails = e.Details
	}

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("How did it go?").Description(t.Title).Value(r.formDetails).Lines(4),
		),
	).WithShowHelp(true).WithShowErrors(true)

	r.formActive = true
	return r, r.form.Init()
}

func (r recurringModel) updateForm(msg tea.Msg) (recurringModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			r.formActive = false
			r.form = nil
			return r, nil
		}
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	if r.form.State == huh.StateCompleted {
		r.formActive = false
		return r, r.submit()
	}
	return r, cmd
}

func (r recurringModel) submit() tea.Cmd {
	id := r.editingID
	switch r.formType {
	case "complete":
		details := strings.TrimSpace(*r.formDetails)
		return mutate(r.ctx, func(ctx context.Context) error {
			_, err := r.ws.CompleteToday(ctx, id, details)
			return err
		})
	case "edit":
		prev, ok := r.ws.Recurring(id)
		if !ok {
			return nil
		}
		prev.Title = strings.TrimSpace(*r.formTitle)
		prev.Description = strings.TrimSpace(*r.formDesc)
		prev.Category = *r.formCategory
		return mutate(r.ctx, func(ctx context.Context) error {
			_, err := r.ws.UpdateRecurring(ctx, prev)
			return err
		})
	}
	t := store.RecurringTask{
		Title:       strings.TrimSpace(*r.formTitle),
		Description: strings.TrimSpace(*r.formDesc),
		Category:    *r.formCategory,
	}
	return mutate(r.ctx, func(ctx context.Context) error {
		_, err := r.ws.AddRecurring(ctx, t)
		return err
	})
}

func (r recurringModel) view() string {
	w := r.width - 4
	if r.formActive && r.form != nil {
		title := "New Recurring Task"
		switch r.formType {
		case "edit":
			title = "Edit Recurring Task"
		case "complete":
			title = "Complete Today"
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", r.form.View()))
	}

	title := titleStyle.Render("Recurring")
	if len(r.rows) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No recurring tasks yet. Press n to create one.")))
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-32s %-16s %s", "", "Title", "Category", "S M T W T F S")))

	for i, row := range r.rows {
		cursor := "  "
		style := normalItemStyle
		if i == r.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		t := row.task
		name := style.Render(fmt.Sprintf("%-32s", truncate(t.Title, 32)))
		if !t.Active {
			name = mutedStyle.Render(fmt.Sprintf("%-32s", truncate(t.Title+" (paused)", 32)))
		}
		line := fmt.Sprintf("%s%s %s %s %-14s %s",
			cursor, checkbox(row.today), name,
			colorDot(r.colors[t.CategoryName()]), truncate(t.CategoryName(), 14),
			r.renderWeek(row))
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: done today  c: done with notes  p: pause/resume  n: new  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (r recurringModel) renderWeek(row recurringRow) string {
	cells := make([]string, len(row.week))
	for i, done := range row.week {
		switch {
		case done:
			cells[i] = successStyle.Render("●")
		case i == r.todayIdx:
			cells[i] = highlightStyle.Render("○")
		default:
			cells[i] = mutedStyle.Render("·")
		}
	}
	return strings.Join(cells, " ")
}
