package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayboard/internal/config"
	"github.com/sadopc/dayboard/internal/notify"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/sadopc/dayboard/internal/workspace"
)

type settingsModel struct {
	ctx     context.Context
	ws      *workspace.Workspace
	prefs   Preferences
	palette []string
	width   int
	height  int

	categories []store.Category
	colors     map[string]string
	settings   []store.Setting
	recent     []notify.Notification
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "category", "edit_category", "preferences"
	editingID  string

	// Form values as pointers (survive value copies)
	catName         *string
	catColor        *string
	defaultCategory *string
	showCompleted   *bool
	dailyGoal       *string
}

func newSettingsModel(ctx context.Context, ws *workspace.Workspace, prefs Preferences, palette []string) settingsModel {
	if len(palette) == 0 {
		palette = config.DefaultPalette
	}
	name, color, dc, dg := "", "", "", ""
	show := true
	return settingsModel{
		ctx:             ctx,
		ws:              ws,
		prefs:           prefs,
		palette:         palette,
		catName:         &name,
		catColor:        &color,
		defaultCategory: &dc,
		showCompleted:   &show,
		dailyGoal:       &dg,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	categories []store.Category
	colors     map[string]string
	settings   []store.Setting
	recent     []notify.Notification
}

const recentActivity = 5

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		msg := settingsDataMsg{
			categories: s.ws.Categories(),
			colors:     s.ws.CategoryColors(s.ctx),
			recent:     s.ws.Bus().Recent(recentActivity),
		}
		if s.prefs != nil {
			msg.settings, _ = s.prefs.GetAllSettings(s.ctx)
		}
		return msg
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.categories = msg.categories
		s.colors = msg.colors
		s.settings = msg.settings
		s.recent = msg.recent
		s.cursor = clampCursor(s.cursor, len(s.categories))
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.categories)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.New):
			return s.showCategoryForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(s.categories) > 0 {
				c := s.categories[s.cursor]
				return s.showCategoryForm(&c)
			}
		case key.Matches(msg, keys.Delete):
			if len(s.categories) > 0 {
				id := s.categories[s.cursor].ID
				return s, mutate(s.ctx, func(ctx context.Context) error {
					return s.ws.DeleteCategory(ctx, id)
				})
			}
		case key.Matches(msg, keys.Enter):
			return s.showPreferencesForm()
		}
	}
	return s, nil
}

func (s settingsModel) colorOptions(current string) []huh.Option[string] {
	var opts []huh.Option[string]
	if current == "" {
		opts = append(opts, huh.NewOption("auto", ""))
	}
	seen := false
	for _, c := range s.palette {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s %s", colorDot(c), c), c))
		seen = seen || c == current
	}
	if current != "" && !seen {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s %s", colorDot(current), current), current))
	}
	return opts
}

func (s settingsModel) showCategoryForm(c *store.Category) (settingsModel, tea.Cmd) {
	if c == nil {
		s.formType = "category"
		s.editingID = ""
		*s.catName = ""
		*s.catColor = ""
	} else {
		s.formType = "edit_category"
		s.editingID = c.ID
		*s.catName = c.Name
		*s.catColor = c.Color
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Category Name").Value(s.catName).Validate(notEmpty),
			huh.NewSelect[string]().Title("Color").Options(s.colorOptions(*s.catColor)...).Value(s.catColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showPreferencesForm() (settingsModel, tea.Cmd) {
	*s.defaultCategory = s.getVal(store.SettingDefaultCategory, "")
	*s.showCompleted = s.getVal(store.SettingShowCompleted, "true") == "true"
	*s.dailyGoal = s.getVal(store.SettingDailyGoal, "5")

	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default category for new tasks").
				Options(categoryOptions(names, *s.defaultCategory)...).Value(s.defaultCategory),
			huh.NewConfirm().Title("Show completed items on Today").Value(s.showCompleted),
			huh.NewInput().Title("Daily goal (items)").Value(s.dailyGoal).Validate(validGoal),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formType = "preferences"
	s.formActive = true
	return s, s.form.Init()
}

func validGoal(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.submit()
	}
	return s, cmd
}

func (s settingsModel) submit() tea.Cmd {
	switch s.formType {
	case "category":
		name, color := *s.catName, *s.catColor
		return mutate(s.ctx, func(ctx context.Context) error {
			_, err := s.ws.AddCategory(ctx, name, color)
			return err
		})
	case "edit_category":
		c, ok := s.ws.Category(s.editingID)
		if !ok {
			return nil
		}
		c.Name, c.Color = *s.catName, *s.catColor
		return mutate(s.ctx, func(ctx context.Context) error {
			_, err := s.ws.UpdateCategory(ctx, c)
			return err
		})
	}
	values := map[string]string{
		store.SettingDefaultCategory: *s.defaultCategory,
		store.SettingShowCompleted:   strconv.FormatBool(*s.showCompleted),
		store.SettingDailyGoal:       strings.TrimSpace(*s.dailyGoal),
	}
	return mutate(s.ctx, func(ctx context.Context) error {
		for k, v := range values {
			if err := s.prefs.SetSetting(ctx, k, v); err != nil {
				s.ws.Bus().Errorf("Could not save preferences", "%v", err)
				return err
			}
		}
		s.ws.Bus().Successf("Preferences saved", "settings updated")
		return nil
	})
}

func (s settingsModel) getVal(k, fallback string) string {
	for _, st := range s.settings {
		if st.Key == k {
			return st.Value
		}
	}
	return fallback
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := "Settings"
		switch s.formType {
		case "category":
			title = "New Category"
		case "edit_category":
			title = "Edit Category"
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Categories"))
	rows = append(rows, "")
	if len(s.categories) == 0 {
		rows = append(rows, mutedStyle.Render("  No categories yet. Press n to create one."))
	}
	for i, c := range s.categories {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		color := s.colors[c.Name]
		rows = append(rows, fmt.Sprintf("%s%s %s %s", cursor, colorDot(color), style.Render(fmt.Sprintf("%-24s", c.Name)), mutedStyle.Render(color)))
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Preferences"))
	rows = append(rows, "")
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	if len(s.recent) > 0 {
		rows = append(rows, "")
		rows = append(rows, titleStyle.Render("Recent Activity"))
		rows = append(rows, "")
		for _, n := range s.recent {
			line := n.Title
			if n.Description != "" {
				line += ": " + n.Description
			}
			rows = append(rows, fmt.Sprintf("  %s %s",
				mutedStyle.Render(n.CreatedAt.Format("15:04")),
				levelStyle(n.Level).Render(truncate(line, max(w-12, 20)))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new category  e: edit  d: delete  enter: edit preferences"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingDefaultCategory:
		if v == "" {
			return store.NoCategory
		}
	case store.SettingShowCompleted:
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				return "yes"
			}
			return "no"
		}
	case store.SettingDailyGoal:
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d items", n)
		}
	}
	return v
}
