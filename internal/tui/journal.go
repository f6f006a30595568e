package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/sadopc/dayboard/internal/workspace"
)

type journalPane int

const (
	paneAchievements journalPane = iota
	paneThoughts
)

type journalModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	width  int
	height int

	achievements []store.Achievement
	thoughts     []store.Thought
	categories   []string
	pane         journalPane
	cursor       [2]int

	renderer *glamour.TermRenderer

	formActive bool
	form       *huh.Form
	formType   string // "achievement", "thought"

	formTitle    *string
	formDesc     *string
	formCategory *string
	formDate     *string
	formContent  *string
	formMood     *string
}

var moods = []string{"", "great", "good", "okay", "tired", "bad"}

func newJournalModel(ctx context.Context, ws *workspace.Workspace) journalModel {
	title, desc, cat, date, content, mood := "", "", "", "", "", ""
	return journalModel{
		ctx:          ctx,
		ws:           ws,
		formTitle:    &title,
		formDesc:     &desc,
		formCategory: &cat,
		formDate:     &date,
		formContent:  &content,
		formMood:     &mood,
	}
}

func (j *journalModel) setSize(w, h int) {
	j.width = w
	j.height = h
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(w-12, 20)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer unavailable")
		j.renderer = nil
		return
	}
	j.renderer = r
}

type journalDataMsg struct {
	achievements []store.Achievement
	thoughts     []store.Thought
	categories   []string
}

func (j journalModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return journalDataMsg{
			achievements: j.ws.Achievements(),
			thoughts:     j.ws.Thoughts(),
			categories:   j.ws.CategoryNames(),
		}
	}
}

func (j journalModel) paneLen() int {
	if j.pane == paneThoughts {
		return len(j.thoughts)
	}
	return len(j.achievements)
}

func (j journalModel) update(msg tea.Msg) (journalModel, tea.Cmd) {
	if j.formActive && j.form != nil {
		return j.updateForm(msg)
	}

	switch msg := msg.(type) {
	case journalDataMsg:
		j.achievements = msg.achievements
		j.thoughts = msg.thoughts
		j.categories = msg.categories
		j.cursor[paneAchievements] = clampCursor(j.cursor[paneAchievements], len(j.achievements))
		j.cursor[paneThoughts] = clampCursor(j.cursor[paneThoughts], len(j.thoughts))
		return j, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			j.pane = paneAchievements
		case key.Matches(msg, keys.Right):
			j.pane = paneThoughts
		case key.Matches(msg, keys.Up):
			if j.cursor[j.pane] > 0 {
				j.cursor[j.pane]--
			}
		case key.Matches(msg, keys.Down):
			if j.cursor[j.pane] < j.paneLen()-1 {
				j.cursor[j.pane]++
			}
		case key.Matches(msg, keys.New):
			if j.pane == paneThoughts {
				return j.showThoughtForm()
			}
			return j.showAchievementForm()
		case key.Matches(msg, keys.Delete):
			return j, j.deleteSelected()
		}
	}
	return j, nil
}

func (j journalModel) deleteSelected() tea.Cmd {
	i := j.cursor[j.pane]
	if j.pane == paneThoughts {
		if i >= len(j.thoughts) {
			return nil
		}
		id := j.thoughts[i].ID
		return mutate(j.ctx, func(ctx context.Context) error { return j.ws.DeleteThought(ctx, id) })
	}
	if i >= len(j.achievements) {
		return nil
	}
	id := j.achievements[i].ID
	return mutate(j.ctx, func(ctx context.Context) error { return j.ws.DeleteAchievement(ctx, id) })
}

func (j journalModel) showAchievementForm() (journalModel, tea.Cmd) {
	j.formType = "achievement"
	*j.formTitle, *j.formDesc, *j.formCategory = "", "", ""
	*j.formDate = j.ws.Today()

	j.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Achievement").Value(j.formTitle).Validate(notEmpty),
			huh.NewText().Title("Description").Value(j.formDesc).Lines(3),
			huh.NewSelect[string]().Title("Category").Options(categoryOptions(j.categories, "")...).Value(j.formCategory),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(j.formDate).Validate(validDate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	j.formActive = true
	return j, j.form.Init()
}

func (j journalModel) showThoughtForm() (journalModel, tea.Cmd) {
	j.formType = "thought"
	*j.formContent, *j.formMood = "", ""

	moodOptions := make([]huh.Option[string], len(moods))
	for i, m := range moods {
		label := m
		if m == "" {
			label = "(none)"
		}
		moodOptions[i] = huh.NewOption(label, m)
	}

	j.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Thought (markdown)").Value(j.formContent).Lines(8).Validate(notEmpty),
			huh.NewSelect[string]().Title("Mood").Options(moodOptions...).Value(j.formMood),
		),
	).WithShowHelp(true).WithShowErrors(true)

	j.formActive = true
	return j, j.form.Init()
}

func (j journalModel) updateForm(msg tea.Msg) (journalModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			j.formActive = false
			j.form = nil
			return j, nil
		}
	}

	form, cmd := j.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		j.form = f
	}

	if j.form.State == huh.StateCompleted {
		j.formActive = false
		return j, j.submit()
	}
	return j, cmd
}

func (j journalModel) submit() tea.Cmd {
	if j.formType == "thought" {
		t := store.Thought{Content: strings.TrimSpace(*j.formContent), Mood: *j.formMood}
		return mutate(j.ctx, func(ctx context.Context) error {
			_, err := j.ws.AddThought(ctx, t)
			return err
		})
	}
	a := store.Achievement{
		Title:       strings.TrimSpace(*j.formTitle),
		Description: strings.TrimSpace(*j.formDesc),
		Category:    *j.formCategory,
		Date:        strings.TrimSpace(*j.formDate),
	}
	return mutate(j.ctx, func(ctx context.Context) error {
		_, err := j.ws.AddAchievement(ctx, a)
		return err
	})
}

// renderMarkdown renders content with glamour, falling back to plain text.
func (j journalModel) renderMarkdown(content string) string {
	if j.renderer == nil {
		return content
	}
	out, err := j.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func (j journalModel) view() string {
	w := j.width - 4
	if j.formActive && j.form != nil {
		title := "New Achievement"
		if j.formType == "thought" {
			title = "New Thought"
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", j.form.View()))
	}

	achTab := inactiveTabStyle.Render("Achievements")
	thTab := inactiveTabStyle.Render("Thoughts")
	if j.pane == paneAchievements {
		achTab = activeTabStyle.Render("Achievements")
	} else {
		thTab = activeTabStyle.Render("Thoughts")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Journal"), "  ", achTab, thTab)

	var body string
	if j.pane == paneThoughts {
		body = j.renderThoughts()
	} else {
		body = j.renderAchievements(w)
	}

	nav := mutedStyle.Render("  ←/→: switch  n: new  d: delete")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav))
}

func (j journalModel) renderAchievements(w int) string {
	if len(j.achievements) == 0 {
		return mutedStyle.Render("No achievements yet. Press n to record one.")
	}
	var rows []string
	for i, a := range j.achievements {
		cursor := "  "
		style := normalItemStyle
		if i == j.cursor[paneAchievements] {
			cursor = "> "
			style = selectedItemStyle
		}
		row := fmt.Sprintf("%s%s  %s  %s", cursor, mutedStyle.Render(a.Date), style.Render(truncate(a.Title, w-40)), mutedStyle.Render(a.CategoryName()))
		rows = append(rows, row)
		if a.Description != "" && i == j.cursor[paneAchievements] {
			rows = append(rows, mutedStyle.Render("     "+truncate(a.Description, w-10)))
		}
	}
	return strings.Join(rows, "\n")
}

func (j journalModel) renderThoughts() string {
	if len(j.thoughts) == 0 {
		return mutedStyle.Render("No thoughts yet. Press n to write one.")
	}
	var rows []string
	for i, t := range j.thoughts {
		cursor := "  "
		style := mutedStyle
		if i == j.cursor[paneThoughts] {
			cursor = "> "
			style = selectedItemStyle
		}
		meta := t.CreatedAt.Local().Format("Jan 02 15:04")
		if t.Mood != "" {
			meta += " · " + t.Mood
		}
		rows = append(rows, cursor+style.Render(meta))
		if i == j.cursor[paneThoughts] {
			rows = append(rows, j.renderMarkdown(t.Content))
		} else {
			first, _, _ := strings.Cut(t.Content, "\n")
			rows = append(rows, mutedStyle.Render("    "+truncate(first, 60)))
		}
	}
	return strings.Join(rows, "\n")
}
