package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayboard/internal/progress"
	"github.com/sadopc/dayboard/internal/workspace"
)

type weekModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	width  int
	height int

	offset int // weeks back from the current one
	stats  progress.WeeklyProgressStats
	colors map[string]string

	bar   progressbar.Model
	chart barchart.Model
}

func newWeekModel(ctx context.Context, ws *workspace.Workspace) weekModel {
	return weekModel{
		ctx:   ctx,
		ws:    ws,
		bar:   progressbar.New(progressbar.WithSolidFill(string(colorDone)), progressbar.WithoutPercentage()),
		chart: barchart.New(60, 12),
	}
}

func (r *weekModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.bar.Width = max(w-24, 10)
	r.buildChart()
}

type weekDataMsg struct {
	stats  progress.WeeklyProgressStats
	colors map[string]string
}

func (r weekModel) refresh() tea.Cmd {
	offset := r.offset
	return func() tea.Msg {
		at := r.ws.Now().AddDate(0, 0, -7*offset)
		return weekDataMsg{
			stats:  progress.Calculate(r.ws.Entries(), r.ws.Tasks(), at),
			colors: r.ws.CategoryColors(r.ctx),
		}
	}
}

func (r weekModel) update(msg tea.Msg) (weekModel, tea.Cmd) {
	switch msg := msg.(type) {
	case weekDataMsg:
		r.stats = msg.stats
		r.colors = msg.colors
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *weekModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 36 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, d := range r.stats.TasksByDay {
		bars = append(bars, barchart.BarData{
			Label: d.Date.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "done", Value: float64(d.Completed), Style: doneBarStyle},
				{Name: "pending", Value: float64(d.Total - d.Completed), Style: pendingBarStyle},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r weekModel) view() string {
	w := r.width - 4
	s := r.stats

	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", s.WeekStart.Format("Jan 02"), s.WeekEnd.Format("Jan 02, 2006")))
	heading := "This week"
	if r.offset == 1 {
		heading = "Last week"
	} else if r.offset > 1 {
		heading = fmt.Sprintf("%d weeks ago", r.offset)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render(heading), "  ", dateLabel)

	rate := progressLabelStyle.Render(fmt.Sprintf("%3d%%", s.CompletionRate))
	counts := mutedStyle.Render(fmt.Sprintf("%d/%d done", s.CompletedTasks, s.TotalTasks))
	bar := lipgloss.JoinHorizontal(lipgloss.Center, r.bar.ViewAs(float64(s.CompletionRate)/100), " ", rate, "  ", counts)

	legend := fmt.Sprintf("  %s done  %s pending",
		doneBarStyle.Render("█"),
		pendingBarStyle.Render("█"))

	parts := []string{header, "", bar, "", r.chart.View(), legend, "", r.renderMostProductive(), "", r.renderCategories(w)}
	if s.InvalidDates > 0 {
		parts = append(parts, "", warningStyle.Render(fmt.Sprintf("  %d item(s) with an unreadable date were left out", s.InvalidDates)))
	}
	parts = append(parts, "", mutedStyle.Render("  ←/→: previous/next week"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (r weekModel) renderMostProductive() string {
	d := r.stats.MostProductiveDay
	if d == nil {
		return mutedStyle.Render("  Nothing completed this week yet")
	}
	return fmt.Sprintf("  Most productive: %s %s",
		highlightStyle.Render(d.Date.Format("Monday, Jan 02")),
		mutedStyle.Render(fmt.Sprintf("(%d done)", d.Completed)))
}

func (r weekModel) renderCategories(w int) string {
	if len(r.stats.CategoryData) == 0 {
		return mutedStyle.Render("  No completed items by category")
	}

	top := r.stats.CategoryData[0].Value
	barWidth := max(min(w-40, 30), 5)

	rows := []string{mutedStyle.Render(fmt.Sprintf("  %-20s %5s", "Category", "Done"))}
	for _, c := range r.stats.CategoryData {
		color := r.colors[c.Name]
		if color == "" {
			color = r.ws.CategoryColor(r.ctx, c.Name)
		}
		n := c.Value * barWidth / top
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("■", n))
		rows = append(rows, fmt.Sprintf("  %s %-18s %5d %s", colorDot(color), truncate(c.Name, 18), c.Value, bar))
	}
	return strings.Join(rows, "\n")
}
