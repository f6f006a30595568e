package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayboard/internal/notify"
)

// Theme colors, named by what they mean on screen.
var (
	colorBrand     = lipgloss.Color("#E0A458")
	colorInk       = lipgloss.Color("#D8DEE9")
	colorDim       = lipgloss.Color("#6B7280")
	colorFrame     = lipgloss.Color("#3B4252")
	colorDone      = lipgloss.Color("#7FB069")
	colorPending   = lipgloss.Color("#4C566A")
	colorRecurring = lipgloss.Color("#88C0D0")
	colorWarn      = lipgloss.Color("#EBCB8B")
	colorDanger    = lipgloss.Color("#BF616A")
	colorFocus     = lipgloss.Color("#81A1C1")
)

// Chrome: header, footer, view tabs and panels.
var (
	brandStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrand).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorBrand).
			Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 2)

	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFrame).Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorBrand)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorInk)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorDim)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// Rows in task, recurring and journal lists.
var (
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorInk)
	selectedItemStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	highlightStyle    = lipgloss.NewStyle().Foreground(colorFocus)
	accentStyle       = lipgloss.NewStyle().Foreground(colorRecurring)
)

// Completion state.
var (
	successStyle   = lipgloss.NewStyle().Foreground(colorDone)
	doneTitleStyle = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
)

func checkbox(done bool) string {
	if done {
		return successStyle.Render("[x]")
	}
	return mutedStyle.Render("[ ]")
}

// Weekly progress: the completion bar and the per-day chart share the
// done/pending pair.
var (
	progressLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	doneBarStyle       = lipgloss.NewStyle().Foreground(colorDone)
	pendingBarStyle    = lipgloss.NewStyle().Foreground(colorPending)
)

// colorDot renders a category's resolved color as a single dot.
func colorDot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// Notification levels.
var (
	warningStyle = lipgloss.NewStyle().Foreground(colorWarn)
	errorStyle   = lipgloss.NewStyle().Foreground(colorDanger)
)

func levelStyle(l notify.Level) lipgloss.Style {
	switch l {
	case notify.LevelSuccess:
		return successStyle
	case notify.LevelWarning:
		return warningStyle
	case notify.LevelError:
		return errorStyle
	}
	return highlightStyle
}
