package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorHeader = lipgloss.Color("#7C3AED")
	colorDim    = lipgloss.Color("#6B7280")
	colorDone   = lipgloss.Color("#10B981")
	colorWarn   = lipgloss.Color("#F59E0B")

	headerStyle = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	doneStyle   = lipgloss.NewStyle().Foreground(colorDone)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable writes rows under headers, or empty when there are no rows.
func renderTable(out io.Writer, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(out, dimStyle.Render(empty))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
	fmt.Fprintln(out, t.Render())
}

func check(done bool) string {
	if done {
		return doneStyle.Render("✓")
	}
	return dimStyle.Render("·")
}

func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

func formatMinutes(m *int) string {
	if m == nil {
		return ""
	}
	if *m < 60 {
		return fmt.Sprintf("%dm", *m)
	}
	if *m%60 == 0 {
		return fmt.Sprintf("%dh", *m/60)
	}
	return fmt.Sprintf("%dh%02dm", *m/60, *m%60)
}
