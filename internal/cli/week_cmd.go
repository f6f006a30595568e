package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadopc/dayboard/internal/export"
	"github.com/sadopc/dayboard/internal/progress"
	"github.com/spf13/cobra"
)

func newWeekCmd(app *App) *cobra.Command {
	var format string
	var offset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show weekly progress (Sunday to Saturday)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			if offset < 0 {
				return fmt.Errorf("--offset must not be negative")
			}
			if !cmd.Flags().Changed("format") {
				format = app.Config.Report.Format
			}
			if asJSON {
				format = "json"
			}

			ws := app.Workspace
			stats := progress.Calculate(ws.Entries(), ws.Tasks(), ws.Now().AddDate(0, 0, -7*offset))

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return export.WriteWeekJSON(out, stats)
			case "csv":
				return export.WriteWeekCSV(out, stats)
			case "table":
				printWeek(out, stats, app.Workspace.CategoryColors(cmd.Context()))
				return nil
			}
			return fmt.Errorf("unknown format %q (want table, json or csv)", format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "table, json or csv (default: report.format from the config)")
	cmd.Flags().IntVar(&offset, "offset", 0, "weeks before the current one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "shorthand for --format json")
	return cmd
}

func printWeek(out io.Writer, s progress.WeeklyProgressStats, colors map[string]string) {
	fmt.Fprintf(out, "%s %s - %s\n\n", headerStyle.Render("Week of"),
		s.WeekStart.Format("Mon Jan 02"), s.WeekEnd.Format("Mon Jan 02, 2006"))

	rows := make([][]string, 0, len(s.TasksByDay))
	for _, d := range s.TasksByDay {
		rows = append(rows, []string{
			d.Date.Format("Mon 02"),
			fmt.Sprintf("%d", d.Completed),
			fmt.Sprintf("%d", d.Total),
			fmt.Sprintf("%d%%", progress.Rate(d.Completed, d.Total)),
			bar(d.Completed, d.Total, 20),
		})
	}
	renderTable(out, "", []string{"Day", "Done", "Total", "Rate", ""}, rows)

	fmt.Fprintf(out, "Completion: %s (%d/%d)\n", headerStyle.Render(fmt.Sprintf("%d%%", s.CompletionRate)), s.CompletedTasks, s.TotalTasks)
	if d := s.MostProductiveDay; d != nil {
		fmt.Fprintf(out, "Most productive: %s (%d done)\n", d.Date.Format("Monday, Jan 02"), d.Completed)
	}
	if len(s.CategoryData) > 0 {
		fmt.Fprintln(out, "By category:")
		for _, c := range s.CategoryData {
			fmt.Fprintf(out, "  %s %-20s %d\n", swatch(colors[c.Name]), c.Name, c.Value)
		}
	}
	if s.InvalidDates > 0 {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("%d item(s) with an unreadable date were left out", s.InvalidDates)))
	}
}

func bar(done, total, width int) string {
	if total == 0 {
		return dimStyle.Render(strings.Repeat("░", width))
	}
	filled := done * width / total
	return doneStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func newExportCmd(app *App) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks to CSV or JSON (JSON includes the current week)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") && app.Config.Report.Format != "table" {
				format = app.Config.Report.Format
			}
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}

			ws := app.Workspace
			tasks := ws.Tasks()
			stats := ws.WeeklyProgress()
			out := cmd.OutOrStdout()

			if outPath == "-" {
				if format == "csv" {
					return export.WriteTasksCSV(out, tasks)
				}
				return export.WriteJSON(out, tasks, &stats, ws.Now())
			}

			if outPath == "" {
				dir, err := os.Getwd()
				if err != nil {
					return err
				}
				outPath = filepath.Join(dir, fmt.Sprintf("dayboard-export-%s.%s", ws.Today(), format))
			}
			var err error
			if format == "csv" {
				err = export.ToCSV(tasks, outPath)
			} else {
				err = export.ToJSON(tasks, &stats, outPath)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %d tasks to %s\n", len(tasks), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "csv or json (default: report.format from the config when it is csv or json)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, \"-\" for stdout (default: ./dayboard-export-<date>.<format>)")
	return cmd
}
