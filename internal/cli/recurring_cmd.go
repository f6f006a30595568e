package cli

import (
	"fmt"
	"strings"

	"github.com/sadopc/dayboard/internal/filter"
	"github.com/sadopc/dayboard/internal/progress"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/spf13/cobra"
)

func newRecurringCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recurring",
		Aliases: []string{"r", "habit"},
		Short:   "Manage recurring tasks and their daily entries",
	}
	cmd.AddCommand(
		newRecurringAddCmd(app),
		newRecurringListCmd(app),
		newRecurringDoneCmd(app),
		newRecurringPauseCmd(app),
		newRecurringHistoryCmd(app),
		newRecurringRmCmd(app),
	)
	return cmd
}

func (a *App) resolveRecurring(input string) (string, error) {
	return resolveID("recurring task", input, recurringIDs(a.Workspace.RecurringTasks()))
}

func newRecurringAddCmd(app *App) *cobra.Command {
	var r store.RecurringTask

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a recurring task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			r.Title = args[0]
			created, err := app.Workspace.AddRecurring(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", dimStyle.Render(shortID(created.ID)), created.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&r.Description, "desc", "d", "", "description")
	cmd.Flags().StringVarP(&r.Category, "category", "c", "", "category name")
	return cmd
}

func newRecurringListCmd(app *App) *cobra.Command {
	var query, tab string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recurring tasks with this week's entries",
		Long:    "Lists active recurring tasks. --filter completed/pending refers to today's entry; --all includes paused tasks.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			ws := app.Workspace
			all, _ := cmd.Flags().GetBool("all")

			tasks := ws.FilteredRecurring(query, tab)
			if all {
				tasks = ws.RecurringTasks()
			}

			start, _ := progress.WeekRange(ws.Now())
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				var week strings.Builder
				for i := range progress.DaysInWeek {
					week.WriteString(check(ws.CompletedOn(t.ID, start.AddDate(0, 0, i).Format(store.DateLayout))))
				}
				status := "active"
				if !t.Active {
					status = dimStyle.Render("paused")
				}
				rows = append(rows, []string{
					shortID(t.ID),
					check(ws.CompletedToday(t.ID)),
					t.Title,
					t.CategoryName(),
					week.String(),
					status,
				})
			}
			renderTable(cmd.OutOrStdout(), "No recurring tasks found",
				[]string{"ID", "Today", "Title", "Category", "S M T W T F S", "Status"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "match title or description (case-insensitive)")
	cmd.Flags().StringVarP(&tab, "filter", "f", filter.TabAll, "all, pending, completed or category-<name>")
	cmd.Flags().Bool("all", false, "include paused tasks and ignore filters")
	return cmd
}

func newRecurringDoneCmd(app *App) *cobra.Command {
	var date, details string
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Record a recurring task as done for a day (default today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			id, err := app.resolveRecurring(args[0])
			if err != nil {
				return err
			}
			if date == "" {
				date = app.Workspace.Today()
			}
			e, err := app.Workspace.SetRecurringDone(cmd.Context(), id, date, !undo, details)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s\n", check(e.Completed), e.Title, e.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&details, "details", "m", "", "notes about this day's entry")
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the day as not done")
	return cmd
}

func newRecurringPauseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "pause <id>",
		Aliases: []string{"resume"},
		Short:   "Pause or resume a recurring task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			id, err := app.resolveRecurring(args[0])
			if err != nil {
				return err
			}
			r, err := app.Workspace.ToggleRecurringActive(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "paused"
			if r.Active {
				state = "resumed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", r.Title, state)
			return nil
		},
	}
}

func newRecurringHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show every recorded day of a recurring task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			id, err := app.resolveRecurring(args[0])
			if err != nil {
				return err
			}
			history := app.Workspace.History(id)
			rows := make([][]string, 0, len(history))
			for _, e := range history {
				rows = append(rows, []string{e.Date, check(e.Completed), e.Details})
			}
			renderTable(cmd.OutOrStdout(), "Nothing recorded yet", []string{"Date", "Done", "Details"}, rows)
			return nil
		},
	}
}

func newRecurringRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a recurring task and all of its entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			id, err := app.resolveRecurring(args[0])
			if err != nil {
				return err
			}
			if err := app.Workspace.DeleteRecurring(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		},
	}
}
