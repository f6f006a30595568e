package cli

import (
	"fmt"

	"github.com/sadopc/dayboard/internal/filter"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage one-off tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskDoneCmd(app),
		newTaskRmCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var t store.Task
	var estimate int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task (defaults to today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			ctx := cmd.Context()
			t.Title = args[0]
			if !cmd.Flags().Changed("category") {
				t.Category, _ = app.Store.GetSetting(ctx, store.SettingDefaultCategory)
			}
			if cmd.Flags().Changed("estimate") {
				t.TimeEstimate = &estimate
			}

			created, err := app.Workspace.AddTask(ctx, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s on %s\n", dimStyle.Render(shortID(created.ID)), created.Title, created.Date)
			return nil
		},
	}

	cmd.Flags().StringVarP(&t.Description, "desc", "d", "", "description")
	cmd.Flags().StringVarP(&t.Category, "category", "c", "", "category name (default: the default_category setting)")
	cmd.Flags().StringVar(&t.Date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&t.Time, "time", "", "time of day as HH:MM")
	cmd.Flags().IntVarP(&estimate, "estimate", "e", 0, "estimate in minutes")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var query, tab, category, date string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			if category != "" {
				tab = filter.CategoryTab(category)
			}

			tasks := app.Workspace.FilteredTasks(query, tab)
			if date != "" {
				var onDate []store.Task
				for _, t := range tasks {
					if t.Date == date {
						onDate = append(onDate, t)
					}
				}
				tasks = onDate
			}

			colors := app.Workspace.CategoryColors(cmd.Context())
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				cat := t.CategoryName()
				rows = append(rows, []string{
					shortID(t.ID),
					check(t.Completed),
					t.Title,
					swatch(colors[cat]) + " " + cat,
					t.Date,
					t.Time,
					formatMinutes(t.TimeEstimate),
				})
			}
			renderTable(cmd.OutOrStdout(), "No tasks found",
				[]string{"ID", "", "Title", "Category", "Date", "Time", "Estimate"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "match title or description (case-insensitive)")
	cmd.Flags().StringVarP(&tab, "filter", "f", filter.TabAll, "all, pending, completed or category-<name>")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only tasks in this category")
	cmd.Flags().StringVar(&date, "date", "", "only tasks on this date (YYYY-MM-DD)")

	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed (or pending with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			id, err := resolveID("task", args[0], taskIDs(app.Workspace.Tasks()))
			if err != nil {
				return err
			}
			t, _ := app.Workspace.Task(id)
			if t.Completed != undo {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", t.Title, completionWord(t.Completed))
				return nil
			}
			updated, err := app.Workspace.ToggleTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", check(updated.Completed), updated.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark as pending instead")
	return cmd
}

func completionWord(done bool) string {
	if done {
		return "completed"
	}
	return "pending"
}

func newTaskRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			id, err := resolveID("task", args[0], taskIDs(app.Workspace.Tasks()))
			if err != nil {
				return err
			}
			if err := app.Workspace.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		},
	}
}
