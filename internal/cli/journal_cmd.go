package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/spf13/cobra"
)

func newAchievementCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "achievement",
		Aliases: []string{"win"},
		Short:   "Record things you are proud of",
	}

	var a store.Achievement
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Record an achievement (defaults to today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			a.Title = args[0]
			created, err := app.Workspace.AddAchievement(cmd.Context(), a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s on %s\n", dimStyle.Render(shortID(created.ID)), created.Title, created.Date)
			return nil
		},
	}
	add.Flags().StringVarP(&a.Description, "desc", "d", "", "description")
	add.Flags().StringVarP(&a.Category, "category", "c", "", "category name")
	add.Flags().StringVar(&a.Date, "date", "", "date as YYYY-MM-DD (default: today)")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List achievements, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			items := app.Workspace.Achievements()
			rows := make([][]string, 0, len(items))
			for _, a := range items {
				rows = append(rows, []string{shortID(a.ID), a.Date, a.Title, a.CategoryName(), a.Description})
			}
			renderTable(cmd.OutOrStdout(), "No achievements yet", []string{"ID", "Date", "Title", "Category", "Description"}, rows)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an achievement",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			items := app.Workspace.Achievements()
			ids := make([]string, len(items))
			for i, a := range items {
				ids[i] = a.ID
			}
			id, err := resolveID("achievement", args[0], ids)
			if err != nil {
				return err
			}
			if err := app.Workspace.DeleteAchievement(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func newThoughtCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "thought",
		Aliases: []string{"note"},
		Short:   "Keep free-form markdown notes",
	}

	var mood string
	add := &cobra.Command{
		Use:   "add <markdown>",
		Short: "Write a thought; \"-\" reads it from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			content := args[0]
			if content == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read thought: %w", err)
				}
				content = string(data)
			}
			created, err := app.Workspace.AddThought(cmd.Context(), store.Thought{Content: content, Mood: mood})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", dimStyle.Render(shortID(created.ID)))
			return nil
		},
	}
	add.Flags().StringVar(&mood, "mood", "", "how you feel")

	var raw bool
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show thoughts, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			thoughts := app.Workspace.Thoughts()
			if len(thoughts) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No thoughts yet"))
				return nil
			}

			var doc strings.Builder
			for i, t := range thoughts {
				if i > 0 {
					doc.WriteString("\n---\n\n")
				}
				fmt.Fprintf(&doc, "### %s", t.CreatedAt.Local().Format("Mon Jan 02 15:04"))
				if t.Mood != "" {
					fmt.Fprintf(&doc, " · %s", t.Mood)
				}
				fmt.Fprintf(&doc, " `%s`\n\n%s\n", shortID(t.ID), strings.TrimSpace(t.Content))
			}

			if raw {
				fmt.Fprint(out, doc.String())
				return nil
			}
			rendered, err := renderMarkdown(doc.String())
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
	list.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a thought",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			thoughts := app.Workspace.Thoughts()
			ids := make([]string, len(thoughts))
			for i, t := range thoughts {
				ids[i] = t.ID
			}
			id, err := resolveID("thought", args[0], ids)
			if err != nil {
				return err
			}
			if err := app.Workspace.DeleteThought(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

// renderMarkdown styles for a terminal, or plainly when stdout is piped.
func renderMarkdown(doc string) (string, error) {
	style := "notty"
	if isatty.IsTerminal(os.Stdout.Fd()) {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(glamour.WithStylePath(style), glamour.WithWordWrap(80))
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
