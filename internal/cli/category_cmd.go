package cli

import (
	"fmt"

	"github.com/sadopc/dayboard/internal/store"
	"github.com/spf13/cobra"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories and their colors",
	}
	cmd.AddCommand(
		newCategoryListCmd(app),
		newCategoryAddCmd(app),
		newCategoryEditCmd(app),
		newCategoryRmCmd(app),
	)
	return cmd
}

// lookupCategory accepts a category name or an id prefix.
func (a *App) lookupCategory(input string) (store.Category, error) {
	if c, ok := a.Workspace.CategoryByName(input); ok {
		return c, nil
	}
	cats := a.Workspace.Categories()
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	id, err := resolveID("category", input, ids)
	if err != nil {
		return store.Category{}, err
	}
	c, _ := a.Workspace.Category(id)
	return c, nil
}

func newCategoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories with their resolved colors",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			cats := app.Workspace.Categories()
			colors := app.Workspace.CategoryColors(cmd.Context())
			rows := make([][]string, 0, len(cats))
			for _, c := range cats {
				color := colors[c.Name]
				rows = append(rows, []string{shortID(c.ID), swatch(color) + " " + c.Name, color})
			}
			renderTable(cmd.OutOrStdout(), "No categories yet", []string{"ID", "Name", "Color"}, rows)
			return nil
		},
	}
}

func newCategoryAddCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category (color defaults to the next palette entry)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			c, err := app.Workspace.AddCategory(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", swatch(c.Color), c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "hex color such as #2EC4B6")
	return cmd
}

func newCategoryEditCmd(app *App) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "edit <name-or-id>",
		Short: "Rename or recolor a category; items follow a rename",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			c, err := app.lookupCategory(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				c.Name = name
			}
			if cmd.Flags().Changed("color") {
				c.Color = color
			}
			updated, err := app.Workspace.UpdateCategory(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s\n", swatch(updated.Color), updated.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new hex color")
	return cmd
}

func newCategoryRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name-or-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a category; its items move to \"" + store.NoCategory + "\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			c, err := app.lookupCategory(args[0])
			if err != nil {
				return err
			}
			if err := app.Workspace.DeleteCategory(cmd.Context(), c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", c.Name)
			return nil
		},
	}
}
