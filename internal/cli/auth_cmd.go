package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in, creating the account on first use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Session.SignIn(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", u.Email)
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Session.SignOut(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Signed out")
			if !purge {
				return nil
			}

			keys, err := app.Cache.Keys(ctx)
			if err != nil {
				return err
			}
			if err := app.Cache.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d cached entries\n", len(keys))
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "also clear the local offline cache")
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.requireUser()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, u.Email)
			if app.Workspace.Offline() {
				fmt.Fprintln(out, warnStyle.Render("offline: showing cached data"))
			}
			return nil
		},
	}
}
