package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sadopc/dayboard/internal/config"
	"github.com/sadopc/dayboard/internal/tui"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string
	user       string
}

// NewRootCmd creates the top-level "dayboard" command. A nil or unopened app
// is opened from flags and the environment before any subcommand runs.
func NewRootCmd(app *App) *cobra.Command {
	if app == nil {
		app = &App{}
	}
	opts := rootOptions{
		configPath: envOr("DAYBOARD_CONFIG", config.DefaultConfigPath()),
		dataDir:    envOr("DAYBOARD_DATA_DIR", config.DefaultDataDir()),
		logLevel:   os.Getenv("DAYBOARD_LOG_LEVEL"),
		user:       os.Getenv("DAYBOARD_USER"),
	}

	root := &cobra.Command{
		Use:   "dayboard",
		Short: "Daily tasks, habits and weekly progress in the terminal",
		Long: `dayboard keeps one-off tasks, recurring habits, categories and a small
journal, and shows how the current week is going.

Run without arguments in a terminal to open the interactive board.

CONFIGURATION:
  Flags win over environment variables, which win over the config file.
    DAYBOARD_CONFIG      config file (default: <config dir>/dayboard/config.yaml)
    DAYBOARD_DATA_DIR    database, cache and log directory
    DAYBOARD_LOG_LEVEL   trace, debug, info, warn or error
    DAYBOARD_USER        email signed in when no session is remembered`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.opened() {
				return nil
			}
			cfg, err := config.Load(opts.configPath, opts.dataDir)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if opts.user != "" {
				cfg.User = opts.user
			}
			opened, err := Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			*app = *opened
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return cmd.Help()
			}
			return runTUI(cmd, app)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", opts.configPath, "config file (overrides DAYBOARD_CONFIG)")
	flags.StringVar(&opts.dataDir, "data-dir", opts.dataDir, "data directory (overrides DAYBOARD_DATA_DIR)")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (overrides DAYBOARD_LOG_LEVEL)")
	flags.StringVar(&opts.user, "user", opts.user, "email to sign in with when no session is remembered")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newTaskCmd(app),
		newRecurringCmd(app),
		newCategoryCmd(app),
		newAchievementCmd(app),
		newThoughtCmd(app),
		newWeekCmd(app),
		newExportCmd(app),
	)

	return root
}

func runTUI(cmd *cobra.Command, app *App) error {
	if _, err := app.requireUser(); err != nil {
		return err
	}
	ctx := cmd.Context()
	model := tui.NewApp(ctx, app.Workspace, app.Store, tui.Options{Palette: app.Config.Palette})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
