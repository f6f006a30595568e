// Package cli is the dayboard command line: the TUI entry point plus
// scriptable subcommands over the same workspace.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/dayboard/internal/auth"
	"github.com/sadopc/dayboard/internal/cache"
	"github.com/sadopc/dayboard/internal/config"
	"github.com/sadopc/dayboard/internal/logging"
	"github.com/sadopc/dayboard/internal/notify"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/sadopc/dayboard/internal/workspace"
)

var errNotSignedIn = errors.New("not signed in: run `dayboard login <email>` first")

// App holds everything a command needs. The root command opens it lazily
// so that --help never touches the database.
type App struct {
	Config    *config.Config
	Store     *store.Store
	Cache     *cache.Cache
	Session   *auth.Session
	Workspace *workspace.Workspace

	closers []func()
}

// Open wires logging, the store, the cache and the session from cfg, and
// signs back in the remembered user (or cfg.User).
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	l, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	logging.Install(l)

	s, err := store.New(cfg.DBPath())
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}

	kv, err := cache.Open(cfg.CachePath())
	if err != nil {
		_ = s.Close()
		closeLog()
		return nil, fmt.Errorf("open cache: %w", err)
	}

	app := newApp(cfg, s, kv, time.Now)
	app.closers = append(app.closers, func() { _ = kv.Close() }, func() { _ = s.Close() }, closeLog)

	if err := app.restore(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func newApp(cfg *config.Config, s *store.Store, kv *cache.Cache, now func() time.Time) *App {
	ws := workspace.New(s, kv, notify.NewBus(), workspace.Options{
		CategoryColors: cfg.CategoryColors,
		Palette:        cfg.Palette,
		Now:            now,
	})
	app := &App{
		Config:    cfg,
		Store:     s,
		Cache:     kv,
		Session:   auth.NewSession(s, kv),
		Workspace: ws,
	}
	app.Workspace.Follow(context.Background(), app.Session)
	return app
}

func (a *App) restore(ctx context.Context) error {
	u, err := a.Session.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if u == nil && a.Config.User != "" {
		if _, err := a.Session.SignIn(ctx, a.Config.User); err != nil {
			return fmt.Errorf("sign in %s: %w", a.Config.User, err)
		}
	}
	return nil
}

// Close releases everything Open acquired, in reverse order of opening.
func (a *App) Close() {
	for _, fn := range a.closers {
		fn()
	}
	a.closers = nil
}

func (a *App) opened() bool {
	return a.Workspace != nil
}

func (a *App) requireUser() (*store.User, error) {
	u, ok := a.Workspace.User()
	if !ok {
		return nil, errNotSignedIn
	}
	return u, nil
}

// resolveID matches input against ids, accepting any unambiguous prefix.
func resolveID(kind, input string, ids []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var match string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			if match != "" {
				return "", fmt.Errorf("%s id %q is ambiguous", kind, input)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%s %q: %w", kind, input, store.ErrNotFound)
	}
	return match, nil
}

func taskIDs(tasks []store.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func recurringIDs(tasks []store.RecurringTask) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
