// Package workspace holds the signed-in user's collections in memory.
//
// Every mutation goes to the relational store first. Only when that succeeds
// is the in-memory collection updated, mirrored to the local cache and
// announced on the notification bus. A failed call leaves memory untouched,
// publishes an error notification and returns the error. Load prefers the
// store and falls back to the cache per collection.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/dayboard/internal/auth"
	"github.com/sadopc/dayboard/internal/cache"
	"github.com/sadopc/dayboard/internal/logging"
	"github.com/sadopc/dayboard/internal/notify"
	"github.com/sadopc/dayboard/internal/store"
)

// ErrNoUser is returned by every operation that needs a signed-in user.
var ErrNoUser = errors.New("no signed-in user")

// Cache collection names. Keys are "<name>_<userID>".
const (
	TasksKey          = "tasks"
	RecurringTasksKey = "recurring_tasks"
	EntriesKey        = "recurring_task_entries"
	CategoriesKey     = "categories"
	AchievementsKey   = "achievements"
	ThoughtsKey       = "thoughts"
)

// Remote is the relational store as seen by the workspace.
type Remote interface {
	ListTasks(ctx context.Context, userID string) ([]store.Task, error)
	CreateTask(ctx context.Context, t store.Task) (*store.Task, error)
	UpdateTask(ctx context.Context, t store.Task) (*store.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error

	ListRecurringTasks(ctx context.Context, userID string) ([]store.RecurringTask, error)
	CreateRecurringTask(ctx context.Context, r store.RecurringTask) (*store.RecurringTask, error)
	UpdateRecurringTask(ctx context.Context, r store.RecurringTask) (*store.RecurringTask, error)
	DeleteRecurringTask(ctx context.Context, id, userID string) error

	ListEntries(ctx context.Context, userID string, f store.EntryFilter) ([]store.RecurringTaskEntry, error)
	UpsertEntry(ctx context.Context, e store.RecurringTaskEntry) (*store.RecurringTaskEntry, error)
	DeleteEntry(ctx context.Context, id, userID string) error

	ListCategories(ctx context.Context, userID string) ([]store.Category, error)
	CreateCategory(ctx context.Context, c store.Category) (*store.Category, error)
	UpdateCategory(ctx context.Context, c store.Category) (*store.Category, error)
	DeleteCategory(ctx context.Context, id, userID string) (int64, error)

	ListAchievements(ctx context.Context, userID string) ([]store.Achievement, error)
	CreateAchievement(ctx context.Context, a store.Achievement) (*store.Achievement, error)
	DeleteAchievement(ctx context.Context, id, userID string) error

	ListThoughts(ctx context.Context, userID string) ([]store.Thought, error)
	CreateThought(ctx context.Context, t store.Thought) (*store.Thought, error)
	DeleteThought(ctx context.Context, id, userID string) error
}

var _ Remote = (*store.Store)(nil)

// Session is the part of auth.Session the workspace follows.
type Session interface {
	Current() (*store.User, bool)
	Subscribe(fn auth.Listener)
}

// Options tune color resolution and the clock.
type Options struct {
	CategoryColors map[string]string
	Palette        []string
	Now            func() time.Time
}

type Workspace struct {
	remote Remote
	kv     cache.KV
	bus    *notify.Bus
	opts   Options
	log    zerolog.Logger

	mu           sync.RWMutex
	user         *store.User
	offline      bool
	tasks        []store.Task
	recurring    []store.RecurringTask
	entries      []store.RecurringTaskEntry
	categories   []store.Category
	achievements []store.Achievement
	thoughts     []store.Thought
}

func New(remote Remote, kv cache.KV, bus *notify.Bus, opts Options) *Workspace {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if bus == nil {
		bus = notify.NewBus()
	}
	return &Workspace{
		remote: remote,
		kv:     kv,
		bus:    bus,
		opts:   opts,
		log:    logging.Component("workspace"),
	}
}

// Bus returns the bus mutations are announced on.
func (w *Workspace) Bus() *notify.Bus {
	return w.bus
}

// Follow switches to the session's current user now and on every identity
// change.
func (w *Workspace) Follow(ctx context.Context, s Session) {
	s.Subscribe(func(u *store.User) {
		if err := w.SwitchUser(context.WithoutCancel(ctx), u); err != nil {
			w.log.Warn().Err(err).Msg("reload after session change")
		}
	})
	if u, ok := s.Current(); ok {
		if err := w.SwitchUser(ctx, u); err != nil {
			w.log.Warn().Err(err).Msg("initial load")
		}
	}
}

// SwitchUser drops the current collections and loads u's. A nil u signs the
// workspace out.
func (w *Workspace) SwitchUser(ctx context.Context, u *store.User) error {
	w.mu.Lock()
	w.user = u
	w.offline = false
	w.tasks, w.recurring, w.entries = nil, nil, nil
	w.categories, w.achievements, w.thoughts = nil, nil, nil
	w.mu.Unlock()

	if u == nil {
		return nil
	}
	return w.Load(ctx)
}

// User returns the signed-in user.
func (w *Workspace) User() (*store.User, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.user, w.user != nil
}

// Offline reports whether the last Load fell back to the cache for any
// collection.
func (w *Workspace) Offline() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.offline
}

func (w *Workspace) userID() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.user == nil {
		return "", ErrNoUser
	}
	return w.user.ID, nil
}

// Now is the workspace clock.
func (w *Workspace) Now() time.Time {
	return w.opts.Now()
}

// Today is the current calendar date in store.DateLayout.
func (w *Workspace) Today() string {
	return w.Now().Format(store.DateLayout)
}

// Load reads every collection for the signed-in user.
func (w *Workspace) Load(ctx context.Context) error {
	uid, err := w.userID()
	if err != nil {
		return err
	}
	ctx = logging.WithUserID(ctx, uid)

	var fallbacks []string
	track := func(name string, fromCache bool) {
		if fromCache {
			fallbacks = append(fallbacks, name)
		}
	}

	tasks, c := loadCollection(ctx, w, TasksKey, uid, w.remote.ListTasks)
	track(TasksKey, c)
	recurring, c := loadCollection(ctx, w, RecurringTasksKey, uid, w.remote.ListRecurringTasks)
	track(RecurringTasksKey, c)
	entries, c := loadCollection(ctx, w, EntriesKey, uid, func(ctx context.Context, uid string) ([]store.RecurringTaskEntry, error) {
		return w.remote.ListEntries(ctx, uid, store.EntryFilter{})
	})
	track(EntriesKey, c)
	categories, c := loadCollection(ctx, w, CategoriesKey, uid, w.remote.ListCategories)
	track(CategoriesKey, c)
	achievements, c := loadCollection(ctx, w, AchievementsKey, uid, w.remote.ListAchievements)
	track(AchievementsKey, c)
	thoughts, c := loadCollection(ctx, w, ThoughtsKey, uid, w.remote.ListThoughts)
	track(ThoughtsKey, c)

	w.mu.Lock()
	if w.user == nil || w.user.ID != uid {
		w.mu.Unlock()
		return nil
	}
	w.tasks, w.recurring, w.entries = tasks, recurring, entries
	w.categories, w.achievements, w.thoughts = categories, achievements, thoughts
	w.offline = len(fallbacks) > 0
	w.mu.Unlock()

	if len(fallbacks) > 0 {
		w.bus.Warnf("Offline", "loaded %d collection(s) from the local cache", len(fallbacks))
	}
	w.log.Debug().Ctx(ctx).
		Int("tasks", len(tasks)).
		Int("recurring", len(recurring)).
		Int("entries", len(entries)).
		Strs("from_cache", fallbacks).
		Msg("workspace loaded")
	return nil
}

func loadCollection[T any](
	ctx context.Context,
	w *Workspace,
	name, uid string,
	list func(context.Context, string) ([]T, error),
) ([]T, bool) {
	scoped := cache.For[[]T](w.kv, name, uid)
	items, err := list(ctx, uid)
	if err != nil {
		w.log.Warn().Ctx(ctx).Err(err).Str("collection", name).Msg("store unavailable, reading local cache")
		return scoped.Get(ctx, nil), true
	}
	if err := scoped.Set(ctx, items); err != nil {
		w.log.Warn().Ctx(ctx).Err(err).Str("collection", name).Msg("mirror to cache")
	}
	return items, false
}

// mirror writes a collection snapshot to the local cache. Failures are logged
// only; the cache is a fallback.
func (w *Workspace) mirror(ctx context.Context, name, uid string, value any) {
	if err := w.kv.Set(ctx, cache.Key(name, uid), value); err != nil {
		w.log.Warn().Ctx(ctx).Err(err).Str("collection", name).Msg("mirror to cache")
	}
}

// fail logs and announces a failed remote call and returns it wrapped.
func (w *Workspace) fail(ctx context.Context, title, op string, err error) error {
	w.log.Error().Ctx(ctx).Err(err).Str("op", op).Msg("mutation failed")
	w.bus.Errorf(title, "%v", err)
	return fmt.Errorf("%s: %w", op, err)
}

// missing announces a lookup that failed locally. No store call was made.
func (w *Workspace) missing(title, kind, id string) error {
	w.log.Debug().Str("kind", kind).Str("id", id).Msg("not loaded")
	w.bus.Errorf(title, "%s %q not found", kind, id)
	return fmt.Errorf("%s %q: %w", kind, id, store.ErrNotFound)
}

// invalid announces a validation error without touching the store.
func (w *Workspace) invalid(title string, err error) error {
	w.bus.Errorf(title, "%v", err)
	return err
}

// snapshot helpers return copies so callers never alias internal state.

func (w *Workspace) Tasks() []store.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.tasks)
}

func (w *Workspace) RecurringTasks() []store.RecurringTask {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.recurring)
}

func (w *Workspace) Entries() []store.RecurringTaskEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.entries)
}

func (w *Workspace) Categories() []store.Category {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.categories)
}

func (w *Workspace) Achievements() []store.Achievement {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.achievements)
}

func (w *Workspace) Thoughts() []store.Thought {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.thoughts)
}
