package workspace

import (
	"context"
	"slices"
	"strings"

	"github.com/sadopc/dayboard/internal/category"
	"github.com/sadopc/dayboard/internal/store"
)

// AddCategory creates a category. Without a color it takes the next palette
// color, which is then remembered for the category.
func (w *Workspace) AddCategory(ctx context.Context, name, color string) (*store.Category, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	c := store.Category{UserID: uid, Name: strings.TrimSpace(name), Color: color}
	if err := validateCategory(c); err != nil {
		return nil, w.invalid("Invalid category", err)
	}
	if c.Color == "" {
		c.Color = w.resolver(uid).Resolve(ctx, c.Name, len(w.Categories()))
	}

	created, err := w.remote.CreateCategory(ctx, c)
	if err != nil {
		return nil, w.fail(ctx, "Could not create category", "create category", err)
	}

	w.mu.Lock()
	w.categories = append(w.categories, *created)
	snap := slices.Clone(w.categories)
	w.mu.Unlock()

	w.mirror(ctx, CategoriesKey, uid, snap)
	w.rememberColor(ctx, uid, created.Name, created.Color)
	w.bus.Successf("Category created", "%q added", created.Name)
	return created, nil
}

// UpdateCategory renames or recolors c. Items referencing the old name follow
// the rename.
func (w *Workspace) UpdateCategory(ctx context.Context, c store.Category) (*store.Category, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	c.UserID = uid
	c.Name = strings.TrimSpace(c.Name)
	if err := validateCategory(c); err != nil {
		return nil, w.invalid("Invalid category", err)
	}
	old, ok := w.Category(c.ID)
	if !ok {
		return nil, w.missing("Could not update category", "category", c.ID)
	}

	updated, err := w.remote.UpdateCategory(ctx, c)
	if err != nil {
		return nil, w.fail(ctx, "Could not update category", "update category", err)
	}

	w.mu.Lock()
	if i := slices.IndexFunc(w.categories, func(x store.Category) bool { return x.ID == updated.ID }); i >= 0 {
		w.categories[i] = *updated
	}
	renamed := old.Name != updated.Name
	if renamed {
		w.reassignLocked(old.Name, updated.Name)
	}
	w.mu.Unlock()

	w.mirrorCategorized(ctx, uid, renamed)
	if renamed {
		w.forgetColor(ctx, uid, old.Name)
	}
	w.rememberColor(ctx, uid, updated.Name, updated.Color)
	w.bus.Successf("Category updated", "%q saved", updated.Name)
	return updated, nil
}

// DeleteCategory removes category id. Tasks, recurring tasks and
// achievements that used it move to store.NoCategory.
func (w *Workspace) DeleteCategory(ctx context.Context, id string) error {
	uid, err := w.userID()
	if err != nil {
		return err
	}
	c, ok := w.Category(id)
	if !ok {
		return w.missing("Could not delete category", "category", id)
	}

	moved, err := w.remote.DeleteCategory(ctx, id, uid)
	if err != nil {
		return w.fail(ctx, "Could not delete category", "delete category", err)
	}

	w.mu.Lock()
	w.categories = slices.DeleteFunc(w.categories, func(x store.Category) bool { return x.ID == id })
	w.reassignLocked(c.Name, store.NoCategory)
	w.mu.Unlock()

	w.mirrorCategorized(ctx, uid, true)
	w.forgetColor(ctx, uid, c.Name)
	if moved > 0 {
		w.bus.Successf("Category deleted", "%d item(s) moved to %q", moved, store.NoCategory)
	} else {
		w.bus.Successf("Category deleted", "%q removed", c.Name)
	}
	return nil
}

func (w *Workspace) Category(id string) (store.Category, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := slices.IndexFunc(w.categories, func(c store.Category) bool { return c.ID == id })
	if i < 0 {
		return store.Category{}, false
	}
	return w.categories[i], true
}

// CategoryByName looks a category up by its label.
func (w *Workspace) CategoryByName(name string) (store.Category, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := slices.IndexFunc(w.categories, func(c store.Category) bool { return c.Name == name })
	if i < 0 {
		return store.Category{}, false
	}
	return w.categories[i], true
}

// CategoryNames lists category labels in creation order.
func (w *Workspace) CategoryNames() []string {
	return category.Names(w.Categories())
}

// CategoryColor resolves the display color of name. Unknown names, including
// store.NoCategory, are placed after the known categories.
func (w *Workspace) CategoryColor(ctx context.Context, name string) string {
	uid, err := w.userID()
	if err != nil {
		uid = ""
	}
	names := w.CategoryNames()
	idx := slices.Index(names, name)
	if idx < 0 {
		idx = len(names)
	}
	return w.resolver(uid).Resolve(ctx, name, idx)
}

// CategoryColors resolves every known category at once.
func (w *Workspace) CategoryColors(ctx context.Context) map[string]string {
	uid, _ := w.userID()
	return w.resolver(uid).ResolveAll(ctx, w.CategoryNames())
}

func (w *Workspace) resolver(uid string) *category.Resolver {
	explicit := category.ExplicitColors(w.opts.CategoryColors, w.Categories())
	return category.NewResolver(explicit, w.kv, uid, w.opts.Palette)
}

func (w *Workspace) rememberColor(ctx context.Context, uid, name, color string) {
	if color == "" {
		return
	}
	if err := w.resolver(uid).Remember(ctx, name, color); err != nil {
		w.log.Warn().Ctx(ctx).Err(err).Str("category", name).Msg("remember color")
	}
}

func (w *Workspace) forgetColor(ctx context.Context, uid, name string) {
	if err := w.resolver(uid).Forget(ctx, name); err != nil {
		w.log.Warn().Ctx(ctx).Err(err).Str("category", name).Msg("forget color")
	}
}

// reassignLocked moves every in-memory item labeled from to to. w.mu must be
// held for writing.
func (w *Workspace) reassignLocked(from, to string) {
	for i := range w.tasks {
		if w.tasks[i].Category == from {
			w.tasks[i].Category = to
		}
	}
	for i := range w.recurring {
		if w.recurring[i].Category == from {
			w.recurring[i].Category = to
		}
	}
	for i := range w.achievements {
		if w.achievements[i].Category == from {
			w.achievements[i].Category = to
		}
	}
}

// mirrorCategorized writes the categories and, when items were relabeled,
// every collection that carries a category.
func (w *Workspace) mirrorCategorized(ctx context.Context, uid string, relabeled bool) {
	w.mu.RLock()
	cats := slices.Clone(w.categories)
	tasks := slices.Clone(w.tasks)
	recurring := slices.Clone(w.recurring)
	achievements := slices.Clone(w.achievements)
	w.mu.RUnlock()

	w.mirror(ctx, CategoriesKey, uid, cats)
	if !relabeled {
		return
	}
	w.mirror(ctx, TasksKey, uid, tasks)
	w.mirror(ctx, RecurringTasksKey, uid, recurring)
	w.mirror(ctx, AchievementsKey, uid, achievements)
}
