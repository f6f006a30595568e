package workspace

import (
	"context"
	"slices"
	"strings"

	"github.com/sadopc/dayboard/internal/store"
)

// AddAchievement records an achievement. An empty Date means today.
func (w *Workspace) AddAchievement(ctx context.Context, a store.Achievement) (*store.Achievement, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	a.UserID = uid
	if a.Date == "" {
		a.Date = w.Today()
	}
	if err := validateAchievement(a); err != nil {
		return nil, w.invalid("Invalid achievement", err)
	}

	created, err := w.remote.CreateAchievement(ctx, a)
	if err != nil {
		return nil, w.fail(ctx, "Could not save achievement", "create achievement", err)
	}

	w.mu.Lock()
	w.achievements = append(w.achievements, *created)
	slices.SortStableFunc(w.achievements, func(x, y store.Achievement) int {
		return strings.Compare(y.Date, x.Date)
	})
	snap := slices.Clone(w.achievements)
	w.mu.Unlock()

	w.mirror(ctx, AchievementsKey, uid, snap)
	w.bus.Successf("Achievement saved", "%q", created.Title)
	return created, nil
}

func (w *Workspace) DeleteAchievement(ctx context.Context, id string) error {
	uid, err := w.userID()
	if err != nil {
		return err
	}
	if err := w.remote.DeleteAchievement(ctx, id, uid); err != nil {
		return w.fail(ctx, "Could not delete achievement", "delete achievement", err)
	}

	w.mu.Lock()
	w.achievements = slices.DeleteFunc(w.achievements, func(a store.Achievement) bool { return a.ID == id })
	snap := slices.Clone(w.achievements)
	w.mu.Unlock()

	w.mirror(ctx, AchievementsKey, uid, snap)
	w.bus.Successf("Achievement deleted", "the achievement was removed")
	return nil
}

// AddThought saves a markdown note. Newest thoughts come first.
func (w *Workspace) AddThought(ctx context.Context, t store.Thought) (*store.Thought, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	t.UserID = uid
	if err := validateThought(t); err != nil {
		return nil, w.invalid("Invalid thought", err)
	}

	created, err := w.remote.CreateThought(ctx, t)
	if err != nil {
		return nil, w.fail(ctx, "Could not save thought", "create thought", err)
	}

	w.mu.Lock()
	w.thoughts = slices.Insert(w.thoughts, 0, *created)
	snap := slices.Clone(w.thoughts)
	w.mu.Unlock()

	w.mirror(ctx, ThoughtsKey, uid, snap)
	w.bus.Successf("Thought saved", "your note was recorded")
	return created, nil
}

func (w *Workspace) DeleteThought(ctx context.Context, id string) error {
	uid, err := w.userID()
	if err != nil {
		return err
	}
	if err := w.remote.DeleteThought(ctx, id, uid); err != nil {
		return w.fail(ctx, "Could not delete thought", "delete thought", err)
	}

	w.mu.Lock()
	w.thoughts = slices.DeleteFunc(w.thoughts, func(t store.Thought) bool { return t.ID == id })
	snap := slices.Clone(w.thoughts)
	w.mu.Unlock()

	w.mirror(ctx, ThoughtsKey, uid, snap)
	w.bus.Successf("Thought deleted", "the note was removed")
	return nil
}
