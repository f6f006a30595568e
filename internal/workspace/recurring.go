package workspace

import (
	"context"
	"slices"

	"github.com/sadopc/dayboard/internal/store"
)

// AddRecurring creates an active recurring task.
func (w *Workspace) AddRecurring(ctx context.Context, r store.RecurringTask) (*store.RecurringTask, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	r.UserID = uid
	r.Active = true
	if err := validateRecurring(r); err != nil {
		return nil, w.invalid("Invalid recurring task", err)
	}

	created, err := w.remote.CreateRecurringTask(ctx, r)
	if err != nil {
		return nil, w.fail(ctx, "Could not create recurring task", "create recurring task", err)
	}

	w.mu.Lock()
	w.recurring = append(w.recurring, *created)
	snap := slices.Clone(w.recurring)
	w.mu.Unlock()

	w.mirror(ctx, RecurringTasksKey, uid, snap)
	w.bus.Successf("Recurring task created", "%q repeats daily", created.Title)
	return created, nil
}

func (w *Workspace) UpdateRecurring(ctx context.Context, r store.RecurringTask) (*store.RecurringTask, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	r.UserID = uid
	if err := validateRecurring(r); err != nil {
		return nil, w.invalid("Invalid recurring task", err)
	}

	updated, err := w.remote.UpdateRecurringTask(ctx, r)
	if err != nil {
		return nil, w.fail(ctx, "Could not update recurring task", "update recurring task", err)
	}

	w.replaceRecurring(ctx, uid, *updated)
	w.bus.Successf("Recurring task updated", "%q saved", updated.Title)
	return updated, nil
}

// ToggleRecurringActive pauses or resumes recurring task id.
func (w *Workspace) ToggleRecurringActive(ctx context.Context, id string) (*store.RecurringTask, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	r, ok := w.Recurring(id)
	if !ok {
		return nil, w.missing("Could not update recurring task", "recurring task", id)
	}
	r.Active = !r.Active

	updated, err := w.remote.UpdateRecurringTask(ctx, r)
	if err != nil {
		return nil, w.fail(ctx, "Could not update recurring task", "toggle recurring task", err)
	}

	w.replaceRecurring(ctx, uid, *updated)
	if updated.Active {
		w.bus.Successf("Recurring task resumed", "%q is active", updated.Title)
	} else {
		w.bus.Infof("Recurring task paused", "%q is paused", updated.Title)
	}
	return updated, nil
}

// DeleteRecurring removes recurring task id together with its entries.
func (w *Workspace) DeleteRecurring(ctx context.Context, id string) error {
	uid, err := w.userID()
	if err != nil {
		return err
	}
	if err := w.remote.DeleteRecurringTask(ctx, id, uid); err != nil {
		return w.fail(ctx, "Could not delete recurring task", "delete recurring task", err)
	}

	w.mu.Lock()
	w.recurring = slices.DeleteFunc(w.recurring, func(r store.RecurringTask) bool { return r.ID == id })
	w.entries = slices.DeleteFunc(w.entries, func(e store.RecurringTaskEntry) bool { return e.RecurringTaskID == id })
	recSnap := slices.Clone(w.recurring)
	entrySnap := slices.Clone(w.entries)
	w.mu.Unlock()

	w.mirror(ctx, RecurringTasksKey, uid, recSnap)
	w.mirror(ctx, EntriesKey, uid, entrySnap)
	w.bus.Successf("Recurring task deleted", "the task and its history were removed")
	return nil
}

// SetRecurringDone records whether recurring task id was done on date. The
// entry for (id, date) is written in place, so repeated calls never produce
// a second entry for the same day. Category and title are copied from the
// parent task.
func (w *Workspace) SetRecurringDone(ctx context.Context, id, date string, done bool, details string) (*store.RecurringTaskEntry, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	if err := calendarDate(date); err != nil {
		return nil, w.invalid("Invalid date", err)
	}
	r, ok := w.Recurring(id)
	if !ok {
		return nil, w.missing("Could not record recurring task", "recurring task", id)
	}

	entry := store.RecurringTaskEntry{
		UserID:          uid,
		RecurringTaskID: id,
		Details:         details,
		Date:            date,
		Completed:       done,
		Category:        r.Category,
		Title:           r.Title,
	}
	if prev, ok := w.EntryFor(id, date); ok {
		entry.ID = prev.ID
		if details == "" {
			entry.Details = prev.Details
		}
	}

	saved, err := w.remote.UpsertEntry(ctx, entry)
	if err != nil {
		return nil, w.fail(ctx, "Could not record recurring task", "complete recurring task", err)
	}

	w.mu.Lock()
	i := slices.IndexFunc(w.entries, func(e store.RecurringTaskEntry) bool {
		return e.RecurringTaskID == saved.RecurringTaskID && e.Date == saved.Date
	})
	if i >= 0 {
		w.entries[i] = *saved
	} else {
		w.entries = append(w.entries, *saved)
	}
	snap := slices.Clone(w.entries)
	w.mu.Unlock()

	w.mirror(ctx, EntriesKey, uid, snap)
	if done {
		w.bus.Successf("Recurring task done", "%q completed for %s", r.Title, date)
	} else {
		w.bus.Infof("Recurring task reopened", "%q is pending for %s", r.Title, date)
	}
	return saved, nil
}

// CompleteToday marks recurring task id done for today.
func (w *Workspace) CompleteToday(ctx context.Context, id, details string) (*store.RecurringTaskEntry, error) {
	return w.SetRecurringDone(ctx, id, w.Today(), true, details)
}

// ToggleToday flips today's completion of recurring task id.
func (w *Workspace) ToggleToday(ctx context.Context, id string) (*store.RecurringTaskEntry, error) {
	return w.SetRecurringDone(ctx, id, w.Today(), !w.CompletedOn(id, w.Today()), "")
}

func (w *Workspace) Recurring(id string) (store.RecurringTask, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := slices.IndexFunc(w.recurring, func(r store.RecurringTask) bool { return r.ID == id })
	if i < 0 {
		return store.RecurringTask{}, false
	}
	return w.recurring[i], true
}

// EntryFor returns the entry of recurring task id on date.
func (w *Workspace) EntryFor(id, date string) (store.RecurringTaskEntry, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := slices.IndexFunc(w.entries, func(e store.RecurringTaskEntry) bool {
		return e.RecurringTaskID == id && e.Date == date
	})
	if i < 0 {
		return store.RecurringTaskEntry{}, false
	}
	return w.entries[i], true
}

// CompletedOn reports whether recurring task id has a completed entry on date.
func (w *Workspace) CompletedOn(id, date string) bool {
	e, ok := w.EntryFor(id, date)
	return ok && e.Completed
}

// CompletedToday is CompletedOn for today.
func (w *Workspace) CompletedToday(id string) bool {
	return w.CompletedOn(id, w.Today())
}

// History returns the entries of recurring task id, oldest first.
func (w *Workspace) History(id string) []store.RecurringTaskEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []store.RecurringTaskEntry
	for _, e := range w.entries {
		if e.RecurringTaskID == id {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b store.RecurringTaskEntry) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})
	return out
}

func (w *Workspace) replaceRecurring(ctx context.Context, uid string, r store.RecurringTask) {
	w.mu.Lock()
	if i := slices.IndexFunc(w.recurring, func(x store.RecurringTask) bool { return x.ID == r.ID }); i >= 0 {
		w.recurring[i] = r
	} else {
		w.recurring = append(w.recurring, r)
	}
	snap := slices.Clone(w.recurring)
	w.mu.Unlock()

	w.mirror(ctx, RecurringTasksKey, uid, snap)
}
