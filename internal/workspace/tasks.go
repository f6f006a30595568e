package workspace

import (
	"context"
	"slices"

	"github.com/sadopc/dayboard/internal/store"
)

// AddTask creates t for the signed-in user. An empty Date means today.
func (w *Workspace) AddTask(ctx context.Context, t store.Task) (*store.Task, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	if t.Date == "" {
		t.Date = w.Today()
	}
	t.UserID = uid
	if err := validateTask(t); err != nil {
		return nil, w.invalid("Invalid task", err)
	}

	created, err := w.remote.CreateTask(ctx, t)
	if err != nil {
		return nil, w.fail(ctx, "Could not create task", "create task", err)
	}

	w.mu.Lock()
	w.tasks = append(w.tasks, *created)
	snap := slices.Clone(w.tasks)
	w.mu.Unlock()

	w.mirror(ctx, TasksKey, uid, snap)
	w.bus.Successf("Task created", "%q added for %s", created.Title, created.Date)
	return created, nil
}

// UpdateTask replaces the stored task with t, matched by id.
func (w *Workspace) UpdateTask(ctx context.Context, t store.Task) (*store.Task, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	t.UserID = uid
	if err := validateTask(t); err != nil {
		return nil, w.invalid("Invalid task", err)
	}

	updated, err := w.remote.UpdateTask(ctx, t)
	if err != nil {
		return nil, w.fail(ctx, "Could not update task", "update task", err)
	}

	w.replaceTask(ctx, uid, *updated)
	w.bus.Successf("Task updated", "%q saved", updated.Title)
	return updated, nil
}

// ToggleTask flips the completion flag of task id.
func (w *Workspace) ToggleTask(ctx context.Context, id string) (*store.Task, error) {
	uid, err := w.userID()
	if err != nil {
		return nil, err
	}
	t, ok := w.Task(id)
	if !ok {
		return nil, w.missing("Could not update task", "task", id)
	}
	t.Completed = !t.Completed

	updated, err := w.remote.UpdateTask(ctx, t)
	if err != nil {
		return nil, w.fail(ctx, "Could not update task", "toggle task", err)
	}

	w.replaceTask(ctx, uid, *updated)
	if updated.Completed {
		w.bus.Successf("Task completed", "%q is done", updated.Title)
	} else {
		w.bus.Infof("Task reopened", "%q is pending again", updated.Title)
	}
	return updated, nil
}

// DeleteTask removes task id.
func (w *Workspace) DeleteTask(ctx context.Context, id string) error {
	uid, err := w.userID()
	if err != nil {
		return err
	}
	if err := w.remote.DeleteTask(ctx, id, uid); err != nil {
		return w.fail(ctx, "Could not delete task", "delete task", err)
	}

	w.mu.Lock()
	w.tasks = slices.DeleteFunc(w.tasks, func(t store.Task) bool { return t.ID == id })
	snap := slices.Clone(w.tasks)
	w.mu.Unlock()

	w.mirror(ctx, TasksKey, uid, snap)
	w.bus.Successf("Task deleted", "the task was removed")
	return nil
}

// Task returns the in-memory task with id.
func (w *Workspace) Task(id string) (store.Task, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := slices.IndexFunc(w.tasks, func(t store.Task) bool { return t.ID == id })
	if i < 0 {
		return store.Task{}, false
	}
	return w.tasks[i], true
}

// TasksOn returns the tasks scheduled for date.
func (w *Workspace) TasksOn(date string) []store.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []store.Task
	for _, t := range w.tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

func (w *Workspace) replaceTask(ctx context.Context, uid string, t store.Task) {
	w.mu.Lock()
	if i := slices.IndexFunc(w.tasks, func(x store.Task) bool { return x.ID == t.ID }); i >= 0 {
		w.tasks[i] = t
	} else {
		w.tasks = append(w.tasks, t)
	}
	snap := slices.Clone(w.tasks)
	w.mu.Unlock()

	w.mirror(ctx, TasksKey, uid, snap)
}
