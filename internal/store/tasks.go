package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const taskColumns = `id, user_id, title, description, category, date, time, time_estimate, completed, created_at`

func (s *Store) CreateTask(ctx context.Context, t Task) (*Task, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.Description, t.Category, t.Date, t.Time,
		t.TimeEstimate, boolToInt(t.Completed), formatTime(t.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, t.ID, t.UserID)
}

func (s *Store) GetTask(ctx context.Context, id, userID string) (*Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, userID string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY date, time, created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask overwrites every mutable column of the task identified by t.ID and t.UserID.
func (s *Store) UpdateTask(ctx context.Context, t Task) (*Task, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, category = ?, date = ?, time = ?,
		        time_estimate = ?, completed = ?
		 WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, t.Category, t.Date, t.Time, t.TimeEstimate,
		boolToInt(t.Completed), t.ID, t.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", t.ID, err)
	}
	if err := expectOne(res, "update task", t.ID); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, t.ID, t.UserID)
}

func (s *Store) DeleteTask(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return expectOne(res, "delete task", id)
}

func scanTask(row scanner) (*Task, error) {
	t := &Task{}
	var createdAt string
	var completed int
	var estimate sql.NullInt64
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Category, &t.Date,
		&t.Time, &estimate, &completed, &createdAt); err != nil {
		return nil, err
	}
	if estimate.Valid {
		v := int(estimate.Int64)
		t.TimeEstimate = &v
	}
	t.Completed = completed == 1
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}
