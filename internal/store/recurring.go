package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const recurringColumns = `id, user_id, title, description, category, active, created_at`

func (s *Store) CreateRecurringTask(ctx context.Context, r RecurringTask) (*RecurringTask, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recurring_tasks (`+recurringColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Title, r.Description, r.Category, boolToInt(r.Active), formatTime(r.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert recurring task: %w", err)
	}
	return s.GetRecurringTask(ctx, r.ID, r.UserID)
}

func (s *Store) GetRecurringTask(ctx context.Context, id, userID string) (*RecurringTask, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_tasks WHERE id = ? AND user_id = ?`, id, userID,
	)
	r, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get recurring task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recurring task %s: %w", id, err)
	}
	return r, nil
}

func (s *Store) ListRecurringTasks(ctx context.Context, userID string) ([]RecurringTask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_tasks WHERE user_id = ? ORDER BY created_at, title`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recurring tasks: %w", err)
	}
	defer rows.Close()

	var list []RecurringTask
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *r)
	}
	return list, rows.Err()
}

func (s *Store) UpdateRecurringTask(ctx context.Context, r RecurringTask) (*RecurringTask, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_tasks SET title = ?, description = ?, category = ?, active = ?
		 WHERE id = ? AND user_id = ?`,
		r.Title, r.Description, r.Category, boolToInt(r.Active), r.ID, r.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("update recurring task %s: %w", r.ID, err)
	}
	if err := expectOne(res, "update recurring task", r.ID); err != nil {
		return nil, err
	}
	return s.GetRecurringTask(ctx, r.ID, r.UserID)
}

// DeleteRecurringTask removes the task together with all of its entries.
func (s *Store) DeleteRecurringTask(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recurring task %s: %w", id, err)
	}
	return expectOne(res, "delete recurring task", id)
}

func scanRecurring(row scanner) (*RecurringTask, error) {
	r := &RecurringTask{}
	var createdAt string
	var active int
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.Category, &active, &createdAt); err != nil {
		return nil, err
	}
	r.Active = active == 1
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}
