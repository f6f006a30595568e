package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const entryColumns = `id, user_id, recurring_task_id, details, date, completed, category, title, created_at`

// EntryFilter is used to filter recurring task entries in queries.
// From and To are inclusive calendar dates in DateLayout.
type EntryFilter struct {
	RecurringTaskID string
	From            string
	To              string
	Limit           int
}

// UpsertEntry writes the entry for (RecurringTaskID, Date). An existing entry
// for that day is updated in place and keeps its id. An existing entry owned
// by another user is left alone and ErrNotFound is returned.
func (s *Store) UpsertEntry(ctx context.Context, e RecurringTaskEntry) (*RecurringTaskEntry, error) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recurring_task_entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(recurring_task_id, date) DO UPDATE SET
			details = excluded.details,
			completed = excluded.completed,
			category = excluded.category,
			title = excluded.title
		 WHERE recurring_task_entries.user_id = excluded.user_id`,
		e.ID, e.UserID, e.RecurringTaskID, e.Details, e.Date, boolToInt(e.Completed),
		e.Category, e.Title, formatTime(e.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert entry: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM recurring_task_entries
		 WHERE recurring_task_id = ? AND date = ? AND user_id = ?`,
		e.RecurringTaskID, e.Date, e.UserID,
	)
	out, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read back entry: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read back entry: %w", err)
	}
	return out, nil
}

func (s *Store) ListEntries(ctx context.Context, userID string, f EntryFilter) ([]RecurringTaskEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM recurring_task_entries WHERE user_id = ?`
	args := []any{userID}

	if f.RecurringTaskID != "" {
		query += ` AND recurring_task_id = ?`
		args = append(args, f.RecurringTaskID)
	}
	if f.From != "" {
		query += ` AND date >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND date <= ?`
		args = append(args, f.To)
	}
	query += ` ORDER BY date, created_at`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []RecurringTaskEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteEntry(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_task_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return expectOne(res, "delete entry", id)
}

func scanEntry(row scanner) (*RecurringTaskEntry, error) {
	e := &RecurringTaskEntry{}
	var createdAt string
	var completed int
	if err := row.Scan(&e.ID, &e.UserID, &e.RecurringTaskID, &e.Details, &e.Date, &completed,
		&e.Category, &e.Title, &createdAt); err != nil {
		return nil, err
	}
	e.Completed = completed == 1
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}
