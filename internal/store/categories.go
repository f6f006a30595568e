package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (s *Store) CreateCategory(ctx context.Context, c Category) (*Category, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, color, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Color, formatTime(c.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return s.GetCategory(ctx, c.ID, c.UserID)
}

func (s *Store) GetCategory(ctx context.Context, id, userID string) (*Category, error) {
	c := &Category{}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, created_at FROM categories WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, err)
	}
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, created_at FROM categories WHERE user_id = ? ORDER BY created_at, name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var createdAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTime(createdAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory changes name and color. A rename is carried over to every
// task, recurring task and achievement that referenced the old name.
func (s *Store) UpdateCategory(ctx context.Context, c Category) (*Category, error) {
	old, err := s.GetCategory(ctx, c.ID, c.UserID)
	if err != nil {
		return nil, err
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET name = ?, color = ? WHERE id = ? AND user_id = ?`,
			c.Name, c.Color, c.ID, c.UserID,
		); err != nil {
			return fmt.Errorf("update category %s: %w", c.ID, err)
		}
		if old.Name == c.Name {
			return nil
		}
		_, err := reassignCategory(ctx, tx, c.UserID, old.Name, c.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, c.ID, c.UserID)
}

// DeleteCategory removes the category and moves every item that still
// references it to NoCategory. It returns how many items were moved.
func (s *Store) DeleteCategory(ctx context.Context, id, userID string) (int64, error) {
	c, err := s.GetCategory(ctx, id, userID)
	if err != nil {
		return 0, err
	}
	var moved int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
		if err := expectOne(res, "delete category", id); err != nil {
			return err
		}
		moved, err = reassignCategory(ctx, tx, userID, c.Name, NoCategory)
		return err
	})
	return moved, err
}

func reassignCategory(ctx context.Context, tx *sql.Tx, userID, from, to string) (int64, error) {
	var total int64
	for _, table := range []string{"tasks", "recurring_tasks", "achievements"} {
		res, err := tx.ExecContext(ctx,
			`UPDATE `+table+` SET category = ? WHERE user_id = ? AND category = ?`, to, userID, from,
		)
		if err != nil {
			return 0, fmt.Errorf("reassign %s category: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
