package store

import (
	"context"
	"fmt"
)

func (s *Store) CreateAchievement(ctx context.Context, a Achievement) (*Achievement, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO achievements (id, user_id, title, description, category, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Title, a.Description, a.Category, a.Date, formatTime(a.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert achievement: %w", err)
	}
	return &a, nil
}

func (s *Store) ListAchievements(ctx context.Context, userID string) ([]Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, category, date, created_at
		 FROM achievements WHERE user_id = ? ORDER BY date DESC, created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var list []Achievement
	for rows.Next() {
		var a Achievement
		var createdAt string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Category, &a.Date, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt = parseTime(createdAt)
		list = append(list, a)
	}
	return list, rows.Err()
}

func (s *Store) DeleteAchievement(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM achievements WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete achievement %s: %w", id, err)
	}
	return expectOne(res, "delete achievement", id)
}

func (s *Store) CreateThought(ctx context.Context, t Thought) (*Thought, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO thoughts (id, user_id, content, mood, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Content, t.Mood, formatTime(t.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert thought: %w", err)
	}
	return &t, nil
}

func (s *Store) ListThoughts(ctx context.Context, userID string) ([]Thought, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, content, mood, created_at FROM thoughts WHERE user_id = ? ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list thoughts: %w", err)
	}
	defer rows.Close()

	var list []Thought
	for rows.Next() {
		var t Thought
		var createdAt string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Content, &t.Mood, &createdAt); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(createdAt)
		list = append(list, t)
	}
	return list, rows.Err()
}

func (s *Store) DeleteThought(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM thoughts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete thought %s: %w", id, err)
	}
	return expectOne(res, "delete thought", id)
}
