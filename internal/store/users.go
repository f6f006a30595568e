package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// EnsureUser returns the user registered under email, creating it on first use.
func (s *Store) EnsureUser(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.userByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u = &User{ID: newID(), Email: email, CreatedAt: s.now()}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, created_at) VALUES (?, ?, ?)`,
		u.ID, u.Email, formatTime(u.CreatedAt),
	); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	s.log.Info().Str("user_id", u.ID).Msg("user registered")
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE id = ?`, id), id)
}

func (s *Store) userByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE email = ?`, email), email)
}

func (s *Store) scanUser(row *sql.Row, key string) (*User, error) {
	u := &User{}
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", key, err)
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}
