package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/dayboard/internal/logging"
	_ "modernc.org/sqlite"
)

const currentVersion = 2

// ErrNotFound is returned when an update or delete matches no row owned by the caller.
var ErrNotFound = errors.New("not found")

type Store struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:  db,
		log: logging.Component("store"),
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	s.log.Debug().Int("from", version).Int("to", currentVersion).Msg("schema migrated")
	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL UNIQUE,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id),
		name        TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		UNIQUE(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES users(id),
		title          TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		category       TEXT NOT NULL DEFAULT '',
		date           TEXT NOT NULL,
		time           TEXT NOT NULL DEFAULT '',
		time_estimate  INTEGER,
		completed      INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON tasks(user_id, date);

	CREATE TABLE IF NOT EXISTS recurring_tasks (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id),
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		active       INTEGER NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS recurring_task_entries (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL REFERENCES users(id),
		recurring_task_id  TEXT NOT NULL REFERENCES recurring_tasks(id) ON DELETE CASCADE,
		details            TEXT NOT NULL DEFAULT '',
		date               TEXT NOT NULL,
		completed          INTEGER NOT NULL DEFAULT 0,
		category           TEXT NOT NULL DEFAULT '',
		title              TEXT NOT NULL DEFAULT '',
		created_at         TEXT NOT NULL,
		UNIQUE(recurring_task_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_user_date ON recurring_task_entries(user_id, date);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('default_category', ''),
		('show_completed',   'true'),
		('daily_goal',       '5');
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) migrateV2() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS achievements (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id),
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		date         TEXT NOT NULL,
		created_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS thoughts (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id),
		content     TEXT NOT NULL,
		mood        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// withTx runs fn inside a transaction, rolling back when fn fails.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
