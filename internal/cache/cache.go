// Package cache is the local key-value fallback mirror. Values are stored as
// JSON in a SQLite file separate from the main store, so it stays readable
// when the store is not.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/dayboard/internal/logging"
	_ "modernc.org/sqlite"
)

// ErrMissing is returned by Get when the key has never been set.
var ErrMissing = errors.New("cache key missing")

// KV is a persistent key-value store with JSON-serializable values.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}

// Cache implements KV on SQLite.
type Cache struct {
	db  *sql.DB
	log zerolog.Logger
}

var _ KV = (*Cache)(nil)

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	const ddl = `
	CREATE TABLE IF NOT EXISTS kv (
		key         TEXT PRIMARY KEY,
		value       TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}

	return &Cache{db: db, log: logging.Component("cache")}, nil
}

// OpenMemory creates an in-memory cache for testing.
func OpenMemory() (*Cache, error) {
	return Open(":memory:")
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get decodes the value stored under key into dest.
// Returns an error wrapping ErrMissing if the key does not exist.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("cache get %q: %w", key, ErrMissing)
	}
	if err != nil {
		return fmt.Errorf("cache get %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.log.Warn().Ctx(ctx).Err(err).Str("key", key).Msg("unreadable cache value")
		return fmt.Errorf("cache get %q unmarshal: %w", key, err)
	}
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache set %q marshal: %w", key, err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

func (c *Cache) Remove(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cache remove %q: %w", key, err)
	}
	return nil
}

func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Keys returns every key in sorted order.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("cache keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// GetOr returns the value under key, or def when the key is missing or its
// stored JSON cannot be decoded into T.
func GetOr[T any](ctx context.Context, kv KV, key string, def T) T {
	var v T
	if err := kv.Get(ctx, key, &v); err != nil {
		return def
	}
	return v
}
