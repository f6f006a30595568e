package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	type payload struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	require.NoError(t, c.Set(ctx, "k", payload{Name: "hello", Value: 42}))

	var got payload
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "hello", Value: 42}, got)
}

func TestGetMissing(t *testing.T) {
	c := newTestCache(t)
	var v string
	assert.ErrorIs(t, c.Get(context.Background(), "nope", &v), ErrMissing)
}

func TestTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	estimate := 30

	in := []store.Task{{
		ID:           "t-1",
		UserID:       "u-1",
		Title:        "Estudar",
		Description:  "capítulo 4",
		Category:     "Estudos",
		Date:         "2026-10-12",
		Time:         "08:00",
		TimeEstimate: &estimate,
		Completed:    true,
		CreatedAt:    time.Date(2026, 10, 11, 20, 0, 0, 0, time.UTC),
	}}

	tasks := For[[]store.Task](c, "tasks", "u-1")
	require.NoError(t, tasks.Set(ctx, in))

	out := tasks.Get(ctx, nil)
	assert.Equal(t, in, out)
}

func TestCorruptValueFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, err := c.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES ('tasks_u-1', '{not json', '')`)
	require.NoError(t, err)

	def := []store.Task{{ID: "fallback"}}
	got := GetOr(ctx, c, "tasks_u-1", def)
	assert.Equal(t, def, got)

	_, ok := For[[]store.Task](c, "tasks", "u-1").Lookup(ctx)
	assert.False(t, ok)
}

func TestCorruptValueIsLogged(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	var buf bytes.Buffer
	c.log = zerolog.New(&buf)

	_, err := c.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES ('goal_u-1', 'nope', '')`)
	require.NoError(t, err)

	assert.Equal(t, 5, GetOr(ctx, c, "goal_u-1", 5))
	assert.Contains(t, buf.String(), "unreadable cache value")
	assert.Contains(t, buf.String(), `"key":"goal_u-1"`)

	buf.Reset()
	assert.Equal(t, 5, GetOr(ctx, c, "never_set", 5))
	assert.Empty(t, buf.String(), "missing keys are not warnings")
}

func TestScopedKeysAreNamespacedPerUser(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, For[int](c, "goal", "alice").Set(ctx, 3))
	require.NoError(t, For[int](c, "goal", "bob").Set(ctx, 7))

	assert.Equal(t, 3, For[int](c, "goal", "alice").Get(ctx, 0))
	assert.Equal(t, 7, For[int](c, "goal", "bob").Get(ctx, 0))

	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"goal_alice", "goal_bob"}, keys)
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.Set(ctx, "a", 1))
	require.NoError(t, c.Set(ctx, "b", 2))

	require.NoError(t, c.Remove(ctx, "a"))
	assert.Equal(t, 0, GetOr(ctx, c, "a", 0))
	assert.Equal(t, 2, GetOr(ctx, c, "b", 0))

	require.NoError(t, c.Clear(ctx))
	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", "one"))
	require.NoError(t, c.Set(ctx, "k", "two"))
	assert.Equal(t, "two", GetOr(ctx, c, "k", ""))
}
