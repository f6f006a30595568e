package category

import (
	"context"
	"testing"

	"github.com/sadopc/dayboard/internal/cache"
	"github.com/sadopc/dayboard/internal/config"
	"github.com/sadopc/dayboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestResolvePrecedence(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	palette := []string{"#000001", "#000002", "#000003"}

	r := NewResolver(map[string]string{"Estudos": "#3498DB"}, kv, "u-1", palette)
	require.NoError(t, r.Remember(ctx, "Estudos", "#FFFFFF"))
	require.NoError(t, r.Remember(ctx, "Saúde", "#2ECC71"))

	assert.Equal(t, "#3498DB", r.Resolve(ctx, "Estudos", 0), "explicit wins over stored")
	assert.Equal(t, "#2ECC71", r.Resolve(ctx, "Saúde", 0), "stored wins over palette")
	assert.Equal(t, "#000002", r.Resolve(ctx, "Casa", 1))
	assert.Equal(t, "#000002", r.Resolve(ctx, "Casa", 4), "index wraps around the palette")
}

func TestResolveIsDeterministic(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	r := NewResolver(nil, kv, "u-1", nil)

	first := r.Resolve(ctx, "Lazer", 5)
	second := r.Resolve(ctx, "Lazer", 5)
	assert.Equal(t, first, second)
	assert.Equal(t, config.DefaultPalette[5], first)
}

func TestResolveCollidesPastPaletteSize(t *testing.T) {
	r := NewResolver(nil, nil, "", []string{"#111111", "#222222"})
	ctx := context.Background()
	assert.Equal(t, r.Resolve(ctx, "A", 0), r.Resolve(ctx, "C", 2))
}

func TestResolveNegativeIndex(t *testing.T) {
	r := NewResolver(nil, nil, "", []string{"#111111", "#222222", "#333333"})
	assert.Equal(t, "#333333", r.Resolve(context.Background(), "x", -1))
}

func TestStoredColorsArePerUser(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	palette := []string{"#000001"}

	alice := NewResolver(nil, kv, "alice", palette)
	bob := NewResolver(nil, kv, "bob", palette)
	require.NoError(t, alice.Remember(ctx, "Casa", "#ABCDEF"))

	assert.Equal(t, "#ABCDEF", alice.Resolve(ctx, "Casa", 0))
	assert.Equal(t, "#000001", bob.Resolve(ctx, "Casa", 0))

	require.NoError(t, alice.Forget(ctx, "Casa"))
	assert.Equal(t, "#000001", alice.Resolve(ctx, "Casa", 0))
}

func TestResolveAll(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(map[string]string{"B": "#BBBBBB"}, nil, "", []string{"#000001", "#000002"})

	got := r.ResolveAll(ctx, []string{"A", "B", "C"})
	assert.Equal(t, map[string]string{"A": "#000001", "B": "#BBBBBB", "C": "#000001"}, got)
}

func TestExplicitColorsAndNames(t *testing.T) {
	cats := []store.Category{
		{Name: "Estudos", Color: "#3498DB"},
		{Name: "Casa"},
	}
	got := ExplicitColors(map[string]string{"Casa": "#111111", "Estudos": "#222222"}, cats)
	assert.Equal(t, "#3498DB", got["Estudos"])
	assert.Equal(t, "#111111", got["Casa"])
	assert.Equal(t, []string{"Estudos", "Casa"}, Names(cats))
}
