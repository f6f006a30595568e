// Package category resolves display colors for category labels.
package category

import (
	"context"

	"github.com/sadopc/dayboard/internal/cache"
	"github.com/sadopc/dayboard/internal/config"
	"github.com/sadopc/dayboard/internal/store"
)

// ColorsKey is the cache name under which per-user category colors persist.
const ColorsKey = "category_colors"

// Resolver maps a category to a color: explicit map first, then the color
// persisted in the local cache, then palette[index mod len(palette)].
type Resolver struct {
	explicit map[string]string
	kv       cache.KV
	userID   string
	palette  []string
}

// NewResolver builds a resolver. kv may be nil, in which case no persisted
// colors are consulted. An empty palette means config.DefaultPalette.
func NewResolver(explicit map[string]string, kv cache.KV, userID string, palette []string) *Resolver {
	if len(palette) == 0 {
		palette = config.DefaultPalette
	}
	return &Resolver{explicit: explicit, kv: kv, userID: userID, palette: palette}
}

// Resolve returns the color for name at position index of its list.
func (r *Resolver) Resolve(ctx context.Context, name string, index int) string {
	if c, ok := r.explicit[name]; ok && c != "" {
		return c
	}
	if c, ok := r.stored(ctx)[name]; ok && c != "" {
		return c
	}
	return r.fromPalette(index)
}

// ResolveAll resolves every name using its position in names.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) map[string]string {
	stored := r.stored(ctx)
	out := make(map[string]string, len(names))
	for i, n := range names {
		switch {
		case r.explicit[n] != "":
			out[n] = r.explicit[n]
		case stored[n] != "":
			out[n] = stored[n]
		default:
			out[n] = r.fromPalette(i)
		}
	}
	return out
}

// Remember persists color for name in the local cache.
func (r *Resolver) Remember(ctx context.Context, name, color string) error {
	if r.kv == nil {
		return nil
	}
	colors := cache.For[map[string]string](r.kv, ColorsKey, r.userID)
	m := colors.Get(ctx, map[string]string{})
	if m == nil {
		m = map[string]string{}
	}
	m[name] = color
	return colors.Set(ctx, m)
}

// Forget drops the persisted color for name.
func (r *Resolver) Forget(ctx context.Context, name string) error {
	if r.kv == nil {
		return nil
	}
	colors := cache.For[map[string]string](r.kv, ColorsKey, r.userID)
	m, ok := colors.Lookup(ctx)
	if !ok {
		return nil
	}
	delete(m, name)
	return colors.Set(ctx, m)
}

func (r *Resolver) stored(ctx context.Context) map[string]string {
	if r.kv == nil {
		return nil
	}
	return cache.For[map[string]string](r.kv, ColorsKey, r.userID).Get(ctx, nil)
}

func (r *Resolver) fromPalette(index int) string {
	i := index % len(r.palette)
	if i < 0 {
		i += len(r.palette)
	}
	return r.palette[i]
}

// ExplicitColors collects the non-empty colors configured on categories,
// layered over base (base wins only for categories without their own color).
func ExplicitColors(base map[string]string, categories []store.Category) map[string]string {
	out := make(map[string]string, len(base)+len(categories))
	for k, v := range base {
		out[k] = v
	}
	for _, c := range categories {
		if c.Color != "" {
			out[c.Name] = c.Color
		}
	}
	return out
}

// Names returns the category names in list order.
func Names(categories []store.Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}
