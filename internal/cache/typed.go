package cache

import "context"

// Scoped is a typed view of a single per-user key, "<name>_<userID>".
type Scoped[T any] struct {
	kv  KV
	key string
}

// For returns the typed view of name for userID.
func For[T any](kv KV, name, userID string) *Scoped[T] {
	return &Scoped[T]{kv: kv, key: Key(name, userID)}
}

// Key builds the namespaced key used for name and userID.
func Key(name, userID string) string {
	return name + "_" + userID
}

// Get returns the stored value or def.
func (s *Scoped[T]) Get(ctx context.Context, def T) T {
	return GetOr(ctx, s.kv, s.key, def)
}

// Lookup returns the stored value and whether it could be read.
func (s *Scoped[T]) Lookup(ctx context.Context) (T, bool) {
	var v T
	if err := s.kv.Get(ctx, s.key, &v); err != nil {
		return v, false
	}
	return v, true
}

func (s *Scoped[T]) Set(ctx context.Context, value T) error {
	return s.kv.Set(ctx, s.key, value)
}

func (s *Scoped[T]) Remove(ctx context.Context) error {
	return s.kv.Remove(ctx, s.key)
}
