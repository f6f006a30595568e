package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID adds the signed-in user's id to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the user id stored in ctx, or "".
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextHook copies user_id from the event context onto the log line.
type ContextHook struct{}

func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}
	if id := GetUserID(ctx); id != "" {
		e.Str("user_id", id)
	}
}
