package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHookAddsUserID(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		wantKey bool
	}{
		{name: "with user", ctx: WithUserID(context.Background(), "u-1"), wantKey: true},
		{name: "background", ctx: context.Background(), wantKey: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.ctx).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			_, ok := entry["user_id"]
			assert.Equal(t, tt.wantKey, ok)
		})
	}
}

func TestGetUserIDMissing(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
}

func TestNewWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "dayboard.log")

	l, closer, err := New("debug", file)
	require.NoError(t, err)
	l.Debug().Str("k", "v").Msg("hello")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
