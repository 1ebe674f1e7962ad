package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextAddsIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Config{Level: "debug", Output: &buf})
	require.NoError(t, err)

	ctx := ContextWithUserID(ContextWithRequestID(context.Background(), "req-1"), "u-1")
	WithContext(ctx, base).Info("hello")
	require.NoError(t, base.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Contains(t, entry, "timestamp")
	assert.Equal(t, "u-1", UserID(ctx))
}

func TestNewRejectsBadSettings(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Config{Encoding: "xml"})
	assert.Error(t, err)

	l, err := New(Config{Encoding: "console"})
	require.NoError(t, err)
	assert.Same(t, l, WithContext(context.Background(), l))
}
