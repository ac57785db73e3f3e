package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var all, errorsOnly bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&all, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errorsOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(h)

	log.Info("routine event")
	log.Error("something broke")

	assert.Contains(t, all.String(), "routine event")
	assert.Contains(t, all.String(), "something broke")
	assert.NotContains(t, errorsOnly.String(), "routine event")
	assert.Contains(t, errorsOnly.String(), "something broke")
}

func TestMultiHandler_EnabledWhenAnyChildIs(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	ctx := context.Background()
	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelError))
}

func TestMultiHandler_WithAttrsPropagates(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	).WithAttrs([]slog.Attr{slog.String("component", "matchmaker")})

	slog.New(h).Info("queued")

	require.Contains(t, buf.String(), `"component":"matchmaker"`)
}
