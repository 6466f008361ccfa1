package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskingHandler_MasksContactDetails(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	log.Info("order collected",
		slog.String("product", "Blue Hoodie"),
		slog.String("phone", "01112223334"),
		slog.String("email", "jane@example.com"),
	)

	out := buf.String()
	require.NotEmpty(t, out)

	assert.Contains(t, out, "Blue Hoodie")
	assert.NotContains(t, out, "01112223334")
	assert.NotContains(t, out, "jane@example.com")
	assert.Equal(t, 2, strings.Count(out, "***"))
}

func TestMaskingHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	log.With(slog.String("token", "abc123")).Info("attached")

	assert.NotContains(t, buf.String(), "abc123")
	assert.Contains(t, buf.String(), "***")
}

func TestMaskingHandler_LeavesRegularKeys(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	log.Info("turn handled", slog.String("conversation_id", "c-1"), slog.String("stage", "ask_phone"))

	assert.Contains(t, buf.String(), "c-1")
	assert.Contains(t, buf.String(), "ask_phone")
	assert.NotContains(t, buf.String(), "***")
}
