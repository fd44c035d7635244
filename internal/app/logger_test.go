package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerSelectsHandler(t *testing.T) {
	jsonLogger := NewLogger(&Config{LogFormat: "json"})
	_, ok := jsonLogger.Handler().(*slog.JSONHandler)
	require.True(t, ok)

	prettyLogger := NewLogger(&Config{LogFormat: "pretty"})
	_, ok = prettyLogger.Handler().(*slog.TextHandler)
	require.True(t, ok)

	// Nil config and unknown formats fall back to text.
	_, ok = NewLogger(nil).Handler().(*slog.TextHandler)
	require.True(t, ok)
	_, ok = NewLogger(&Config{LogFormat: "xml"}).Handler().(*slog.TextHandler)
	require.True(t, ok)
}
