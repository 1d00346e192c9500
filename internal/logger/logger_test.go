package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, lvl)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", "json", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("upload processed", "defects", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "upload processed", rec["msg"])
	require.Equal(t, float64(3), rec["defects"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", "text", &buf)
	require.NoError(t, err)

	log.Info("skipped")
	require.Empty(t, buf.String())

	log.Warn("slow request")
	require.Contains(t, buf.String(), "msg=\"slow request\"")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("info", "xml", &bytes.Buffer{})
	require.Error(t, err)
}

func TestDiscard(t *testing.T) {
	require.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
