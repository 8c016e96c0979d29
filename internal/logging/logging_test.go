package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(NewWriter(&buf, slog.LevelInfo), "drag")
	l.Debug("hidden")
	l.Info("reorder", slog.Int("from", 1), slog.Int("to", 3))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "reorder", rec["msg"])
	assert.Equal(t, "drag", rec["component"])
	assert.Equal(t, "draglist", rec["system"])
	assert.EqualValues(t, 3, rec["to"])
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	l, c, err := New("", slog.LevelDebug)
	require.NoError(t, err)
	l.Info("nothing")
	assert.NoError(t, c.Close())
}

func TestNew_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "draglist.log")
	l, c, err := New(path, slog.LevelInfo)
	require.NoError(t, err)
	l.Info("first")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"first"`)
}
