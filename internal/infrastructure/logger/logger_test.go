package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(t *testing.T, level, format string) (*Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync.log")
	return &Config{
		Level:      level,
		Format:     format,
		Output:     path,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, path
}

func TestNew_WritesJSONToFile(t *testing.T) {
	cfg, path := fileConfig(t, "info", "json")

	log, err := New(cfg)
	require.NoError(t, err)

	log.Info("exported orders")
	require.NoError(t, Sync(log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "exported orders", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.NotEmpty(t, entry["time"])
	assert.NotEmpty(t, entry["caller"])
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	cfg, path := fileConfig(t, "warn", "json")

	log, err := New(cfg)
	require.NoError(t, err)

	log.Debug("shopify api call")
	log.Info("exported orders")
	log.Warn("backup failed after upload")
	require.NoError(t, Sync(log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "shopify api call")
	assert.NotContains(t, string(data), "exported orders")
	assert.Contains(t, string(data), "backup failed after upload")
}

func TestNew_ConsoleFormat(t *testing.T) {
	cfg, path := fileConfig(t, "info", "console")

	log, err := New(cfg)
	require.NoError(t, err)

	log.Info("no pending orders")
	require.NoError(t, Sync(log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "no pending orders")
	// Console lines are not JSON
	assert.Error(t, json.Unmarshal(data, &map[string]interface{}{}))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Format: "json", Output: "stdout"})
	assert.Error(t, err)
}

func TestNew_UnwritableOutput(t *testing.T) {
	_, err := New(&Config{
		Level:  "info",
		Format: "json",
		Output: filepath.Join(t.TempDir(), "missing", "sync.log"),
	})
	assert.Error(t, err)
}

func TestNew_StderrOutput(t *testing.T) {
	log, err := New(&Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
