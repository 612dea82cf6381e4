package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesDebugJSONToFile(t *testing.T) {
	dir := t.TempDir()

	logger, closeLog, err := New(Options{Env: "test", Dir: dir})
	require.NoError(t, err)
	defer closeLog()

	logger.Debug("Copying previous week", zap.String("week_id", "week-1"))
	_ = logger.Sync()

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))

	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "Copying previous week", entry["msg"])
	assert.Equal(t, "week-1", entry["week_id"])
	assert.Equal(t, "test", entry["env"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_DefaultEnvName(t *testing.T) {
	dir := t.TempDir()

	_, closeLog, err := New(Options{Dir: dir})
	require.NoError(t, err)
	defer closeLog()

	files, err := filepath.Glob(filepath.Join(dir, "default_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestNew_CloseReleasesLogFile(t *testing.T) {
	dir := t.TempDir()

	logger, closeLog, err := New(Options{Env: "test", Dir: dir})
	require.NoError(t, err)

	logger.Info("Week published")
	closeLog()
	closeLog()

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	before, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(before), "Week published")

	// Writes after close are dropped because the file handle is gone
	logger.Info("After close")
	after, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}
