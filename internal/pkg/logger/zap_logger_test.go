package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesToFileOnly(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pipeline.log")
	l := NewIsolatedLogger(logPath)

	l.Info("retriever", "search complete", map[string]interface{}{"hits": 3})
	l.Sync()

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"module":"retriever"`)
	assert.Contains(t, string(raw), `"message":"search complete"`)
}

func TestIsolatedLoggerDropsDebugEntries(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pipeline.log")
	l := NewIsolatedLogger(logPath)

	l.Debug("classifier", "raw label", nil)
	l.Info("classifier", "label accepted", nil)
	l.Sync()

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "raw label")
	assert.Contains(t, string(raw), "label accepted")
}
