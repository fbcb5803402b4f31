package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := NewLogger(Config{LogLevel: "info", LogFile: path})
	require.NoError(t, err)

	log.Infow("task created", "id", "abc")
	log.Debugw("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"task created"`)
	assert.Contains(t, string(data), `"id":"abc"`)
	assert.NotContains(t, string(data), "filtered out")
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(Config{LogLevel: "loud"})
	assert.Error(t, err)
}
