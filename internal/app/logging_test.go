package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesTextToStderr(t *testing.T) {
	var stderr bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"

	logger, closeLog, err := NewLogger(cfg, &stderr)
	require.NoError(t, err)
	defer func() { _ = closeLog() }()

	logger.Info("hidden")
	logger.Warn("shown", "ip", "10.0.0.5")

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "msg=shown")
	assert.Contains(t, stderr.String(), "ip=10.0.0.5")
}

func TestNewLoggerWritesJSONToLogFile(t *testing.T) {
	var stderr bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "labcam.log")

	logger, closeLog, err := NewLogger(cfg, &stderr)
	require.NoError(t, err)

	logger.Info("camera added", "ip", "10.0.0.5")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"camera added"`)
	assert.Empty(t, stderr.String())
}

func TestNewSessionLoggerKeepsStderrQuiet(t *testing.T) {
	var stderr bytes.Buffer

	logger, closeLog, err := NewSessionLogger(DefaultConfig(), &stderr)
	require.NoError(t, err)
	defer func() { _ = closeLog() }()

	logger.Error("check camera failed", "ip", "10.0.0.5")
	assert.Empty(t, stderr.String())
}

func TestNewSessionLoggerHonoursDebugLevel(t *testing.T) {
	var stderr bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"

	logger, closeLog, err := NewSessionLogger(cfg, &stderr)
	require.NoError(t, err)
	defer func() { _ = closeLog() }()

	logger.Debug("validating camera")
	assert.Contains(t, stderr.String(), "validating camera")
}
