package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "http://localhost:5000", cfg.NVRURL)
	assert.Equal(t, 7*time.Second, cfg.NotFoundExpiry)
	assert.Equal(t, "E2-L6-016", cfg.DefaultLab)
}

func TestLoadConfigReadsYAMLThenEnv(t *testing.T) {
	path := writeFile(t, "labcam.yaml", `
nvr_url: http://nvr.lab.local:5000
lab_name: E2-L6-016
default_lab: B1-L2-003
request_timeout: 3s
not_found_expiry: 0s
drop_stale_responses: true
scan_concurrency: 4
`)

	cfg, err := LoadConfig(envMap(map[string]string{
		"LABCAM_CONFIG":    path,
		"LAB_NAME":         "E2-L6-017",
		"LEGACY_ADD":       "true",
		"NOT_FOUND_EXPIRY": "2s",
	}))
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, "http://nvr.lab.local:5000", cfg.NVRURL)
	assert.Equal(t, "E2-L6-017", cfg.LabName)
	assert.Equal(t, "B1-L2-003", cfg.DefaultLab)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.NotFoundExpiry)
	assert.True(t, cfg.DropStale)
	assert.True(t, cfg.LegacyAdd)
	assert.Equal(t, 4, cfg.ScanConcurrency)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"duration":    {"REQUEST_TIMEOUT": "soon"},
		"bool":        {"LEGACY_ADD": "maybe"},
		"concurrency": {"SCAN_CONCURRENCY": "0"},
		"level":       {"LOG_LEVEL": "chatty"},
		"timeout":     {"REQUEST_TIMEOUT": "0s"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(envMap(env))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLoadConfigFailsOnMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(envMap(map[string]string{
		"LABCAM_CONFIG": filepath.Join(t.TempDir(), "absent.yaml"),
	}))
	assert.Error(t, err)
}

func TestLoadConfigFailsOnMalformedYAML(t *testing.T) {
	path := writeFile(t, "labcam.yaml", "nvr_url: [unterminated\n")

	_, err := LoadConfig(envMap(map[string]string{"LABCAM_CONFIG": path}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "LABCAM_TEST_ENV_FILE_KEY"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=from-file\n")
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv(key))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
}
