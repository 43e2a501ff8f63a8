package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
download:
  dir: /tmp/apps
  chunk_size: 4096
  max_retries: 2
  retry_delay: 1s
  skip_up_to_date: true
resolve:
  workers: 4
  timeout: 10s
logging:
  level: debug
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "/tmp/apps", config.Download.Dir)
	assert.Equal(t, 4096, config.Download.ChunkSize)
	assert.Equal(t, 2, config.Download.MaxRetries)
	assert.Equal(t, time.Second, config.Download.RetryDelay)
	assert.True(t, config.Download.SkipUpToDate)
	assert.Equal(t, 4, config.Resolve.Workers)
	assert.Equal(t, 10*time.Second, config.Resolve.Timeout)
	assert.Equal(t, "debug", config.Logging.Level)

	// untouched keys keep their defaults
	assert.Equal(t, "localhost", config.Server.Host)
	assert.NotEmpty(t, config.Resolve.UserAgent)
	assert.Equal(t, "/tmp/apps/logs", config.Download.LogsDir())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "download:\n  dir: /tmp/apps\n")
	t.Setenv("APPFETCH_DOWNLOAD_DIR", "/srv/installers")
	t.Setenv("APPFETCH_RESOLVE_WORKERS", "8")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/installers", config.Download.Dir)
	assert.Equal(t, 8, config.Resolve.Workers)
}

func TestLoadConfig_ExpandsPaths(t *testing.T) {
	t.Setenv("APPFETCH_TEST_ROOT", "/data")
	path := writeConfig(t, "download:\n  dir: $APPFETCH_TEST_ROOT/apps\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/apps", config.Download.Dir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"zero chunk size", "download:\n  chunk_size: 0\n"},
		{"negative retries", "download:\n  max_retries: -1\n"},
		{"zero workers", "resolve:\n  workers: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
