package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 10000, cfg.Server.ReadTimeoutMs)
	assert.Equal(t, "javascript", cfg.Dialect.Default)
	assert.Equal(t, 200, cfg.Watch.DebounceMs)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "sdkconf.yaml", `
server:
  listen: "127.0.0.1:9000"
log:
  verbosity: 2
  file: /tmp/sdkconf.log
dialect:
  default: py
watch:
  debounce_ms: 50
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, 10000, cfg.Server.ReadTimeoutMs)
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.Equal(t, "/tmp/sdkconf.log", cfg.Log.File)
	assert.Equal(t, "py", cfg.Dialect.Default)
	assert.Equal(t, 50, cfg.Watch.DebounceMs)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SDKCONF_LISTEN", ":7000")
	t.Setenv("SDKCONF_LOG_VERBOSITY", "4")
	t.Setenv("SDKCONF_DIALECT", "ruby")
	t.Setenv("SDKCONF_WATCH_DEBOUNCE_MS", "not-a-number")

	path := writeFile(t, "sdkconf.yaml", "server:\n  listen: \":9000\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Listen)
	assert.Equal(t, 4, cfg.Log.Verbosity)
	assert.Equal(t, "ruby", cfg.Dialect.Default)
	assert.Equal(t, 200, cfg.Watch.DebounceMs)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.yaml", "server: [\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "dialect.yaml", "dialect:\n  default: cobol\n"))
	assert.ErrorContains(t, err, "cobol")

	_, err = Load(writeFile(t, "verbosity.yaml", "log:\n  verbosity: -1\n"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))

	path := writeFile(t, ".env", "SDKCONF_TEST_DOTENV=from-file\n")
	t.Setenv("SDKCONF_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("SDKCONF_TEST_DOTENV"))
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("SDKCONF_TEST_DOTENV"))
}
