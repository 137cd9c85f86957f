package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Addr)
	assert.Equal(t, 2000, cfg.Renderer.ReadyGraceMs)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riverwalk.yaml")
	content := `
server:
  addr: ":9000"
renderer:
  env: serverless
  ready_grace_ms: 500
  browser_path: /usr/bin/chromium
store:
  path: /tmp/walks.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "serverless", cfg.Renderer.Env)
	assert.Equal(t, 500, cfg.Renderer.ReadyGraceMs)
	assert.Equal(t, "/usr/bin/chromium", cfg.Renderer.BrowserPath)
	assert.Equal(t, "/tmp/walks.db", cfg.Store.Path)
	// Untouched sections keep defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RIVERWALK_ADDR", ":7777")
	t.Setenv("RIVERWALK_BROWSER_PATH", "/opt/chrome")
	t.Setenv("RIVERWALK_ENV", "serverless")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, "/opt/chrome", cfg.Renderer.BrowserPath)
	assert.Equal(t, "serverless", cfg.Renderer.Env)
}
