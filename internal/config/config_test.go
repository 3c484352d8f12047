package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://webprog2.f-host.site/", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 720*time.Hour, cfg.Server.TokenLifetime)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".lostfound", "session.yaml"), cfg.Session.Path)
}

func TestLoad_FileEnvAndOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	file := filepath.Join(t.TempDir(), "lostfound.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
api:
  base_url: http://from-file:1/
  timeout: 5s
log:
  level: info
session:
  path: /tmp/from-file.yaml
`), 0o600))

	t.Setenv("LOSTFOUND_LOG_LEVEL", "debug")

	cfg, err := Load(file, map[string]interface{}{
		"session.path": "/tmp/from-flag.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:1/", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level, "env beats file")
	assert.Equal(t, "/tmp/from-flag.yaml", cfg.Session.Path, "override beats file")
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it afterwards (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
