package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err) // explicit path must exist

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, "https://openrouter.ai/api", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, 6*time.Hour, cfg.Cache.TTL)
	require.Equal(t, "general", cfg.Selection.Profile)
	require.Equal(t, 5, cfg.Selection.FallbackCount)
	require.False(t, cfg.Rotation.Wrap)
	require.Equal(t, 30*time.Second, cfg.Rotation.PollInterval)
	require.Equal(t, ":8642", cfg.Server.Addr)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://example.test/api
  timeout: 10s
selection:
  profile: coding
  fallback_count: 3
rotation:
  wrap: true
  poll_interval: 5s
logging:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://example.test/api", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, "coding", cfg.Selection.Profile)
	require.Equal(t, 3, cfg.Selection.FallbackCount)
	require.True(t, cfg.Rotation.Wrap)
	require.Equal(t, 5*time.Second, cfg.Rotation.PollInterval)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selection:\n  profile: coding\n"), 0o644))

	t.Setenv("FREERIDE_SELECTION_PROFILE", "vision")
	t.Setenv("FREERIDE_API_KEY", "") // unrelated vars stay out of the config

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "vision", cfg.Selection.Profile)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, ".openclaw/openclaw.json"), expandHome("~/.openclaw/openclaw.json"))
	require.Equal(t, "/abs/path.json", expandHome("/abs/path.json"))
	require.Equal(t, "", expandHome(""))
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Cache.TTL = 0
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Rotation.PollInterval = -time.Second
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Selection.FallbackCount = -1
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.API.BaseURL = "  "
	require.Error(t, bad.Validate())
}
