package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lemony312/FreeRide/internal/catalog"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "freeride")
}

func TestDoctorWithExampleConfig(t *testing.T) {
	configPath, err := filepath.Abs(filepath.Join("..", "..", "configs", "config.example.yaml"))
	require.NoError(t, err)
	require.FileExists(t, configPath)

	out, err := execute(t, "doctor", "--config", configPath)
	require.NoError(t, err)
	require.Contains(t, out, "Config OK")
}

func TestTiersCommand(t *testing.T) {
	out, err := execute(t, "tiers", "--config", writeTestConfig(t))
	require.NoError(t, err)
	require.Contains(t, out, "Tier S")
	require.Contains(t, out, "qwen3-coder")
	require.Contains(t, out, "Router patterns: openrouter/auto, openrouter/free")
}

// writeTestConfig builds an isolated config whose paths all live in a temp
// dir, with a pre-seeded fresh cache so commands never touch the network.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	snap := catalog.Snapshot{
		FetchedAt: time.Now(),
		Entries: []catalog.ModelEntry{
			{ID: "qwen/qwen3-coder:free", ContextLength: 262144, SupportsTools: true, Free: true},
			{ID: "meta-llama/llama-3.3-70b-instruct:free", ContextLength: 131072, SupportsTools: true, Free: true},
			{ID: "openrouter/free", ContextLength: 131072, Free: true},
		},
	}
	cachePath := filepath.Join(dir, "cache.json")
	data, err := json.MarshalIndent(snap, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cachePath, data, 0o644))

	configPath := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`
api:
  base_url: http://127.0.0.1:1/api
cache:
  path: %s
  ttl: 6h
host:
  config_path: %s
  state_path: %s
rotation:
  trigger_path: %s
`,
		cachePath,
		filepath.Join(dir, "openclaw.json"),
		filepath.Join(dir, "rotation-state.json"),
		filepath.Join(dir, "exhausted"))
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o644))
	return configPath
}

func TestListFromCache(t *testing.T) {
	out, err := execute(t, "list", "--config", writeTestConfig(t))
	require.NoError(t, err)
	require.Contains(t, out, "qwen/qwen3-coder:free")
	require.Contains(t, out, "[ROUTER]")
	require.Contains(t, out, "Total free models: 3")
}

func TestAutoInstallsSlate(t *testing.T) {
	configPath := writeTestConfig(t)
	// auto forces a refresh; with an unreachable API the fresh cache is
	// served stale rather than failing the command.
	out, err := execute(t, "auto", "--config", configPath, "--profile", "coding", "--fallback-count", "2")
	require.NoError(t, err)
	require.Contains(t, out, "qwen/qwen3-coder:free")

	hostPath := filepath.Join(filepath.Dir(configPath), "openclaw.json")
	require.FileExists(t, hostPath)
	data, err := os.ReadFile(hostPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `"primary": "openrouter/qwen/qwen3-coder:free"`)
	require.Contains(t, string(data), "openrouter/openrouter/free")
}

func TestStatusCommand(t *testing.T) {
	out, err := execute(t, "status", "--config", writeTestConfig(t))
	require.NoError(t, err)
	require.Contains(t, out, "Rotation state:")
}
