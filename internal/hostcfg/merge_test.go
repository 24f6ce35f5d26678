package hostcfg_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/selector"
)

const existingDoc = `{
  "gateway": {"port": 8080, "plugins": [{"name": "telemetry", "opts": {"deep": {"nested": true}}}]},
  "agents": {
    "defaults": {
      "model": {"primary": "openrouter/old/model:free", "fallbacks": ["openrouter/openrouter/free"], "temperature": 0.3},
      "models": {"openrouter/old/model:free": {"alias": "old"}},
      "workspace": "~/projects"
    },
    "named": {"reviewer": {"model": "something-else"}}
  },
  "env": {"OPENROUTER_API_KEY": "sk-or-test"}
}`

func slateFixture() selector.Slate {
	return selector.Slate{
		Primary:   "qwen/qwen3-coder:free",
		Fallbacks: []string{"openrouter/free", "meta-llama/llama-3.3-70b-instruct:free"},
	}
}

func TestMergeOwnsExactlyThreePaths(t *testing.T) {
	out, err := hostcfg.Merge([]byte(existingDoc), slateFixture(), []string{"mistralai/mistral-small-3.1:free"})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))

	agents := doc["agents"].(map[string]any)
	defaults := agents["defaults"].(map[string]any)
	model := defaults["model"].(map[string]any)

	require.Equal(t, "openrouter/qwen/qwen3-coder:free", model["primary"])
	require.Equal(t, []any{
		"openrouter/openrouter/free",
		"openrouter/meta-llama/llama-3.3-70b-instruct:free",
	}, model["fallbacks"])

	models := defaults["models"].(map[string]any)
	require.Contains(t, models, "openrouter/qwen/qwen3-coder:free")
	require.Contains(t, models, "openrouter/mistralai/mistral-small-3.1:free")
	// Pre-existing allowlist values survive untouched.
	require.Equal(t, map[string]any{"alias": "old"}, models["openrouter/old/model:free"])

	// Unowned sibling key-paths pass through, including unknown nested structures.
	require.Equal(t, 0.3, model["temperature"])
	require.Equal(t, "~/projects", defaults["workspace"])
	require.Equal(t, map[string]any{"reviewer": map[string]any{"model": "something-else"}}, agents["named"].(map[string]any))
	gateway := doc["gateway"].(map[string]any)
	require.Equal(t, float64(8080), gateway["port"])
	require.Equal(t, "sk-or-test", doc["env"].(map[string]any)["OPENROUTER_API_KEY"])
}

func TestMergeIdempotent(t *testing.T) {
	slate := slateFixture()
	allow := []string{"mistralai/mistral-small-3.1:free"}

	once, err := hostcfg.Merge([]byte(existingDoc), slate, allow)
	require.NoError(t, err)
	twice, err := hostcfg.Merge(once, slate, allow)
	require.NoError(t, err)
	require.Equal(t, string(once), string(twice))
}

func TestMergeKeepExistingPrimary(t *testing.T) {
	slate := slateFixture()
	slate.KeepExisting = true
	slate.Primary = "old/model:free"

	out, err := hostcfg.Merge([]byte(existingDoc), slate, nil)
	require.NoError(t, err)

	primary, err := hostcfg.Primary(out)
	require.NoError(t, err)
	require.Equal(t, "openrouter/old/model:free", primary)
}

func TestMergeEmptyDocument(t *testing.T) {
	out, err := hostcfg.Merge([]byte("{}"), slateFixture(), nil)
	require.NoError(t, err)

	primary, err := hostcfg.Primary(out)
	require.NoError(t, err)
	require.Equal(t, "openrouter/qwen/qwen3-coder:free", primary)
}

func TestMergeRejectsUnparseable(t *testing.T) {
	_, err := hostcfg.Merge([]byte("{not json"), slateFixture(), nil)
	require.Error(t, err)

	// A clashing type along an owned path is an error, not a silent replace.
	_, err = hostcfg.Merge([]byte(`{"agents": "oops"}`), slateFixture(), nil)
	require.Error(t, err)
}

func TestEnsureAuthProfile(t *testing.T) {
	out, changed, err := hostcfg.EnsureAuthProfile([]byte(`{}`))
	require.NoError(t, err)
	require.True(t, changed)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	profiles := doc["auth"].(map[string]any)["profiles"].(map[string]any)
	require.Equal(t, map[string]any{"provider": "openrouter", "mode": "api_key"}, profiles["openrouter:default"])

	again, changed, err := hostcfg.EnsureAuthProfile(out)
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, string(out), string(again))
}

func TestFormatHostID(t *testing.T) {
	require.Equal(t, "openrouter/qwen/qwen3-coder:free", hostcfg.FormatHostID("qwen/qwen3-coder:free"))
	require.Equal(t, "openrouter/openrouter/free", hostcfg.FormatHostID("openrouter/free"))
	require.Equal(t, "openrouter/openrouter/free", hostcfg.FormatHostID("openrouter/free:free"))
	require.Equal(t, "openrouter/already/prefixed", hostcfg.FormatHostID("openrouter/already/prefixed"))

	require.Equal(t, "qwen/qwen3-coder:free", hostcfg.StripHostPrefix("openrouter/qwen/qwen3-coder:free"))
	require.Equal(t, "openrouter/free", hostcfg.StripHostPrefix("openrouter/openrouter/free"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "openclaw.json")

	require.NoError(t, hostcfg.WriteFile(path, []byte(`{"a":1}`)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLoadMissingFile(t *testing.T) {
	doc, err := hostcfg.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	primary, err := hostcfg.Primary(doc)
	require.NoError(t, err)
	require.Empty(t, primary)
}

func TestAPIKeyFromDoc(t *testing.T) {
	require.Equal(t, "sk-or-test", hostcfg.APIKeyFromDoc([]byte(existingDoc)))
	require.Empty(t, hostcfg.APIKeyFromDoc([]byte(`{}`)))
}
