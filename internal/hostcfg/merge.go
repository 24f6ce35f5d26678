// Package hostcfg rewrites exactly three key-paths of the host application's
// JSON configuration — primary model, fallback list, and model allowlist —
// and passes every other key-path through byte-for-byte.
package hostcfg

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lemony312/FreeRide/internal/selector"
)

// The three owned key-paths live under agents.defaults.
const (
	keyAgents    = "agents"
	keyDefaults  = "defaults"
	keyModel     = "model"
	keyModels    = "models"
	keyPrimary   = "primary"
	keyFallbacks = "fallbacks"
)

// Merge writes the slate into the document. Untouched subtrees are carried as
// raw bytes, so unknown sibling keys survive exactly as found; only objects
// along the owned paths are re-encoded (with sorted keys, keeping the merge
// idempotent). An unparseable document is an error before any change.
func Merge(doc []byte, slate selector.Slate, allowlist []string) ([]byte, error) {
	root, err := parseObject(doc, "$")
	if err != nil {
		return nil, err
	}

	agents, err := childObject(root, keyAgents)
	if err != nil {
		return nil, err
	}
	defaults, err := childObject(agents, keyDefaults)
	if err != nil {
		return nil, err
	}
	model, err := childObject(defaults, keyModel)
	if err != nil {
		return nil, err
	}
	models, err := childObject(defaults, keyModels)
	if err != nil {
		return nil, err
	}

	if !slate.KeepExisting {
		model[keyPrimary] = mustRaw(FormatHostID(slate.Primary))
		models[FormatHostID(slate.Primary)] = ensureEntry(models, FormatHostID(slate.Primary))
	}

	fallbacks := make([]string, len(slate.Fallbacks))
	for i, id := range slate.Fallbacks {
		fallbacks[i] = FormatHostID(id)
		models[fallbacks[i]] = ensureEntry(models, fallbacks[i])
	}
	model[keyFallbacks] = mustRaw(fallbacks)

	for _, id := range allowlist {
		hostID := FormatHostID(id)
		models[hostID] = ensureEntry(models, hostID)
	}

	defaults[keyModel] = mustRaw(model)
	defaults[keyModels] = mustRaw(models)
	agents[keyDefaults] = mustRaw(defaults)
	root[keyAgents] = mustRaw(agents)

	return marshalDoc(root)
}

// EnsureAuthProfile adds the "openrouter:default" auth profile when missing.
// The boolean reports whether the document changed.
func EnsureAuthProfile(doc []byte) ([]byte, bool, error) {
	root, err := parseObject(doc, "$")
	if err != nil {
		return nil, false, err
	}

	auth, err := childObject(root, "auth")
	if err != nil {
		return nil, false, err
	}
	profiles, err := childObject(auth, "profiles")
	if err != nil {
		return nil, false, err
	}

	if _, ok := profiles["openrouter:default"]; ok {
		return doc, false, nil
	}
	profiles["openrouter:default"] = mustRaw(map[string]string{
		"provider": "openrouter",
		"mode":     "api_key",
	})

	auth["profiles"] = mustRaw(profiles)
	root["auth"] = mustRaw(auth)

	out, err := marshalDoc(root)
	return out, true, err
}

// parseObject decodes raw JSON into a shallow object, keeping values as raw
// bytes. path is used for error context only.
func parseObject(data []byte, path string) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parse host config at %s: %w", path, err)
	}
	if obj == nil {
		obj = map[string]json.RawMessage{}
	}
	return obj, nil
}

// childObject returns the named child as a shallow object, creating an empty
// one when the key is absent or null. A child of any other type is an error:
// silently replacing it could discard host data.
func childObject(parent map[string]json.RawMessage, key string) (map[string]json.RawMessage, error) {
	raw, ok := parent[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return map[string]json.RawMessage{}, nil
	}
	return parseObject(raw, key)
}

// ensureEntry keeps an existing allowlist value untouched, defaulting new
// entries to an empty object.
func ensureEntry(models map[string]json.RawMessage, key string) json.RawMessage {
	if existing, ok := models[key]; ok {
		return existing
	}
	return json.RawMessage("{}")
}

func mustRaw(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// Only maps of RawMessage and plain strings/slices pass through here.
		panic("hostcfg: marshal: " + err.Error())
	}
	return data
}

func marshalDoc(root map[string]json.RawMessage) ([]byte, error) {
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode host config: %w", err)
	}
	return append(out, '\n'), nil
}
