package hostcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// docView is the lens used for reads; writes never go through it.
type docView struct {
	Agents struct {
		Defaults struct {
			Model struct {
				Primary   string   `json:"primary"`
				Fallbacks []string `json:"fallbacks"`
			} `json:"model"`
			Models map[string]json.RawMessage `json:"models"`
		} `json:"defaults"`
	} `json:"agents"`
	Env map[string]string `json:"env"`
}

func view(doc []byte) (docView, error) {
	var v docView
	if len(doc) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(doc, &v); err != nil {
		return v, fmt.Errorf("parse host config: %w", err)
	}
	return v, nil
}

// Primary reads the configured primary model id (host-side form).
func Primary(doc []byte) (string, error) {
	v, err := view(doc)
	if err != nil {
		return "", err
	}
	return v.Agents.Defaults.Model.Primary, nil
}

// Fallbacks reads the ordered fallback list (host-side form).
func Fallbacks(doc []byte) ([]string, error) {
	v, err := view(doc)
	if err != nil {
		return nil, err
	}
	return v.Agents.Defaults.Model.Fallbacks, nil
}

// APIKeyFromDoc reads the catalog API key from the host config's env block.
func APIKeyFromDoc(doc []byte) string {
	v, err := view(doc)
	if err != nil {
		return ""
	}
	return v.Env["OPENROUTER_API_KEY"]
}

// Load reads the host config file. A missing file yields an empty document;
// the first merge creates it.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read host config: %w", err)
	}
	return data, nil
}

// WriteFile persists the document atomically: write to a temp file in the
// destination directory, then rename over the target. A concurrent reader
// observes either the old document or the new one, never a partial write.
func WriteFile(path string, doc []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
