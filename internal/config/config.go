package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config describes the top-level tool configuration loaded from YAML and ENV.
type Config struct {
	Version   string          `mapstructure:"version"`
	API       APIConfig       `mapstructure:"api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Host      HostConfig      `mapstructure:"host"`
	Selection SelectionConfig `mapstructure:"selection"`
	Rotation  RotationConfig  `mapstructure:"rotation"`
	Tiers     TiersConfig     `mapstructure:"tiers"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
}

// APIConfig points at the model catalog endpoint (OpenRouter-compatible).
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"` // catalog API base URL
	APIKey  string        `mapstructure:"api_key"`  // optional; env/host config consulted as fallback
	Timeout time.Duration `mapstructure:"timeout"`  // request timeout for catalog fetches
}

// CacheConfig controls the on-disk catalog snapshot.
type CacheConfig struct {
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// HostConfig locates the host application's files this tool writes into.
type HostConfig struct {
	ConfigPath string `mapstructure:"config_path"` // host JSON config (three owned key-paths)
	StatePath  string `mapstructure:"state_path"`  // rotation state, persisted separately
}

// SelectionConfig holds defaults for the selection commands.
type SelectionConfig struct {
	Profile       string `mapstructure:"profile"`
	FallbackCount int    `mapstructure:"fallback_count"`
}

// RotationConfig tunes the watcher/rotator.
type RotationConfig struct {
	Wrap         bool          `mapstructure:"wrap"`          // cycle back to the first fallback at list end
	PollInterval time.Duration `mapstructure:"poll_interval"` // watcher check cadence
	TriggerPath  string        `mapstructure:"trigger_path"`  // file-based exhaustion signal
}

// TiersConfig optionally overrides the built-in benchmark tier table.
type TiersConfig struct {
	Path string `mapstructure:"path"` // benchmarks JSON file; empty = embedded defaults
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// ServerConfig describes watcher daemon settings.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// Load reads configuration from the provided path or defaults to configs/config.yaml.
// Environment variables override file values (prefix: FREERIDE_, dots replaced with underscores).
// A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FREERIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
		if dir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, ".openclaw"))
		}
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates sensible defaults for optional fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://openrouter.ai/api")
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("cache.path", "~/.openclaw/.freeride-cache.json")
	v.SetDefault("cache.ttl", 6*time.Hour)

	v.SetDefault("host.config_path", "~/.openclaw/openclaw.json")
	v.SetDefault("host.state_path", "~/.openclaw/.freeride-rotation.json")

	v.SetDefault("selection.profile", "general")
	v.SetDefault("selection.fallback_count", 5)

	v.SetDefault("rotation.wrap", false)
	v.SetDefault("rotation.poll_interval", 30*time.Second)
	v.SetDefault("rotation.trigger_path", "~/.openclaw/.freeride-exhausted")

	v.SetDefault("tiers.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.addr", ":8642")
	v.SetDefault("server.metrics_enabled", true)
}

// expandPaths resolves a leading "~/" in all path-valued fields.
func (c *Config) expandPaths() {
	c.Cache.Path = expandHome(c.Cache.Path)
	c.Host.ConfigPath = expandHome(c.Host.ConfigPath)
	c.Host.StatePath = expandHome(c.Host.StatePath)
	c.Rotation.TriggerPath = expandHome(c.Rotation.TriggerPath)
	c.Tiers.Path = expandHome(c.Tiers.Path)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if dir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(dir, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must be set")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be > 0")
	}
	if strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0")
	}
	if strings.TrimSpace(c.Host.ConfigPath) == "" {
		return errors.New("host.config_path must be set")
	}
	if strings.TrimSpace(c.Host.StatePath) == "" {
		return errors.New("host.state_path must be set")
	}
	if c.Selection.FallbackCount < 0 {
		return errors.New("selection.fallback_count must be >= 0")
	}
	if c.Rotation.PollInterval <= 0 {
		return errors.New("rotation.poll_interval must be > 0")
	}
	return nil
}
