package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lemony312/FreeRide/internal/catalog"
	"github.com/lemony312/FreeRide/internal/config"
	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/logging"
	"github.com/lemony312/FreeRide/internal/tier"
)

// newLogger builds the shared CLI logger.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
}

// resolveAPIKey checks, in order: tool config, environment, host config env block.
func resolveAPIKey(cfg *config.Config) string {
	if cfg.API.APIKey != "" {
		return cfg.API.APIKey
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		return key
	}
	if doc, err := hostcfg.Load(cfg.Host.ConfigPath); err == nil {
		return hostcfg.APIKeyFromDoc(doc)
	}
	return ""
}

// loadTierTable picks the configured benchmarks file or the embedded default.
func loadTierTable(cfg *config.Config) (*tier.Table, error) {
	if cfg.Tiers.Path == "" {
		return tier.Default(), nil
	}
	return tier.LoadFile(cfg.Tiers.Path)
}

// newCache wires the catalog client and on-disk cache from config.
func newCache(cfg *config.Config, logger *zap.Logger) *catalog.Cache {
	client := catalog.NewClient(cfg.API.BaseURL, resolveAPIKey(cfg), cfg.API.Timeout)
	return catalog.NewCache(client, cfg.Cache.Path, cfg.Cache.TTL, logger)
}

// getSnapshot fetches the catalog, warning on stale fallback.
func getSnapshot(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, force bool) (catalog.Snapshot, bool, error) {
	snap, stale, err := newCache(cfg, logger).Get(ctx, force)
	if err != nil {
		return catalog.Snapshot{}, false, err
	}
	if stale {
		fmt.Fprintf(cmd.OutOrStdout(), "Warning: catalog fetch failed, using cached snapshot from %s\n",
			snap.FetchedAt.Format("2006-01-02 15:04"))
	}
	return snap, stale, nil
}

// formatContext renders a context length as 1M/128K style.
func formatContext(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%dK", n/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// maskKey hides the middle of an API key for status output.
func maskKey(key string) string {
	if len(key) > 12 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	return "***"
}
