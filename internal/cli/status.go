package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lemony312/FreeRide/internal/config"
	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/watcher"
)

// NewStatusCmd shows the current configuration, cache, and rotation state.
func NewStatusCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current configuration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "FreeRide Status")
			fmt.Fprintln(out, "==================================================")

			if key := resolveAPIKey(cfg); key != "" {
				fmt.Fprintf(out, "Catalog API key: %s\n", maskKey(key))
			} else {
				fmt.Fprintln(out, "Catalog API key: NOT SET (export OPENROUTER_API_KEY)")
			}

			doc, err := hostcfg.Load(cfg.Host.ConfigPath)
			if err != nil {
				return err
			}
			primary, err := hostcfg.Primary(doc)
			if err != nil {
				return fmt.Errorf("host config unreadable: %w", err)
			}
			fallbacks, _ := hostcfg.Fallbacks(doc)

			if primary == "" {
				primary = "Not configured"
			}
			fmt.Fprintf(out, "\nPrimary model: %s\n", primary)
			if len(fallbacks) > 0 {
				fmt.Fprintf(out, "Fallback models (%d):\n", len(fallbacks))
				for _, fb := range fallbacks {
					fmt.Fprintf(out, "  - %s\n", fb)
				}
			} else {
				fmt.Fprintln(out, "Fallback models: none configured")
			}

			printCacheStatus(out, cfg)
			printRotationStatus(out, cfg)

			fmt.Fprintf(out, "\nHost config: %s\n", cfg.Host.ConfigPath)
			return nil
		},
	}
}

func printCacheStatus(out io.Writer, cfg *config.Config) {
	cache := newCache(cfg, zap.NewNop())
	snap, err := cache.Peek()
	if err != nil {
		fmt.Fprintln(out, "\nModel cache: not created yet")
		return
	}
	age := time.Since(snap.FetchedAt).Round(time.Minute)
	fmt.Fprintf(out, "\nModel cache: %d models (updated %s ago)\n", len(snap.Entries), age)
}

func printRotationStatus(out io.Writer, cfg *config.Config) {
	st, reset, err := watcher.LoadState(cfg.Host.StatePath)
	if err != nil {
		fmt.Fprintf(out, "\nRotation state: unreadable (%v)\n", err)
		return
	}
	if reset {
		fmt.Fprintln(out, "\nRotation state: corrupt, will reset on next watcher run")
		return
	}
	fmt.Fprintf(out, "\nRotation state: %s (index %d, %d rotations recorded)\n",
		st.State, st.CurrentIndex, len(st.History))
	if n := len(st.History); n > 0 {
		last := st.History[n-1]
		fmt.Fprintf(out, "Last rotation: %s -> %s (%s) at %s\n",
			last.FromModel, last.ToModel, last.Reason, last.Timestamp.Format(time.RFC3339))
	}
}
