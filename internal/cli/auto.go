package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/rank"
	"github.com/lemony312/FreeRide/internal/selector"
)

// NewAutoCmd auto-selects the best free model for a profile and installs it.
func NewAutoCmd(opts *Options) *cobra.Command {
	var (
		profile       string
		fallbackCount int
		fallbackOnly  bool
		setupAuth     bool
	)

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Auto-select the best free model and write it into the host config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // best-effort

			table, err := loadTierTable(cfg)
			if err != nil {
				return err
			}

			snap, _, err := getSnapshot(cmd.Context(), cmd, cfg, logger, true)
			if err != nil {
				return err
			}

			ranked, err := rank.Rank(snap.Entries, table, profile)
			if err != nil {
				return err
			}

			if fallbackCount < 0 {
				fallbackCount = cfg.Selection.FallbackCount
			}

			keep := ""
			if fallbackOnly {
				doc, err := hostcfg.Load(cfg.Host.ConfigPath)
				if err != nil {
					return err
				}
				current, err := hostcfg.Primary(doc)
				if err != nil {
					return err
				}
				if current == "" {
					return fmt.Errorf("no primary model configured; run without --fallback-only first")
				}
				keep = hostcfg.StripHostPrefix(current)
			}

			slate, err := selector.Select(ranked, fallbackCount, keep)
			if err != nil {
				return err
			}

			if err := applySlate(cfg, slate, nil, setupAuth); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !slate.KeepExisting {
				best := ranked[0]
				for _, m := range ranked {
					if !m.Router {
						best = m
						break
					}
				}
				fmt.Fprintf(out, "Best free model for %q: %s (Tier %s, %s)\n",
					profileOrDefault(profile), best.Entry.ID, best.Record.Tier, best.Describe())
			}
			printSlate(out, cfg, slate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", profileFlagHelp())
	cmd.Flags().IntVarP(&fallbackCount, "fallback-count", "c", -1, "Number of fallback models (default from config)")
	cmd.Flags().BoolVarP(&fallbackOnly, "fallback-only", "f", false, "Keep current primary, configure fallbacks only")
	cmd.Flags().BoolVar(&setupAuth, "setup-auth", false, "Also set up the catalog auth profile")
	return cmd
}
