package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/rank"
	"github.com/lemony312/FreeRide/internal/selector"
)

// NewFallbacksCmd reconfigures the fallback list while keeping the primary.
func NewFallbacksCmd(opts *Options) *cobra.Command {
	var (
		count   int
		profile string
	)

	cmd := &cobra.Command{
		Use:   "fallbacks",
		Short: "Configure fallback models for rate limit handling",
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

			out := cmd.OutOrStdout()
			doc, err := hostcfg.Load(cfg.Host.ConfigPath)
			if err != nil {
				return err
			}
			current, err := hostcfg.Primary(doc)
			if err != nil {
				return err
			}
			if current == "" {
				fmt.Fprintln(out, "No primary model configured; the best ranked model will be installed as primary.")
			}

			snap, _, err := getSnapshot(cmd.Context(), cmd, cfg, logger, false)
			if err != nil {
				return err
			}
			ranked, err := rank.Rank(snap.Entries, table, profile)
			if err != nil {
				return err
			}

			if count < 0 {
				count = cfg.Selection.FallbackCount
			}
			slate, err := selector.Select(ranked, count, hostcfg.StripHostPrefix(current))
			if err != nil {
				return err
			}

			if err := applySlate(cfg, slate, nil, false); err != nil {
				return err
			}

			fmt.Fprintf(out, "Configured %d fallback models (ranked for %q):\n",
				len(slate.Fallbacks), profileOrDefault(profile))
			for i, fb := range slate.Fallbacks {
				fmt.Fprintf(out, "  %d. %s\n", i+1, hostcfg.FormatHostID(fb))
			}
			if slate.Degraded {
				fmt.Fprintln(out, "Note: fewer eligible models than requested.")
			}
			fmt.Fprintln(out, "\nWhen rate limited, the gateway will try these models in order.")
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", -1, "Number of fallback models (default from config)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", profileFlagHelp())
	return cmd
}
