package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/tier"
)

// NewTiersCmd prints the active benchmark tier table.
func NewTiersCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Show benchmark tiers and capability patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			table, err := loadTierTable(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Benchmark tier table")
			if cfg.Tiers.Path != "" {
				fmt.Fprintf(out, "Source: %s\n", cfg.Tiers.Path)
			} else {
				fmt.Fprintln(out, "Source: built-in defaults")
			}

			byTier := map[tier.Tier][]string{}
			for _, r := range table.Rules() {
				byTier[r.Tier] = append(byTier[r.Tier], r.Pattern)
			}
			for _, t := range []tier.Tier{tier.TierS, tier.TierA, tier.TierB, tier.TierC} {
				fmt.Fprintf(out, "\nTier %s (score %.1f):\n  %s\n",
					t, t.Score(), strings.Join(byTier[t], ", "))
			}
			fmt.Fprintf(out, "\nUnmatched ids default to tier %s (score %.1f).\n",
				tier.TierUnknown, tier.TierUnknown.Score())

			cats := table.Categories()
			tags := make([]string, 0, len(cats))
			for tag := range cats {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			fmt.Fprintln(out, "\nCapability patterns:")
			for _, tag := range tags {
				fmt.Fprintf(out, "  %s: %s\n", tag, strings.Join(cats[tag], ", "))
			}

			fmt.Fprintf(out, "\nRouter patterns: %s\n", strings.Join(table.RouterPatterns(), ", "))
			return nil
		},
	}
}
