package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/rank"
)

// NewListCmd lists available free models ranked for a profile.
func NewListCmd(opts *Options) *cobra.Command {
	var (
		limit   int
		refresh bool
		profile string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available free models ranked by quality",
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

			snap, _, err := getSnapshot(cmd.Context(), cmd, cfg, logger, refresh)
			if err != nil {
				return err
			}

			ranked, err := rank.Rank(snap.Entries, table, profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ranked) == 0 {
				fmt.Fprintln(out, "No free models available.")
				return nil
			}

			doc, _ := hostcfg.Load(cfg.Host.ConfigPath)
			current, _ := hostcfg.Primary(doc)
			fallbacks, _ := hostcfg.Fallbacks(doc)
			inFallbacks := make(map[string]bool, len(fallbacks))
			for _, fb := range fallbacks {
				inFallbacks[fb] = true
			}

			shown := len(ranked)
			if limit > 0 && limit < shown {
				shown = limit
			}

			fmt.Fprintf(out, "Top %d free models (ranked for %q):\n\n", shown, profileOrDefault(profile))
			fmt.Fprintf(out, "%-3s %-45s %-8s %-9s %-7s %s\n", "#", "Model ID", "Tier", "Context", "Score", "Status")
			for i, m := range ranked[:shown] {
				hostID := hostcfg.FormatHostID(m.Entry.ID)
				status := ""
				switch {
				case hostID == current:
					status = "[PRIMARY]"
				case inFallbacks[hostID]:
					status = "[FALLBACK]"
				}
				if m.Router {
					status += "[ROUTER]"
				}
				fmt.Fprintf(out, "%-3d %-45s %-8s %-9s %.3f   %s\n",
					i+1, m.Entry.ID, m.Record.Tier, formatContext(m.Entry.ContextLength), m.Score, status)
			}
			if len(ranked) > shown {
				fmt.Fprintf(out, "\n... and %d more. Use --limit to see more.\n", len(ranked)-shown)
			}
			fmt.Fprintf(out, "\nTotal free models: %d\n", len(ranked))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 15, "Number of models to show")
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Force refresh from API (ignore cache)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", profileFlagHelp())
	return cmd
}

func profileOrDefault(name string) string {
	if name == "" {
		return rank.DefaultProfile
	}
	return name
}

func profileFlagHelp() string {
	return fmt.Sprintf("Use-case profile for ranking (%v, default: %s)", rank.ProfileNames(), rank.DefaultProfile)
}
