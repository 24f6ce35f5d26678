package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/rank"
	"github.com/lemony312/FreeRide/internal/selector"
)

// NewSwitchCmd switches the host to a specific free model.
func NewSwitchCmd(opts *Options) *cobra.Command {
	var (
		profile      string
		fallbackOnly bool
		noFallbacks  bool
		setupAuth    bool
	)

	cmd := &cobra.Command{
		Use:   "switch <model>",
		Short: "Switch to a specific free model",
		Args:  cobra.ExactArgs(1),
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

			snap, _, err := getSnapshot(cmd.Context(), cmd, cfg, logger, false)
			if err != nil {
				return err
			}

			matched := resolveModel(args[0], snap.IDs())
			if matched == "" {
				return fmt.Errorf("model %q not found among free models; run 'freeride list'", args[0])
			}

			ranked, err := rank.Rank(snap.Entries, table, profile)
			if err != nil {
				return err
			}

			var slate selector.Slate
			out := cmd.OutOrStdout()
			doc, err := hostcfg.Load(cfg.Host.ConfigPath)
			if err != nil {
				return err
			}

			switch {
			case fallbackOnly:
				// Keep the current primary; slot the requested model in among
				// the fallbacks, right after the router sentinel.
				current, err := hostcfg.Primary(doc)
				if err != nil {
					return err
				}
				slate, err = selector.Select(ranked, cfg.Selection.FallbackCount, hostcfg.StripHostPrefix(current))
				if err != nil {
					return err
				}
				slate.Fallbacks = insertModel(slate.Fallbacks, matched, table.IsRouter)
				fmt.Fprintf(out, "Adding to fallbacks: %s\n", matched)
			case noFallbacks:
				existing, err := hostcfg.Fallbacks(doc)
				if err != nil {
					return err
				}
				slate = selector.Slate{Primary: matched}
				for _, fb := range existing {
					slate.Fallbacks = append(slate.Fallbacks, hostcfg.StripHostPrefix(fb))
				}
				fmt.Fprintf(out, "Setting as primary: %s\n", matched)
			default:
				slate, err = selector.Select(ranked, cfg.Selection.FallbackCount, matched)
				if err != nil {
					return err
				}
				// keepPrimary carried the id verbatim; this is a real switch.
				slate.KeepExisting = false
				fmt.Fprintf(out, "Setting as primary: %s\n", matched)
			}

			if err := applySlate(cfg, slate, nil, setupAuth); err != nil {
				return err
			}
			printSlate(out, cfg, slate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", profileFlagHelp())
	cmd.Flags().BoolVarP(&fallbackOnly, "fallback-only", "f", false, "Add to fallbacks only, don't change primary")
	cmd.Flags().BoolVar(&noFallbacks, "no-fallbacks", false, "Don't reconfigure fallback models")
	cmd.Flags().BoolVar(&setupAuth, "setup-auth", false, "Also set up the catalog auth profile")
	return cmd
}

// resolveModel finds an exact id match first, then the first case-insensitive
// substring match.
func resolveModel(query string, ids []string) string {
	for _, id := range ids {
		if id == query {
			return id
		}
	}
	q := strings.ToLower(query)
	for _, id := range ids {
		if strings.Contains(strings.ToLower(id), q) {
			return id
		}
	}
	return ""
}

// insertModel places id after a leading router sentinel, deduplicating.
func insertModel(fallbacks []string, id string, isRouter func(string) bool) []string {
	for _, fb := range fallbacks {
		if fb == id {
			return fallbacks
		}
	}
	pos := 0
	if len(fallbacks) > 0 && isRouter(fallbacks[0]) {
		pos = 1
	}
	out := make([]string, 0, len(fallbacks)+1)
	out = append(out, fallbacks[:pos]...)
	out = append(out, id)
	out = append(out, fallbacks[pos:]...)
	return out
}
