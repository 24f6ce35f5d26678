package cli

import (
	"fmt"
	"io"

	"github.com/lemony312/FreeRide/internal/config"
	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/selector"
)

// applySlate merges the slate into the host config and writes it atomically.
// setupAuth additionally installs the catalog auth profile.
func applySlate(cfg *config.Config, slate selector.Slate, allowlist []string, setupAuth bool) error {
	doc, err := hostcfg.Load(cfg.Host.ConfigPath)
	if err != nil {
		return err
	}

	if setupAuth {
		doc, _, err = hostcfg.EnsureAuthProfile(doc)
		if err != nil {
			return err
		}
	}

	merged, err := hostcfg.Merge(doc, slate, allowlist)
	if err != nil {
		return err
	}
	return hostcfg.WriteFile(cfg.Host.ConfigPath, merged)
}

// printSlate reports the written configuration.
func printSlate(out io.Writer, cfg *config.Config, slate selector.Slate) {
	if slate.KeepExisting {
		fmt.Fprintf(out, "Primary model (unchanged): %s\n", hostcfg.FormatHostID(slate.Primary))
	} else {
		fmt.Fprintf(out, "Primary model: %s\n", hostcfg.FormatHostID(slate.Primary))
	}
	if len(slate.Fallbacks) > 0 {
		fmt.Fprintf(out, "Fallback models (%d):\n", len(slate.Fallbacks))
		for _, fb := range slate.Fallbacks {
			fmt.Fprintf(out, "  - %s\n", hostcfg.FormatHostID(fb))
		}
	}
	if slate.Degraded {
		fmt.Fprintln(out, "Note: fewer eligible models than requested; fallback list is shorter.")
	}
	fmt.Fprintln(out, "\nRestart the gateway for changes to take effect.")
}
