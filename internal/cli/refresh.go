package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRefreshCmd forces a catalog cache refresh.
func NewRefreshCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the free model cache",
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

			snap, stale, err := getSnapshot(cmd.Context(), cmd, cfg, logger, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stale {
				fmt.Fprintf(out, "Refresh failed; cache still holds %d models from %s.\n",
					len(snap.Entries), snap.FetchedAt.Format("2006-01-02 15:04"))
				return nil
			}
			fmt.Fprintf(out, "Cached %d free models. Cache expires in %s.\n", len(snap.Entries), cfg.Cache.TTL)
			return nil
		},
	}
}
