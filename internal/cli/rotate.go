package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/observability"
	"github.com/lemony312/FreeRide/internal/watcher"
)

// NewRotateCmd forces an immediate rotation to the next fallback model.
func NewRotateCmd(opts *Options) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Rotate to the next fallback model now",
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

			rotator := watcher.NewRotator(cfg.Host.ConfigPath, cfg.Host.StatePath,
				cfg.Rotation.Wrap, logger, observability.NewMetrics())

			res, err := rotator.Rotate(reason)
			if errors.Is(err, watcher.ErrRotationExhausted) {
				return fmt.Errorf("%w (enable rotation.wrap to cycle back)", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rotated: %s -> %s (index %d)\n", res.FromModel, res.ToModel, res.CurrentIndex)
			fmt.Fprintln(out, "Restart the gateway for changes to take effect.")
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "manual", "Reason recorded in rotation history")
	return cmd
}
