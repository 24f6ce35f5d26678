package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/config"
	"github.com/lemony312/FreeRide/internal/logging"
	"github.com/lemony312/FreeRide/internal/version"
	"github.com/lemony312/FreeRide/internal/watcher"
)

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:     "freerided",
		Short:   "FreeRide watcher daemon – rotates exhausted models to the next fallback",
		Version: version.Full(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // best-effort

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watcher.NewServer(cfg, logger).Run(ctx)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "Path to config file (default: configs/config.yaml)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
