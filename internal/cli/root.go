package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/config"
	"github.com/lemony312/FreeRide/internal/version"
)

// Options holds global CLI options.
type Options struct {
	ConfigPath string
}

// NewRootCmd constructs the base CLI command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "freeride",
		Short:         "FreeRide – manage free catalog models for the OpenClaw gateway",
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: configs/config.yaml)")

	cmd.AddCommand(NewListCmd(opts))
	cmd.AddCommand(NewAutoCmd(opts))
	cmd.AddCommand(NewSwitchCmd(opts))
	cmd.AddCommand(NewFallbacksCmd(opts))
	cmd.AddCommand(NewRefreshCmd(opts))
	cmd.AddCommand(NewStatusCmd(opts))
	cmd.AddCommand(NewRotateCmd(opts))
	cmd.AddCommand(NewTiersCmd(opts))
	cmd.AddCommand(NewDoctorCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig wraps config loading with shared options.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
