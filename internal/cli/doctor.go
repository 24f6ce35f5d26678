package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemony312/FreeRide/internal/hostcfg"
)

// NewDoctorCmd returns a health-check command validating config and environment.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			table, err := loadTierTable(cfg)
			if err != nil {
				return fmt.Errorf("tier table: %w", err)
			}

			doc, err := hostcfg.Load(cfg.Host.ConfigPath)
			if err != nil {
				return err
			}
			if _, err := hostcfg.Primary(doc); err != nil {
				return fmt.Errorf("host config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Tier rules: %d, host config: %s\n",
				len(table.Rules()), cfg.Host.ConfigPath)
			if resolveAPIKey(cfg) == "" {
				fmt.Fprintln(out, "Warning: no catalog API key found (selection will rely on the cache)")
			} else {
				fmt.Fprintln(out, "Catalog API key: present")
			}
			return nil
		},
	}
}
