package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gridci/gridci/pkg/config"
)

var configShowPath string

// NewConfigCmd builds the `gridci config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gridci configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Print the effective configuration: the contents of gridci.yml merged
over the compiled-in defaults. With no config file present this shows the
default job set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configShowPath)
			if err != nil {
				return err
			}

			// Validate before printing so defects surface here, not at run time.
			if _, err := cfg.JobSpecs(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if _, err := cfg.ExecutionPolicy(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&configShowPath, "config", "c", "", "Path to gridci.yml")
	return cmd
}
