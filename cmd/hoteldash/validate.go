package main

import (
	"fmt"

	"github.com/jpalmerr/hoteldash/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a hoteldash configuration file without starting the server.

This command parses the YAML, expands environment variables, validates
all fields and builds every panel. It's useful for CI/CD pipelines or
pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  hoteldash validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	panels, err := config.BuildPanels(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:   %d\n", cfg.Port)
	fmt.Fprintf(out, "  Panels: %d\n", len(panels))
	for _, p := range panels {
		fmt.Fprintf(out, "    - %s (%s, every %s)\n", p.Name(), p.Kind(), p.Interval())
	}

	return nil
}
