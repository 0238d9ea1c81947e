package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/season-runner/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective track configuration",
	Long: `Print the configuration a run would use, after the search order and
--difficulty are applied. The output is valid input for --config.

Config search order:
  1. --config path
  2. ~/.season-runner/configs/runner.yaml
  3. ./configs/runner.yaml
  4. built-in defaults

Examples:
  runner config > my-runner.yaml
  runner config --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
