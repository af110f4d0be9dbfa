package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective game tuning",
	Long: `Print the game tuning after applying --config or the first config
file found (~/.flappy/configs/flappy.yaml, ./configs/flappy.yaml) over the
built-in defaults. The output is a valid config file.

Examples:
  flappy config > ~/.flappy/configs/flappy.yaml
  flappy config --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, _ []string) error {
	out, err := yaml.Marshal(flappyCfg)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
