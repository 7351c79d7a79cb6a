package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/factory-sim/factory-sim/sim"
)

// loadStrategy reads a strategy YAML file, layering it over the defaults so a
// partial file only overrides the fields it names. An empty path returns the
// default strategy.
func loadStrategy(path string) (sim.Strategy, error) {
	strategy := sim.DefaultStrategy()
	if path == "" {
		return strategy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return strategy, fmt.Errorf("read strategy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &strategy); err != nil {
		return strategy, fmt.Errorf("parse strategy file %s: %w", path, err)
	}
	strategy.NormalizeActions()
	return strategy, nil
}
