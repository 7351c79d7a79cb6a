// Package optimize implements the genetic strategy search: a population of
// (action-list, parameter-override) candidates evaluated against the factory
// simulator and evolved toward higher end-of-horizon fitness.
package optimize

import (
	"fmt"
	"runtime"

	sim "github.com/factory-sim/factory-sim/sim"
)

// Config groups the parameters of one optimizer run.
type Config struct {
	PopulationSize      int     `yaml:"populationSize"`
	Generations         int     `yaml:"generations"`
	MutationRate        float64 `yaml:"mutationRate"`    // per-action mutation probability
	ElitePercentage     float64 `yaml:"elitePercentage"` // fraction carried over unchanged
	EnableEarlyStopping bool    `yaml:"enableEarlyStopping"`
	SeedWithAnalytical  bool    `yaml:"seedWithAnalytical"` // seed from closed-form recommendations
	Workers             int     `yaml:"workers"`            // parallel fitness evaluations (0 = NumCPU)
	Seed                int64   `yaml:"seed"`               // master seed for the whole search

	Run  sim.RunConfig `yaml:"run"`  // simulation window and starting position
	Base sim.Strategy  `yaml:"base"` // baseline policy candidates build on
}

// DefaultConfig returns a small but useful search over the default scenario.
func DefaultConfig() Config {
	return Config{
		PopulationSize:      30,
		Generations:         20,
		MutationRate:        0.3,
		ElitePercentage:     0.2,
		EnableEarlyStopping: true,
		SeedWithAnalytical:  true,
		Workers:             0,
		Seed:                42,
		Run:                 sim.DefaultRunConfig(),
		Base:                sim.DefaultStrategy(),
	}
}

// Validate surfaces caller contract violations before any simulation work.
func (c Config) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("optimizer config: population size must be positive, got %d", c.PopulationSize)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("optimizer config: generations must be positive, got %d", c.Generations)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("optimizer config: mutation rate %v outside [0,1]", c.MutationRate)
	}
	if c.ElitePercentage < 0 || c.ElitePercentage > 1 {
		return fmt.Errorf("optimizer config: elite percentage %v outside [0,1]", c.ElitePercentage)
	}
	if err := c.Run.Validate(); err != nil {
		return fmt.Errorf("optimizer config: %w", err)
	}
	return nil
}

// workers resolves the worker count, defaulting to the number of CPUs.
func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Parameter override keys. These name the policy fields a candidate may
// override on the base strategy.
const (
	ParamReorderPoint        = "reorderPoint"
	ParamOrderQuantity       = "orderQuantity"
	ParamStandardBatchSize   = "standardBatchSize"
	ParamMCEAllocationCustom = "mceAllocationCustom"
	ParamStandardPrice       = "standardPrice"
)

// Constraints marks policy fields and specific action identities as fixed.
// Fixed entries are excluded from random generation and from every mutation
// pass, so the search respects externally imposed business constraints.
type Constraints struct {
	FixedParams  map[string]bool // keyed by Param* constants
	FixedActions map[string]bool // keyed by StrategyAction.Identity()
}

func (c *Constraints) paramFixed(name string) bool {
	return c != nil && c.FixedParams[name]
}

func (c *Constraints) actionFixed(a sim.StrategyAction) bool {
	return c != nil && c.FixedActions[a.Identity()]
}
