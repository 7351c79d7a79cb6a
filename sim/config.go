package sim

import "fmt"

// RunConfig groups the parameters of one simulation run: the day window,
// the RNG seed, and the factory's starting balance sheet and resources.
type RunConfig struct {
	StartDay int   `yaml:"startDay"` // first simulated day
	Horizon  int   `yaml:"horizon"`  // last simulated day (inclusive)
	Seed     int64 `yaml:"seed"`     // master RNG seed

	InitialCash        float64  `yaml:"initialCash"`
	InitialDebt        float64  `yaml:"initialDebt"`
	InitialRawMaterial int      `yaml:"initialRawMaterial"`
	InitialExperts     int      `yaml:"initialExperts"`
	InitialRookies     int      `yaml:"initialRookies"`
	InitialMachines    Machines `yaml:"initialMachines"`

	// MinCashThreshold drives the cash-safety guard's automatic loan
	// insertion ahead of expensive scheduled actions.
	MinCashThreshold float64 `yaml:"minCashThreshold"`
}

// DefaultRunConfig returns the canonical mid-game starting position: day 51
// with the factory already in debt, one expert, one rookie, and empty stores.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		StartDay:           51,
		Horizon:            365,
		Seed:               42,
		InitialCash:        8206.12,
		InitialDebt:        70000,
		InitialRawMaterial: 0,
		InitialExperts:     1,
		InitialRookies:     1,
		InitialMachines:    Machines{MCE: 1, WMA: 1, PUC: 1},
		MinCashThreshold:   10000,
	}
}

// Validate rejects caller contract violations before any simulation work.
func (c RunConfig) Validate() error {
	if c.Horizon < c.StartDay {
		return fmt.Errorf("run config: horizon %d precedes start day %d", c.Horizon, c.StartDay)
	}
	if c.InitialMachines.MCE < 1 || c.InitialMachines.WMA < 1 || c.InitialMachines.PUC < 1 {
		return fmt.Errorf("run config: every station needs at least one machine, got %+v", c.InitialMachines)
	}
	if c.InitialExperts < 0 || c.InitialRookies < 0 {
		return fmt.Errorf("run config: negative workforce counts")
	}
	if c.InitialRawMaterial < 0 {
		return fmt.Errorf("run config: negative raw material")
	}
	return nil
}
