// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulator drives one factory run from its start day to the horizon.
// It exclusively owns its state and its active policy; scheduled actions
// mutate the policy as the run progresses.
type Simulator struct {
	State    *SimulationState
	Strategy Strategy
	Horizon  int
	RNG      *PartitionedRNG
}

// NewSimulator builds a simulator from an already-cloned strategy and a run
// configuration. The caller must not reuse the strategy afterwards.
func NewSimulator(strategy Strategy, cfg RunConfig) *Simulator {
	return &Simulator{
		State:    NewSimulationState(cfg),
		Strategy: strategy,
		Horizon:  cfg.Horizon,
		RNG:      NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}
}

// Run steps the simulation day by day until the horizon (inclusive) and
// derives the result. A run never aborts mid-horizon: shortfalls degrade into
// counters and automatic financing, so bad strategies produce bad fitness,
// not failures.
func (sim *Simulator) Run() *SimulationResult {
	for sim.State.CurrentDay <= sim.Horizon {
		sim.StepDay()
	}
	logrus.Debugf("[day %03d] simulation ended: netWorth=%.2f fitness=%.2f",
		sim.State.CurrentDay, sim.State.NetWorth(), sim.State.Fitness())

	return &SimulationResult{
		FinalCash:     sim.State.Cash,
		FinalDebt:     sim.State.Debt,
		FinalNetWorth: sim.State.NetWorth(),
		Fitness:       sim.State.Fitness(),
		Strategy:      sim.Strategy,
		State:         sim.State,
	}
}

// SimulationResult is the stable output contract of a run. State.History
// carries the full day-indexed metric series that external advisory readers
// pattern-match on.
type SimulationResult struct {
	FinalCash     float64
	FinalDebt     float64
	FinalNetWorth float64
	Fitness       float64
	Strategy      Strategy
	State         *SimulationState
}

// RunSimulation is the package-level entry point: it validates the config,
// clones and normalizes the strategy, inserts cash-safety loans ahead of
// expensive scheduled actions, and runs the full horizon.
func RunSimulation(strategy Strategy, cfg RunConfig) (*SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("run simulation: %w", err)
	}
	active := strategy.Clone()
	active.NormalizeActions()
	active.TimedActions = EnsureCashSafety(active.TimedActions, cfg.InitialCash, cfg.MinCashThreshold)
	return NewSimulator(active, cfg).Run(), nil
}
