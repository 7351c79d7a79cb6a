package optimize

import (
	sim "github.com/factory-sim/factory-sim/sim"
)

// fitnessFloor is assigned to candidates whose evaluation failed, keeping
// them strictly below any genuinely evaluated strategy.
const fitnessFloor = -1e12

// Candidate is one individual in the population: a timed action plan plus
// optional scalar overrides on the base strategy. Each candidate carries its
// own derived RNG seed so fitness evaluations are deterministic and can run
// in parallel without sharing random streams.
type Candidate struct {
	Actions   []sim.StrategyAction
	Overrides map[string]float64 // keyed by Param* constants

	Fitness   float64
	NetWorth  float64
	Err       error
	Evaluated bool
	Seed      int64

	// Result retains the full run output (including history) for the best
	// candidate; cleared for the rest to bound memory.
	Result *sim.SimulationResult
}

// clone deep-copies the candidate's genome; evaluation fields reset.
func (c *Candidate) clone() *Candidate {
	cp := &Candidate{
		Actions:   append([]sim.StrategyAction(nil), c.Actions...),
		Overrides: make(map[string]float64, len(c.Overrides)),
		Seed:      c.Seed,
	}
	for k, v := range c.Overrides {
		cp.Overrides[k] = v
	}
	return cp
}

// keepEvaluation copies the candidate with its evaluation intact, used for
// elites promoted unchanged into the next generation.
func (c *Candidate) keepEvaluation() *Candidate {
	cp := c.clone()
	cp.Fitness = c.Fitness
	cp.NetWorth = c.NetWorth
	cp.Err = c.Err
	cp.Evaluated = c.Evaluated
	cp.Result = c.Result
	return cp
}

// strategy materializes the candidate into a runnable strategy: a clone of
// the base with overrides applied and the candidate's actions installed.
func (c *Candidate) strategy(base sim.Strategy) sim.Strategy {
	s := base.Clone()
	for name, v := range c.Overrides {
		switch name {
		case ParamReorderPoint:
			s.ReorderPoint = int(v)
		case ParamOrderQuantity:
			s.OrderQuantity = int(v)
		case ParamStandardBatchSize:
			s.StandardBatchSize = int(v)
		case ParamMCEAllocationCustom:
			s.MCEAllocationCustom = v
		case ParamStandardPrice:
			s.StandardPrice = v
		}
	}
	s.TimedActions = append(s.TimedActions, c.Actions...)
	return s
}
