package optimize

import (
	"math/rand"

	sim "github.com/factory-sim/factory-sim/sim"
)

// mutationJitter is the maximum relative perturbation applied to a mutated
// numeric payload before re-clamping to the type's valid range.
const mutationJitter = 0.3

// bounds is an inclusive numeric range for a mutable payload.
type bounds struct {
	min, max float64
}

func (b bounds) clamp(v float64) float64 {
	if v < b.min {
		return b.min
	}
	if v > b.max {
		return b.max
	}
	return v
}

func (b bounds) random(rng *rand.Rand) float64 {
	return b.min + rng.Float64()*(b.max-b.min)
}

// Valid ranges per action type.
var (
	orderQuantityBounds = bounds{100, 2000}
	reorderPointBounds  = bounds{200, 1000}
	batchSizeBounds     = bounds{50, 500}
	priceBounds         = bounds{400, 1200}
	hireBounds          = bounds{1, 5}
	fireBounds          = bounds{1, 3}
	machineBounds       = bounds{1, 3}
	loanBounds          = bounds{10000, 100000}
	debtPaymentBounds   = bounds{1000, 100000}
	materialsBounds     = bounds{100, 2000}
	allocationBounds    = bounds{0.2, 0.8}
)

// paramBounds maps override keys to their valid ranges.
var paramBounds = map[string]bounds{
	ParamReorderPoint:        reorderPointBounds,
	ParamOrderQuantity:       orderQuantityBounds,
	ParamStandardBatchSize:   batchSizeBounds,
	ParamMCEAllocationCustom: allocationBounds,
	ParamStandardPrice:       priceBounds,
}

// jitter perturbs v multiplicatively by up to ±mutationJitter.
func jitter(rng *rand.Rand, v float64) float64 {
	return v * (1 + (rng.Float64()*2-1)*mutationJitter)
}

// mutateAction perturbs the action's numeric payload within its type bounds.
// Exhaustive over the mutable action types; parameterless payloads pass
// through unchanged.
func mutateAction(rng *rand.Rand, a sim.StrategyAction) sim.StrategyAction {
	switch a.Type {
	case sim.ActionHireRookie:
		a.Count = int(hireBounds.clamp(jitter(rng, float64(a.Count))))
	case sim.ActionFireEmployee:
		a.Count = int(fireBounds.clamp(jitter(rng, float64(a.Count))))
	case sim.ActionBuyMachine, sim.ActionSellMachine:
		a.Count = int(machineBounds.clamp(jitter(rng, float64(a.Count))))
	case sim.ActionSetOrderQuantity:
		a.Value = orderQuantityBounds.clamp(jitter(rng, a.Value))
	case sim.ActionSetReorderPoint:
		a.Value = reorderPointBounds.clamp(jitter(rng, a.Value))
	case sim.ActionAdjustBatchSize:
		a.Value = batchSizeBounds.clamp(jitter(rng, a.Value))
	case sim.ActionAdjustPrice:
		a.Value = priceBounds.clamp(jitter(rng, a.Value))
	case sim.ActionAdjustMCEAllocation:
		a.Value = allocationBounds.clamp(jitter(rng, a.Value))
	case sim.ActionTakeLoan:
		a.Amount = loanBounds.clamp(jitter(rng, a.Amount))
	case sim.ActionPayDebt:
		a.Amount = debtPaymentBounds.clamp(jitter(rng, a.Amount))
	case sim.ActionOrderMaterials:
		a.Quantity = int(materialsBounds.clamp(jitter(rng, float64(a.Quantity))))
	}
	return a
}

// mutate applies per-action and per-override mutation at the given rate,
// skipping anything the constraints pin.
func (o *Optimizer) mutate(rng *rand.Rand, c *Candidate, rate float64) {
	for i, a := range c.Actions {
		if o.cons.actionFixed(a) {
			continue
		}
		if rng.Float64() < rate {
			c.Actions[i] = mutateAction(rng, a)
		}
	}
	for name, v := range c.Overrides {
		if o.cons.paramFixed(name) {
			continue
		}
		if rng.Float64() < rate {
			c.Overrides[name] = paramBounds[name].clamp(jitter(rng, v))
		}
	}
}

// crossover builds a child by a single-point split of the parents' action
// lists, the split index bounded by the shorter parent, and a uniform mix of
// the parents' overrides.
func (o *Optimizer) crossover(rng *rand.Rand, a, b *Candidate) *Candidate {
	short := len(a.Actions)
	if len(b.Actions) < short {
		short = len(b.Actions)
	}
	split := 0
	if short > 0 {
		split = rng.Intn(short + 1)
	}
	child := &Candidate{
		Overrides: make(map[string]float64),
	}
	child.Actions = append(child.Actions, a.Actions[:split]...)
	child.Actions = append(child.Actions, b.Actions[split:]...)

	for _, parent := range []*Candidate{a, b} {
		for name, v := range parent.Overrides {
			if _, ok := child.Overrides[name]; !ok || rng.Float64() < 0.5 {
				child.Overrides[name] = v
			}
		}
	}
	return child
}

// randomAction draws a uniformly random action of a random mutable type
// scheduled within the run window.
func (o *Optimizer) randomAction(rng *rand.Rand) sim.StrategyAction {
	day := o.cfg.Run.StartDay + 1 + rng.Intn(maxInt(o.cfg.Run.Horizon-o.cfg.Run.StartDay, 1))
	switch rng.Intn(10) {
	case 0:
		return sim.StrategyAction{Day: day, Type: sim.ActionHireRookie, Count: int(hireBounds.random(rng))}
	case 1:
		return sim.StrategyAction{Day: day, Type: sim.ActionBuyMachine, Machine: randomMachine(rng), Count: int(machineBounds.random(rng))}
	case 2:
		return sim.StrategyAction{Day: day, Type: sim.ActionSetOrderQuantity, Value: orderQuantityBounds.random(rng)}
	case 3:
		return sim.StrategyAction{Day: day, Type: sim.ActionSetReorderPoint, Value: reorderPointBounds.random(rng)}
	case 4:
		return sim.StrategyAction{Day: day, Type: sim.ActionAdjustBatchSize, Value: batchSizeBounds.random(rng)}
	case 5:
		return sim.StrategyAction{Day: day, Type: sim.ActionAdjustPrice, Product: sim.ProductStandard, Value: priceBounds.random(rng)}
	case 6:
		return sim.StrategyAction{Day: day, Type: sim.ActionAdjustMCEAllocation, Value: allocationBounds.random(rng)}
	case 7:
		return sim.StrategyAction{Day: day, Type: sim.ActionTakeLoan, Amount: loanBounds.random(rng)}
	case 8:
		return sim.StrategyAction{Day: day, Type: sim.ActionPayDebt, Amount: debtPaymentBounds.random(rng)}
	default:
		return sim.StrategyAction{Day: day, Type: sim.ActionOrderMaterials, Quantity: int(materialsBounds.random(rng))}
	}
}

func randomMachine(rng *rand.Rand) sim.MachineType {
	switch rng.Intn(3) {
	case 0:
		return sim.MachineMCE
	case 1:
		return sim.MachineWMA
	default:
		return sim.MachinePUC
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
