package optimize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/factory-sim/factory-sim/sim"
)

func newTestOptimizer(t *testing.T, cons *Constraints) *Optimizer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PopulationSize = 10
	cfg.Generations = 2
	o, err := New(cfg, cons)
	require.NoError(t, err)
	return o
}

func TestMutateAction_StaysWithinTypeBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		action sim.StrategyAction
		check  func(t *testing.T, a sim.StrategyAction)
	}{
		{sim.StrategyAction{Type: sim.ActionTakeLoan, Amount: 1e9}, func(t *testing.T, a sim.StrategyAction) {
			assert.LessOrEqual(t, a.Amount, loanBounds.max)
			assert.GreaterOrEqual(t, a.Amount, loanBounds.min)
		}},
		{sim.StrategyAction{Type: sim.ActionHireRookie, Count: 100}, func(t *testing.T, a sim.StrategyAction) {
			assert.LessOrEqual(t, a.Count, int(hireBounds.max))
			assert.GreaterOrEqual(t, a.Count, int(hireBounds.min))
		}},
		{sim.StrategyAction{Type: sim.ActionAdjustMCEAllocation, Value: 0.01}, func(t *testing.T, a sim.StrategyAction) {
			assert.GreaterOrEqual(t, a.Value, allocationBounds.min)
			assert.LessOrEqual(t, a.Value, allocationBounds.max)
		}},
		{sim.StrategyAction{Type: sim.ActionOrderMaterials, Quantity: 1}, func(t *testing.T, a sim.StrategyAction) {
			assert.GreaterOrEqual(t, a.Quantity, int(materialsBounds.min))
		}},
	}

	for _, tt := range tests {
		for i := 0; i < 50; i++ {
			tt.check(t, mutateAction(rng, tt.action))
		}
	}
}

func TestMutateAction_ParameterlessPayloadUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := sim.StrategyAction{Day: 60, Type: "UNKNOWN"}
	assert.Equal(t, a, mutateAction(rng, a))
}

func TestMutate_RespectsConstraints(t *testing.T) {
	// GIVEN a pinned allocation override and a pinned action
	cons := &Constraints{
		FixedParams:  map[string]bool{ParamMCEAllocationCustom: true},
		FixedActions: map[string]bool{"TAKE_LOAN@60": true},
	}
	o := newTestOptimizer(t, cons)
	rng := rand.New(rand.NewSource(1))

	c := &Candidate{
		Actions: []sim.StrategyAction{
			{Day: 60, Type: sim.ActionTakeLoan, Amount: 50000},
		},
		Overrides: map[string]float64{
			ParamMCEAllocationCustom: 0.5,
			ParamStandardPrice:       750,
		},
	}

	// WHEN mutation runs at rate 1 (every unpinned gene mutates)
	o.mutate(rng, c, 1.0)

	// THEN the pinned entries are untouched and the free one moved
	assert.Equal(t, 50000.0, c.Actions[0].Amount)
	assert.Equal(t, 0.5, c.Overrides[ParamMCEAllocationCustom])
	assert.NotEqual(t, 750.0, c.Overrides[ParamStandardPrice])
}

func TestMutate_RateZeroChangesNothing(t *testing.T) {
	o := newTestOptimizer(t, nil)
	rng := rand.New(rand.NewSource(1))

	c := &Candidate{
		Actions:   []sim.StrategyAction{{Day: 60, Type: sim.ActionTakeLoan, Amount: 50000}},
		Overrides: map[string]float64{ParamStandardPrice: 750},
	}
	o.mutate(rng, c, 0)

	assert.Equal(t, 50000.0, c.Actions[0].Amount)
	assert.Equal(t, 750.0, c.Overrides[ParamStandardPrice])
}

func TestCrossover_ChildGenesComeFromParents(t *testing.T) {
	o := newTestOptimizer(t, nil)
	rng := rand.New(rand.NewSource(3))

	a := &Candidate{
		Actions: []sim.StrategyAction{
			{Day: 60, Type: sim.ActionHireRookie, Count: 1},
			{Day: 70, Type: sim.ActionTakeLoan, Amount: 20000},
		},
		Overrides: map[string]float64{ParamReorderPoint: 300},
	}
	b := &Candidate{
		Actions: []sim.StrategyAction{
			{Day: 65, Type: sim.ActionBuyMachine, Machine: sim.MachineMCE, Count: 1},
			{Day: 80, Type: sim.ActionPayDebt, Amount: 5000},
			{Day: 90, Type: sim.ActionOrderMaterials, Quantity: 500},
		},
		Overrides: map[string]float64{ParamStandardPrice: 800},
	}

	parentActions := map[sim.StrategyAction]bool{}
	for _, act := range append(append([]sim.StrategyAction{}, a.Actions...), b.Actions...) {
		parentActions[act] = true
	}

	for i := 0; i < 20; i++ {
		child := o.crossover(rng, a, b)
		for _, act := range child.Actions {
			assert.True(t, parentActions[act], "child action %s not from either parent", act)
		}
		for name, v := range child.Overrides {
			assert.True(t, v == a.Overrides[name] || v == b.Overrides[name],
				"child override %s=%v not from either parent", name, v)
		}
	}
}

func TestCrossover_EmptyParentsYieldEmptyChild(t *testing.T) {
	o := newTestOptimizer(t, nil)
	rng := rand.New(rand.NewSource(3))

	child := o.crossover(rng, &Candidate{Overrides: map[string]float64{}}, &Candidate{Overrides: map[string]float64{}})
	assert.Empty(t, child.Actions)
	assert.Empty(t, child.Overrides)
}

func TestRandomAction_WithinRunWindow(t *testing.T) {
	o := newTestOptimizer(t, nil)
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 200; i++ {
		a := o.randomAction(rng)
		assert.Greater(t, a.Day, o.cfg.Run.StartDay)
		assert.LessOrEqual(t, a.Day, o.cfg.Run.Horizon)
	}
}

func TestEliteCount(t *testing.T) {
	o := newTestOptimizer(t, nil) // population 10, elite 0.2
	assert.Equal(t, 2, o.eliteCount())

	o.cfg.ElitePercentage = 0.01 // rounds down to zero but stays at least one
	assert.Equal(t, 1, o.eliteCount())

	o.cfg.ElitePercentage = 0
	assert.Equal(t, 0, o.eliteCount())
}
