package optimize

import (
	"math/rand"

	"github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/analytics"
)

// seedJitter is the ±20% perturbation applied to analytical recommendations
// so formula-seeded individuals do not collapse onto a single point.
const seedJitter = 0.2

// highMutationRate drives the aggressive variants of the formula seeds.
const highMutationRate = 0.8

// seedPopulation builds the initial population mixture: 40% analytical seeds,
// 30% high-mutation variants of those seeds, 30% uniformly random plans.
// Without analytical seeding the whole population is random.
func (o *Optimizer) seedPopulation(rng *rand.Rand) []*Candidate {
	n := o.cfg.PopulationSize
	pop := make([]*Candidate, 0, n)

	if o.cfg.SeedWithAnalytical {
		analytical := int(float64(n) * 0.4)
		highMut := int(float64(n) * 0.3)
		for i := 0; i < analytical; i++ {
			pop = append(pop, o.analyticalCandidate(rng))
		}
		for i := 0; i < highMut; i++ {
			c := o.analyticalCandidate(rng)
			o.mutate(rng, c, highMutationRate)
			pop = append(pop, c)
		}
	}
	for len(pop) < n {
		pop = append(pop, o.randomCandidate(rng))
	}
	return pop
}

// perturb applies the ±seedJitter band around an analytical value.
func perturb(rng *rand.Rand, v float64) float64 {
	return v * (1 + (rng.Float64()*2-1)*seedJitter)
}

// analyticalCandidate derives a plan from the closed-form recommendations:
// EOQ for order quantity, ROP for the reorder point, EPQ for batch size,
// M/M/s wait for hiring, NPV for machine purchase, and the linear-demand
// profit optimum for pricing.
func (o *Optimizer) analyticalCandidate(rng *rand.Rand) *Candidate {
	base := o.cfg.Base
	run := o.cfg.Run
	day := run.StartDay + 1

	c := &Candidate{Overrides: make(map[string]float64)}

	// Expected daily part consumption across both lines.
	stdDaily := base.DemandBase - base.DemandSlope*base.StandardPrice
	if stdDaily < 0 {
		stdDaily = 0
	}
	partsPerDay := stdDaily*sim.StandardPartsPerUnit + base.CustomDemandMean1*sim.CustomPartsPerOrder

	// EOQ over a yearly part demand; holding cost taken as 20% of unit cost.
	eoq := analytics.EOQ(partsPerDay*365, sim.MaterialOrderFee, 0.2*sim.MaterialUnitCost)
	if eoq > 0 && !o.cons.paramFixed(ParamOrderQuantity) {
		c.Overrides[ParamOrderQuantity] = orderQuantityBounds.clamp(perturb(rng, eoq))
	}

	// ROP with a 95% service-level safety stock over the supplier lead time.
	ss := analytics.SafetyStock(1.65, base.CustomDemandStdDev1+base.DemandNoiseStdDev*stdDaily, sim.MaterialLeadTimeDays)
	rop := analytics.ReorderPoint(partsPerDay, sim.MaterialLeadTimeDays, ss)
	if rop > 0 && !o.cons.paramFixed(ParamReorderPoint) {
		c.Overrides[ParamReorderPoint] = reorderPointBounds.clamp(perturb(rng, rop))
	}

	// EPQ for the standard-line batch size.
	mceStdRate := float64(run.InitialMachines.MCE*sim.MCEUnitsPerMachinePerDay) * (1 - base.MCEAllocationCustom)
	epq := analytics.EPQ(stdDaily*365, sim.MaterialOrderFee, 0.2*base.StandardPrice, stdDaily, mceStdRate)
	if epq > 0 && !o.cons.paramFixed(ParamStandardBatchSize) {
		c.Overrides[ParamStandardBatchSize] = batchSizeBounds.clamp(perturb(rng, epq))
	}

	// Profit-optimal standard price for the linear demand curve.
	price := analytics.OptimalPrice(base.DemandBase, base.DemandSlope, sim.StandardPartsPerUnit*sim.MaterialUnitCost)
	if price > 0 && !o.cons.paramFixed(ParamStandardPrice) {
		c.Overrides[ParamStandardPrice] = priceBounds.clamp(perturb(rng, price))
	}

	// M/M/s over the assembly station: if the expected queueing wait exceeds
	// a day, recommend hiring.
	servers := run.InitialExperts + run.InitialRookies
	lambda := stdDaily + base.CustomDemandMean1
	wait := analytics.MMsWait(lambda, sim.ARCPUnitsPerWorker, servers)
	if wait > 1 {
		hire := sim.StrategyAction{
			Day:   day,
			Type:  sim.ActionHireRookie,
			Count: int(hireBounds.clamp(perturb(rng, 2))),
		}
		if !o.cons.actionFixed(hire) {
			c.Actions = append(c.Actions, hire)
		}
	}

	// NPV of one extra MCE machine over the remaining horizon, valued at the
	// marginal standard contribution it unlocks.
	horizonDays := run.Horizon - run.StartDay
	margin := (base.StandardPrice - sim.StandardPartsPerUnit*sim.MaterialUnitCost) * stdDaily / float64(maxInt(run.InitialMachines.MCE, 1))
	flows := make([]float64, 0, horizonDays/30+1)
	flows = append(flows, -sim.MachinePurchaseCost)
	for m := 0; m < horizonDays/30; m++ {
		flows = append(flows, margin)
	}
	if analytics.NPV(0.01, flows) > 0 {
		buy := sim.StrategyAction{
			Day:     day,
			Type:    sim.ActionBuyMachine,
			Machine: sim.MachineMCE,
			Count:   1,
		}
		if !o.cons.actionFixed(buy) {
			c.Actions = append(c.Actions, buy)
		}
	}

	return c
}

// randomCandidate draws 2-6 uniformly random actions and a random allocation
// override within its band.
func (o *Optimizer) randomCandidate(rng *rand.Rand) *Candidate {
	c := &Candidate{Overrides: make(map[string]float64)}
	n := 2 + rng.Intn(5)
	for i := 0; i < n; i++ {
		a := o.randomAction(rng)
		if o.cons.actionFixed(a) {
			continue
		}
		c.Actions = append(c.Actions, a)
	}
	if !o.cons.paramFixed(ParamMCEAllocationCustom) && rng.Float64() < 0.5 {
		c.Overrides[ParamMCEAllocationCustom] = allocationBounds.random(rng)
	}
	return c
}
