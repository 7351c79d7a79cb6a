package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// dayLedger accumulates within-day quantities that later steps and the
// history recorder need. It is rebuilt from scratch every day.
type dayLedger struct {
	standardDemand  int
	customDemand    int
	customDropped   int
	customStarted   int
	standardStarted int
	standardShipped int
	customShipped   []CustomOrder // orders completed by ARCP today, ship in step 9
	revenue         float64
	expenses        float64
	overtimeWorked  bool
}

// StepDay advances the simulation by exactly one day. The step order is fixed:
// later steps depend on the contention outcomes of earlier ones and must not
// be reordered.
func (sim *Simulator) StepDay() {
	st := sim.State
	pol := &sim.Strategy
	day := st.CurrentDay
	led := &dayLedger{}

	expensesBefore := totalExpenses(st)

	// 1. Material arrivals.
	sim.arriveMaterials()

	// 2. Reorder-point check.
	sim.reorderMaterials()

	// 3. Workforce training tick.
	sim.trainWorkforce()

	// 4. Demand generation and custom-order admission.
	sim.generateDemand(led)

	// 5. Material consumption: custom line first, each within its MCE share.
	sim.consumeMaterials(led)

	// 6. Custom pipeline advance (WMA passes share one capacity pool).
	sim.advanceCustomPipeline()

	// 7. Standard pipeline advance (batch releases, immediate moves).
	sim.advanceStandardPipeline()

	// 8. ARCP allocation between the two lines.
	sim.allocateARCP(led)

	// 9. Shipping and revenue.
	sim.shipProducts(led)

	// 10. Finance: interest, salaries, overtime, quit risk.
	sim.applyDailyFinance(led)

	// 11. Scheduled strategy actions.
	for _, a := range pol.actionsForDay(day) {
		applyAction(st, pol, a)
	}

	// 12. History append, then the day advances.
	led.expenses = totalExpenses(st) - expensesBefore
	sim.recordDay(led)

	logrus.Debugf("[day %03d] cash=%.2f debt=%.2f material=%d stdWIP=%d customWIP=%d",
		day, st.Cash, st.Debt, st.RawMaterial, st.Standard.Units(), len(st.CustomOrders))

	st.CurrentDay++
}

// totalExpenses sums all outgoing payments recorded so far.
func totalExpenses(st *SimulationState) float64 {
	total := 0.0
	for _, tx := range st.Transactions {
		if tx.Kind == TxPayment || tx.Kind == TxDebtInterest {
			total += tx.Amount
		}
	}
	return total
}

// arriveMaterials adds every pending order due today to inventory and removes
// it from the pending set. Each order arrives exactly once.
func (sim *Simulator) arriveMaterials() {
	st := sim.State
	remaining := st.PendingMaterialOrders[:0]
	for _, o := range st.PendingMaterialOrders {
		if o.ArrivalDay == st.CurrentDay {
			st.RawMaterial += o.Quantity
			logrus.Debugf("[day %03d] material arrival: %d parts (ordered day %d)", st.CurrentDay, o.Quantity, o.OrderDay)
			continue
		}
		remaining = append(remaining, o)
	}
	st.PendingMaterialOrders = remaining
}

// reorderMaterials places a replenishment order whenever on-hand inventory is
// at or below the reorder point. In-transit orders do not suppress the
// trigger, so low stock keeps ordering daily until a delivery lands.
func (sim *Simulator) reorderMaterials() {
	st := sim.State
	pol := &sim.Strategy
	if st.RawMaterial > pol.ReorderPoint {
		return
	}
	placeMaterialOrder(st, pol.OrderQuantity)
}

// placeMaterialOrder attempts to buy qty parts. When cash is short, a regular
// loan covers the gap only while the projected debt-to-cash ratio stays
// acceptable; otherwise the order is rejected and counted, with no state
// change beyond the counter.
func placeMaterialOrder(st *SimulationState, qty int) {
	if qty <= 0 {
		return
	}
	cost := float64(qty)*MaterialUnitCost + MaterialOrderFee
	if st.Cash < cost {
		shortfall := cost - st.Cash
		loan := shortfall / (1 - LoanCommissionRate)
		projectedDebt := st.Debt + loan
		// Cash after the purchase is ~0, so the ratio is taken against the
		// pre-purchase balance.
		if st.Cash <= 0 || projectedDebt/st.Cash > MaterialFinanceMaxDebtToCash {
			st.RejectedMaterialOrders++
			logrus.Debugf("[day %03d] material order rejected: cost=%.2f cash=%.2f debt=%.2f", st.CurrentDay, cost, st.Cash, st.Debt)
			return
		}
		st.TakeLoan(loan, false)
	}
	st.ProcessPayment(cost, "raw material order")
	st.PendingMaterialOrders = append(st.PendingMaterialOrders, PendingMaterialOrder{
		OrderDay:   st.CurrentDay,
		Quantity:   qty,
		ArrivalDay: st.CurrentDay + MaterialLeadTimeDays,
	})
	logrus.Debugf("[day %03d] material order placed: %d parts, cost=%.2f", st.CurrentDay, qty, cost)
}

// trainWorkforce decrements every trainee's remaining days and promotes those
// reaching zero. A rookie hired on day D is promoted on exactly day D+15.
func (sim *Simulator) trainWorkforce() {
	st := sim.State
	remaining := st.Workforce.InTraining[:0]
	for _, t := range st.Workforce.InTraining {
		// A rookie cannot train on the day it was hired; the first tick
		// lands on the following day, so promotion is exactly 15 days out.
		if t.HireDay == st.CurrentDay {
			remaining = append(remaining, t)
			continue
		}
		t.RemainingDays--
		if t.RemainingDays <= 0 {
			st.Workforce.Experts++
			st.Workforce.Rookies--
			logrus.Debugf("[day %03d] rookie hired day %d promoted to expert", st.CurrentDay, t.HireDay)
			continue
		}
		remaining = append(remaining, t)
	}
	st.Workforce.InTraining = remaining
}

// generateDemand draws both lines' demand. New custom orders are admitted only
// while the custom WIP ceiling holds; the excess is dropped and counted.
func (sim *Simulator) generateDemand(led *dayLedger) {
	st := sim.State
	pol := &sim.Strategy
	rng := sim.RNG.ForSubsystem(SubsystemDemand)

	led.standardDemand = standardDemand(rng, pol)
	led.customDemand = customDemand(rng, pol, st.CurrentDay)

	for i := 0; i < led.customDemand; i++ {
		if len(st.CustomOrders) >= CustomLineMaxWIP {
			led.customDropped++
			continue
		}
		st.CustomOrders = append(st.CustomOrders, CustomOrder{
			CreatedDay: st.CurrentDay,
			Stage:      StageMCE,
		})
	}
	st.DroppedCustomOrders += led.customDropped
}

// consumeMaterials runs the shared MCE station. The custom line draws first
// within its allocated capacity share; the standard line consumes what its own
// share allows from the remainder. A line that has allocated capacity but not
// enough material marks the day as lost production.
func (sim *Simulator) consumeMaterials(led *dayLedger) {
	st := sim.State
	pol := &sim.Strategy

	mceTotal := st.Machines.MCE * MCEUnitsPerMachinePerDay
	customCap := int(math.Floor(float64(mceTotal) * pol.MCEAllocationCustom))
	standardCap := mceTotal - customCap
	lost := false

	// Custom first: one part per order, FIFO over orders waiting at MCE.
	started := 0
	for i := range st.CustomOrders {
		if started >= customCap {
			break
		}
		o := &st.CustomOrders[i]
		if o.Stage != StageMCE {
			continue
		}
		if st.RawMaterial < CustomPartsPerOrder {
			lost = true
			break
		}
		st.RawMaterial -= CustomPartsPerOrder
		o.Stage = StageWMA1
		o.DaysInStage = 0
		started++
	}
	led.customStarted = started

	// Standard: two parts per unit from its own share only.
	unitsWanted := standardCap
	unitsPossible := st.RawMaterial / StandardPartsPerUnit
	units := minInt(unitsWanted, unitsPossible)
	if units < unitsWanted && unitsPossible < unitsWanted {
		lost = true
	}
	if units > 0 {
		st.RawMaterial -= units * StandardPartsPerUnit
		st.Standard.PreStation1 = append(st.Standard.PreStation1, StandardBatch{
			EntryDay: st.CurrentDay,
			Units:    units,
		})
	}
	led.standardStarted = units

	if lost {
		st.LostProductionDays++
	}
}

// advanceCustomPipeline moves in-flight custom orders one machine stage
// forward. WMA pass 1 and pass 2 compete for the same physical capacity pool,
// so combined WMA throughput is capped at the shared machine capacity.
// Completing a stage takes one full day plus available capacity on exit.
// Stages are drained in reverse so no order advances twice in one day;
// pass 2 drains before pass 1, giving older orders priority on the pool.
func (sim *Simulator) advanceCustomPipeline() {
	st := sim.State

	wmaPool := st.Machines.WMA * WMAUnitsPerMachinePerDay
	pucPool := st.Machines.PUC * PUCUnitsPerMachinePerDay

	advance := func(from, to CustomStage, pool *int) {
		for i := range st.CustomOrders {
			if *pool <= 0 {
				return
			}
			o := &st.CustomOrders[i]
			if o.Stage != from || o.DaysInStage < 1 {
				continue
			}
			o.Stage = to
			o.DaysInStage = 0
			*pool--
		}
	}

	advance(StageWMA2, StageARCP, &wmaPool)
	advance(StagePUC, StageWMA2, &pucPool)
	advance(StageWMA1, StagePUC, &wmaPool)

	for i := range st.CustomOrders {
		o := &st.CustomOrders[i]
		if o.Stage == StageWMA1 || o.Stage == StagePUC || o.Stage == StageWMA2 {
			o.DaysInStage++
		}
	}
}

// advanceStandardPipeline releases batches that finished their batching waits
// and performs the daily queue moves. Station2's ARCP hand-off itself happens
// in allocateARCP; station3 releases finished goods here.
func (sim *Simulator) advanceStandardPipeline() {
	st := sim.State
	day := st.CurrentDay

	// Station3 -> finished goods: 1-day wait or a full batch of 12.
	station3Units := 0
	for _, b := range st.Standard.Station3 {
		station3Units += b.Units
	}
	releaseAll := station3Units >= Station3BatchSize
	kept := st.Standard.Station3[:0]
	for _, b := range st.Standard.Station3 {
		if releaseAll || day-b.EntryDay >= Station3MaxWaitDays {
			st.FinishedStandard += b.Units
			continue
		}
		kept = append(kept, b)
	}
	st.Standard.Station3 = kept

	// Station1 -> Station2: yesterday's MCE output joins the batching queue.
	// Batches keep their original entry day so the 4-day wait is measured
	// from the day the units were produced.
	for _, b := range st.Standard.Station1 {
		st.Standard.Station2 = append(st.Standard.Station2, b)
	}
	st.Standard.Station1 = st.Standard.Station1[:0]

	// PreStation1 -> Station1: today's staged units take their station1 pass.
	for _, b := range st.Standard.PreStation1 {
		st.Standard.Station1 = append(st.Standard.Station1, b)
	}
	st.Standard.PreStation1 = st.Standard.PreStation1[:0]
}

// arcpShares splits the total ARCP capacity by the MCE allocation fraction.
// The two shares always sum to the total capacity.
func arcpShares(st *SimulationState, allocationCustom float64) (custom, standard float64) {
	total := st.Workforce.ARCPCapacity()
	custom = total * allocationCustom
	standard = total - custom
	return custom, standard
}

// allocateARCP processes both lines' assembly work up to each line's share,
// oldest first. When overtime hours are configured and a backlog remains, the
// shares are extended proportionally and the overtime day is flagged.
func (sim *Simulator) allocateARCP(led *dayLedger) {
	st := sim.State
	pol := &sim.Strategy

	customShare, standardShare := arcpShares(st, pol.MCEAllocationCustom)

	backlog := sim.processARCP(led, int(customShare), int(standardShare))

	if backlog && pol.DailyOvertimeHours > 0 {
		factor := pol.DailyOvertimeHours / WorkdayHours
		extraCustom := int(customShare * factor)
		extraStandard := int(standardShare * factor)
		if extraCustom > 0 || extraStandard > 0 {
			sim.processARCP(led, extraCustom, extraStandard)
			led.overtimeWorked = true
		}
	}
}

// processARCP consumes up to the given per-line unit budgets and reports
// whether queued work remains on either line afterwards.
func (sim *Simulator) processARCP(led *dayLedger, customBudget, standardBudget int) (backlog bool) {
	st := sim.State
	day := st.CurrentDay

	// Custom line: completed orders leave the pipeline and ship in step 9.
	// Orders are in creation order, so a forward scan is oldest-first.
	kept := st.CustomOrders[:0]
	for _, o := range st.CustomOrders {
		if o.Stage == StageARCP && customBudget > 0 {
			customBudget--
			led.customShipped = append(led.customShipped, o)
			continue
		}
		if o.Stage == StageARCP {
			backlog = true
		}
		kept = append(kept, o)
	}
	st.CustomOrders = kept

	// Standard line: batches released from station2 move to station3.
	// A batch is ARCP-eligible after the batching wait or once the queue has
	// accumulated a full batch.
	station2Units := 0
	for _, b := range st.Standard.Station2 {
		station2Units += b.Units
	}
	batchReady := station2Units >= sim.Strategy.StandardBatchSize

	keptBatches := st.Standard.Station2[:0]
	for _, b := range st.Standard.Station2 {
		eligible := batchReady || day-b.EntryDay >= Station2MaxWaitDays
		if !eligible {
			keptBatches = append(keptBatches, b)
			continue
		}
		if standardBudget <= 0 {
			backlog = true
			keptBatches = append(keptBatches, b)
			continue
		}
		take := minInt(b.Units, standardBudget)
		standardBudget -= take
		st.Standard.Station3 = append(st.Standard.Station3, StandardBatch{EntryDay: day, Units: take})
		if take < b.Units {
			backlog = true
			keptBatches = append(keptBatches, StandardBatch{EntryDay: b.EntryDay, Units: b.Units - take})
		}
	}
	st.Standard.Station2 = keptBatches
	return backlog
}

// shipProducts ships custom completions immediately and standard units against
// the day's demand, zero-floored. Unmet standard demand is a stockout day.
func (sim *Simulator) shipProducts(led *dayLedger) {
	st := sim.State
	pol := &sim.Strategy
	day := st.CurrentDay

	for _, o := range led.customShipped {
		leadTime := day - o.CreatedDay
		revenue := pol.CustomBasePrice - pol.CustomPenaltyPerDay*float64(maxInt(leadTime-pol.CustomTargetDeliveryDays, 0))
		if revenue < 0 {
			revenue = 0
		}
		st.receiveRevenue(revenue, "custom order shipped")
		st.FinishedCustom++
		led.revenue += revenue
	}

	shipped := minInt(st.FinishedStandard, led.standardDemand)
	if shipped > 0 {
		st.FinishedStandard -= shipped
		revenue := float64(shipped) * pol.StandardPrice
		st.receiveRevenue(revenue, "standard units shipped")
		led.revenue += revenue
	}
	led.standardShipped = shipped
	if led.standardDemand > shipped {
		st.StockoutDays++
	}
}

// applyDailyFinance runs interest, salaries, overtime pay, and quit risk.
// Salaries always clear via the automatic salary-loan fallback.
func (sim *Simulator) applyDailyFinance(led *dayLedger) {
	st := sim.State
	pol := &sim.Strategy

	st.ApplyDebtInterest()
	st.ApplyCashInterest()

	salaries := float64(st.Workforce.Experts)*ExpertDailySalary + float64(st.Workforce.Rookies)*RookieDailySalary
	if salaries > 0 {
		st.ProcessPayment(salaries, "daily salaries")
	}

	if led.overtimeWorked {
		hourly := salaries / WorkdayHours
		st.ProcessPayment(hourly*pol.DailyOvertimeHours*OvertimeMultiplier, "overtime pay")
		st.Workforce.ConsecutiveOvertimeDays++
	} else {
		st.Workforce.ConsecutiveOvertimeDays = 0
	}

	// Sustained overtime makes each worker independently consider quitting.
	if st.Workforce.ConsecutiveOvertimeDays >= pol.OvertimeTriggerDays && pol.DailyQuitProbability > 0 {
		rng := sim.RNG.ForSubsystem(SubsystemWorkforce)
		quitExperts, quitRookies := 0, 0
		for i := 0; i < st.Workforce.Experts; i++ {
			if rng.Float64() < pol.DailyQuitProbability {
				quitExperts++
			}
		}
		for i := 0; i < st.Workforce.Rookies; i++ {
			if rng.Float64() < pol.DailyQuitProbability {
				quitRookies++
			}
		}
		st.Workforce.Experts -= quitExperts
		st.Workforce.Rookies -= quitRookies
		if n := len(st.Workforce.InTraining); quitRookies > 0 && n > 0 {
			st.Workforce.InTraining = st.Workforce.InTraining[:maxInt(n-quitRookies, 0)]
		}
		if quitExperts+quitRookies > 0 {
			logrus.Debugf("[day %03d] overtime attrition: %d expert(s), %d rookie(s) quit", st.CurrentDay, quitExperts, quitRookies)
		}
	}
}

// recordDay appends every tracked metric for the current day.
func (sim *Simulator) recordDay(led *dayLedger) {
	st := sim.State
	pol := &sim.Strategy
	day := st.CurrentDay
	h := st.History

	station1Units, station2Units, station3Units := 0, 0, 0
	for _, b := range st.Standard.Station1 {
		station1Units += b.Units
	}
	for _, b := range st.Standard.Station2 {
		station2Units += b.Units
	}
	for _, b := range st.Standard.Station3 {
		station3Units += b.Units
	}

	h.Record(day, MetricCash, st.Cash)
	h.Record(day, MetricDebt, st.Debt)
	h.Record(day, MetricNetWorth, st.NetWorth())
	h.Record(day, MetricRawMaterial, float64(st.RawMaterial))
	h.Record(day, MetricPendingOrders, float64(len(st.PendingMaterialOrders)))
	h.Record(day, MetricPreStation1, 0) // drained every day in step 7
	h.Record(day, MetricStation1, float64(station1Units))
	h.Record(day, MetricStation2, float64(station2Units))
	h.Record(day, MetricStation3, float64(station3Units))
	h.Record(day, MetricStandardWIP, float64(st.Standard.Units()))
	h.Record(day, MetricCustomWIP, float64(len(st.CustomOrders)))
	h.Record(day, MetricFinishedStandard, float64(st.FinishedStandard))
	h.Record(day, MetricFinishedCustom, float64(st.FinishedCustom))
	h.Record(day, MetricStandardProduced, float64(led.standardStarted))
	h.Record(day, MetricCustomStarted, float64(led.customStarted))
	h.Record(day, MetricStandardShipped, float64(led.standardShipped))
	h.Record(day, MetricCustomShipped, float64(len(led.customShipped)))
	h.Record(day, MetricStandardDemand, float64(led.standardDemand))
	h.Record(day, MetricCustomDemand, float64(led.customDemand))
	h.Record(day, MetricCustomDropped, float64(led.customDropped))
	h.Record(day, MetricExperts, float64(st.Workforce.Experts))
	h.Record(day, MetricRookies, float64(st.Workforce.Rookies))
	h.Record(day, MetricStandardPrice, pol.StandardPrice)
	h.Record(day, MetricCustomBasePrice, pol.CustomBasePrice)
	h.Record(day, MetricMCEAllocation, pol.MCEAllocationCustom)
	h.Record(day, MetricARCPCapacity, st.Workforce.ARCPCapacity())
	h.Record(day, MetricRejectedOrders, float64(st.RejectedMaterialOrders))
	h.Record(day, MetricStockoutDays, float64(st.StockoutDays))
	h.Record(day, MetricLostProduction, float64(st.LostProductionDays))
	h.Record(day, MetricDailyRevenue, led.revenue)
	h.Record(day, MetricDailyExpenses, led.expenses)
	h.Record(day, MetricMachinesMCE, float64(st.Machines.MCE))
	h.Record(day, MetricMachinesWMA, float64(st.Machines.WMA))
	h.Record(day, MetricMachinesPUC, float64(st.Machines.PUC))
}
