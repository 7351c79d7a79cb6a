package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestSimulator builds a simulator with ample cash and no debt so tests can
// focus on the mechanics under scrutiny.
func newTestSimulator(strategy Strategy) *Simulator {
	cfg := DefaultRunConfig()
	cfg.InitialCash = 200000
	cfg.InitialDebt = 0
	return NewSimulator(strategy, cfg)
}

func TestArriveMaterials_DeliversDueOrdersExactlyOnce(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.PendingMaterialOrders = []PendingMaterialOrder{
		{OrderDay: st.CurrentDay - MaterialLeadTimeDays, Quantity: 400, ArrivalDay: st.CurrentDay},
		{OrderDay: st.CurrentDay, Quantity: 100, ArrivalDay: st.CurrentDay + MaterialLeadTimeDays},
	}

	sim.arriveMaterials()

	assert.Equal(t, 400, st.RawMaterial)
	assert.Len(t, st.PendingMaterialOrders, 1)
	assert.Equal(t, 100, st.PendingMaterialOrders[0].Quantity)
}

func TestPlaceMaterialOrder_FinancesSmallShortfall(t *testing.T) {
	// GIVEN cash just below the order cost and no debt
	cfg := DefaultRunConfig()
	cfg.InitialCash = 20000
	cfg.InitialDebt = 0
	st := NewSimulationState(cfg)

	// WHEN a 400-part order (cost 21000) is placed
	placeMaterialOrder(st, 400)

	// THEN a regular loan bridges the gap and the order goes through
	assert.Len(t, st.PendingMaterialOrders, 1)
	assert.Greater(t, st.Debt, 0.0)
	assert.GreaterOrEqual(t, st.Cash, -1e-9)
	assert.Equal(t, 0, st.RejectedMaterialOrders)
}

func TestReorderMaterials_LowStockOrdersEvenWithOrderInTransit(t *testing.T) {
	// GIVEN on-hand stock at the reorder point while a delivery is in transit
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.RawMaterial = 100
	st.PendingMaterialOrders = []PendingMaterialOrder{
		{OrderDay: st.CurrentDay - 1, Quantity: 400, ArrivalDay: st.CurrentDay + 3},
	}

	// WHEN the reorder check runs
	sim.reorderMaterials()

	// THEN the in-transit order does not suppress the trigger
	assert.Len(t, st.PendingMaterialOrders, 2)
	placed := st.PendingMaterialOrders[1]
	assert.Equal(t, 400, placed.Quantity)
	assert.Equal(t, st.CurrentDay+MaterialLeadTimeDays, placed.ArrivalDay)
}

func TestReorderMaterials_NoOrderAboveReorderPoint(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.RawMaterial = 201 // just above the default reorder point

	sim.reorderMaterials()

	assert.Empty(t, st.PendingMaterialOrders)
}

func TestConsumeMaterials_CustomLineDrawsFirst(t *testing.T) {
	// GIVEN 10 parts and both lines hungry, with a 0.7 custom allocation
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.RawMaterial = 10
	for i := 0; i < 30; i++ {
		st.CustomOrders = append(st.CustomOrders, CustomOrder{CreatedDay: st.CurrentDay, Stage: StageMCE})
	}

	led := &dayLedger{}
	sim.consumeMaterials(led)

	// THEN the custom line consumed its full 21-order share... capped by the
	// 10 available parts, so 10 custom starts and nothing for standard
	assert.Equal(t, 10, led.customStarted)
	assert.Equal(t, 0, led.standardStarted)
	assert.Equal(t, 0, st.RawMaterial)
	assert.Equal(t, 1, st.LostProductionDays)
}

func TestConsumeMaterials_StandardUsesOwnShare(t *testing.T) {
	// GIVEN plenty of parts and no custom work
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.RawMaterial = 1000

	led := &dayLedger{}
	sim.consumeMaterials(led)

	// THEN standard starts its 9-unit share (30 total, 21 reserved for custom)
	// consuming two parts each; the custom share goes unused without orders
	assert.Equal(t, 0, led.customStarted)
	assert.Equal(t, 9, led.standardStarted)
	assert.Equal(t, 1000-9*StandardPartsPerUnit, st.RawMaterial)
	assert.Equal(t, 0, st.LostProductionDays)
}

func TestAdvanceCustomPipeline_SharedWMAPool(t *testing.T) {
	// GIVEN one WMA machine (pool of 6) and both WMA passes saturated
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	for i := 0; i < 10; i++ {
		st.CustomOrders = append(st.CustomOrders, CustomOrder{Stage: StageWMA2, DaysInStage: 1})
	}
	for i := 0; i < 10; i++ {
		st.CustomOrders = append(st.CustomOrders, CustomOrder{Stage: StageWMA1, DaysInStage: 1})
	}

	sim.advanceCustomPipeline()

	// THEN pass 2 drains the whole pool and pass 1 gets nothing
	counts := map[CustomStage]int{}
	for _, o := range st.CustomOrders {
		counts[o.Stage]++
	}
	assert.Equal(t, 6, counts[StageARCP])
	assert.Equal(t, 4, counts[StageWMA2])
	assert.Equal(t, 10, counts[StageWMA1])

	// AND the orders still in a machine stage aged by one day
	for _, o := range st.CustomOrders {
		if o.Stage == StageWMA1 || o.Stage == StageWMA2 {
			assert.Equal(t, 2, o.DaysInStage)
		}
	}
}

func TestAdvanceCustomPipeline_OneStagePerDay(t *testing.T) {
	// GIVEN a single order fresh into WMA pass 1
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.CustomOrders = []CustomOrder{{Stage: StageWMA1, DaysInStage: 0}}

	sim.advanceCustomPipeline()

	// THEN it has not advanced yet (a stage takes a full day)
	assert.Equal(t, StageWMA1, st.CustomOrders[0].Stage)
	assert.Equal(t, 1, st.CustomOrders[0].DaysInStage)

	sim.advanceCustomPipeline()

	// AND it advances exactly one stage on the next day
	assert.Equal(t, StagePUC, st.CustomOrders[0].Stage)
}

func TestAdvanceStandardPipeline_Station3Release(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	day := st.CurrentDay

	// A full batch of 12 releases immediately.
	st.Standard.Station3 = []StandardBatch{{EntryDay: day, Units: 12}}
	sim.advanceStandardPipeline()
	assert.Equal(t, 12, st.FinishedStandard)
	assert.Empty(t, st.Standard.Station3)

	// A smaller batch releases after its one-day wait.
	st.Standard.Station3 = []StandardBatch{{EntryDay: day, Units: 5}}
	sim.advanceStandardPipeline()
	assert.Equal(t, 12, st.FinishedStandard)

	st.CurrentDay++
	sim.advanceStandardPipeline()
	assert.Equal(t, 17, st.FinishedStandard)
}

func TestAdvanceStandardPipeline_Station1HopKeepsEntryDay(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	day := st.CurrentDay
	st.Standard.PreStation1 = []StandardBatch{{EntryDay: day, Units: 9}}

	// Day one: staged units take their station1 pass.
	sim.advanceStandardPipeline()
	assert.Empty(t, st.Standard.PreStation1)
	assert.Len(t, st.Standard.Station1, 1)
	assert.Empty(t, st.Standard.Station2)

	// Day two: station1 output joins the batching queue, keeping the day the
	// units were produced as the batch entry day.
	st.CurrentDay++
	sim.advanceStandardPipeline()
	assert.Empty(t, st.Standard.Station1)
	assert.Len(t, st.Standard.Station2, 1)
	assert.Equal(t, day, st.Standard.Station2[0].EntryDay)
}

func TestARCPShares_SumToTotalCapacity(t *testing.T) {
	st := &SimulationState{Workforce: Workforce{Experts: 2, Rookies: 1}}
	total := st.Workforce.ARCPCapacity()

	for _, alloc := range []float64{0, 0.3, 0.7, 1} {
		custom, standard := arcpShares(st, alloc)
		assert.InDelta(t, total, custom+standard, 1e-9)
		assert.GreaterOrEqual(t, custom, 0.0)
		assert.GreaterOrEqual(t, standard, 0.0)
	}
}

func TestProcessARCP_Station2WaitAndBatchRelease(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	day := st.CurrentDay

	// GIVEN a batch past its 4-day wait and a fresh one below the batch target
	st.Standard.Station2 = []StandardBatch{
		{EntryDay: day - Station2MaxWaitDays, Units: 10},
		{EntryDay: day, Units: 10},
	}

	led := &dayLedger{}
	backlog := sim.processARCP(led, 0, 50)

	// THEN only the aged batch moved to station3
	assert.False(t, backlog)
	assert.Len(t, st.Standard.Station2, 1)
	assert.Equal(t, day, st.Standard.Station2[0].EntryDay)
	assert.Len(t, st.Standard.Station3, 1)
	assert.Equal(t, 10, st.Standard.Station3[0].Units)
}

func TestProcessARCP_PartialTakeSplitsBatch(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	day := st.CurrentDay
	st.Standard.Station2 = []StandardBatch{{EntryDay: day - Station2MaxWaitDays, Units: 10}}

	led := &dayLedger{}
	backlog := sim.processARCP(led, 0, 4)

	assert.True(t, backlog)
	assert.Len(t, st.Standard.Station3, 1)
	assert.Equal(t, 4, st.Standard.Station3[0].Units)
	assert.Len(t, st.Standard.Station2, 1)
	assert.Equal(t, 6, st.Standard.Station2[0].Units)
	// The remainder keeps its original entry day, not today's.
	assert.Equal(t, day-Station2MaxWaitDays, st.Standard.Station2[0].EntryDay)
}

func TestAllocateARCP_OvertimeExtendsBudget(t *testing.T) {
	// GIVEN 12 assembly-ready custom orders against a 6-unit daily capacity
	pol := DefaultStrategy()
	pol.MCEAllocationCustom = 1.0
	pol.DailyOvertimeHours = 4
	sim := newTestSimulator(pol)
	st := sim.State
	st.Workforce = Workforce{Experts: 2}
	for i := 0; i < 12; i++ {
		st.CustomOrders = append(st.CustomOrders, CustomOrder{CreatedDay: st.CurrentDay, Stage: StageARCP})
	}

	led := &dayLedger{}
	sim.allocateARCP(led)

	// THEN 4 overtime hours extend the 6-unit budget by half
	assert.Len(t, led.customShipped, 9)
	assert.Len(t, st.CustomOrders, 3)
	assert.True(t, led.overtimeWorked)
}

func TestShipProducts_CustomLatePenaltyAndFloor(t *testing.T) {
	pol := DefaultStrategy() // base 1000, penalty 50/day past a 5-day target
	sim := newTestSimulator(pol)
	st := sim.State
	day := st.CurrentDay

	led := &dayLedger{
		customShipped: []CustomOrder{
			{CreatedDay: day - 10}, // 5 days late: 1000 - 250
			{CreatedDay: day - 100}, // hopeless, revenue floors at zero
		},
	}
	cashBefore := st.Cash
	sim.shipProducts(led)

	assert.Equal(t, 2, st.FinishedCustom)
	assert.InDelta(t, cashBefore+750, st.Cash, 1e-9)
}

func TestShipProducts_StockoutDayCounted(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.FinishedStandard = 3

	led := &dayLedger{standardDemand: 10}
	sim.shipProducts(led)

	assert.Equal(t, 0, st.FinishedStandard)
	assert.Equal(t, 3, led.standardShipped)
	assert.Equal(t, 1, st.StockoutDays)
}

func TestApplyDailyFinance_SalariesAndInterest(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.Cash = 10000
	st.Debt = 5000
	st.Workforce = Workforce{Experts: 2, Rookies: 1}

	sim.applyDailyFinance(&dayLedger{})

	// Debt interest 5, then cash interest on 9995, then salaries 380.
	wantCash := (10000-5)*1.0005 - (2*ExpertDailySalary + RookieDailySalary)
	assert.InDelta(t, wantCash, st.Cash, 1e-6)
	assert.InDelta(t, 5005.0, st.Debt, 1e-9)
}

func TestApplyDailyFinance_SustainedOvertimeCausesQuits(t *testing.T) {
	// GIVEN certain quitting once the overtime trigger is tripped
	pol := DefaultStrategy()
	pol.DailyOvertimeHours = 2
	pol.OvertimeTriggerDays = 1
	pol.DailyQuitProbability = 1.0
	sim := newTestSimulator(pol)
	st := sim.State
	st.Workforce = Workforce{
		Experts:    2,
		Rookies:    1,
		InTraining: []TraineeRecord{{HireDay: st.CurrentDay, RemainingDays: RookieTrainingTime}},
	}

	// WHEN an overtime day pushes the streak past the trigger
	sim.applyDailyFinance(&dayLedger{overtimeWorked: true})

	// THEN everyone quits and the training roster empties with them
	assert.Equal(t, 0, st.Workforce.Experts)
	assert.Equal(t, 0, st.Workforce.Rookies)
	assert.Empty(t, st.Workforce.InTraining)
}

func TestApplyDailyFinance_OvertimeStreakResets(t *testing.T) {
	sim := newTestSimulator(DefaultStrategy())
	st := sim.State
	st.Workforce.ConsecutiveOvertimeDays = 3

	sim.applyDailyFinance(&dayLedger{})

	assert.Equal(t, 0, st.Workforce.ConsecutiveOvertimeDays)
}
