package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSimulationState_InitialTrainees(t *testing.T) {
	// GIVEN a starting position with two rookies
	cfg := DefaultRunConfig()
	cfg.InitialRookies = 2

	// WHEN the state is built
	st := NewSimulationState(cfg)

	// THEN both rookies carry a full training record from the start day
	assert.Len(t, st.Workforce.InTraining, 2)
	for _, tr := range st.Workforce.InTraining {
		assert.Equal(t, cfg.StartDay, tr.HireDay)
		assert.Equal(t, RookieTrainingTime, tr.RemainingDays)
	}
}

func TestARCPCapacity_RookieDiscount(t *testing.T) {
	w := Workforce{Experts: 2, Rookies: 3}
	// 2*3 + 3*3*0.4 = 9.6
	assert.InDelta(t, 9.6, w.ARCPCapacity(), 1e-9)
}

func TestStandardWIP_UnitsSumsAllQueues(t *testing.T) {
	w := StandardWIP{
		PreStation1: []StandardBatch{{Units: 5}},
		Station2:    []StandardBatch{{Units: 10}, {Units: 7}},
		Station3:    []StandardBatch{{Units: 3}},
	}
	assert.Equal(t, 25, w.Units())
}

func TestSimulationState_NetWorth(t *testing.T) {
	st := newFinanceState(8206.12, 70000)
	assert.InDelta(t, -61793.88, st.NetWorth(), 1e-9)
}

func TestSimulationState_FitnessAppliesPenalties(t *testing.T) {
	st := newFinanceState(1000, 0)
	st.RejectedMaterialOrders = 2
	st.StockoutDays = 3
	st.LostProductionDays = 1

	// 1000 - 2*200 - 3*100 - 1*150
	assert.InDelta(t, 150.0, st.Fitness(), 1e-9)
}

func TestSimulationState_CloneIsDeep(t *testing.T) {
	cfg := DefaultRunConfig()
	st := NewSimulationState(cfg)
	st.PendingMaterialOrders = []PendingMaterialOrder{{OrderDay: 51, Quantity: 100, ArrivalDay: 55}}
	st.CustomOrders = []CustomOrder{{CreatedDay: 51, Stage: StageWMA1}}
	st.Standard.Station2 = []StandardBatch{{EntryDay: 51, Units: 10}}
	st.History.Record(51, MetricCash, 1)

	cp := st.Clone()

	// Mutating the clone must not leak into the original.
	cp.PendingMaterialOrders[0].Quantity = 999
	cp.CustomOrders[0].Stage = StageARCP
	cp.Standard.Station2[0].Units = 999
	cp.Workforce.InTraining[0].RemainingDays = 0
	cp.History.Record(52, MetricCash, 2)

	assert.Equal(t, 100, st.PendingMaterialOrders[0].Quantity)
	assert.Equal(t, StageWMA1, st.CustomOrders[0].Stage)
	assert.Equal(t, 10, st.Standard.Station2[0].Units)
	assert.Equal(t, RookieTrainingTime, st.Workforce.InTraining[0].RemainingDays)
	assert.Len(t, st.History.Get(MetricCash), 1)
}
