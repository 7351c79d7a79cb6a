package sim

// PendingMaterialOrder is a raw-material order in transit from the supplier.
type PendingMaterialOrder struct {
	OrderDay   int
	Quantity   int
	ArrivalDay int // OrderDay + MaterialLeadTimeDays
}

// StandardBatch is a group of standard-line units moving through the pipeline
// together. EntryDay is the day the batch entered its current queue.
type StandardBatch struct {
	EntryDay int
	Units    int
}

// StandardWIP holds the four standard-line queues. Units flow
// PreStation1 -> Station1 -> Station2 -> (ARCP) -> Station3 -> finished goods.
type StandardWIP struct {
	PreStation1 []StandardBatch // material consumed, staged for station1 the same day
	Station1    []StandardBatch // one-day station pass, moves on the next day
	Station2    []StandardBatch // batching wait before ARCP (4 days / batch target)
	Station3    []StandardBatch // batching wait before finished goods (1 day / 12 units)
}

// Units sums the units across all four queues.
func (w *StandardWIP) Units() int {
	total := 0
	for _, q := range [][]StandardBatch{w.PreStation1, w.Station1, w.Station2, w.Station3} {
		for _, b := range q {
			total += b.Units
		}
	}
	return total
}

// CustomStage identifies where a custom order sits in its pipeline.
type CustomStage int

const (
	StageMCE CustomStage = iota // awaiting material at the shared MCE station
	StageWMA1
	StagePUC
	StageWMA2
	StageARCP
)

// CustomOrder is one in-flight make-to-order unit.
type CustomOrder struct {
	CreatedDay  int
	Stage       CustomStage
	DaysInStage int
}

// TraineeRecord tracks one rookie's remaining training days. The rookie is
// promoted to expert exactly when RemainingDays reaches 0.
type TraineeRecord struct {
	HireDay       int
	RemainingDays int
}

// Workforce holds the manual-assembly staff. Rookies work at reduced
// productivity while training; every rookie has a TraineeRecord.
type Workforce struct {
	Experts                 int
	Rookies                 int
	InTraining              []TraineeRecord
	ConsecutiveOvertimeDays int
}

// ARCPCapacity is the total daily manual-assembly capacity in units.
func (w *Workforce) ARCPCapacity() float64 {
	return float64(w.Experts)*ARCPUnitsPerWorker + float64(w.Rookies)*ARCPUnitsPerWorker*RookieProductivity
}

// Machines holds the per-station machine counts. Each count is a capacity
// multiplier and never drops below 1.
type Machines struct {
	MCE int
	WMA int
	PUC int
}

// SimulationState is the full mutable state of one simulation run.
// It is owned by exactly one run, never shared, and discarded after the
// fitness is extracted.
type SimulationState struct {
	CurrentDay int

	Cash float64
	Debt float64

	RawMaterial           int
	PendingMaterialOrders []PendingMaterialOrder

	Standard     StandardWIP
	CustomOrders []CustomOrder

	FinishedStandard int
	FinishedCustom   int

	Workforce Workforce
	Machines  Machines

	// Monotone shortfall counters; these are fitness penalties, not errors.
	RejectedMaterialOrders int
	StockoutDays           int
	LostProductionDays     int
	DroppedCustomOrders    int

	History      *History
	Transactions []Transaction
}

// NewSimulationState builds the initial state for a run configuration.
func NewSimulationState(cfg RunConfig) *SimulationState {
	st := &SimulationState{
		CurrentDay:  cfg.StartDay,
		Cash:        cfg.InitialCash,
		Debt:        cfg.InitialDebt,
		RawMaterial: cfg.InitialRawMaterial,
		Machines:    cfg.InitialMachines,
		Workforce: Workforce{
			Experts: cfg.InitialExperts,
			Rookies: cfg.InitialRookies,
		},
		History: NewHistory(cfg.StartDay),
	}
	// Pre-existing rookies start a full training cycle on day one.
	for i := 0; i < cfg.InitialRookies; i++ {
		st.Workforce.InTraining = append(st.Workforce.InTraining, TraineeRecord{
			HireDay:       cfg.StartDay,
			RemainingDays: RookieTrainingTime,
		})
	}
	return st
}

// Clone deep-copies the state so a new run can start from it without sharing.
func (s *SimulationState) Clone() *SimulationState {
	cp := *s
	cp.PendingMaterialOrders = append([]PendingMaterialOrder(nil), s.PendingMaterialOrders...)
	cp.Standard = StandardWIP{
		PreStation1: append([]StandardBatch(nil), s.Standard.PreStation1...),
		Station1:    append([]StandardBatch(nil), s.Standard.Station1...),
		Station2:    append([]StandardBatch(nil), s.Standard.Station2...),
		Station3:    append([]StandardBatch(nil), s.Standard.Station3...),
	}
	cp.CustomOrders = append([]CustomOrder(nil), s.CustomOrders...)
	cp.Workforce.InTraining = append([]TraineeRecord(nil), s.Workforce.InTraining...)
	cp.Transactions = append([]Transaction(nil), s.Transactions...)
	if s.History != nil {
		cp.History = s.History.Clone()
	}
	return &cp
}

// NetWorth is cash minus debt.
func (s *SimulationState) NetWorth() float64 {
	return s.Cash - s.Debt
}

// Fitness is the net worth adjusted by the shortfall penalty counters.
func (s *SimulationState) Fitness() float64 {
	return s.NetWorth() -
		PenaltyRejectedOrder*float64(s.RejectedMaterialOrders) -
		PenaltyStockoutDay*float64(s.StockoutDays) -
		PenaltyLostProductionDay*float64(s.LostProductionDays)
}
