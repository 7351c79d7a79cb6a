package sim

import "fmt"

// Metric names recorded once per simulated day. External consumers
// (dashboards, recommendation readers) pattern-match on these names,
// so they are part of the output contract and must stay stable.
const (
	MetricCash               = "cash"
	MetricDebt               = "debt"
	MetricNetWorth           = "netWorth"
	MetricRawMaterial        = "rawMaterial"
	MetricPendingOrders      = "pendingMaterialOrders"
	MetricPreStation1        = "standardPreStation1"
	MetricStation1           = "standardStation1"
	MetricStation2           = "standardStation2"
	MetricStation3           = "standardStation3"
	MetricStandardWIP        = "standardWIP"
	MetricCustomWIP          = "customWIP"
	MetricFinishedStandard   = "finishedStandard"
	MetricFinishedCustom     = "finishedCustom"
	MetricStandardProduced   = "standardProduced"
	MetricCustomStarted      = "customStarted"
	MetricStandardShipped    = "standardShipped"
	MetricCustomShipped      = "customShipped"
	MetricStandardDemand     = "standardDemand"
	MetricCustomDemand       = "customDemand"
	MetricCustomDropped      = "customDemandDropped"
	MetricExperts            = "experts"
	MetricRookies            = "rookies"
	MetricStandardPrice      = "standardPrice"
	MetricCustomBasePrice    = "customBasePrice"
	MetricMCEAllocation      = "mceAllocationCustom"
	MetricARCPCapacity       = "arcpCapacity"
	MetricRejectedOrders     = "rejectedMaterialOrders"
	MetricStockoutDays       = "stockoutDays"
	MetricLostProduction     = "lostProductionDays"
	MetricDailyRevenue       = "dailyRevenue"
	MetricDailyExpenses      = "dailyExpenses"
	MetricMachinesMCE        = "machinesMCE"
	MetricMachinesWMA        = "machinesWMA"
	MetricMachinesPUC        = "machinesPUC"
)

// History is an append-only, day-indexed record of simulation metrics.
// Each series holds exactly one value per elapsed day, in day order.
// Retroactive mutation is a programming error and panics.
type History struct {
	StartDay int
	Series   map[string][]float64
}

// NewHistory creates an empty history whose first recorded day is startDay.
func NewHistory(startDay int) *History {
	return &History{
		StartDay: startDay,
		Series:   make(map[string][]float64),
	}
}

// Record appends the value for (day, name). The day must be exactly the next
// unrecorded day of the series; anything else would silently corrupt the
// day-indexed contract, so it panics instead.
func (h *History) Record(day int, name string, value float64) {
	expected := h.StartDay + len(h.Series[name])
	if day != expected {
		panic(fmt.Sprintf("history: out-of-order record for %q: day %d, expected %d", name, day, expected))
	}
	h.Series[name] = append(h.Series[name], value)
}

// Get returns the full series for a metric, one entry per recorded day.
// Returns nil for unknown metrics.
func (h *History) Get(name string) []float64 {
	return h.Series[name]
}

// At returns the value recorded for a metric on a given day.
func (h *History) At(name string, day int) (float64, bool) {
	s := h.Series[name]
	idx := day - h.StartDay
	if idx < 0 || idx >= len(s) {
		return 0, false
	}
	return s[idx], true
}

// Days returns the number of recorded days, assuming at least one series.
func (h *History) Days() int {
	n := 0
	for _, s := range h.Series {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}

// Clone deep-copies the history.
func (h *History) Clone() *History {
	cp := NewHistory(h.StartDay)
	for name, s := range h.Series {
		cp.Series[name] = append([]float64(nil), s...)
	}
	return cp
}
