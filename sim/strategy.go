package sim

import "sort"

// Strategy is the full managerial policy for a run: scalar policy parameters
// plus a day-ordered list of one-shot actions. A strategy is immutable per
// evaluation; callers clone it before handing it to a simulator, which then
// owns the clone exclusively (scheduled actions mutate the active policy).
type Strategy struct {
	// Inventory policy.
	ReorderPoint  int `yaml:"reorderPoint"`
	OrderQuantity int `yaml:"orderQuantity"`

	// Standard line.
	StandardBatchSize int     `yaml:"standardBatchSize"`
	StandardPrice     float64 `yaml:"standardPrice"`

	// Custom line.
	CustomBasePrice          float64 `yaml:"customBasePrice"`
	CustomPenaltyPerDay      float64 `yaml:"customPenaltyPerDay"`
	CustomTargetDeliveryDays int     `yaml:"customTargetDeliveryDays"`

	// Shared-resource allocation: fraction of MCE and ARCP capacity reserved
	// for the custom line. Always in [0,1].
	MCEAllocationCustom float64 `yaml:"mceAllocationCustom"`

	// Standard demand follows a linear price-demand curve with multiplicative
	// Gaussian noise: round(max(0, base - slope*price) * (1 + eps)).
	DemandBase        float64 `yaml:"demandBase"`
	DemandSlope       float64 `yaml:"demandSlope"`
	DemandNoiseStdDev float64 `yaml:"demandNoiseStdDev"`

	// Custom demand distribution, phase-aware (phase 2 from day 173).
	CustomDemandMean1   float64 `yaml:"customDemandMean1"`
	CustomDemandStdDev1 float64 `yaml:"customDemandStdDev1"`
	CustomDemandMean2   float64 `yaml:"customDemandMean2"`
	CustomDemandStdDev2 float64 `yaml:"customDemandStdDev2"`

	// Overtime and quit risk.
	DailyOvertimeHours   float64 `yaml:"dailyOvertimeHours"`
	OvertimeTriggerDays  int     `yaml:"overtimeTriggerDays"`
	DailyQuitProbability float64 `yaml:"dailyQuitProbability"`

	// TimedActions are applied on their scheduled day, in list order for
	// same-day actions. Kept sorted by day; exact duplicates removed.
	TimedActions []StrategyAction `yaml:"timedActions"`
}

// DefaultStrategy returns the baseline policy the factory runs without any
// optimization.
func DefaultStrategy() Strategy {
	return Strategy{
		ReorderPoint:             200,
		OrderQuantity:            400,
		StandardBatchSize:        60,
		StandardPrice:            750,
		CustomBasePrice:          1000,
		CustomPenaltyPerDay:      50,
		CustomTargetDeliveryDays: 5,
		MCEAllocationCustom:      0.7,
		DemandBase:               25,
		DemandSlope:              0.02,
		DemandNoiseStdDev:        0.10,
		CustomDemandMean1:        20,
		CustomDemandStdDev1:      4,
		CustomDemandMean2:        20 * CustomDemandStepUp,
		CustomDemandStdDev2:      5,
		DailyOvertimeHours:       0,
		OvertimeTriggerDays:      5,
		DailyQuitProbability:     0.02,
	}
}

// Clone deep-copies the strategy, including its action list.
func (s Strategy) Clone() Strategy {
	cp := s
	cp.TimedActions = append([]StrategyAction(nil), s.TimedActions...)
	return cp
}

// NormalizeActions sorts timed actions by day (stable, so same-day actions
// keep their list order) and removes exact duplicates on the same day.
func (s *Strategy) NormalizeActions() {
	sort.SliceStable(s.TimedActions, func(i, j int) bool {
		return s.TimedActions[i].Day < s.TimedActions[j].Day
	})
	seen := make(map[StrategyAction]struct{}, len(s.TimedActions))
	deduped := s.TimedActions[:0]
	for _, a := range s.TimedActions {
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		deduped = append(deduped, a)
	}
	s.TimedActions = deduped
}

// actionsForDay returns the scheduled actions whose day matches, in list order.
func (s *Strategy) actionsForDay(day int) []StrategyAction {
	var out []StrategyAction
	for _, a := range s.TimedActions {
		if a.Day == day {
			out = append(out, a)
		}
	}
	return out
}
