package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// guardLoanRounding is the granularity automatic safety loans are rounded up to.
const guardLoanRounding = 10000.0

// guardBufferFraction of the minimum-cash threshold is borrowed on top of the
// projected shortfall so the balance lands comfortably above the floor.
const guardBufferFraction = 0.75

// EnsureCashSafety walks the action list in day order against an estimated
// cash balance and inserts a TAKE_LOAN immediately before any action that
// would push the estimate below minCash. This is a coarse forward pass over
// estimated deltas only; the finance module's real per-day accounting still
// guarantees solvency independently via automatic salary loans.
func EnsureCashSafety(actions []StrategyAction, startingCash, minCash float64) []StrategyAction {
	cash := startingCash
	out := make([]StrategyAction, 0, len(actions))

	for _, a := range actions {
		delta := estimateCashDelta(a)
		if cash+delta < minCash {
			shortfall := minCash - (cash + delta)
			loan := math.Ceil((shortfall+minCash*guardBufferFraction)/guardLoanRounding) * guardLoanRounding
			out = append(out, StrategyAction{
				Day:    a.Day,
				Type:   ActionTakeLoan,
				Amount: loan,
			})
			cash += loan * (1 - LoanCommissionRate)
			logrus.Debugf("cash guard: inserted %.0f loan before %s (projected cash %.2f)", loan, a, cash+delta)
		}
		cash += delta
		out = append(out, a)
	}
	return out
}

// estimateCashDelta approximates an action's immediate cash impact. Only the
// action types with a direct, same-day cost or inflow contribute.
func estimateCashDelta(a StrategyAction) float64 {
	switch a.Type {
	case ActionHireRookie:
		return -HiringCost * float64(maxInt(a.Count, 0))
	case ActionBuyMachine:
		return -MachinePurchaseCost * float64(maxInt(a.Count, 0))
	case ActionOrderMaterials:
		return -MaterialUnitCost * float64(maxInt(a.Quantity, 0))
	case ActionTakeLoan:
		return a.Amount
	case ActionPayDebt:
		return -a.Amount
	default:
		return 0
	}
}
