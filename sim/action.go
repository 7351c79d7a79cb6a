package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ActionType enumerates the closed set of strategy action kinds.
type ActionType string

const (
	ActionHireRookie          ActionType = "HIRE_ROOKIE"
	ActionFireEmployee        ActionType = "FIRE_EMPLOYEE"
	ActionBuyMachine          ActionType = "BUY_MACHINE"
	ActionSellMachine         ActionType = "SELL_MACHINE"
	ActionSetOrderQuantity    ActionType = "SET_ORDER_QUANTITY"
	ActionSetReorderPoint     ActionType = "SET_REORDER_POINT"
	ActionAdjustBatchSize     ActionType = "ADJUST_BATCH_SIZE"
	ActionAdjustPrice         ActionType = "ADJUST_PRICE"
	ActionAdjustMCEAllocation ActionType = "ADJUST_MCE_ALLOCATION"
	ActionTakeLoan            ActionType = "TAKE_LOAN"
	ActionPayDebt             ActionType = "PAY_DEBT"
	ActionOrderMaterials      ActionType = "ORDER_MATERIALS"
)

// MachineType names a machine station.
type MachineType string

const (
	MachineMCE MachineType = "MCE"
	MachineWMA MachineType = "WMA"
	MachinePUC MachineType = "PUC"
)

// EmployeeType names a workforce class.
type EmployeeType string

const (
	EmployeeExpert EmployeeType = "expert"
	EmployeeRookie EmployeeType = "rookie"
)

// ProductType names a product line.
type ProductType string

const (
	ProductStandard ProductType = "standard"
	ProductCustom   ProductType = "custom"
)

// StrategyAction is a tagged variant: Type selects which payload fields are
// meaningful. It is a comparable value type so duplicate elimination and
// identity pinning work with plain equality.
type StrategyAction struct {
	Day  int        `yaml:"day"`
	Type ActionType `yaml:"type"`

	Count    int          `yaml:"count,omitempty"`    // HIRE_ROOKIE, FIRE_EMPLOYEE, BUY/SELL_MACHINE
	Value    float64      `yaml:"value,omitempty"`    // SET_*, ADJUST_*
	Amount   float64      `yaml:"amount,omitempty"`   // TAKE_LOAN, PAY_DEBT
	Quantity int          `yaml:"quantity,omitempty"` // ORDER_MATERIALS
	Machine  MachineType  `yaml:"machine,omitempty"`
	Employee EmployeeType `yaml:"employee,omitempty"`
	Product  ProductType  `yaml:"product,omitempty"`
}

// Identity returns a stable identity string used to pin specific actions in
// optimization constraints.
func (a StrategyAction) Identity() string {
	return fmt.Sprintf("%s@%d", a.Type, a.Day)
}

func (a StrategyAction) String() string {
	switch a.Type {
	case ActionHireRookie:
		return fmt.Sprintf("day %d: hire %d rookie(s)", a.Day, a.Count)
	case ActionFireEmployee:
		return fmt.Sprintf("day %d: fire %d %s(s)", a.Day, a.Count, a.Employee)
	case ActionBuyMachine, ActionSellMachine:
		verb := "buy"
		if a.Type == ActionSellMachine {
			verb = "sell"
		}
		return fmt.Sprintf("day %d: %s %d %s machine(s)", a.Day, verb, a.Count, a.Machine)
	case ActionAdjustPrice:
		return fmt.Sprintf("day %d: set %s price to %.2f", a.Day, a.Product, a.Value)
	case ActionTakeLoan, ActionPayDebt:
		return fmt.Sprintf("day %d: %s %.2f", a.Day, a.Type, a.Amount)
	case ActionOrderMaterials:
		return fmt.Sprintf("day %d: order %d parts", a.Day, a.Quantity)
	default:
		return fmt.Sprintf("day %d: %s = %.2f", a.Day, a.Type, a.Value)
	}
}

// applyAction executes one scheduled action against the live state and policy.
// Invalid parameters are clamped to the nearest valid bound, never rejected;
// purchases that exceed available cash route through ProcessPayment's
// automatic-loan path. Exhaustive over ActionType.
func applyAction(st *SimulationState, pol *Strategy, a StrategyAction) {
	logrus.Debugf("[day %03d] applying action %s", st.CurrentDay, a)

	switch a.Type {
	case ActionHireRookie:
		count := maxInt(a.Count, 0)
		if count == 0 {
			return
		}
		st.ProcessPayment(float64(count)*HiringCost, "rookie hiring")
		st.Workforce.Rookies += count
		for i := 0; i < count; i++ {
			st.Workforce.InTraining = append(st.Workforce.InTraining, TraineeRecord{
				HireDay:       st.CurrentDay,
				RemainingDays: RookieTrainingTime,
			})
		}

	case ActionFireEmployee:
		count := maxInt(a.Count, 0)
		switch a.Employee {
		case EmployeeExpert:
			count = minInt(count, st.Workforce.Experts)
			st.Workforce.Experts -= count
		default:
			count = minInt(count, st.Workforce.Rookies)
			st.Workforce.Rookies -= count
			// Most recent hires leave first.
			if n := len(st.Workforce.InTraining); n > 0 {
				keep := maxInt(n-count, 0)
				st.Workforce.InTraining = st.Workforce.InTraining[:keep]
			}
		}
		if count > 0 {
			st.ProcessPayment(float64(count)*SeverancePay, "severance")
		}

	case ActionBuyMachine:
		count := maxInt(a.Count, 0)
		if count == 0 {
			return
		}
		st.ProcessPayment(float64(count)*MachinePurchaseCost, fmt.Sprintf("%s machine purchase", a.Machine))
		addMachines(&st.Machines, a.Machine, count)

	case ActionSellMachine:
		count := maxInt(a.Count, 0)
		// Every station keeps at least one machine.
		avail := machineCount(&st.Machines, a.Machine) - 1
		count = minInt(count, maxInt(avail, 0))
		if count == 0 {
			return
		}
		addMachines(&st.Machines, a.Machine, -count)
		st.receiveRevenue(float64(count)*MachineSaleRefund, fmt.Sprintf("%s machine sale", a.Machine))

	case ActionSetOrderQuantity:
		pol.OrderQuantity = maxInt(int(a.Value), 0)

	case ActionSetReorderPoint:
		pol.ReorderPoint = maxInt(int(a.Value), 0)

	case ActionAdjustBatchSize:
		pol.StandardBatchSize = maxInt(int(a.Value), 1)

	case ActionAdjustPrice:
		price := maxFloat(a.Value, 0)
		if a.Product == ProductCustom {
			pol.CustomBasePrice = price
		} else {
			pol.StandardPrice = price
		}

	case ActionAdjustMCEAllocation:
		pol.MCEAllocationCustom = clampFloat(a.Value, 0, 1)

	case ActionTakeLoan:
		st.TakeLoan(maxFloat(a.Amount, 0), false)

	case ActionPayDebt:
		st.PayDebt(maxFloat(a.Amount, 0))

	case ActionOrderMaterials:
		qty := maxInt(a.Quantity, 0)
		if qty == 0 {
			return
		}
		placeMaterialOrder(st, qty)
	}
}

func addMachines(m *Machines, t MachineType, delta int) {
	switch t {
	case MachineWMA:
		m.WMA += delta
	case MachinePUC:
		m.PUC += delta
	default:
		m.MCE += delta
	}
}

func machineCount(m *Machines, t MachineType) int {
	switch t {
	case MachineWMA:
		return m.WMA
	case MachinePUC:
		return m.PUC
	default:
		return m.MCE
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
