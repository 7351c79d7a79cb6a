// Final-report printing for a completed simulation run.

package sim

import "fmt"

// PrintSummary displays the end-of-horizon result of a run.
// Includes the balance sheet, shortfall counters, and throughput totals.
func (r *SimulationResult) PrintSummary() {
	st := r.State
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Days simulated        : %d\n", st.History.Days())
	fmt.Printf("Final Cash            : %.2f\n", r.FinalCash)
	fmt.Printf("Final Debt            : %.2f\n", r.FinalDebt)
	fmt.Printf("Final Net Worth       : %.2f\n", r.FinalNetWorth)
	fmt.Printf("Fitness               : %.2f\n", r.Fitness)
	fmt.Printf("Custom Orders Shipped : %d\n", st.FinishedCustom)
	fmt.Printf("Standard Units Ready  : %d\n", st.FinishedStandard)
	fmt.Printf("Experts / Rookies     : %d / %d\n", st.Workforce.Experts, st.Workforce.Rookies)
	fmt.Printf("Machines MCE/WMA/PUC  : %d / %d / %d\n", st.Machines.MCE, st.Machines.WMA, st.Machines.PUC)
	fmt.Printf("Rejected Mat. Orders  : %d\n", st.RejectedMaterialOrders)
	fmt.Printf("Stockout Days         : %d\n", st.StockoutDays)
	fmt.Printf("Lost Production Days  : %d\n", st.LostProductionDays)
	fmt.Printf("Dropped Custom Orders : %d\n", st.DroppedCustomOrders)
}
