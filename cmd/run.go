package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/factory-sim/factory-sim/sim"
)

var (
	// CLI flags for the simulation window and starting position
	seed        int64   // Master RNG seed
	startDay    int     // First simulated day
	horizon     int     // Last simulated day (inclusive)
	initialCash float64 // Starting cash balance
	initialDebt float64 // Starting debt

	// CLI flags overriding individual strategy parameters
	strategyFile        string  // YAML strategy file (optional)
	reorderPoint        int     // Raw-material reorder point
	orderQuantity       int     // Raw-material order quantity
	standardBatchSize   int     // Standard-line batch target before ARCP
	standardPrice       float64 // Standard product price
	mceAllocationCustom float64 // Fraction of MCE/ARCP capacity for the custom line
)

// runCmd executes a single simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the factory simulation once",
	Run: func(cmd *cobra.Command, args []string) {
		strategy, err := loadStrategy(strategyFile)
		if err != nil {
			logrus.Fatalf("unable to load strategy: %v", err)
		}
		applyStrategyFlags(cmd, &strategy)

		cfg := sim.DefaultRunConfig()
		cfg.Seed = seed
		cfg.StartDay = startDay
		cfg.Horizon = horizon
		cfg.InitialCash = initialCash
		cfg.InitialDebt = initialDebt

		logrus.Infof("Starting simulation: days %d-%d, seed=%d, reorderPoint=%d, orderQuantity=%d, allocation=%.2f",
			cfg.StartDay, cfg.Horizon, cfg.Seed, strategy.ReorderPoint, strategy.OrderQuantity, strategy.MCEAllocationCustom)

		startTime := time.Now()
		result, err := sim.RunSimulation(strategy, cfg)
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}
		result.PrintSummary()
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// applyStrategyFlags overrides strategy fields with explicitly set flags.
func applyStrategyFlags(cmd *cobra.Command, s *sim.Strategy) {
	if cmd.Flags().Changed("reorder-point") {
		s.ReorderPoint = reorderPoint
	}
	if cmd.Flags().Changed("order-quantity") {
		s.OrderQuantity = orderQuantity
	}
	if cmd.Flags().Changed("batch-size") {
		s.StandardBatchSize = standardBatchSize
	}
	if cmd.Flags().Changed("standard-price") {
		s.StandardPrice = standardPrice
	}
	if cmd.Flags().Changed("mce-allocation") {
		s.MCEAllocationCustom = mceAllocationCustom
	}
}

func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master RNG seed")
	runCmd.Flags().IntVar(&startDay, "start-day", 51, "First simulated day")
	runCmd.Flags().IntVar(&horizon, "horizon", 365, "Last simulated day (inclusive)")
	runCmd.Flags().Float64Var(&initialCash, "initial-cash", 8206.12, "Starting cash")
	runCmd.Flags().Float64Var(&initialDebt, "initial-debt", 70000, "Starting debt")

	runCmd.Flags().StringVar(&strategyFile, "strategy", "", "YAML strategy file")
	runCmd.Flags().IntVar(&reorderPoint, "reorder-point", 200, "Raw-material reorder point")
	runCmd.Flags().IntVar(&orderQuantity, "order-quantity", 400, "Raw-material order quantity")
	runCmd.Flags().IntVar(&standardBatchSize, "batch-size", 60, "Standard-line batch size")
	runCmd.Flags().Float64Var(&standardPrice, "standard-price", 750, "Standard product price")
	runCmd.Flags().Float64Var(&mceAllocationCustom, "mce-allocation", 0.7, "Custom-line share of MCE/ARCP capacity")
}
