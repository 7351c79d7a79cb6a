package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/factory-sim/factory-sim/sim/optimize"
)

var (
	// CLI flags for the genetic search
	populationSize     int     // Individuals per generation
	generations        int     // Generation count
	mutationRate       float64 // Per-action mutation probability
	elitePercentage    float64 // Fraction carried over unchanged
	workers            int     // Parallel fitness evaluations (0 = NumCPU)
	earlyStopping      bool    // Stop on a fitness plateau
	analyticalSeeding  bool    // Seed from closed-form recommendations
	optimizeSeed       int64   // Master seed for the search
	optimizeStrategy   string  // YAML base strategy file (optional)
)

// optimizeCmd runs the genetic strategy search
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for a near-optimal strategy with the genetic optimizer",
	Run: func(cmd *cobra.Command, args []string) {
		base, err := loadStrategy(optimizeStrategy)
		if err != nil {
			logrus.Fatalf("unable to load base strategy: %v", err)
		}

		cfg := optimize.DefaultConfig()
		cfg.PopulationSize = populationSize
		cfg.Generations = generations
		cfg.MutationRate = mutationRate
		cfg.ElitePercentage = elitePercentage
		cfg.Workers = workers
		cfg.EnableEarlyStopping = earlyStopping
		cfg.SeedWithAnalytical = analyticalSeeding
		cfg.Seed = optimizeSeed
		cfg.Base = base

		opt, err := optimize.New(cfg, nil)
		if err != nil {
			logrus.Fatalf("invalid optimizer configuration: %v", err)
		}

		logrus.Infof("Starting optimization: population=%d, generations=%d, mutationRate=%.2f, elite=%.2f",
			cfg.PopulationSize, cfg.Generations, cfg.MutationRate, cfg.ElitePercentage)

		startTime := time.Now()
		best, err := opt.Run(func(gen int, stats optimize.Stats) {
			logrus.Debugf("generation %d: best=%.2f avg=%.2f worst=%.2f stddev=%.2f",
				gen, stats.Best, stats.Average, stats.Worst, stats.StdDev)
		})
		if err != nil {
			logrus.Fatalf("optimization failed: %v", err)
		}

		fmt.Println("=== Best Strategy Found ===")
		fmt.Printf("Fitness    : %.2f\n", best.Fitness)
		fmt.Printf("Net Worth  : %.2f\n", best.NetWorth)
		for name, v := range best.Overrides {
			fmt.Printf("Override   : %s = %.2f\n", name, v)
		}
		for _, a := range best.Actions {
			fmt.Printf("Action     : %s\n", a)
		}
		if best.Result != nil {
			best.Result.PrintSummary()
		}
		logrus.Infof("Optimization complete in %s.", time.Since(startTime))
	},
}

func init() {
	optimizeCmd.Flags().IntVar(&populationSize, "population", 30, "Individuals per generation")
	optimizeCmd.Flags().IntVar(&generations, "generations", 20, "Number of generations")
	optimizeCmd.Flags().Float64Var(&mutationRate, "mutation-rate", 0.3, "Per-action mutation probability")
	optimizeCmd.Flags().Float64Var(&elitePercentage, "elite", 0.2, "Elite fraction carried over unchanged")
	optimizeCmd.Flags().IntVar(&workers, "workers", 0, "Parallel evaluations (0 = NumCPU)")
	optimizeCmd.Flags().BoolVar(&earlyStopping, "early-stopping", true, "Stop on a fitness plateau")
	optimizeCmd.Flags().BoolVar(&analyticalSeeding, "analytical-seeding", true, "Seed population from closed-form recommendations")
	optimizeCmd.Flags().Int64Var(&optimizeSeed, "seed", 42, "Master seed for the search")
	optimizeCmd.Flags().StringVar(&optimizeStrategy, "strategy", "", "YAML base strategy file")
}
