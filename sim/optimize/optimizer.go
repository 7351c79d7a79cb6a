package optimize

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	sim "github.com/factory-sim/factory-sim/sim"
)

// plateauGenerations is how many generations without best-fitness improvement
// trigger early stopping (when enabled).
const plateauGenerations = 5

// Stats summarizes one generation's fitness distribution.
type Stats struct {
	Generation int
	Best       float64
	Average    float64
	Worst      float64
	StdDev     float64
}

// GenerationCallback observes per-generation progress without coupling the
// optimizer to any consumer.
type GenerationCallback func(generation int, stats Stats)

// Optimizer evolves a population of strategy candidates over a fixed number
// of generations. Fitness evaluations run in parallel; selection and mutation
// are sequential per generation.
type Optimizer struct {
	cfg  Config
	cons *Constraints

	prng       *sim.PartitionedRNG
	population []*Candidate
	best       *Candidate
	generation int
	seedCount  int
}

// New validates the configuration and builds an optimizer.
func New(cfg Config, cons *Constraints) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Optimizer{
		cfg:  cfg,
		cons: cons,
		prng: sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)),
	}, nil
}

// nextCandidateSeed derives a fresh deterministic seed for a new candidate.
func (o *Optimizer) nextCandidateSeed() int64 {
	seed := o.prng.DerivedSeed(sim.SubsystemCandidate(o.generation, o.seedCount))
	o.seedCount++
	return seed
}

// Run executes the search and returns the best candidate ever evaluated.
// A full run always completes: individual evaluation failures are recorded on
// the failing candidate with a fitness floor and the generation continues.
func (o *Optimizer) Run(onGeneration GenerationCallback) (*Candidate, error) {
	rng := o.prng.ForSubsystem("optimizer")

	o.population = o.seedPopulation(rng)
	for _, c := range o.population {
		c.Seed = o.nextCandidateSeed()
	}

	plateau := 0
	lastBest := fitnessFloor

	for gen := 0; gen < o.cfg.Generations; gen++ {
		o.generation = gen
		o.evaluatePopulation()

		sort.SliceStable(o.population, func(i, j int) bool {
			return o.population[i].Fitness > o.population[j].Fitness
		})
		top := o.population[0]
		if o.best == nil || top.Fitness > o.best.Fitness {
			o.best = top.keepEvaluation()
		}
		// Only the best-ever candidate keeps its full run output; holding a
		// history per individual would grow with population x generations.
		for _, c := range o.population {
			c.Result = nil
		}

		stats := o.generationStats(gen)
		logrus.Infof("[gen %03d] best=%.2f avg=%.2f worst=%.2f", gen, stats.Best, stats.Average, stats.Worst)
		if onGeneration != nil {
			onGeneration(gen, stats)
		}

		if o.cfg.EnableEarlyStopping {
			if stats.Best <= lastBest {
				plateau++
				if plateau >= plateauGenerations {
					logrus.Infof("[gen %03d] fitness plateau, stopping early", gen)
					break
				}
			} else {
				plateau = 0
				lastBest = stats.Best
			}
		} else if stats.Best > lastBest {
			lastBest = stats.Best
		}

		if gen < o.cfg.Generations-1 {
			o.population = o.nextGeneration(rng)
		}
	}

	if o.best == nil {
		return nil, fmt.Errorf("optimizer: no candidate was evaluated")
	}
	return o.best, nil
}

// evaluatePopulation runs fitness evaluations for all unevaluated candidates
// across a worker pool. Every candidate owns a cloned strategy and a private
// derived seed, so no locking is needed around simulation state.
func (o *Optimizer) evaluatePopulation() {
	jobs := make(chan *Candidate)
	var wg sync.WaitGroup

	for w := 0; w < o.cfg.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				o.evaluate(c)
			}
		}()
	}
	for _, c := range o.population {
		if c.Evaluated {
			continue
		}
		jobs <- c
	}
	close(jobs)
	wg.Wait()
}

// evaluate runs one candidate's full simulation. A panic inside the engine is
// captured as the candidate's error with a fitness floor rather than halting
// the generation.
func (o *Optimizer) evaluate(c *Candidate) {
	defer func() {
		if r := recover(); r != nil {
			c.Err = fmt.Errorf("candidate evaluation panicked: %v", r)
			c.Fitness = fitnessFloor
			c.Evaluated = true
		}
	}()

	run := o.cfg.Run
	run.Seed = c.Seed
	result, err := sim.RunSimulation(c.strategy(o.cfg.Base), run)
	if err != nil {
		c.Err = err
		c.Fitness = fitnessFloor
		c.Evaluated = true
		return
	}
	c.Fitness = result.Fitness
	c.NetWorth = result.FinalNetWorth
	c.Result = result
	c.Evaluated = true
}

// generationStats computes the generation's fitness summary.
func (o *Optimizer) generationStats(gen int) Stats {
	fitness := make([]float64, len(o.population))
	for i, c := range o.population {
		fitness[i] = c.Fitness
	}
	best, worst := fitness[0], fitness[0]
	for _, f := range fitness {
		if f > best {
			best = f
		}
		if f < worst {
			worst = f
		}
	}
	return Stats{
		Generation: gen,
		Best:       best,
		Average:    stat.Mean(fitness, nil),
		Worst:      worst,
		StdDev:     stat.StdDev(fitness, nil),
	}
}

// eliteCount is the number of individuals carried over unchanged.
func (o *Optimizer) eliteCount() int {
	n := int(o.cfg.ElitePercentage * float64(o.cfg.PopulationSize))
	if n < 1 && o.cfg.ElitePercentage > 0 {
		n = 1
	}
	if n > o.cfg.PopulationSize {
		n = o.cfg.PopulationSize
	}
	return n
}

// nextGeneration keeps the elites with their evaluations and fills the
// remaining slots with mutated crossover children of tournament-selected
// parents. Assumes the population is sorted by descending fitness.
func (o *Optimizer) nextGeneration(rng *rand.Rand) []*Candidate {
	next := make([]*Candidate, 0, o.cfg.PopulationSize)
	for i := 0; i < o.eliteCount(); i++ {
		next = append(next, o.population[i].keepEvaluation())
	}
	for len(next) < o.cfg.PopulationSize {
		a := o.tournament(rng)
		b := o.tournament(rng)
		child := o.crossover(rng, a, b)
		o.mutate(rng, child, o.cfg.MutationRate)
		child.Seed = o.nextCandidateSeed()
		next = append(next, child)
	}
	return next
}

// tournament selects the fittest of a small random sample, weighting parent
// selection toward the elite without excluding the rest of the population.
func (o *Optimizer) tournament(rng *rand.Rand) *Candidate {
	const k = 3
	best := o.population[rng.Intn(len(o.population))]
	for i := 1; i < k; i++ {
		c := o.population[rng.Intn(len(o.population))]
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}
