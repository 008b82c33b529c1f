package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/sim"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// warmupTicks skips collapse checks while the founding workers establish
// the first trails.
const warmupTicks = 600

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int64   // ticks before colony collapse (or maxTicks if survived)
	collected     float64 // total food delivered to storage
	finalPop      int
	finalLevel    int
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness rewards food throughput scaled by how long the colony stayed
// alive; a collapsed colony scores near zero regardless of early hauls.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := float64(result.survivalTicks) / float64(fe.maxTicks)
			results[idx] = seedResult{
				fitness: -(result.collected * quality * (1 + 0.1*float64(result.finalLevel-1))),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
// Runs until colony collapse or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	// Create a fresh config copy and apply parameters
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.World.Seed = seed

	s := sim.New(cfg)
	result := &runResult{}

	for s.Tick() < fe.maxTicks {
		s.Step()

		if s.Tick() < warmupTicks {
			continue
		}

		// Collapse: no adults and nothing left in the brood pipeline
		cs := s.Colony.Stats()
		if cs.Population == 0 && cs.Eggs == 0 && cs.Pupae == 0 {
			result.survivalTicks = s.Tick()
			result.collected = cs.TotalCollected
			result.finalPop = 0
			result.finalLevel = cs.Level
			return result
		}
	}

	// Survived the full run
	cs := s.Colony.Stats()
	result.survivalTicks = fe.maxTicks
	result.collected = cs.TotalCollected
	result.finalPop = cs.Population
	result.finalLevel = cs.Level
	return result
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	// Load fresh defaults and copy base values
	cfg, _ := config.Load("")

	cfg.World = fe.baseConfig.World
	cfg.Pheromone = fe.baseConfig.Pheromone
	cfg.Trail = fe.baseConfig.Trail
	cfg.Ant = fe.baseConfig.Ant
	cfg.Colony = fe.baseConfig.Colony
	cfg.Food = fe.baseConfig.Food
	cfg.Telemetry = fe.baseConfig.Telemetry
	cfg.Castes = append([]config.CasteConfig(nil), fe.baseConfig.Castes...)
	cfg.Telemetry.Enabled = false
	cfg.Refresh()

	return cfg
}
