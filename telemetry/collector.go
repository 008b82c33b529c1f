package telemetry

import (
	"github.com/pthm-cable/antfarm/ant"
	"github.com/pthm-cable/antfarm/colony"
	"github.com/pthm-cable/antfarm/pheromone"
)

// Collector accumulates lifecycle events within time windows and produces
// WindowStats. It implements colony.Recorder.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	// Event counters for current window
	eggsLaid      int
	hatches       int
	deaths        int
	deathsStarved int
	deathsAged    int
	foodCollected float64
}

// NewCollector creates a stats collector.
// windowTicks: how many simulation ticks each stats window covers
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int64, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
	}
}

// RecordEggLaid records a successful egg lay.
func (c *Collector) RecordEggLaid(ant.Caste) {
	c.eggsLaid++
}

// RecordHatch records a pupa emerging as an adult.
func (c *Collector) RecordHatch(ant.Caste) {
	c.hatches++
}

// RecordDeath records an agent death, split by cause.
func (c *Collector) RecordDeath(_ ant.Caste, starved bool) {
	c.deaths++
	if starved {
		c.deathsStarved++
	} else {
		c.deathsAged++
	}
}

// RecordFoodStored records food delivered into colony storage.
func (c *Collector) RecordFoodStored(amount float64) {
	c.foodCollected += amount
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the window's counters plus the sampled
// end-of-window state, then resets the counters for the next window.
func (c *Collector) Flush(currentTick int64, cs colony.Stats, ps pheromone.Stats, strengths, qualities []float64, foodAvailable float64) WindowStats {
	strengthMean, _, _, strengthP50, strengthP90 := Summarize(strengths)
	qualityMean, qualityStd, _, _, _ := Summarize(qualities)

	var foodPerAnt float64
	if cs.Population > 0 {
		foodPerAnt = c.foodCollected / float64(cs.Population)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Population:  cs.Population,
		Workers:     cs.CasteCounts[ant.Worker],
		Soldiers:    cs.CasteCounts[ant.Soldier],
		Scouts:      cs.CasteCounts[ant.Scout],
		Nurses:      cs.CasteCounts[ant.Nurse],
		Eggs:        cs.Eggs,
		Pupae:       cs.Pupae,
		FoodStorage: cs.FoodStorage,
		Level:       cs.Level,

		EggsLaid:      c.eggsLaid,
		Hatches:       c.hatches,
		Deaths:        c.deaths,
		DeathsStarved: c.deathsStarved,
		DeathsAged:    c.deathsAged,
		FoodCollected: c.foodCollected,
		FoodPerAnt:    foodPerAnt,

		Deposits:       ps.Total,
		SpreadDeposits: ps.SpreadDeposits,
		HighQuality:    ps.HighQuality,
		StrengthMean:   strengthMean,
		StrengthP50:    strengthP50,
		StrengthP90:    strengthP90,
		QualityMean:    qualityMean,
		QualityStd:     qualityStd,

		FoodAvailable: foodAvailable,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.eggsLaid = 0
	c.hatches = 0
	c.deaths = 0
	c.deathsStarved = 0
	c.deathsAged = 0
	c.foodCollected = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
