// Package sim wires the pheromone field, food sources, and colony into one
// fixed-timestep simulation loop.
package sim

import (
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antfarm/ant"
	"github.com/pthm-cable/antfarm/colony"
	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/food"
	"github.com/pthm-cable/antfarm/pheromone"
	"github.com/pthm-cable/antfarm/telemetry"
)

// Simulation owns every subsystem and advances them in a fixed order.
type Simulation struct {
	cfg    *config.Config
	bounds pheromone.Bounds
	rng    *rand.Rand

	Field  *pheromone.Field
	Food   FoodProvider
	Colony *colony.Colony

	seed    int64
	tick    int64
	dt      float64
	pending *config.Config
	perf    PhaseTimer
}

// FoodProvider is the slice of the food layer the simulation touches. The
// concrete food.Manager satisfies it.
type FoodProvider interface {
	Add(x, y, amount, radius float64) *food.Source
	Sources() []*food.Source
	CollectNear(x, y, radius, want float64) (taken, srcX, srcY float64, ok bool)
	Update()
	TotalAvailable() float64
}

// PhaseTimer receives step phase boundaries for performance tracking.
// telemetry.PerfCollector implements it.
type PhaseTimer interface {
	StartTick()
	StartPhase(name string)
	EndTick()
}

// New builds a simulation from configuration: field over the world bounds,
// scattered food sources, and a colony seeded with its starting workers.
func New(cfg *config.Config) *Simulation {
	seed := cfg.World.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bounds := pheromone.NewBounds(cfg.World.Width, cfg.World.Height)
	field := pheromone.NewField(bounds, cfg.Pheromone.CellSize)
	if cfg.Pheromone.GroundEnabled {
		field.SetGround(pheromone.NewGround(bounds, cfg.Pheromone.GroundCellSize, rng))
	}

	fm := food.NewManager(bounds, rng)
	fm.ScatterRandom(cfg.Food.Sources, cfg.Food.Amount, cfg.Food.Radius)

	col := colony.New(colonySettings(cfg), field, bounds, rng)
	col.SpawnAnts(ant.Worker, cfg.Colony.InitialAnts)

	return &Simulation{
		cfg:    cfg,
		bounds: bounds,
		rng:    rng,
		Field:  field,
		Food:   fm,
		Colony: col,
		seed:   seed,
		dt:     cfg.World.DT,
	}
}

// Tick returns the number of completed simulation steps.
func (s *Simulation) Tick() int64 { return s.tick }

// Bounds returns the world bounds.
func (s *Simulation) Bounds() pheromone.Bounds { return s.bounds }

// ApplyConfig queues a configuration to take effect at the start of the
// next step. Tunables never change mid-tick.
func (s *Simulation) ApplyConfig(cfg *config.Config) { s.pending = cfg }

// SetPerf attaches a phase timer. A nil timer disables instrumentation.
func (s *Simulation) SetPerf(p PhaseTimer) { s.perf = p }

// Seed returns the effective RNG seed, resolved from config or the clock.
func (s *Simulation) Seed() int64 { return s.seed }

// Snapshot captures the full world state for offline inspection.
func (s *Simulation) Snapshot() *telemetry.Snapshot {
	return telemetry.BuildSnapshot(
		s.seed,
		s.tick,
		s.cfg.World.Width,
		s.cfg.World.Height,
		s.Colony.Stats(),
		s.Colony.AgentSnapshots(),
		s.Field.Snapshot(),
		s.Food.Sources(),
	)
}

// Step advances the world one tick: pending config, colony lifecycle,
// pheromone field, food regrowth, then agent behavior with food pickup.
func (s *Simulation) Step() {
	if s.pending != nil {
		s.cfg = s.pending
		s.dt = s.cfg.World.DT
		s.Colony.Reconfigure(colonySettings(s.cfg))
		s.pending = nil
	}

	if s.perf != nil {
		s.perf.StartTick()
		s.perf.StartPhase(telemetry.PhaseColony)
	}
	s.Colony.Update()

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhasePheromone)
	}
	s.Field.Tick(s.dt)

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseFood)
	}
	s.Food.Update()

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseAgents)
	}
	capacity := s.cfg.Ant.CarryCapacity
	s.Colony.ForEachAgent(func(_ ecs.Entity, a *ant.Agent, _ *colony.Vitals) {
		a.Step()
		if a.State != ant.Searching && a.State != ant.FollowingTrail {
			return
		}
		taken, srcX, srcY, ok := s.Food.CollectNear(a.X, a.Y, a.DetectionRadius(), capacity)
		if ok && taken > 0 {
			a.PickupFood(taken, srcX, srcY)
		}
	})

	if s.perf != nil {
		s.perf.EndTick()
	}
	s.tick++
}

// Run advances the simulation by n steps.
func (s *Simulation) Run(n int64) {
	for i := int64(0); i < n; i++ {
		s.Step()
	}
}

// colonySettings maps the flat config onto colony settings, overlaying any
// configured caste rows onto the built-in profile table by name.
func colonySettings(cfg *config.Config) colony.Settings {
	profiles := ant.DefaultProfiles()
	for _, row := range cfg.Castes {
		caste, ok := ant.CasteByName(row.Name)
		if !ok {
			continue
		}
		profiles[caste] = ant.Profile{
			SpeedFactor:     row.SpeedFactor,
			DetectionFactor: row.DetectionFactor,
			TurnFactor:      row.TurnFactor,
			SpawnCost:       row.SpawnCost,
		}
	}

	params := ant.Params{
		MaxVelocity:         cfg.Ant.MaxVelocity,
		Acceleration:        cfg.Ant.Acceleration,
		TurnSpeed:           cfg.Ant.TurnSpeed,
		DetectionRadius:     cfg.Ant.DetectionRadius,
		SenseRadius:         cfg.Ant.SenseRadius,
		HomeSenseRadius:     cfg.Ant.HomeSenseRadius,
		WalkTurnChance:      cfg.Ant.WalkTurnChance,
		TrailLostTurnChance: cfg.Ant.TrailLostChance,
		SearchSlowdown:      cfg.Ant.SearchSlowdown,
		CarrySlowdown:       cfg.Ant.CarrySlowdown,
		TrailStrength:       cfg.Trail.FoodStrength,
		TrailDecay:          cfg.Trail.FoodDecay,
		TrailRadius:         cfg.Trail.FoodRadius,
		TrailSpread: pheromone.SpreadParams{
			CanSpread:      cfg.Trail.SpreadEnabled,
			Radius:         cfg.Trail.SpreadRadius,
			StrengthFactor: cfg.Trail.SpreadStrength,
			Delay:          cfg.Trail.SpreadDelay,
		},
		HomeTrailStrength: cfg.Trail.HomeStrength,
		HomeTrailDecay:    cfg.Trail.HomeDecay,
		HomeTrailRadius:   cfg.Trail.HomeRadius,
		HomeTrailEvery:    cfg.Trail.HomeEvery,
	}

	return colony.Settings{
		X:                    cfg.Derived.CenterX,
		Y:                    cfg.Derived.CenterY,
		Radius:               cfg.Colony.Radius,
		MaxPopulation:        cfg.Colony.MaxPopulation,
		MaxFoodStorage:       cfg.Colony.MaxFoodStorage,
		InitialFood:          cfg.Colony.InitialFood,
		ConsumptionRate:      cfg.Colony.ConsumptionRate,
		StarvationDamage:     cfg.Colony.StarvationDamage,
		XPPerFood:            cfg.Colony.XPPerFood,
		EggInterval:          cfg.Colony.EggInterval,
		EggDuration:          cfg.Colony.EggDuration,
		PupaDuration:         cfg.Colony.PupaDuration,
		DefaultCaste:         ant.Worker,
		AgentHealth:          cfg.Ant.InitialHealth,
		MaxLifespan:          cfg.Ant.MaxLifespan,
		LevelPopulationBonus: cfg.Colony.LevelPopBonus,
		LevelStorageBonus:    cfg.Colony.LevelStoreBonus,
		LevelHealthBonus:     cfg.Colony.LevelHealthBonus,
		ColonyHealth:         cfg.Colony.Health,
		AgentParams:          params,
		Profiles:             profiles,
	}
}
