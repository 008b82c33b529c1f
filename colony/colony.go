// Package colony implements the aggregate root of the simulation: the agent
// roster held in an ECS arena, the egg/pupa brood pipeline, the food economy
// that gates reproduction, and health/age culling.
package colony

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antfarm/ant"
	"github.com/pthm-cable/antfarm/pheromone"
)

// Vitals is the per-agent record the colony tracks alongside each roster
// member: entity handles key it, never object identity.
type Vitals struct {
	Health   float64
	BornTick int64
}

// broodEntry is one queued egg or pupa.
type broodEntry struct {
	laidTick int64
	dueTick  int64
	caste    ant.Caste
}

// Settings holds every tunable the colony needs. Built from the config layer
// by the caller; the colony itself stays config-agnostic.
type Settings struct {
	X, Y   float64
	Radius float64

	MaxPopulation  int
	MaxFoodStorage float64
	InitialFood    float64

	ConsumptionRate  float64 // food per ant per tick
	StarvationDamage float64 // health lost per agent per starving tick
	XPPerFood        float64 // experience per unit of food received

	EggInterval  int64 // ticks between lay attempts
	EggDuration  int64 // ticks from lay to pupation
	PupaDuration int64 // ticks from pupation to hatch
	DefaultCaste ant.Caste

	AgentHealth float64
	MaxLifespan int64 // ticks before an agent dies of age

	// Level-up bonuses applied when accumulated experience crosses
	// level * 1000.
	LevelPopulationBonus int
	LevelStorageBonus    float64
	LevelHealthBonus     float64

	ColonyHealth float64

	// AgentParams are the caste-unscaled base movement parameters; the
	// profile table supplies the per-caste multipliers and spawn costs.
	AgentParams ant.Params
	Profiles    [ant.NumCastes]ant.Profile
}

// Recorder receives lifecycle events for telemetry. All methods are called
// from the single simulation goroutine.
type Recorder interface {
	RecordEggLaid(caste ant.Caste)
	RecordHatch(caste ant.Caste)
	RecordDeath(caste ant.Caste, starved bool)
	RecordFoodStored(amount float64)
}

// Colony owns the agent roster and drives the lifecycle scheduler. Created
// once per simulation and never destroyed during a run.
type Colony struct {
	settings Settings

	world    *ecs.World
	mapper   *ecs.Map2[ant.Agent, Vitals]
	filter   *ecs.Filter2[ant.Agent, Vitals]
	agentMap *ecs.Map[ant.Agent]

	field  *pheromone.Field
	bounds pheromone.Bounds
	rng    *rand.Rand

	food           float64
	maxFood        float64
	maxPopulation  int
	population     int
	casteCounts    [ant.NumCastes]int
	eggs           []broodEntry
	pupae          []broodEntry
	eggCooldown    int64
	level          int
	experience     float64
	health         float64
	maxHealth      float64
	tick           int64
	totalSpawned   int
	totalDied      int
	totalCollected float64

	recorder Recorder
}

// New creates a colony at the position given in settings, with the roster
// arena empty and the egg-laying cooldown ready to fire.
func New(settings Settings, field *pheromone.Field, bounds pheromone.Bounds, rng *rand.Rand) *Colony {
	world := ecs.NewWorld()

	food := settings.InitialFood
	if food < 0 {
		food = 0
	}
	if food > settings.MaxFoodStorage {
		food = settings.MaxFoodStorage
	}

	return &Colony{
		settings:      settings,
		world:         world,
		mapper:        ecs.NewMap2[ant.Agent, Vitals](world),
		filter:        ecs.NewFilter2[ant.Agent, Vitals](world),
		agentMap:      ecs.NewMap[ant.Agent](world),
		field:         field,
		bounds:        bounds,
		rng:           rng,
		food:          food,
		maxFood:       settings.MaxFoodStorage,
		maxPopulation: settings.MaxPopulation,
		level:         1,
		health:        settings.ColonyHealth,
		maxHealth:     settings.ColonyHealth,
	}
}

// SetRecorder attaches a telemetry sink. A nil recorder disables events.
func (c *Colony) SetRecorder(r Recorder) { c.recorder = r }

// SetField replaces the pheromone field reference handed to new agents.
// Existing agents keep the field they were created with.
func (c *Colony) SetField(f *pheromone.Field) { c.field = f }

// SetBounds replaces the world bounds handed to new agents.
func (c *Colony) SetBounds(b pheromone.Bounds) { c.bounds = b }

// NestPosition returns the colony center. Implements ant.Nest.
func (c *Colony) NestPosition() (float64, float64) { return c.settings.X, c.settings.Y }

// NestRadius returns the delivery radius. Implements ant.Nest.
func (c *Colony) NestRadius() float64 { return c.settings.Radius }

// Tick returns the colony's lifecycle tick counter.
func (c *Colony) Tick() int64 { return c.tick }

// Population returns the number of live adult agents.
func (c *Colony) Population() int { return c.population }

// MaxPopulation returns the current population cap.
func (c *Colony) MaxPopulation() int { return c.maxPopulation }

// FoodStorage returns the current food ledger balance.
func (c *Colony) FoodStorage() float64 { return c.food }

// Level returns the current development level.
func (c *Colony) Level() int { return c.level }

// Update runs one lifecycle tick in the fixed order the scheduler defines:
// egg laying, hatching, food upkeep, culling, development check.
func (c *Colony) Update() {
	c.tick++
	c.layEggs()
	c.hatch()
	c.consumeFood()
	c.cull()
	c.checkDevelopment()
}

// ReceiveFood adds delivered food, clamped to the space available before the
// call, and accrues experience proportional to the amount actually stored.
// Returns the amount stored.
func (c *Colony) ReceiveFood(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	space := c.maxFood - c.food
	if amount > space {
		amount = space
	}
	c.food += amount
	c.totalCollected += amount
	c.experience += amount * c.settings.XPPerFood
	if c.recorder != nil && amount > 0 {
		c.recorder.RecordFoodStored(amount)
	}
	return amount
}

// LayEgg queues one egg of the given caste. Fails (silently, no retry
// queue) when live agents plus queued brood already fill the population cap.
func (c *Colony) LayEgg(caste ant.Caste) bool {
	if c.population+len(c.eggs)+len(c.pupae) >= c.maxPopulation {
		return false
	}
	c.eggs = append(c.eggs, broodEntry{
		laidTick: c.tick,
		dueTick:  c.tick + c.settings.EggDuration,
		caste:    caste,
	})
	if c.recorder != nil {
		c.recorder.RecordEggLaid(caste)
	}
	return true
}

// SpawnAnt creates an adult immediately, bypassing the brood queue. It
// checks the caste's food cost and the population cap, charging the cost
// atomically with creation. Returns false with the zero entity on failure.
func (c *Colony) SpawnAnt(caste ant.Caste) (ecs.Entity, bool) {
	if caste >= ant.NumCastes {
		return ecs.Entity{}, false
	}
	cost := c.settings.Profiles[caste].SpawnCost
	if c.population >= c.maxPopulation || c.food < cost {
		return ecs.Entity{}, false
	}
	c.food -= cost
	return c.spawnAdult(caste), true
}

// SpawnAnts spawns up to count ants of the caste, stopping at the first one
// that cannot be afforded or housed. Returns the number actually created.
func (c *Colony) SpawnAnts(caste ant.Caste, count int) int {
	spawned := 0
	for i := 0; i < count; i++ {
		if _, ok := c.SpawnAnt(caste); !ok {
			break
		}
		spawned++
	}
	return spawned
}

// layEggs runs the cooldown-gated lay attempt. The cooldown resets to the
// configured interval whether or not the lay succeeded.
func (c *Colony) layEggs() {
	if c.eggCooldown > 0 {
		c.eggCooldown--
		return
	}
	c.LayEgg(c.settings.DefaultCaste)
	c.eggCooldown = c.settings.EggInterval
}

// hatch advances the brood pipeline: due eggs become pupae, due pupae become
// live adults. Transitions fire exactly at the due tick, never earlier.
func (c *Colony) hatch() {
	remaining := c.eggs[:0]
	for _, egg := range c.eggs {
		if c.tick >= egg.dueTick {
			c.pupae = append(c.pupae, broodEntry{
				laidTick: c.tick,
				dueTick:  c.tick + c.settings.PupaDuration,
				caste:    egg.caste,
			})
			continue
		}
		remaining = append(remaining, egg)
	}
	c.eggs = remaining

	left := c.pupae[:0]
	for _, pupa := range c.pupae {
		if c.tick >= pupa.dueTick {
			c.spawnAdult(pupa.caste)
			if c.recorder != nil {
				c.recorder.RecordHatch(pupa.caste)
			}
			continue
		}
		left = append(left, pupa)
	}
	c.pupae = left
}

// spawnAdult constructs an active agent at the colony position with a small
// random offset and heading, full health, and the caste's movement profile.
func (c *Colony) spawnAdult(caste ant.Caste) ecs.Entity {
	offset := c.settings.Radius * 0.5
	x := c.settings.X + (c.rng.Float64()*2-1)*offset
	y := c.settings.Y + (c.rng.Float64()*2-1)*offset
	heading := c.rng.Float64() * 360

	a := ant.New(x, y, heading, caste, c.settings.AgentParams, c.settings.Profiles[caste], ant.Env{
		Field:  c.field,
		Nest:   c,
		Bounds: c.bounds,
		Rand:   c.rng,
	})
	a.Activate()

	v := Vitals{Health: c.settings.AgentHealth, BornTick: c.tick}
	e := c.mapper.NewEntity(a, &v)

	c.population++
	c.casteCounts[caste]++
	c.totalSpawned++
	return e
}

// consumeFood charges upkeep for the live roster. A shortfall pins storage
// to zero and costs every agent health this tick: starvation is collective,
// not probabilistic.
func (c *Colony) consumeFood() {
	needed := float64(c.population) * c.settings.ConsumptionRate
	if c.food >= needed {
		c.food -= needed
		return
	}
	c.food = 0
	query := c.filter.Query()
	for query.Next() {
		_, v := query.Get()
		v.Health -= c.settings.StarvationDamage
	}
}

// cull removes agents whose health ran out or whose age exceeded the
// lifespan. Entities are collected first and removed after the query
// completes; removal frees the vitals record with the entity.
func (c *Colony) cull() {
	type doomed struct {
		entity  ecs.Entity
		caste   ant.Caste
		starved bool
	}
	var toRemove []doomed

	query := c.filter.Query()
	for query.Next() {
		a, v := query.Get()
		if v.Health <= 0 {
			toRemove = append(toRemove, doomed{query.Entity(), a.Caste, true})
		} else if c.tick-v.BornTick > c.settings.MaxLifespan {
			toRemove = append(toRemove, doomed{query.Entity(), a.Caste, false})
		}
	}

	for _, d := range toRemove {
		c.mapper.Remove(d.entity)
		c.population--
		if c.casteCounts[d.caste] > 0 {
			c.casteCounts[d.caste]--
		}
		c.totalDied++
		if c.recorder != nil {
			c.recorder.RecordDeath(d.caste, d.starved)
		}
	}
}

// checkDevelopment levels the colony up when experience crosses the
// level-scaled threshold. The threshold is subtracted, not zeroed, so
// surplus experience carries over.
func (c *Colony) checkDevelopment() {
	threshold := float64(c.level) * 1000
	if c.experience < threshold {
		return
	}
	c.level++
	c.experience -= threshold
	c.maxPopulation += c.settings.LevelPopulationBonus
	c.maxFood += c.settings.LevelStorageBonus
	c.health += c.settings.LevelHealthBonus
	if c.health > c.maxHealth {
		c.health = c.maxHealth
	}
}

// ForEachAgent visits every live agent in roster order. Agents visited later
// in the same tick can already sense deposits laid by agents visited earlier;
// that first-mover bias is kept on purpose. The callback must not add or
// remove roster entries.
func (c *Colony) ForEachAgent(fn func(e ecs.Entity, a *ant.Agent, v *Vitals)) {
	query := c.filter.Query()
	for query.Next() {
		a, v := query.Get()
		fn(query.Entity(), a, v)
	}
}

// Agent returns the live agent for an entity handle, or nil if the handle
// is stale.
func (c *Colony) Agent(e ecs.Entity) *ant.Agent {
	if !c.world.Alive(e) {
		return nil
	}
	return c.agentMap.Get(e)
}

// AgentSnapshots returns read-only copies of every live agent.
func (c *Colony) AgentSnapshots() []ant.Snapshot {
	out := make([]ant.Snapshot, 0, c.population)
	query := c.filter.Query()
	for query.Next() {
		a, _ := query.Get()
		out = append(out, a.Snapshot())
	}
	return out
}

// Reconfigure applies runtime-tunable economy parameters from new settings.
// Structural values (position, stage durations already queued, the arena)
// are left alone; this is the explicit apply-configuration step that
// replaces live external writes into colony fields.
func (c *Colony) Reconfigure(s Settings) {
	c.settings.ConsumptionRate = s.ConsumptionRate
	c.settings.StarvationDamage = s.StarvationDamage
	c.settings.XPPerFood = s.XPPerFood
	c.settings.EggInterval = s.EggInterval
	c.settings.EggDuration = s.EggDuration
	c.settings.PupaDuration = s.PupaDuration
	c.settings.MaxLifespan = s.MaxLifespan
	c.settings.AgentParams = s.AgentParams
	c.settings.Profiles = s.Profiles
	if s.MaxPopulation > c.maxPopulation {
		c.maxPopulation = s.MaxPopulation
	}
	if s.MaxFoodStorage > c.maxFood {
		c.maxFood = s.MaxFoodStorage
	}
}

// Stats is the aggregate colony summary exposed to telemetry and display.
type Stats struct {
	Tick           int64
	Population     int
	MaxPopulation  int
	CasteCounts    [ant.NumCastes]int
	Eggs           int
	Pupae          int
	FoodStorage    float64
	MaxFoodStorage float64
	Health         float64
	Level          int
	Experience     float64
	TotalSpawned   int
	TotalDied      int
	TotalCollected float64
}

// Stats returns the aggregate colony summary.
func (c *Colony) Stats() Stats {
	return Stats{
		Tick:           c.tick,
		Population:     c.population,
		MaxPopulation:  c.maxPopulation,
		CasteCounts:    c.casteCounts,
		Eggs:           len(c.eggs),
		Pupae:          len(c.pupae),
		FoodStorage:    c.food,
		MaxFoodStorage: c.maxFood,
		Health:         c.health,
		Level:          c.level,
		Experience:     c.experience,
		TotalSpawned:   c.totalSpawned,
		TotalDied:      c.totalDied,
		TotalCollected: c.totalCollected,
	}
}
