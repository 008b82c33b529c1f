package colony

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antfarm/ant"
	"github.com/pthm-cable/antfarm/pheromone"
)

type recordSink struct {
	eggsLaid int
	hatches  int
	deaths   int
	starved  int
	stored   float64
}

func (r *recordSink) RecordEggLaid(ant.Caste) { r.eggsLaid++ }
func (r *recordSink) RecordHatch(ant.Caste)   { r.hatches++ }
func (r *recordSink) RecordDeath(_ ant.Caste, starved bool) {
	r.deaths++
	if starved {
		r.starved++
	}
}
func (r *recordSink) RecordFoodStored(amount float64) { r.stored += amount }

func testSettings() Settings {
	return Settings{
		X: 400, Y: 300, Radius: 20,
		MaxPopulation:        50,
		MaxFoodStorage:       1000,
		InitialFood:          200,
		ConsumptionRate:      0,
		StarvationDamage:     10,
		XPPerFood:            0.1,
		EggInterval:          1000,
		EggDuration:          2,
		PupaDuration:         3,
		DefaultCaste:         ant.Worker,
		AgentHealth:          100,
		MaxLifespan:          100000,
		LevelPopulationBonus: 20,
		LevelStorageBonus:    200,
		LevelHealthBonus:     20,
		ColonyHealth:         1000,
		AgentParams: ant.Params{
			MaxVelocity:     2.0,
			Acceleration:    0.5,
			TurnSpeed:       3.0,
			DetectionRadius: 20,
			SenseRadius:     50,
			HomeSenseRadius: 25,
		},
		Profiles: ant.DefaultProfiles(),
	}
}

func testColony(s Settings) *Colony {
	bounds := pheromone.NewBounds(800, 600)
	field := pheromone.NewField(bounds, 40)
	return New(s, field, bounds, rand.New(rand.NewSource(1)))
}

func TestBroodPipeline(t *testing.T) {
	c := testColony(testSettings())

	// First update auto-lays the first egg (cooldown starts ready)
	c.Update()
	if got := c.Stats(); got.Eggs != 1 || got.Pupae != 0 || got.Population != 0 {
		t.Fatalf("after lay: eggs=%d pupae=%d pop=%d", got.Eggs, got.Pupae, got.Population)
	}

	// Egg pupates when its due tick arrives, not before
	c.Update()
	if got := c.Stats(); got.Eggs != 1 {
		t.Fatalf("egg pupated early at tick %d", got.Tick)
	}
	c.Update()
	if got := c.Stats(); got.Eggs != 0 || got.Pupae != 1 {
		t.Fatalf("after pupation: eggs=%d pupae=%d", got.Eggs, got.Pupae)
	}

	// Pupa hatches after its own duration
	c.Update()
	c.Update()
	if got := c.Stats(); got.Population != 0 {
		t.Fatalf("pupa hatched early at tick %d", got.Tick)
	}
	c.Update()
	got := c.Stats()
	if got.Population != 1 || got.Pupae != 0 {
		t.Fatalf("after hatch: pop=%d pupae=%d", got.Population, got.Pupae)
	}
	if got.CasteCounts[ant.Worker] != 1 {
		t.Errorf("worker count = %d, want 1", got.CasteCounts[ant.Worker])
	}
}

func TestLayEggRespectsCap(t *testing.T) {
	s := testSettings()
	s.MaxPopulation = 2
	c := testColony(s)

	if n := c.SpawnAnts(ant.Worker, 2); n != 2 {
		t.Fatalf("spawned %d, want 2", n)
	}
	if c.LayEgg(ant.Worker) {
		t.Error("egg laid past the population cap")
	}

	// Brood counts against the cap too
	s2 := testSettings()
	s2.MaxPopulation = 1
	c2 := testColony(s2)
	if !c2.LayEgg(ant.Worker) {
		t.Fatal("first egg rejected")
	}
	if c2.LayEgg(ant.Worker) {
		t.Error("second egg accepted with pop+brood at cap")
	}
}

func TestStarvationIsCollective(t *testing.T) {
	s := testSettings()
	s.InitialFood = 20
	s.ConsumptionRate = 1
	s.StarvationDamage = 60
	s.MaxPopulation = 2 // suppress auto-laid brood
	c := testColony(s)

	sink := &recordSink{}
	c.SetRecorder(sink)

	if n := c.SpawnAnts(ant.Worker, 2); n != 2 {
		t.Fatalf("spawned %d, want 2", n)
	}
	if c.FoodStorage() != 0 {
		t.Fatalf("food = %v after spawn costs, want 0", c.FoodStorage())
	}

	// First starving tick damages everyone but kills no one
	c.Update()
	if got := c.Stats(); got.Population != 2 {
		t.Fatalf("population = %d after one starving tick", got.Population)
	}

	// Second tick pushes health to -20 and both die starved
	c.Update()
	got := c.Stats()
	if got.Population != 0 {
		t.Fatalf("population = %d, want 0", got.Population)
	}
	if sink.deaths != 2 || sink.starved != 2 {
		t.Errorf("deaths=%d starved=%d, want 2/2", sink.deaths, sink.starved)
	}
	if got.TotalDied != 2 {
		t.Errorf("total died = %d, want 2", got.TotalDied)
	}
}

func TestPartialShortfallStillStarves(t *testing.T) {
	s := testSettings()
	s.InitialFood = 21 // two spawns cost 20, leaving less than one tick of upkeep
	s.ConsumptionRate = 1
	s.StarvationDamage = 5
	s.MaxPopulation = 2
	c := testColony(s)

	c.SpawnAnts(ant.Worker, 2)
	c.Update()

	if c.FoodStorage() != 0 {
		t.Errorf("food = %v, want pinned to 0 on shortfall", c.FoodStorage())
	}
	healths := 0
	c.ForEachAgent(func(_ ecs.Entity, _ *ant.Agent, v *Vitals) {
		if math.Abs(v.Health-95) > 0.001 {
			t.Errorf("health = %v, want 95", v.Health)
		}
		healths++
	})
	if healths != 2 {
		t.Fatalf("visited %d agents, want 2", healths)
	}
}

func TestAgeCull(t *testing.T) {
	s := testSettings()
	s.MaxLifespan = 3
	s.MaxPopulation = 1
	c := testColony(s)

	sink := &recordSink{}
	c.SetRecorder(sink)
	c.SpawnAnts(ant.Worker, 1)

	for i := 0; i < 3; i++ {
		c.Update()
	}
	if got := c.Stats(); got.Population != 1 {
		t.Fatalf("agent died before exceeding lifespan, pop=%d", got.Population)
	}

	c.Update()
	if got := c.Stats(); got.Population != 0 {
		t.Fatalf("agent survived past lifespan, pop=%d", got.Population)
	}
	if sink.deaths != 1 || sink.starved != 0 {
		t.Errorf("deaths=%d starved=%d, want 1 aged death", sink.deaths, sink.starved)
	}
}

func TestReceiveFoodClampsAndGrantsXP(t *testing.T) {
	s := testSettings()
	s.InitialFood = 990
	c := testColony(s)

	stored := c.ReceiveFood(20)
	if math.Abs(stored-10) > 0.001 {
		t.Errorf("stored = %v, want clamp to 10", stored)
	}
	if math.Abs(c.FoodStorage()-1000) > 0.001 {
		t.Errorf("food = %v, want 1000", c.FoodStorage())
	}

	// Experience follows the stored amount, not the offered amount
	if got := c.Stats().Experience; math.Abs(got-1) > 0.001 {
		t.Errorf("experience = %v, want 1 (0.1 x 10 stored)", got)
	}

	if c.ReceiveFood(-5) != 0 {
		t.Error("negative delivery accepted")
	}
	if c.ReceiveFood(5) != 0 {
		t.Error("delivery into full storage accepted")
	}
}

func TestDevelopmentLevelUpCarriesOver(t *testing.T) {
	s := testSettings()
	s.MaxFoodStorage = 50000
	s.XPPerFood = 1
	c := testColony(s)

	c.ReceiveFood(1200)
	c.Update()

	got := c.Stats()
	if got.Level != 2 {
		t.Fatalf("level = %d, want 2", got.Level)
	}
	if math.Abs(got.Experience-200) > 0.001 {
		t.Errorf("experience = %v, want 200 carried over", got.Experience)
	}
	if got.MaxPopulation != 70 {
		t.Errorf("max population = %d, want 70", got.MaxPopulation)
	}
	if math.Abs(got.MaxFoodStorage-50200) > 0.001 {
		t.Errorf("max storage = %v, want 50200", got.MaxFoodStorage)
	}

	// Next threshold is level * 1000
	c.ReceiveFood(1000)
	c.Update()
	if got := c.Stats(); got.Level != 2 {
		t.Errorf("level = %d, want 2 (1200 xp < 2000 threshold)", got.Level)
	}
}

func TestSpawnAntChargesCost(t *testing.T) {
	s := testSettings()
	s.InitialFood = 25
	c := testColony(s)

	if n := c.SpawnAnts(ant.Worker, 5); n != 2 {
		t.Errorf("spawned %d, want 2 with 25 food at cost 10", n)
	}
	if math.Abs(c.FoodStorage()-5) > 0.001 {
		t.Errorf("food = %v, want 5", c.FoodStorage())
	}
	if _, ok := c.SpawnAnt(ant.Worker); ok {
		t.Error("spawn succeeded without funds")
	}

	// Different castes, different costs
	s2 := testSettings()
	s2.InitialFood = 8
	c2 := testColony(s2)
	if _, ok := c2.SpawnAnt(ant.Soldier); ok {
		t.Error("soldier spawned for less than its cost")
	}
	if _, ok := c2.SpawnAnt(ant.Nurse); !ok {
		t.Error("nurse not spawned with exactly enough food")
	}
}

func TestSpawnedAgentIsLive(t *testing.T) {
	c := testColony(testSettings())

	e, ok := c.SpawnAnt(ant.Scout)
	if !ok {
		t.Fatal("spawn failed")
	}
	a := c.Agent(e)
	if a == nil {
		t.Fatal("entity handle resolved to nil")
	}
	if a.Caste != ant.Scout {
		t.Errorf("caste = %v, want scout", a.Caste)
	}
	if a.State != ant.Searching {
		t.Errorf("state = %v, want searching (activated at spawn)", a.State)
	}

	snaps := c.AgentSnapshots()
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps))
	}
}

func TestNestInterface(t *testing.T) {
	c := testColony(testSettings())

	x, y := c.NestPosition()
	if x != 400 || y != 300 {
		t.Errorf("nest position = (%v, %v), want (400, 300)", x, y)
	}
	if c.NestRadius() != 20 {
		t.Errorf("nest radius = %v, want 20", c.NestRadius())
	}
}

func TestReconfigureOnlyRaisesCaps(t *testing.T) {
	c := testColony(testSettings())

	s := testSettings()
	s.MaxPopulation = 10 // lower than current
	s.MaxFoodStorage = 5000
	c.Reconfigure(s)

	got := c.Stats()
	if got.MaxPopulation != 50 {
		t.Errorf("max population = %d, want unchanged 50", got.MaxPopulation)
	}
	if got.MaxFoodStorage != 5000 {
		t.Errorf("max storage = %v, want raised to 5000", got.MaxFoodStorage)
	}
}
