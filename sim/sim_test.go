package sim

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antfarm/ant"
	"github.com/pthm-cable/antfarm/colony"
	"github.com/pthm-cable/antfarm/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.World.Seed = 42
	return cfg
}

func TestNewBuildsWorld(t *testing.T) {
	cfg := testConfig(t)
	cfg.Colony.InitialAnts = 5
	cfg.Food.Sources = 8

	s := New(cfg)

	if s.Colony.Population() != 5 {
		t.Errorf("population = %d, want 5", s.Colony.Population())
	}
	if len(s.Food.Sources()) != 8 {
		t.Errorf("food sources = %d, want 8", len(s.Food.Sources()))
	}
	if got := s.Bounds(); got.Width() != 800 || got.Height() != 600 {
		t.Errorf("bounds = %vx%v, want 800x600", got.Width(), got.Height())
	}
}

func TestStepAdvancesAllSubsystems(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg)

	s.Run(100)

	if s.Tick() != 100 {
		t.Errorf("sim tick = %d, want 100", s.Tick())
	}
	if s.Colony.Tick() != 100 {
		t.Errorf("colony tick = %d, want 100 (one lifecycle tick per step)", s.Colony.Tick())
	}
}

func TestForagingDeliversFood(t *testing.T) {
	cfg := testConfig(t)
	cfg.Food.Sources = 0 // place food by hand at the nest
	cfg.Colony.InitialAnts = 10
	s := New(cfg)

	s.Food.Add(cfg.Derived.CenterX, cfg.Derived.CenterY, 100, 15)

	s.Run(500)

	if got := s.Colony.Stats().TotalCollected; got <= 0 {
		t.Errorf("total collected = %v after 500 ticks with food at the nest", got)
	}
}

func TestSameTickDepositVisibleToLaterAgents(t *testing.T) {
	cfg := testConfig(t)
	cfg.Colony.InitialAnts = 2
	cfg.Food.Sources = 0
	s := New(cfg)

	var agents []*ant.Agent
	s.Colony.ForEachAgent(func(_ ecs.Entity, a *ant.Agent, _ *colony.Vitals) {
		agents = append(agents, a)
	})
	if len(agents) != 2 {
		t.Fatalf("agents = %d, want 2", len(agents))
	}

	// The first agent in roster order carries food home and lays a trail
	// deposit during its step. The second agent, stepped later in the same
	// tick, starts in sensing range of that deposit and must pick it up
	// before the tick ends.
	depositor, sensor := agents[0], agents[1]
	depositor.X, depositor.Y = 300, 300
	depositor.PickupFood(1, 700, 300)

	sensor.X, sensor.Y = 320, 300

	if s.Field.Count() != 0 {
		t.Fatalf("field not empty before step: %d deposits", s.Field.Count())
	}

	s.Step()

	var states []ant.State
	s.Colony.ForEachAgent(func(_ ecs.Entity, a *ant.Agent, _ *colony.Vitals) {
		states = append(states, a.State)
	})
	if states[1] != ant.FollowingTrail {
		t.Errorf("later agent state = %v, want following_trail from the earlier agent's fresh deposit", states[1])
	}
}

func TestApplyConfigTakesEffectAtNextStep(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg)

	before := s.Colony.Stats().MaxFoodStorage

	next := testConfig(t)
	next.Colony.MaxFoodStorage = before + 4000
	s.ApplyConfig(next)

	// Queued, not applied
	if got := s.Colony.Stats().MaxFoodStorage; got != before {
		t.Fatalf("config applied immediately: %v", got)
	}

	s.Step()
	if got := s.Colony.Stats().MaxFoodStorage; got != before+4000 {
		t.Errorf("max storage = %v after step, want %v", got, before+4000)
	}
}
