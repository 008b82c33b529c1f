package ant

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/antfarm/pheromone"
)

type stubNest struct {
	x, y, radius float64
	received     float64
}

func (n *stubNest) NestPosition() (float64, float64) { return n.x, n.y }
func (n *stubNest) NestRadius() float64              { return n.radius }
func (n *stubNest) ReceiveFood(amount float64) float64 {
	n.received += amount
	return amount
}

func testParams() Params {
	return Params{
		MaxVelocity:         2.0,
		Acceleration:        0.5,
		TurnSpeed:           3.0,
		DetectionRadius:     20,
		SenseRadius:         50,
		HomeSenseRadius:     25,
		WalkTurnChance:      0.1,
		TrailLostTurnChance: 0.3,
		SearchSlowdown:      0.85,
		CarrySlowdown:       0.75,
		TrailStrength:       100,
		TrailDecay:          0.5,
		TrailRadius:         30,
		HomeTrailStrength:   30,
		HomeTrailDecay:      0.3,
		HomeTrailRadius:     25,
		HomeTrailEvery:      20,
	}
}

func testAgent(x, y, heading float64, field *pheromone.Field, nest Nest) *Agent {
	bounds := pheromone.NewBounds(800, 600)
	if field == nil {
		field = pheromone.NewField(bounds, 40)
	}
	if nest == nil {
		nest = &stubNest{x: 400, y: 300, radius: 20}
	}
	return New(x, y, heading, Worker, testParams(), DefaultProfiles()[Worker], Env{
		Field:  field,
		Nest:   nest,
		Bounds: bounds,
		Rand:   rand.New(rand.NewSource(1)),
	})
}

func TestNewAppliesCasteProfile(t *testing.T) {
	bounds := pheromone.NewBounds(800, 600)
	env := Env{
		Field:  pheromone.NewField(bounds, 40),
		Nest:   &stubNest{x: 400, y: 300, radius: 20},
		Bounds: bounds,
		Rand:   rand.New(rand.NewSource(1)),
	}

	scout := New(100, 100, 0, Scout, testParams(), DefaultProfiles()[Scout], env)
	if math.Abs(scout.MaxVelocity()-2.8) > 0.001 {
		t.Errorf("scout max velocity = %v, want 2.8", scout.MaxVelocity())
	}
	if math.Abs(scout.DetectionRadius()-30) > 0.001 {
		t.Errorf("scout detection radius = %v, want 30", scout.DetectionRadius())
	}

	soldier := New(100, 100, 0, Soldier, testParams(), DefaultProfiles()[Soldier], env)
	if math.Abs(soldier.MaxVelocity()-1.6) > 0.001 {
		t.Errorf("soldier max velocity = %v, want 1.6", soldier.MaxVelocity())
	}
}

func TestNewClampsPositionAndHeading(t *testing.T) {
	a := testAgent(-100, 900, 370, nil, nil)

	if a.X != 0 || a.Y != 600 {
		t.Errorf("position = (%v, %v), want clamped to (0, 600)", a.X, a.Y)
	}
	if math.Abs(a.Heading-10) > 0.001 {
		t.Errorf("heading = %v, want normalized to 10", a.Heading)
	}
}

func TestActivate(t *testing.T) {
	a := testAgent(100, 100, 0, nil, nil)

	if a.State != Idle {
		t.Fatalf("new agent state = %v, want idle", a.State)
	}

	// Idle agents do not move
	x, y := a.X, a.Y
	a.Step()
	if a.X != x || a.Y != y {
		t.Error("idle agent moved")
	}

	a.Activate()
	if a.State != Searching {
		t.Errorf("state after activate = %v, want searching", a.State)
	}

	// Activate only lifts Idle; it never resets a working agent
	a.PickupFood(5, 0, 0)
	a.Activate()
	if a.State != Returning {
		t.Errorf("activate reset a returning agent to %v", a.State)
	}
}

func TestPickupFood(t *testing.T) {
	a := testAgent(100, 100, 0, nil, nil)
	a.Activate()

	a.PickupFood(5, 200, 200)

	if a.State != Returning {
		t.Errorf("state = %v, want returning", a.State)
	}
	if !a.CarryingFood || a.CarryAmount() != 5 {
		t.Errorf("carrying = %v amount = %v, want true/5", a.CarryingFood, a.CarryAmount())
	}
	if math.Abs(a.MaxVelocity()-1.5) > 0.001 {
		t.Errorf("carry velocity cap = %v, want 1.5", a.MaxVelocity())
	}

	// A loaded agent ignores further pickups
	a.PickupFood(10, 0, 0)
	if a.CarryAmount() != 5 {
		t.Errorf("second pickup changed amount to %v", a.CarryAmount())
	}

	// Zero and negative amounts are no-ops
	b := testAgent(100, 100, 0, nil, nil)
	b.Activate()
	b.PickupFood(0, 0, 0)
	if b.CarryingFood || b.State != Searching {
		t.Error("zero pickup changed agent state")
	}
}

func TestReturningLaysTrailAndDelivers(t *testing.T) {
	bounds := pheromone.NewBounds(800, 600)
	field := pheromone.NewField(bounds, 40)
	nest := &stubNest{x: 400, y: 300, radius: 20}

	a := testAgent(430, 300, 180, field, nest)
	a.Activate()
	a.PickupFood(5, 600, 300)

	// Walk home; the agent lays food trail the whole way
	for i := 0; i < 50 && a.CarryingFood; i++ {
		a.Step()
	}

	if a.CarryingFood {
		t.Fatal("agent never delivered")
	}
	if math.Abs(nest.received-5) > 0.001 {
		t.Errorf("nest received %v, want 5", nest.received)
	}
	if a.State != FollowingTrail {
		t.Errorf("state after delivery = %v, want following_trail (has food memory)", a.State)
	}
	if math.Abs(a.MaxVelocity()-2.0) > 0.001 {
		t.Errorf("velocity cap after drop = %v, want exact base 2.0", a.MaxVelocity())
	}

	trail := field.InRange(430, 300, 100, pheromone.FoodTrail)
	if len(trail) == 0 {
		t.Error("no food trail laid on the way home")
	}
}

func TestCarryCycleRestoresExactCap(t *testing.T) {
	nest := &stubNest{x: 400, y: 300, radius: 50}
	a := testAgent(410, 300, 0, nil, nest)
	a.Activate()

	for cycle := 0; cycle < 100; cycle++ {
		a.PickupFood(1, 500, 300)
		for i := 0; i < 20 && a.CarryingFood; i++ {
			a.Step()
		}
		if a.CarryingFood {
			t.Fatalf("cycle %d: agent stuck carrying", cycle)
		}
	}

	if a.MaxVelocity() != 2.0 {
		t.Errorf("velocity cap drifted to %v after repeated carries", a.MaxVelocity())
	}
}

func TestSearchFindsFoodTrail(t *testing.T) {
	bounds := pheromone.NewBounds(800, 600)
	field := pheromone.NewField(bounds, 40)
	field.Deposit(130, 100, pheromone.FoodTrail, 100, 0.1, 30, pheromone.SpreadParams{})

	a := testAgent(100, 100, 90, field, nil)
	a.Activate()
	a.Step()

	if a.State != FollowingTrail {
		t.Errorf("state = %v, want following_trail within one step", a.State)
	}
	// Heading rotates toward the trail (bearing 0) by at most TurnSpeed
	if math.Abs(a.Heading-87) > 0.001 {
		t.Errorf("heading = %v, want 87 (turned 3 degrees toward trail)", a.Heading)
	}
}

func TestFollowTrailFallsBackToSearch(t *testing.T) {
	a := testAgent(100, 100, 0, nil, nil)
	a.Activate()
	a.State = FollowingTrail

	a.Step()

	if a.State != Searching {
		t.Errorf("state = %v, want searching after trail vanished", a.State)
	}
}

func TestFollowTrailSteersTowardRememberedSource(t *testing.T) {
	a := testAgent(410, 300, 0, nil, nil)
	a.Activate()

	// Post-delivery shape: following with no trail left, but the source
	// position remembered. The agent should head straight back to it.
	a.State = FollowingTrail
	a.foodX, a.foodY = 600, 300
	a.hasFoodMemory = true

	for i := 0; i < 200 && a.State == FollowingTrail; i++ {
		a.Step()
	}

	if a.DistanceTo(600, 300) > a.DetectionRadius()+1 {
		t.Errorf("agent ended %.1f from remembered source, want within detection radius",
			a.DistanceTo(600, 300))
	}
	if a.State != Searching {
		t.Errorf("state = %v, want searching once the remembered spot is reached", a.State)
	}
}

func TestSearchDepositsHomeTrail(t *testing.T) {
	bounds := pheromone.NewBounds(800, 600)
	field := pheromone.NewField(bounds, 40)

	a := testAgent(400, 300, 0, field, nil)
	a.Activate()

	for i := 0; i < 20; i++ {
		a.Step()
	}

	home := field.InRange(400, 300, 200, pheromone.HomeTrail)
	if len(home) != 1 {
		t.Errorf("home trail deposits = %d after 20 steps, want 1", len(home))
	}
}

func TestAccelerationRampsGradually(t *testing.T) {
	a := testAgent(100, 100, 0, nil, nil)
	a.Activate()

	a.Step()
	if math.Abs(a.Velocity-0.5) > 0.001 {
		t.Errorf("velocity after 1 step = %v, want 0.5", a.Velocity)
	}

	for i := 0; i < 10; i++ {
		a.Step()
	}
	if a.Velocity > a.MaxVelocity()+0.001 {
		t.Errorf("velocity %v exceeds cap %v", a.Velocity, a.MaxVelocity())
	}
}

func TestAngleHelpers(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"no turn", 0, 0, 0},
		{"quarter right", 0, 90, 90},
		{"quarter left", 90, 0, -90},
		{"wrap short way", 350, 10, 20},
		{"wrap short way back", 10, 350, -20},
		{"opposite", 0, 180, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := angleDelta(tt.from, tt.to)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("angleDelta(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}

	if h := normalizeHeading(-90); math.Abs(h-270) > 0.001 {
		t.Errorf("normalizeHeading(-90) = %v, want 270", h)
	}
	if h := normalizeHeading(720); h != 0 {
		t.Errorf("normalizeHeading(720) = %v, want 0", h)
	}
}
