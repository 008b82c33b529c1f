package ant

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/antfarm/pheromone"
)

// State is the agent's behavioral mode.
type State uint8

const (
	// Idle agents do nothing until activated.
	Idle State = iota
	// Searching agents look for food trails, avoiding explored ground.
	Searching
	// Returning agents carry food straight back to the nest.
	Returning
	// FollowingTrail agents steer along a sensed food trail.
	FollowingTrail
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Returning:
		return "returning"
	case FollowingTrail:
		return "following_trail"
	}
	return "unknown"
}

// randomWalkTurn bounds a single random heading perturbation, in degrees.
const randomWalkTurn = 30.0

// Params holds the base movement and sensing parameters an agent is built
// from. Caste modifiers are multiplied in once, at construction.
type Params struct {
	MaxVelocity     float64
	Acceleration    float64 // velocity change per tick
	TurnSpeed       float64 // degrees per tick
	DetectionRadius float64

	SenseRadius     float64 // food trail gradient query radius
	HomeSenseRadius float64 // home trail (explored ground) query radius

	WalkTurnChance      float64 // per-tick perturbation chance while searching
	TrailLostTurnChance float64 // reduced chance after losing a trail
	SearchSlowdown      float64 // speed factor while avoiding explored ground
	CarrySlowdown       float64 // speed factor while carrying food

	// FoodTrail deposit laid continuously while returning.
	TrailStrength float64
	TrailDecay    float64
	TrailRadius   float64
	TrailSpread   pheromone.SpreadParams

	// Weak HomeTrail deposit laid every HomeTrailEvery steps while
	// searching, so other searchers can steer away from covered ground.
	// Zero disables it.
	HomeTrailStrength float64
	HomeTrailDecay    float64
	HomeTrailRadius   float64
	HomeTrailEvery    int
}

// Apply scales the movement parameters by a caste profile.
func (p *Params) Apply(prof Profile) {
	p.MaxVelocity *= prof.SpeedFactor
	p.DetectionRadius *= prof.DetectionFactor
	p.TurnSpeed *= prof.TurnFactor
}

// Nest is the colony surface an agent needs: where home is, how close counts
// as arrived, and where delivered food goes.
type Nest interface {
	NestPosition() (x, y float64)
	NestRadius() float64
	ReceiveFood(amount float64) float64
}

// Env wires an agent into its world.
type Env struct {
	Field  *pheromone.Field
	Nest   Nest
	Bounds pheromone.Bounds
	Rand   *rand.Rand
}

// Agent is one ant. It reads from and writes to the shared pheromone field
// but otherwise carries all of its own state.
type Agent struct {
	X, Y     float64
	Heading  float64 // degrees, normalized to [0, 360)
	Velocity float64

	Caste        Caste
	State        State
	CarryingFood bool

	params Params

	// maxVelocity is the live cap; baseMaxVelocity is the value it is
	// restored to when food is dropped. Stored once so repeated carry
	// cycles never accumulate floating-point drift.
	maxVelocity     float64
	baseMaxVelocity float64

	carryAmount   float64
	foodX, foodY  float64
	hasFoodMemory bool

	steps int

	field  *pheromone.Field
	nest   Nest
	bounds pheromone.Bounds
	rng    *rand.Rand
}

// New creates an idle agent at (x, y). The caste profile is applied to the
// params exactly once here; the agent never re-derives its modifiers.
func New(x, y, heading float64, caste Caste, params Params, prof Profile, env Env) *Agent {
	params.Apply(prof)
	x, y = env.Bounds.Clamp(x, y)
	return &Agent{
		X:               x,
		Y:               y,
		Heading:         normalizeHeading(heading),
		Caste:           caste,
		State:           Idle,
		params:          params,
		maxVelocity:     params.MaxVelocity,
		baseMaxVelocity: params.MaxVelocity,
		field:           env.Field,
		nest:            env.Nest,
		bounds:          env.Bounds,
		rng:             env.Rand,
	}
}

// DetectionRadius returns the caste-scaled detection radius.
func (a *Agent) DetectionRadius() float64 { return a.params.DetectionRadius }

// MaxVelocity returns the current velocity cap (reduced while carrying).
func (a *Agent) MaxVelocity() float64 { return a.maxVelocity }

// CarryAmount returns the food currently carried.
func (a *Agent) CarryAmount() float64 { return a.carryAmount }

// Activate transitions a freshly spawned agent from Idle to Searching.
func (a *Agent) Activate() {
	if a.State == Idle {
		a.State = Searching
	}
}

// PickupFood puts the agent into Returning with the collected amount,
// remembering the source position so it can retrace after delivery.
// Carrying reduces the velocity cap to CarrySlowdown of the base value.
func (a *Agent) PickupFood(amount, srcX, srcY float64) {
	if a.CarryingFood || amount <= 0 {
		return
	}
	a.CarryingFood = true
	a.carryAmount = amount
	a.foodX, a.foodY = srcX, srcY
	a.hasFoodMemory = true
	a.maxVelocity = a.baseMaxVelocity * a.params.CarrySlowdown
	a.State = Returning
}

// Step executes one behavior tick for the agent's current state.
func (a *Agent) Step() {
	a.steps++
	switch a.State {
	case Searching:
		a.search()
	case FollowingTrail:
		a.followTrail()
	case Returning:
		a.returnToNest()
	}
}

// search looks for a food trail first; failing that it steers away from
// explored ground marked by home trails, and otherwise random-walks.
func (a *Agent) search() {
	if dir, ok := a.field.GradientAt(a.X, a.Y, pheromone.FoodTrail, a.params.SenseRadius); ok {
		a.turnToward(headingOf(dir))
		a.accelerate(a.maxVelocity)
		a.advance()
		a.State = FollowingTrail
		return
	}

	if a.params.HomeTrailEvery > 0 && a.steps%a.params.HomeTrailEvery == 0 {
		a.field.Deposit(a.X, a.Y, pheromone.HomeTrail,
			a.params.HomeTrailStrength, a.params.HomeTrailDecay, a.params.HomeTrailRadius,
			pheromone.SpreadParams{})
	}

	if dir, ok := a.field.GradientAt(a.X, a.Y, pheromone.HomeTrail, a.params.HomeSenseRadius); ok {
		// Explored-area avoidance: head away from the covered ground,
		// slower, so unexplored directions win over time.
		a.turnToward(normalizeHeading(headingOf(dir) + 180))
		a.accelerate(a.maxVelocity * a.params.SearchSlowdown)
		a.advance()
		return
	}

	a.randomWalk(a.params.WalkTurnChance)
}

// followTrail steers along the food trail gradient, falling back to a
// low-randomness search when the trail fades out.
func (a *Agent) followTrail() {
	if dir, ok := a.field.GradientAt(a.X, a.Y, pheromone.FoodTrail, a.params.SenseRadius); ok {
		a.turnToward(headingOf(dir))
		a.accelerate(a.maxVelocity)
		a.advance()
		return
	}
	if a.hasFoodMemory {
		if a.DistanceTo(a.foodX, a.foodY) > a.params.DetectionRadius {
			// No gradient here, but the source position is remembered:
			// head straight for it.
			a.turnToward(bearingTo(a.X, a.Y, a.foodX, a.foodY))
			a.accelerate(a.maxVelocity)
			a.advance()
			return
		}
		// Arrived where the food was; from here the senses decide.
		a.hasFoodMemory = false
	}
	// Trail lost: keep roughly on course while searching again.
	a.State = Searching
	a.randomWalk(a.params.TrailLostTurnChance)
}

// returnToNest lays a food trail while heading straight home on a
// line-of-sight bearing; pheromones are not consulted on the way back.
func (a *Agent) returnToNest() {
	a.field.Deposit(a.X, a.Y, pheromone.FoodTrail,
		a.params.TrailStrength, a.params.TrailDecay, a.params.TrailRadius,
		a.params.TrailSpread)

	nx, ny := a.nest.NestPosition()
	a.turnToward(bearingTo(a.X, a.Y, nx, ny))
	a.accelerate(a.maxVelocity)
	a.advance()

	dx, dy := nx-a.X, ny-a.Y
	if math.Sqrt(dx*dx+dy*dy) <= a.nest.NestRadius() {
		a.nest.ReceiveFood(a.carryAmount)
		a.dropFood()
		if a.hasFoodMemory {
			a.State = FollowingTrail
		} else {
			a.State = Searching
		}
	}
}

// dropFood clears the carrying state and restores the exact pre-carry
// velocity cap.
func (a *Agent) dropFood() {
	a.CarryingFood = false
	a.carryAmount = 0
	a.maxVelocity = a.baseMaxVelocity
}

// randomWalk perturbs the heading with the given per-tick chance, bounded to
// ±randomWalkTurn degrees, then advances at full speed.
func (a *Agent) randomWalk(chance float64) {
	if a.rng.Float64() < chance {
		turn := (a.rng.Float64()*2 - 1) * randomWalkTurn
		a.Heading = normalizeHeading(a.Heading + turn)
	}
	a.accelerate(a.maxVelocity)
	a.advance()
}

// turnToward rotates the heading toward target by at most TurnSpeed degrees,
// always taking the shorter rotational direction.
func (a *Agent) turnToward(target float64) {
	diff := angleDelta(a.Heading, target)
	if math.Abs(diff) <= a.params.TurnSpeed {
		a.Heading = normalizeHeading(target)
		return
	}
	if diff > 0 {
		a.Heading = normalizeHeading(a.Heading + a.params.TurnSpeed)
	} else {
		a.Heading = normalizeHeading(a.Heading - a.params.TurnSpeed)
	}
}

// accelerate ramps velocity toward target, bounded by Acceleration per tick
// and clamped into [0, maxVelocity]. Never an instantaneous jump.
func (a *Agent) accelerate(target float64) {
	if target < 0 {
		target = 0
	}
	if target > a.maxVelocity {
		target = a.maxVelocity
	}
	if a.Velocity < target {
		a.Velocity = math.Min(target, a.Velocity+a.params.Acceleration)
	} else if a.Velocity > target {
		a.Velocity = math.Max(target, a.Velocity-a.params.Acceleration)
	}
}

// advance moves along the current heading by the current velocity, hard
// clamping to the world bounds.
func (a *Agent) advance() {
	rad := a.Heading * math.Pi / 180
	a.X, a.Y = a.bounds.Clamp(a.X+math.Cos(rad)*a.Velocity, a.Y+math.Sin(rad)*a.Velocity)
}

// DistanceTo returns the distance from the agent to (x, y).
func (a *Agent) DistanceTo(x, y float64) float64 {
	dx, dy := x-a.X, y-a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Snapshot is a read-only copy of the agent state for visualization.
type Snapshot struct {
	X, Y         float64
	Heading      float64
	Velocity     float64
	Caste        Caste
	State        State
	CarryingFood bool
}

// Snapshot returns a visualization copy of the agent.
func (a *Agent) Snapshot() Snapshot {
	return Snapshot{
		X:            a.X,
		Y:            a.Y,
		Heading:      a.Heading,
		Velocity:     a.Velocity,
		Caste:        a.Caste,
		State:        a.State,
		CarryingFood: a.CarryingFood,
	}
}

// normalizeHeading wraps an angle in degrees to [0, 360).
func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// angleDelta returns the shortest signed rotation from one heading to
// another, normalized to (-180, 180].
func angleDelta(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// headingOf converts a direction vector to a heading in degrees.
func headingOf(v pheromone.Vec) float64 {
	return normalizeHeading(math.Atan2(v.Y, v.X) * 180 / math.Pi)
}

// bearingTo returns the heading from (x, y) toward (tx, ty).
func bearingTo(x, y, tx, ty float64) float64 {
	return normalizeHeading(math.Atan2(ty-y, tx-x) * 180 / math.Pi)
}
