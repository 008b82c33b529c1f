// Package pheromone implements the spatially indexed scent map that drives
// trail-following behavior: decaying deposits, grid-bucketed range queries,
// gradient sensing with usage reinforcement, and one-shot diffusion spreading.
package pheromone

import "math"

// Type identifies what a scent deposit signals to nearby agents.
type Type uint8

const (
	// FoodTrail marks a path toward a food source.
	FoodTrail Type = iota
	// HomeTrail marks ground already explored near the nest.
	HomeTrail
	// Danger warns agents away from an area.
	Danger

	// NumTypes is the number of pheromone types.
	NumTypes
)

// String returns the lowercase name of the type.
func (t Type) String() string {
	switch t {
	case FoodTrail:
		return "food_trail"
	case HomeTrail:
		return "home_trail"
	case Danger:
		return "danger"
	}
	return "unknown"
}

const (
	minQuality = 1.0
	maxQuality = 3.0

	// qualityGain controls how fast trail quality approaches maxQuality per
	// sensing use. Exponential approach gives diminishing returns.
	qualityGain = 0.05

	// minDecayFactor floors the quality-dependent decay multiplier so even
	// the best trails still fade.
	minDecayFactor = 0.3

	// spreadChildren is the number of deposits spawned around a spreading
	// parent, evenly spaced on a circle.
	spreadChildren = 8

	// spreadRadiusFactor scales a child's influence radius relative to the
	// parent's current radius at spread time.
	spreadRadiusFactor = 0.8

	// staleRadiusFactor is the influence radius multiplier at full decay.
	// Radius grows linearly from 1.0x (fresh) to this as strength fades.
	staleRadiusFactor = 1.5

	// minRadius is the safe minimum influence radius for malformed input.
	minRadius = 1.0
)

// SpreadParams configures one-shot diffusion for a deposit. The zero value
// disables spreading.
type SpreadParams struct {
	CanSpread      bool
	Radius         float64 // distance of children from the parent
	StrengthFactor float64 // child strength = parent max strength * this
	Delay          float64 // sim-seconds of age before the spread fires
}

// Pheromone is a single scent deposit. It is owned by a Field and mutated
// only through the field's tick and query paths.
type Pheromone struct {
	X, Y float64
	Type Type

	Strength    float64
	MaxStrength float64
	DecayRate   float64 // strength lost per tick at quality 1.0

	// TrailQuality is a reinforcement multiplier in [1, 3], raised each time
	// the deposit contributes to a sensing query. Higher quality slows decay
	// and amplifies influence.
	TrailQuality float64
	UsageCount   int

	Age float64 // sim-seconds since deposit

	CanSpread            bool
	SpreadRadius         float64
	SpreadStrengthFactor float64
	SpreadDelay          float64
	HasSpread            bool
	IsSpreadDeposit      bool

	baseRadius float64
}

// DecayFraction returns how far the deposit has decayed, in [0, 1].
func (p *Pheromone) DecayFraction() float64 {
	if p.MaxStrength <= 0 {
		return 1
	}
	f := 1 - p.Strength/p.MaxStrength
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// CurrentRadius returns the dynamic influence radius. A fading deposit covers
// more ground at lower intensity, like a diffusing scent: the radius grows
// linearly from baseRadius (fresh) to staleRadiusFactor*baseRadius (depleted).
func (p *Pheromone) CurrentRadius() float64 {
	return p.baseRadius * (1 + (staleRadiusFactor-1)*p.DecayFraction())
}

// BaseRadius returns the influence radius the deposit was created with.
func (p *Pheromone) BaseRadius() float64 {
	return p.baseRadius
}

// DistanceTo returns the distance from the deposit to (x, y).
func (p *Pheromone) DistanceTo(x, y float64) float64 {
	dx := x - p.X
	dy := y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// InfluenceAt returns the quality-boosted influence of the deposit at (x, y):
// strength scaled by linear distance falloff and trail quality. Zero outside
// the current influence radius.
func (p *Pheromone) InfluenceAt(x, y float64) float64 {
	r := p.CurrentRadius()
	if r <= 0 {
		return 0
	}
	d := p.DistanceTo(x, y)
	if d > r {
		return 0
	}
	return p.Strength * (1 - d/r) * p.TrailQuality
}

// Reinforce adds strength to the deposit, capped at its maximum.
func (p *Pheromone) Reinforce(additional float64) {
	if additional <= 0 {
		return
	}
	p.Strength = math.Min(p.MaxStrength, p.Strength+additional)
}

// markUsed records one sensing use: bumps the usage count and nudges trail
// quality toward the cap with diminishing returns.
func (p *Pheromone) markUsed() {
	p.UsageCount++
	p.TrailQuality += qualityGain * (maxQuality - p.TrailQuality)
	if p.TrailQuality > maxQuality {
		p.TrailQuality = maxQuality
	}
}

// decayFactor returns the quality-dependent decay multiplier: quality 1.0
// decays at the base rate, quality 3.0 at minDecayFactor of it.
func decayFactor(quality float64) float64 {
	f := 1 - (quality-minQuality)*(1-minDecayFactor)/(maxQuality-minQuality)
	if f < minDecayFactor {
		return minDecayFactor
	}
	return f
}
