// Package ant implements the mobile agent: caste-profiled movement and the
// Idle/Searching/Returning/FollowingTrail behavior state machine that senses
// and deposits into a pheromone field.
package ant

// Caste is a fixed behavioral profile applied to an agent at creation.
// Castes differ only by multiplicative movement modifiers, never by separate
// behavior code paths; adding a caste means adding one table row.
type Caste uint8

const (
	Worker Caste = iota
	Soldier
	Scout
	Nurse

	// NumCastes is the number of defined castes.
	NumCastes
)

// String returns the lowercase caste name.
func (c Caste) String() string {
	switch c {
	case Worker:
		return "worker"
	case Soldier:
		return "soldier"
	case Scout:
		return "scout"
	case Nurse:
		return "nurse"
	}
	return "unknown"
}

// CasteByName maps a lowercase caste name back to its enum value.
func CasteByName(name string) (Caste, bool) {
	for c := Worker; c < NumCastes; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return Worker, false
}

// Profile holds the multiplicative modifiers a caste applies to the base
// movement parameters, plus the food cost the colony pays to produce one.
type Profile struct {
	SpeedFactor     float64
	DetectionFactor float64
	TurnFactor      float64
	SpawnCost       float64
}

// DefaultProfiles returns the built-in caste table: workers are the
// baseline, soldiers trade speed for reach, scouts are fast wide-ranging
// explorers, nurses stay slow and short-sighted near the nest.
func DefaultProfiles() [NumCastes]Profile {
	return [NumCastes]Profile{
		Worker:  {SpeedFactor: 1.0, DetectionFactor: 1.0, TurnFactor: 1.0, SpawnCost: 10},
		Soldier: {SpeedFactor: 0.8, DetectionFactor: 1.3, TurnFactor: 0.9, SpawnCost: 15},
		Scout:   {SpeedFactor: 1.4, DetectionFactor: 1.5, TurnFactor: 1.3, SpawnCost: 12},
		Nurse:   {SpeedFactor: 0.85, DetectionFactor: 0.7, TurnFactor: 1.0, SpawnCost: 8},
	}
}
