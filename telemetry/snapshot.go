package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/antfarm/ant"
	"github.com/pthm-cable/antfarm/colony"
	"github.com/pthm-cable/antfarm/food"
	"github.com/pthm-cable/antfarm/pheromone"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for offline inspection.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Tick    int64 `json:"tick"`

	WorldWidth  float64 `json:"world_width"`
	WorldHeight float64 `json:"world_height"`

	Colony ColonyState       `json:"colony"`
	Agents []AgentState      `json:"agents"`
	Trails []TrailState      `json:"trails"`
	Food   []FoodSourceState `json:"food"`
}

// ColonyState holds the colony summary at snapshot time.
type ColonyState struct {
	Population     int     `json:"population"`
	MaxPopulation  int     `json:"max_population"`
	Workers        int     `json:"workers"`
	Soldiers       int     `json:"soldiers"`
	Scouts         int     `json:"scouts"`
	Nurses         int     `json:"nurses"`
	Eggs           int     `json:"eggs"`
	Pupae          int     `json:"pupae"`
	FoodStorage    float64 `json:"food_storage"`
	MaxFoodStorage float64 `json:"max_food_storage"`
	Health         float64 `json:"health"`
	Level          int     `json:"level"`
	Experience     float64 `json:"experience"`
	TotalCollected float64 `json:"total_collected"`
}

// AgentState holds one ant's externally visible state.
type AgentState struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Heading      float64 `json:"heading"`
	Velocity     float64 `json:"velocity"`
	Caste        string  `json:"caste"`
	State        string  `json:"state"`
	CarryingFood bool    `json:"carrying_food"`
}

// TrailState holds one pheromone deposit.
type TrailState struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Type          string  `json:"type"`
	Strength      float64 `json:"strength"`
	MaxStrength   float64 `json:"max_strength"`
	Radius        float64 `json:"radius"`
	Quality       float64 `json:"quality"`
	SpreadDeposit bool    `json:"spread_deposit,omitempty"`
}

// FoodSourceState holds one food source.
type FoodSourceState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Amount   float64 `json:"amount"`
	Capacity float64 `json:"capacity"`
	Radius   float64 `json:"radius"`
}

// BuildSnapshot assembles a snapshot from the live subsystem views.
func BuildSnapshot(seed, tick int64, width, height float64, cs colony.Stats, agents []ant.Snapshot, trails []pheromone.View, sources []*food.Source) *Snapshot {
	snap := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     seed,
		Tick:        tick,
		WorldWidth:  width,
		WorldHeight: height,
		Colony: ColonyState{
			Population:     cs.Population,
			MaxPopulation:  cs.MaxPopulation,
			Workers:        cs.CasteCounts[ant.Worker],
			Soldiers:       cs.CasteCounts[ant.Soldier],
			Scouts:         cs.CasteCounts[ant.Scout],
			Nurses:         cs.CasteCounts[ant.Nurse],
			Eggs:           cs.Eggs,
			Pupae:          cs.Pupae,
			FoodStorage:    cs.FoodStorage,
			MaxFoodStorage: cs.MaxFoodStorage,
			Health:         cs.Health,
			Level:          cs.Level,
			Experience:     cs.Experience,
			TotalCollected: cs.TotalCollected,
		},
		Agents: make([]AgentState, 0, len(agents)),
		Trails: make([]TrailState, 0, len(trails)),
		Food:   make([]FoodSourceState, 0, len(sources)),
	}

	for _, a := range agents {
		snap.Agents = append(snap.Agents, AgentState{
			X:            a.X,
			Y:            a.Y,
			Heading:      a.Heading,
			Velocity:     a.Velocity,
			Caste:        a.Caste.String(),
			State:        a.State.String(),
			CarryingFood: a.CarryingFood,
		})
	}

	for _, v := range trails {
		snap.Trails = append(snap.Trails, TrailState{
			X:             v.X,
			Y:             v.Y,
			Type:          v.Type.String(),
			Strength:      v.Strength,
			MaxStrength:   v.MaxStrength,
			Radius:        v.Radius,
			Quality:       v.Quality,
			SpreadDeposit: v.SpreadDeposit,
		})
	}

	for _, s := range sources {
		snap.Food = append(snap.Food, FoodSourceState{
			X:        s.X,
			Y:        s.Y,
			Amount:   s.Amount,
			Capacity: s.Capacity,
			Radius:   s.Radius,
		})
	}

	return snap
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
