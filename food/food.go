// Package food manages the food sources ants forage from: finite piles that
// deplete as they are harvested and regrow after a cooldown.
package food

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/antfarm/pheromone"
)

const (
	// regrowCooldown is how many update ticks a depleted source stays
	// empty before it refills.
	regrowCooldown = 300

	defaultAmount = 100
)

// Source is one harvestable food pile.
type Source struct {
	X, Y     float64
	Amount   float64
	Capacity float64
	Radius   float64

	cooldown int64
}

// Depleted reports whether the source currently holds no food.
func (s *Source) Depleted() bool { return s.Amount <= 0 }

// Collect removes up to want from the source and returns the amount taken.
// Draining the source starts its regrow cooldown.
func (s *Source) Collect(want float64) float64 {
	if want <= 0 || s.Amount <= 0 {
		return 0
	}
	taken := want
	if taken > s.Amount {
		taken = s.Amount
	}
	s.Amount -= taken
	if s.Amount <= 0 {
		s.Amount = 0
		s.cooldown = regrowCooldown
	}
	return taken
}

// Add returns food to the source, clamped at capacity.
func (s *Source) Add(amount float64) {
	if amount <= 0 {
		return
	}
	s.Amount += amount
	if s.Amount > s.Capacity {
		s.Amount = s.Capacity
	}
}

// DistanceTo returns the euclidean distance from the source center.
func (s *Source) DistanceTo(x, y float64) float64 {
	dx := s.X - x
	dy := s.Y - y
	return math.Sqrt(dx*dx + dy*dy)
}

// Manager owns every source in the world. Source counts stay small enough
// that linear scans beat maintaining a second spatial index.
type Manager struct {
	sources []*Source
	bounds  pheromone.Bounds
	rng     *rand.Rand
}

// NewManager creates an empty manager over the given world bounds.
func NewManager(bounds pheromone.Bounds, rng *rand.Rand) *Manager {
	return &Manager{bounds: bounds, rng: rng}
}

// Add places a source, clamping its position into bounds.
func (m *Manager) Add(x, y, amount, radius float64) *Source {
	x, y = m.bounds.Clamp(x, y)
	if amount <= 0 {
		amount = defaultAmount
	}
	s := &Source{X: x, Y: y, Amount: amount, Capacity: amount, Radius: radius}
	m.sources = append(m.sources, s)
	return s
}

// ScatterRandom places count sources at uniform random positions, keeping a
// margin off the world edge so trails to them stay inside bounds.
func (m *Manager) ScatterRandom(count int, amount, radius float64) {
	margin := radius * 2
	w := m.bounds.Width() - margin*2
	h := m.bounds.Height() - margin*2
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	for i := 0; i < count; i++ {
		x := m.bounds.MinX + margin + m.rng.Float64()*w
		y := m.bounds.MinY + margin + m.rng.Float64()*h
		m.Add(x, y, amount, radius)
	}
}

// Sources returns the live source slice. Callers must not reorder it.
func (m *Manager) Sources() []*Source { return m.sources }

// SourcesInRange returns every non-depleted source whose pile overlaps the
// circle at (x, y).
func (m *Manager) SourcesInRange(x, y, radius float64) []*Source {
	var out []*Source
	for _, s := range m.sources {
		if s.Depleted() {
			continue
		}
		if s.DistanceTo(x, y) <= radius+s.Radius {
			out = append(out, s)
		}
	}
	return out
}

// Nearest returns the closest non-depleted source, or nil when all sources
// are empty.
func (m *Manager) Nearest(x, y float64) *Source {
	var best *Source
	bestDist := math.MaxFloat64
	for _, s := range m.sources {
		if s.Depleted() {
			continue
		}
		if d := s.DistanceTo(x, y); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}

// CollectNear harvests up to want from the nearest source in range of
// (x, y). Returns the amount taken and the source position, or ok=false
// when nothing is in reach.
func (m *Manager) CollectNear(x, y, radius, want float64) (taken, srcX, srcY float64, ok bool) {
	var best *Source
	bestDist := math.MaxFloat64
	for _, s := range m.sources {
		if s.Depleted() {
			continue
		}
		d := s.DistanceTo(x, y)
		if d <= radius+s.Radius && d < bestDist {
			best = s
			bestDist = d
		}
	}
	if best == nil {
		return 0, 0, 0, false
	}
	return best.Collect(want), best.X, best.Y, true
}

// Update advances regrow cooldowns; a source that finishes its cooldown
// refills to capacity.
func (m *Manager) Update() {
	for _, s := range m.sources {
		if !s.Depleted() {
			continue
		}
		if s.cooldown > 0 {
			s.cooldown--
			if s.cooldown == 0 {
				s.Amount = s.Capacity
			}
		}
	}
}

// TotalAvailable sums the food remaining across all sources.
func (m *Manager) TotalAvailable() float64 {
	total := 0.0
	for _, s := range m.sources {
		total += s.Amount
	}
	return total
}
