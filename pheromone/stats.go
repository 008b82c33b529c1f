package pheromone

// View is a read-only copy of one deposit, sufficient for a renderer to
// derive color and alpha.
type View struct {
	X, Y          float64
	Type          Type
	Strength      float64
	MaxStrength   float64
	Radius        float64 // current influence radius
	Quality       float64
	SpreadDeposit bool
}

// Snapshot returns a read-only copy of every live pheromone.
func (f *Field) Snapshot() []View {
	out := make([]View, 0, len(f.all))
	for _, p := range f.all {
		out = append(out, View{
			X:             p.X,
			Y:             p.Y,
			Type:          p.Type,
			Strength:      p.Strength,
			MaxStrength:   p.MaxStrength,
			Radius:        p.CurrentRadius(),
			Quality:       p.TrailQuality,
			SpreadDeposit: p.IsSpreadDeposit,
		})
	}
	return out
}

// HighQualityThreshold marks a trail as well-established once reinforcement
// has pushed its quality this far.
const HighQualityThreshold = 2.0

// Stats summarizes the live field for telemetry and display.
type Stats struct {
	Total          int
	ByType         [NumTypes]int
	Originals      int // deposits laid by agents
	SpreadDeposits int // deposits spawned by spreading
	AvgStrength    float64
	AvgQuality     float64
	HighQuality    int // trails at or above HighQualityThreshold
}

// Stats computes aggregate statistics over all live pheromones.
func (f *Field) Stats() Stats {
	var s Stats
	s.Total = len(f.all)
	if s.Total == 0 {
		return s
	}

	var strength, quality float64
	for _, p := range f.all {
		s.ByType[p.Type]++
		if p.IsSpreadDeposit {
			s.SpreadDeposits++
		} else {
			s.Originals++
		}
		strength += p.Strength
		quality += p.TrailQuality
		if p.TrailQuality >= HighQualityThreshold {
			s.HighQuality++
		}
	}
	s.AvgStrength = strength / float64(s.Total)
	s.AvgQuality = quality / float64(s.Total)
	return s
}

// Strengths returns the strength of every live pheromone, for distribution
// statistics in telemetry.
func (f *Field) Strengths() []float64 {
	out := make([]float64, len(f.all))
	for i, p := range f.all {
		out[i] = p.Strength
	}
	return out
}

// Qualities returns the trail quality of every live pheromone.
func (f *Field) Qualities() []float64 {
	out := make([]float64, len(f.all))
	for i, p := range f.all {
		out[i] = p.TrailQuality
	}
	return out
}
