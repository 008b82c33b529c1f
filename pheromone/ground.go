package pheromone

import "math/rand"

// Ground property drift runs every groundDriftInterval sim-seconds.
const groundDriftInterval = 10.0

// GroundCell holds the terrain properties of one patch of ground. They
// modulate how quickly scent laid on the patch decays.
type GroundCell struct {
	Moisture    float64 // damp ground dissolves scent slower
	Porosity    float64 // porous ground absorbs scent, shielding it
	Temperature float64 // warm ground evaporates scent faster
}

// DecayMultiplier returns the cell's decay factor: below 1.0 the ground
// preserves scent, above 1.0 it destroys it. With fresh cells the range is
// roughly 0.45 to 1.2.
func (c GroundCell) DecayMultiplier() float64 {
	moisture := 1.0 - c.Moisture*0.3
	temperature := 0.8 + c.Temperature*0.4
	porosity := 1.0 - c.Porosity*0.2
	return moisture * temperature * porosity
}

// Ground is the terrain layer under a pheromone field: a grid of cells with
// randomized properties that drift slowly over simulated time.
type Ground struct {
	bounds   Bounds
	cellSize float64
	cols     int
	rows     int
	cells    []GroundCell

	rng        *rand.Rand
	sinceDrift float64
}

// NewGround creates a ground layer over bounds with randomized cell
// properties: moisture in [0.3, 0.8), porosity in [0.2, 0.7), temperature
// in [0.6, 1.0).
func NewGround(bounds Bounds, cellSize float64, rng *rand.Rand) *Ground {
	if cellSize <= 0 {
		cellSize = 10
	}
	cols := int(bounds.Width()/cellSize) + 1
	rows := int(bounds.Height()/cellSize) + 1

	g := &Ground{
		bounds:   bounds,
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([]GroundCell, cols*rows),
		rng:      rng,
	}
	for i := range g.cells {
		g.cells[i] = GroundCell{
			Moisture:    uniform(rng, 0.3, 0.8),
			Porosity:    uniform(rng, 0.2, 0.7),
			Temperature: uniform(rng, 0.6, 1.0),
		}
	}
	return g
}

// CellAt returns a copy of the ground cell under (x, y). Positions outside
// the bounds land in the nearest edge cell.
func (g *Ground) CellAt(x, y float64) GroundCell {
	return g.cells[g.cellIndex(x, y)]
}

// DecayMultiplierAt returns the decay factor of the ground under (x, y).
func (g *Ground) DecayMultiplierAt(x, y float64) float64 {
	return g.cells[g.cellIndex(x, y)].DecayMultiplier()
}

// Tick advances simulated time. Every groundDriftInterval sim-seconds the
// cell properties drift: moisture by up to ±0.05 within [0.1, 1.0] and
// temperature by up to ±0.02 within [0.5, 1.0]. Porosity is structural and
// never changes.
func (g *Ground) Tick(dt float64) {
	g.sinceDrift += dt
	if g.sinceDrift < groundDriftInterval {
		return
	}
	g.sinceDrift = 0

	for i := range g.cells {
		c := &g.cells[i]
		c.Moisture = clamp(c.Moisture+uniform(g.rng, -0.05, 0.05), 0.1, 1.0)
		c.Temperature = clamp(c.Temperature+uniform(g.rng, -0.02, 0.02), 0.5, 1.0)
	}
}

func (g *Ground) cellIndex(x, y float64) int {
	col := int((x - g.bounds.MinX) / g.cellSize)
	row := int((y - g.bounds.MinY) / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
