package pheromone

import "math"

// Vec is a 2D direction vector returned by gradient queries.
type Vec struct {
	X, Y float64
}

// Bounds is an axis-aligned world rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewBounds returns bounds spanning (0,0) to (width,height).
func NewBounds(width, height float64) Bounds {
	return Bounds{MaxX: width, MaxY: height}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether (x, y) lies inside the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Clamp returns the closest point to (x, y) inside the bounds.
func (b Bounds) Clamp(x, y float64) (float64, float64) {
	return math.Min(b.MaxX, math.Max(b.MinX, x)), math.Min(b.MaxY, math.Max(b.MinY, y))
}

// Field owns all live pheromones and indexes them in a uniform cell grid for
// range queries. Cell size should be at least the largest expected influence
// radius so a query touches a bounded ring of cells, never the whole map.
type Field struct {
	bounds   Bounds
	cellSize float64
	cols     int
	rows     int

	all   []*Pheromone
	cells [][]*Pheromone

	ground *Ground
}

// NewField creates an empty field covering bounds with the given grid cell size.
func NewField(bounds Bounds, cellSize float64) *Field {
	if cellSize <= 0 {
		cellSize = minRadius
	}
	cols := int(bounds.Width()/cellSize) + 1
	rows := int(bounds.Height()/cellSize) + 1
	return &Field{
		bounds:   bounds,
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([][]*Pheromone, cols*rows),
	}
}

// Bounds returns the world bounds of the field.
func (f *Field) Bounds() Bounds { return f.bounds }

// SetGround attaches a terrain layer whose cell properties modulate decay.
// A nil ground means uniform terrain.
func (f *Field) SetGround(g *Ground) { f.ground = g }

// Ground returns the attached terrain layer, or nil.
func (f *Field) Ground() *Ground { return f.ground }

// Count returns the number of live pheromones.
func (f *Field) Count() int { return len(f.all) }

// Deposit creates a new pheromone and indexes it. Malformed numeric inputs
// are clamped to safe values rather than rejected; positions outside the
// world are clamped onto its edge.
func (f *Field) Deposit(x, y float64, t Type, strength, decayRate, radius float64, spread SpreadParams) *Pheromone {
	x, y = f.bounds.Clamp(x, y)
	if strength < 0 {
		strength = 0
	}
	if decayRate < 0 {
		decayRate = 0
	}
	if radius < minRadius {
		radius = minRadius
	}

	p := &Pheromone{
		X:            x,
		Y:            y,
		Type:         t,
		Strength:     strength,
		MaxStrength:  strength,
		DecayRate:    decayRate,
		TrailQuality: minQuality,
		baseRadius:   radius,
	}
	if spread.CanSpread {
		p.CanSpread = true
		p.SpreadRadius = spread.Radius
		p.SpreadStrengthFactor = spread.StrengthFactor
		p.SpreadDelay = spread.Delay
	}

	f.insert(p)
	return p
}

// InRange returns all pheromones that qualify for a query at (x, y): the
// deposit lies within the larger of the query radius and its own current
// influence radius. Only grid cells within ceil(radius/cellSize) rings of the
// query cell are scanned. An optional type filter restricts the result.
func (f *Field) InRange(x, y, radius float64, filter ...Type) []*Pheromone {
	var out []*Pheromone
	f.scan(x, y, radius, filter, func(p *Pheromone) {
		out = append(out, p)
	})
	return out
}

// GradientAt computes the normalized pull direction of nearby pheromones of
// the given type: unit vectors toward each qualifying deposit, weighted by
// distance falloff, strength, and trail quality. Every deposit that
// contributes has its usage recorded, reinforcing the trail. Returns false
// when no deposit qualifies or the weighted sum cancels to zero.
func (f *Field) GradientAt(x, y float64, t Type, radius float64) (Vec, bool) {
	var gx, gy float64
	found := false
	f.scan(x, y, radius, []Type{t}, func(p *Pheromone) {
		found = true
		d := p.DistanceTo(x, y)
		if d == 0 {
			return
		}
		w := p.InfluenceAt(x, y)
		if w <= 0 {
			return
		}
		gx += (p.X - x) / d * w
		gy += (p.Y - y) / d * w
		p.markUsed()
	})
	if !found {
		return Vec{}, false
	}
	mag := math.Sqrt(gx*gx + gy*gy)
	if mag == 0 {
		return Vec{}, false
	}
	return Vec{X: gx / mag, Y: gy / mag}, true
}

// TotalStrengthAt sums the quality-boosted, distance-weighted influence of
// nearby pheromones of the given type, recording usage on each contributor.
func (f *Field) TotalStrengthAt(x, y float64, t Type, radius float64) float64 {
	var total float64
	f.scan(x, y, radius, []Type{t}, func(p *Pheromone) {
		w := p.InfluenceAt(x, y)
		if w <= 0 {
			return
		}
		total += w
		p.markUsed()
	})
	return total
}

// Tick advances the field by one simulation step of dt seconds: drifts the
// ground layer, ages and decays every deposit (quality slows decay, wet or
// porous ground slows it further, warm ground speeds it up), fires pending
// one-shot spreads, then removes depleted deposits from the roster and the
// grid together.
func (f *Field) Tick(dt float64) {
	if f.ground != nil {
		f.ground.Tick(dt)
	}
	for _, p := range f.all {
		p.Age += dt
		decay := p.DecayRate * decayFactor(p.TrailQuality)
		if f.ground != nil {
			decay *= f.ground.DecayMultiplierAt(p.X, p.Y)
		}
		p.Strength -= decay
	}

	// Spreading runs over the pre-spread roster so children never cascade
	// within the same tick. Children of an eligible parent are spawned even
	// if the parent just decayed out; removal happens afterwards.
	parents := f.all
	for _, p := range parents {
		if p.CanSpread && !p.HasSpread && !p.IsSpreadDeposit && p.Age >= p.SpreadDelay {
			f.spread(p)
		}
	}

	live := f.all[:0]
	for _, p := range f.all {
		if p.Strength <= 0 {
			f.removeFromCell(p)
			continue
		}
		live = append(live, p)
	}
	f.all = live
}

// spread spawns spreadChildren deposits evenly spaced on a circle around the
// parent. Children landing outside the world are discarded. The parent's
// HasSpread flag flips permanently; children can never spread again.
func (f *Field) spread(parent *Pheromone) {
	childRadius := spreadRadiusFactor * parent.CurrentRadius()
	childStrength := parent.MaxStrength * parent.SpreadStrengthFactor

	for i := 0; i < spreadChildren; i++ {
		angle := float64(i) * (2 * math.Pi / spreadChildren)
		cx := parent.X + math.Cos(angle)*parent.SpreadRadius
		cy := parent.Y + math.Sin(angle)*parent.SpreadRadius
		if !f.bounds.Contains(cx, cy) {
			continue
		}
		child := f.Deposit(cx, cy, parent.Type, childStrength, parent.DecayRate, childRadius, SpreadParams{})
		child.IsSpreadDeposit = true
	}
	parent.HasSpread = true
}

// Remove deletes a pheromone from the field. Removing a deposit the field
// does not own is a no-op.
func (f *Field) Remove(p *Pheromone) {
	for i, q := range f.all {
		if q == p {
			f.all = append(f.all[:i], f.all[i+1:]...)
			f.removeFromCell(p)
			return
		}
	}
}

// Clear removes every pheromone.
func (f *Field) Clear() {
	f.all = nil
	for i := range f.cells {
		f.cells[i] = nil
	}
}

// scan visits every qualifying pheromone around (x, y) by walking the grid
// cells within ceil(radius/cellSize) rings of the query cell.
func (f *Field) scan(x, y, radius float64, filter []Type, visit func(*Pheromone)) {
	if radius < 0 {
		radius = 0
	}
	cellRadius := int(math.Ceil(radius/f.cellSize)) + 1

	centerCol := int((x - f.bounds.MinX) / f.cellSize)
	centerRow := int((y - f.bounds.MinY) / f.cellSize)

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= f.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= f.rows {
				continue
			}
			for _, p := range f.cells[row*f.cols+col] {
				if !matchesType(p.Type, filter) {
					continue
				}
				limit := math.Max(radius, p.CurrentRadius())
				if p.DistanceTo(x, y) <= limit {
					visit(p)
				}
			}
		}
	}
}

func matchesType(t Type, filter []Type) bool {
	if len(filter) == 0 {
		return true
	}
	for _, ft := range filter {
		if t == ft {
			return true
		}
	}
	return false
}

// insert adds a pheromone to the roster and its grid bucket. Positions are
// immutable after deposit, so the bucket assignment never goes stale.
func (f *Field) insert(p *Pheromone) {
	f.all = append(f.all, p)
	idx := f.cellIndex(p.X, p.Y)
	f.cells[idx] = append(f.cells[idx], p)
}

func (f *Field) removeFromCell(p *Pheromone) {
	idx := f.cellIndex(p.X, p.Y)
	cell := f.cells[idx]
	for i, q := range cell {
		if q == p {
			cell[i] = cell[len(cell)-1]
			f.cells[idx] = cell[:len(cell)-1]
			return
		}
	}
}

// cellIndex returns the flat grid index for a world position, clamped to the
// valid range so edge positions always land in a real bucket.
func (f *Field) cellIndex(x, y float64) int {
	col := int((x - f.bounds.MinX) / f.cellSize)
	row := int((y - f.bounds.MinY) / f.cellSize)

	if col < 0 {
		col = 0
	} else if col >= f.cols {
		col = f.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= f.rows {
		row = f.rows - 1
	}

	return row*f.cols + col
}
