package swarm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// FlockRules holds the boids parameters.
type FlockRules struct {
	SeparationDist float64
	AlignmentDist  float64
	CohesionDist   float64

	SeparationWeight float64
	AlignmentWeight  float64
	CohesionWeight   float64
}

// Reach returns the largest neighbour radius used by any rule.
func (r FlockRules) Reach() float64 {
	return math.Max(r.SeparationDist, math.Max(r.AlignmentDist, r.CohesionDist))
}

// Bins partitions particle indices into square cells for neighbour queries.
type Bins struct {
	size       float64
	cols, rows int
	cells      [][]int
}

// NewBins creates bins of the given cell size covering a width×height canvas.
func NewBins(width, height, size float64) *Bins {
	if size <= 0 {
		size = math.Max(width, height)
	}
	cols := int(math.Ceil(width / size))
	rows := int(math.Ceil(height / size))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Bins{size: size, cols: cols, rows: rows, cells: make([][]int, cols*rows)}
}

// Build assigns every particle to its bin.
func (b *Bins) Build(ps []Particle) {
	for i := range b.cells {
		b.cells[i] = b.cells[i][:0]
	}
	for i := range ps {
		bx, by := b.cellOf(ps[i].Pos)
		key := by*b.cols + bx
		b.cells[key] = append(b.cells[key], i)
	}
}

// Near appends to dst the indices of particles in the 3×3 block of bins around pos.
func (b *Bins) Near(dst []int, pos r2.Vec) []int {
	bx, by := b.cellOf(pos)
	// Check this bin and 8 neighbors
	for dy := -1; dy <= 1; dy++ {
		y := by + dy
		if y < 0 || y >= b.rows {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			x := bx + dx
			if x < 0 || x >= b.cols {
				continue
			}
			dst = append(dst, b.cells[y*b.cols+x]...)
		}
	}
	return dst
}

func (b *Bins) cellOf(pos r2.Vec) (int, int) {
	return clampIndex(pos.X/b.size, b.cols), clampIndex(pos.Y/b.size, b.rows)
}

// Flock computes the weighted boids steering force on ps[i]. Only particles
// listed in near are considered.
func Flock(ps []Particle, i int, near []int, rules FlockRules, maxSpeed, maxForce float64) r2.Vec {
	self := ps[i]

	var sepSum, aliSum, cohSum r2.Vec
	var sepN, aliN, cohN int
	for _, j := range near {
		if j == i {
			continue
		}
		other := ps[j]
		d := Dist(self.Pos, other.Pos)
		if d <= 0 || math.IsNaN(d) {
			continue
		}
		if d < rules.SeparationDist {
			diff := r2.Scale(1/d, Normalize(r2.Sub(self.Pos, other.Pos)))
			sepSum = r2.Add(sepSum, diff)
			sepN++
		}
		if d < rules.AlignmentDist {
			aliSum = r2.Add(aliSum, other.Vel)
			aliN++
		}
		if d < rules.CohesionDist {
			cohSum = r2.Add(cohSum, other.Pos)
			cohN++
		}
	}

	sep := separation(sepSum, sepN, self.Vel, maxSpeed, maxForce)
	ali := alignment(aliSum, aliN, self.Vel, maxSpeed, maxForce)
	coh := cohesion(cohSum, cohN, self, maxSpeed, maxForce)

	force := r2.Scale(rules.SeparationWeight, sep)
	force = r2.Add(force, r2.Scale(rules.AlignmentWeight, ali))
	return r2.Add(force, r2.Scale(rules.CohesionWeight, coh))
}

// separation steers away from crowding flockmates.
func separation(sum r2.Vec, n int, vel r2.Vec, maxSpeed, maxForce float64) r2.Vec {
	if n == 0 {
		return r2.Vec{}
	}
	steer := r2.Scale(1/float64(n), sum)
	if r2.Norm(steer) == 0 {
		return r2.Vec{}
	}
	steer = r2.Sub(SetMag(steer, maxSpeed), vel)
	return Limit(steer, maxForce)
}

// alignment steers towards the average heading of flockmates.
func alignment(sum r2.Vec, n int, vel r2.Vec, maxSpeed, maxForce float64) r2.Vec {
	if n == 0 {
		return r2.Vec{}
	}
	avg := r2.Scale(1/float64(n), sum)
	steer := r2.Sub(SetMag(avg, maxSpeed), vel)
	return Limit(steer, maxForce)
}

// cohesion steers towards the average position of flockmates.
func cohesion(sum r2.Vec, n int, self Particle, maxSpeed, maxForce float64) r2.Vec {
	if n == 0 {
		return r2.Vec{}
	}
	return Seek(self, r2.Scale(1/float64(n), sum), maxSpeed, maxForce)
}

// Seek returns the steering force that turns p towards target at full speed.
func Seek(p Particle, target r2.Vec, maxSpeed, maxForce float64) r2.Vec {
	desired := SetMag(r2.Sub(target, p.Pos), maxSpeed)
	return Limit(r2.Sub(desired, p.Vel), maxForce)
}
