package swarm

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a single swarm member. Particles live by value in State.Particles.
type Particle struct {
	Pos  r2.Vec // position
	Prev r2.Vec // position before the last integration
	Vel  r2.Vec // velocity, length capped by Settings.MaxSpeed
	Acc  r2.Vec // accumulated force, cleared after integration

	Radius float64
	Color  color.NRGBA

	// Life counts down when lifespans are enabled; MaxLife 0 means immortal.
	Life    int
	MaxLife int
}

// ApplyForce adds f to the particle's acceleration.
func (p *Particle) ApplyForce(f r2.Vec) {
	p.Acc = r2.Add(p.Acc, f)
}

// Integrate advances velocity and position by dt and clears the acceleration.
func (p *Particle) Integrate(maxSpeed, dt float64) {
	p.Prev = p.Pos
	p.Vel = Limit(r2.Add(p.Vel, r2.Scale(dt, p.Acc)), maxSpeed)
	p.Pos = r2.Add(p.Pos, r2.Scale(dt, p.Vel))
	p.Acc = r2.Vec{}
}

// Wrap moves a particle that left the canvas (plus its radius) to the
// opposite edge. Positions stay in [-r, w+r) × [-r, h+r).
func (p *Particle) Wrap(w, h float64) bool {
	x := wrapCoord(p.Pos.X, w, p.Radius)
	y := wrapCoord(p.Pos.Y, h, p.Radius)
	wrapped := x != p.Pos.X || y != p.Pos.Y
	p.Pos = r2.Vec{X: x, Y: y}
	return wrapped
}

// Heading returns the direction of travel.
func (p *Particle) Heading() float64 {
	return Heading(p.Vel)
}

// Alive reports whether the particle should be kept.
func (p *Particle) Alive() bool {
	return p.MaxLife == 0 || p.Life > 0
}

// Age returns the remaining life as a fraction in [0, 1]; immortal particles return 1.
func (p *Particle) Age() float64 {
	if p.MaxLife == 0 {
		return 1
	}
	return math.Max(0, float64(p.Life)/float64(p.MaxLife))
}

func wrapCoord(v, size, r float64) float64 {
	lo, span := -r, size+2*r
	if v >= lo && v < lo+span {
		return v
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	// Toroidal wrap
	m := math.Mod(v-lo, span)
	if m < 0 {
		m += span
	}
	if m >= span {
		m = 0
	}
	return lo + m
}
