package swarm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Pointer modes.
const (
	PointerOff     = "off"
	PointerRepel   = "repel"
	PointerAttract = "attract"
	PointerBoth    = "both"
)

// Input is the pointer state polled once per frame.
type Input struct {
	X, Y    float64
	Pressed bool // primary button held
	Inside  bool // cursor is over the canvas
}

// Pos returns the pointer position as a vector.
func (in Input) Pos() r2.Vec {
	return r2.Vec{X: in.X, Y: in.Y}
}

// PointerRules configures how the pointer pushes or pulls particles.
type PointerRules struct {
	Mode string

	RepelRadius   float64
	RepelStrength float64

	AttractRadius   float64
	AttractStrength float64
}

// ValidPointerMode reports an error for unknown modes.
func ValidPointerMode(mode string) error {
	switch mode {
	case PointerOff, PointerRepel, PointerAttract, PointerBoth, "":
		return nil
	}
	return fmt.Errorf("unknown pointer mode %q", mode)
}

func (r PointerRules) repels() bool {
	return r.Mode == PointerRepel || r.Mode == PointerBoth
}

func (r PointerRules) attracts() bool {
	return r.Mode == PointerAttract || r.Mode == PointerBoth
}

// Repel pushes p away from a held pointer with a linear falloff, full
// strength at distance 0 and nothing at RepelRadius.
func Repel(p Particle, in Input, radius, strength float64) r2.Vec {
	if !in.Pressed || radius <= 0 {
		return r2.Vec{}
	}
	away := r2.Sub(p.Pos, in.Pos())
	d := r2.Norm(away)
	if d <= 0 || d >= radius {
		return r2.Vec{}
	}
	return r2.Scale(strength*(1-d/radius), Normalize(away))
}

// Attract steers p towards a pointer hovering over the canvas. Desired speed
// grows with distance so particles settle around the cursor.
func Attract(p Particle, in Input, radius, strength, maxSpeed, maxForce float64) r2.Vec {
	if !in.Inside || radius <= 0 {
		return r2.Vec{}
	}
	desired := r2.Sub(in.Pos(), p.Pos)
	d := r2.Norm(desired)
	if d >= radius {
		return r2.Vec{}
	}
	desired = SetMag(desired, Remap(d, 0, radius, 0, maxSpeed*strength))
	return Limit(r2.Sub(desired, p.Vel), maxForce*2)
}

// Orbit drives a synthetic pointer along a wandering loop around the canvas
// centre. It stands in for the mouse when nobody is interacting.
type Orbit struct {
	Angle  float64
	Radius float64
	Speed  float64 // radians per frame
	// PressEvery and PressFor schedule button presses in frames; zero disables pressing.
	PressEvery int
	PressFor   int

	frame int
}

// NewOrbit returns an orbit with the default wander parameters.
func NewOrbit() *Orbit {
	return &Orbit{Radius: 100, Speed: 0.05, PressEvery: 240, PressFor: 60}
}

// Next advances the orbit one frame and returns the pointer state on a w×h canvas.
func (o *Orbit) Next(w, h float64) Input {
	o.Angle += o.Speed
	r := o.Radius + 50*math.Sin(float64(o.frame)*0.01)
	in := Input{
		X:      w/2 + math.Cos(o.Angle)*r*math.Sin(o.Angle*0.3),
		Y:      h/2 + math.Sin(o.Angle)*r*math.Cos(o.Angle*0.2),
		Inside: true,
	}
	if o.PressEvery > 0 {
		in.Pressed = o.frame%o.PressEvery < o.PressFor
	}
	o.frame++
	return in
}
