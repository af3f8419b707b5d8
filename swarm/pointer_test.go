package swarm

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestRepelFalloff(t *testing.T) {
	p := Particle{Pos: r2.Vec{X: 150, Y: 100}}
	tests := []struct {
		name string
		in   Input
		want r2.Vec
	}{
		{"released", Input{X: 100, Y: 100}, r2.Vec{}},
		{"half radius", Input{X: 100, Y: 100, Pressed: true}, r2.Vec{X: 0.5, Y: 0}},
		{"out of range", Input{X: 0, Y: 100, Pressed: true}, r2.Vec{}},
		{"on top", Input{X: 150, Y: 100, Pressed: true}, r2.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repel(p, tt.in, 100, 1)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("Repel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttract(t *testing.T) {
	p := Particle{Pos: r2.Vec{X: 100, Y: 100}}
	if got := Attract(p, Input{X: 150, Y: 100}, 150, 1, 4, 0.1); got != (r2.Vec{}) {
		t.Errorf("Attract outside canvas = %v, want zero", got)
	}
	got := Attract(p, Input{X: 150, Y: 100, Inside: true}, 150, 1, 4, 0.1)
	if got.X <= 0 || !near(got.Y, 0) {
		t.Errorf("Attract = %v, want pull towards +x", got)
	}
	if r2.Norm(got) > 0.2+eps {
		t.Errorf("Attract magnitude %v exceeds twice max force", r2.Norm(got))
	}
	if got := Attract(p, Input{X: 400, Y: 100, Inside: true}, 150, 1, 4, 0.1); got != (r2.Vec{}) {
		t.Errorf("Attract beyond radius = %v, want zero", got)
	}
}

func TestValidPointerMode(t *testing.T) {
	for _, m := range []string{PointerOff, PointerRepel, PointerAttract, PointerBoth} {
		if err := ValidPointerMode(m); err != nil {
			t.Errorf("ValidPointerMode(%q) = %v", m, err)
		}
	}
	if ValidPointerMode("magnet") == nil {
		t.Error("expected error for unknown pointer mode")
	}
}

func TestOrbitStaysNearCentre(t *testing.T) {
	o := NewOrbit()
	pressed := 0
	for i := 0; i < 480; i++ {
		in := o.Next(800, 600)
		if !in.Inside {
			t.Fatal("orbit pointer reported outside the canvas")
		}
		if d := Dist(in.Pos(), r2.Vec{X: 400, Y: 300}); d > 150+eps {
			t.Fatalf("frame %d: pointer %v is %v from centre", i, in.Pos(), d)
		}
		if in.Pressed {
			pressed++
		}
	}
	if pressed != 120 {
		t.Errorf("pressed for %d frames, want 120", pressed)
	}
}
