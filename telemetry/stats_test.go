package telemetry

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/flowswarm/swarm"
)

func fixedState(speeds ...float64) *swarm.State {
	s := &swarm.State{Frame: 10, Time: 0.03}
	for _, v := range speeds {
		s.Particles = append(s.Particles, swarm.Particle{Vel: r2.Vec{X: v}})
	}
	return s
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(3)
	s := fixedState(1, 3)

	for i := 0; i < 2; i++ {
		if _, ok := c.Sample(s, time.Millisecond); ok {
			t.Fatalf("window completed early at sample %d", i)
		}
	}
	stats, ok := c.Sample(s, 4*time.Millisecond)
	if !ok {
		t.Fatal("expected window to complete on third sample")
	}
	if stats.Particles != 2 || stats.Frame != 10 {
		t.Errorf("particles=%d frame=%d, want 2 and 10", stats.Particles, stats.Frame)
	}
	if math.Abs(stats.MeanSpeed-2) > 1e-9 || stats.PeakSpeed != 3 {
		t.Errorf("mean=%v peak=%v, want 2 and 3", stats.MeanSpeed, stats.PeakSpeed)
	}
	if math.Abs(stats.MeanStepUS-2000) > 1e-6 {
		t.Errorf("mean step = %vus, want 2000", stats.MeanStepUS)
	}
	if math.Abs(stats.StepsPerSec-500) > 1e-6 {
		t.Errorf("steps/sec = %v, want 500", stats.StepsPerSec)
	}

	// Window resets after completing
	if _, ok := c.Sample(s, time.Millisecond); ok {
		t.Error("window did not reset")
	}
}

func TestCollectorEmptySwarm(t *testing.T) {
	c := NewCollector(1)
	stats, ok := c.Sample(fixedState(), 0)
	if !ok {
		t.Fatal("expected window of one to complete")
	}
	if stats.MeanSpeed != 0 || stats.StepsPerSec != 0 {
		t.Errorf("empty swarm stats = %+v, want zeros", stats)
	}
}

func TestNewCollectorDefaultWindow(t *testing.T) {
	if c := NewCollector(0); c.window != 60 {
		t.Errorf("window = %d, want 60", c.window)
	}
}
