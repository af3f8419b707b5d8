// Package telemetry collects per-frame swarm statistics and writes them out.
package telemetry

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/flowswarm/swarm"
)

// WindowStats summarizes one window of frames.
type WindowStats struct {
	Frame       int     `csv:"frame"`
	Particles   int     `csv:"particles"`
	MeanSpeed   float64 `csv:"mean_speed"`
	PeakSpeed   float64 `csv:"peak_speed"`
	MeanStepUS  float64 `csv:"mean_step_us"`
	StepsPerSec float64 `csv:"steps_per_sec"`
	FieldTime   float64 `csv:"field_time"`
}

// LogValue implements slog.LogValuer.
func (w WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", w.Frame),
		slog.Int("particles", w.Particles),
		slog.Float64("mean_speed", w.MeanSpeed),
		slog.Float64("peak_speed", w.PeakSpeed),
		slog.Float64("mean_step_us", w.MeanStepUS),
		slog.Float64("steps_per_sec", w.StepsPerSec),
	)
}

// Collector accumulates frame samples and emits a WindowStats every window frames.
type Collector struct {
	window int

	frames    int
	speedSum  float64
	speedN    int
	peak      float64
	particles int
	stepTotal time.Duration
}

// NewCollector creates a collector. window is the number of frames per summary.
func NewCollector(window int) *Collector {
	if window < 1 {
		window = 60
	}
	return &Collector{window: window}
}

// Sample records one frame. It returns the window summary and true when the
// window is complete.
func (c *Collector) Sample(s *swarm.State, step time.Duration) (WindowStats, bool) {
	c.frames++
	c.stepTotal += step
	c.particles = len(s.Particles)
	for i := range s.Particles {
		v := r2.Norm(s.Particles[i].Vel)
		c.speedSum += v
		c.speedN++
		c.peak = math.Max(c.peak, v)
	}
	if c.frames < c.window {
		return WindowStats{}, false
	}

	stats := WindowStats{
		Frame:     s.Frame,
		Particles: c.particles,
		PeakSpeed: c.peak,
		FieldTime: s.Time,
	}
	if c.speedN > 0 {
		stats.MeanSpeed = c.speedSum / float64(c.speedN)
	}
	mean := c.stepTotal / time.Duration(c.frames)
	stats.MeanStepUS = float64(mean) / float64(time.Microsecond)
	if mean > 0 {
		stats.StepsPerSec = float64(time.Second) / float64(mean)
	}
	c.reset()
	return stats, true
}

func (c *Collector) reset() {
	c.frames = 0
	c.speedSum = 0
	c.speedN = 0
	c.peak = 0
	c.stepTotal = 0
}
