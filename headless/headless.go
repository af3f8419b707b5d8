// Package headless runs the swarm without a window, for batch runs and stats capture.
package headless

import (
	"context"
	"log/slog"
	"time"

	"github.com/olivierh59500/flowswarm/swarm"
	"github.com/olivierh59500/flowswarm/telemetry"
)

// Options configures a headless run.
type Options struct {
	MaxFrames int  // stop after this many frames; 0 runs until ctx is done
	LogStats  bool // log every completed stats window
	Pointer   *swarm.Orbit
}

// Run steps the simulation until MaxFrames or ctx is cancelled, feeding
// every frame to the collector and every completed window to out.
func Run(ctx context.Context, s *swarm.State, c *telemetry.Collector, out *telemetry.Output, opts Options, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("starting headless simulation",
		"particles", len(s.Particles),
		"max_frames", opts.MaxFrames,
		"flow", s.Settings.Flow,
		"flocking", s.Settings.Flocking,
	)

	for frame := 0; opts.MaxFrames == 0 || frame < opts.MaxFrames; frame++ {
		if err := ctx.Err(); err != nil {
			logger.Info("headless run cancelled", "frame", s.Frame)
			return err
		}

		var in swarm.Input
		if opts.Pointer != nil {
			in = opts.Pointer.Next(s.Settings.Width, s.Settings.Height)
		}

		start := time.Now()
		s.Step(in)
		stats, done := c.Sample(s, time.Since(start))
		if !done {
			continue
		}
		if opts.LogStats {
			logger.Info("stats", "window", stats)
		}
		if err := out.Write(stats); err != nil {
			return err
		}
	}

	logger.Info("max frames reached", "frame", s.Frame)
	return nil
}
