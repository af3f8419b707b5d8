package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/flowswarm/config"
	"github.com/olivierh59500/flowswarm/headless"
	"github.com/olivierh59500/flowswarm/swarm"
	"github.com/olivierh59500/flowswarm/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	runHeadless := flag.Bool("headless", false, "Run without graphics")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Directory for stats.csv (headless)")
	settingsPath := flag.String("settings", "swarm.yaml", "File written by S and read by L")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if *runHeadless {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)
		if err := headlessMain(cfg, rngSeed, *maxFrames, *outputDir, logger); err != nil {
			logger.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	sim, err := NewSimulation(cfg, rngSeed, logger)
	if err != nil {
		logger.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	sim.SettingsPath = *settingsPath

	// Set up Ebitengine game
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Screen.TPS)

	logger.Info("starting", "seed", rngSeed, "particles", cfg.Swarm.Count, "noise", cfg.Field.Noise)

	// Run the game loop
	if err := ebiten.RunGame(sim); err != nil {
		logger.Error("game loop exited", "error", err)
		os.Exit(1)
	}
}

func headlessMain(cfg *config.Config, seed int64, maxFrames int, outputDir string, logger *slog.Logger) error {
	state, err := swarm.NewState(cfg.Settings(), seed)
	if err != nil {
		return err
	}
	out, err := telemetry.NewOutput(outputDir)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("seeded", "seed", seed)
	opts := headless.Options{
		MaxFrames: maxFrames,
		LogStats:  true,
		Pointer:   swarm.NewOrbit(),
	}
	err = headless.Run(ctx, state, telemetry.NewCollector(cfg.Telemetry.Window), out, opts, logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
