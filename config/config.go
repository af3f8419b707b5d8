// Package config loads simulation parameters from YAML over embedded defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/olivierh59500/flowswarm/swarm"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Flock     FlockConfig     `yaml:"flock"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TPS       int    `yaml:"tps"`
	Title     string `yaml:"title"`
	TrailFade uint8  `yaml:"trail_fade"`
	View      int    `yaml:"view"`
}

// FieldConfig holds flow field parameters.
type FieldConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Noise      string  `yaml:"noise"`
	Resolution float64 `yaml:"resolution"` // cell size in pixels
	Increment  float64 `yaml:"increment"`  // noise step between cells
	Magnitude  float64 `yaml:"magnitude"`
	Curl       float64 `yaml:"curl"`
	TimeStep   float64 `yaml:"time_step"` // noise time advance per frame
}

// SwarmConfig holds particle parameters.
type SwarmConfig struct {
	Count         int            `yaml:"count"`
	Radius        float64        `yaml:"radius"`
	MaxSpeed      float64        `yaml:"max_speed"`
	MinStartSpeed float64        `yaml:"min_start_speed"`
	MaxForce      float64        `yaml:"max_force"`
	DT            float64        `yaml:"dt"`
	Lifespan      LifespanConfig `yaml:"lifespan"`
}

// LifespanConfig holds finite lifespan parameters.
type LifespanConfig struct {
	Enabled   bool `yaml:"enabled"`
	Min       int  `yaml:"min"`
	Max       int  `yaml:"max"`
	SpawnRate int  `yaml:"spawn_rate"` // particles respawned per frame
}

// FlockConfig holds boids parameters.
type FlockConfig struct {
	Enabled          bool    `yaml:"enabled"`
	SeparationDist   float64 `yaml:"separation_dist"`
	AlignmentDist    float64 `yaml:"alignment_dist"`
	CohesionDist     float64 `yaml:"cohesion_dist"`
	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
}

// PointerConfig holds pointer interaction parameters.
type PointerConfig struct {
	Mode            string  `yaml:"mode"`
	RepelRadius     float64 `yaml:"repel_radius"`
	RepelStrength   float64 `yaml:"repel_strength"`
	AttractRadius   float64 `yaml:"attract_radius"`
	AttractStrength float64 `yaml:"attract_strength"`
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	Window   int  `yaml:"window"`
	LogStats bool `yaml:"log_stats"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the window and telemetry sections and the derived simulation settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.TPS <= 0 {
		errs = append(errs, fmt.Errorf("screen.tps must be positive, got %d", c.Screen.TPS))
	}
	if c.Screen.View < 0 || c.Screen.View > 2 {
		errs = append(errs, fmt.Errorf("screen.view must be 0, 1 or 2, got %d", c.Screen.View))
	}
	if c.Telemetry.Window < 1 {
		errs = append(errs, fmt.Errorf("telemetry.window must be at least 1, got %d", c.Telemetry.Window))
	}
	if err := c.Settings().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Settings converts the configuration into simulation settings.
func (c *Config) Settings() swarm.Settings {
	return swarm.Settings{
		Width:         float64(c.Screen.Width),
		Height:        float64(c.Screen.Height),
		Count:         c.Swarm.Count,
		Radius:        c.Swarm.Radius,
		MaxSpeed:      c.Swarm.MaxSpeed,
		MinStartSpeed: c.Swarm.MinStartSpeed,
		MaxForce:      c.Swarm.MaxForce,
		DT:            c.Swarm.DT,
		Flow:          c.Field.Enabled,
		NoiseKind:     c.Field.Noise,
		Resolution:    c.Field.Resolution,
		Increment:     c.Field.Increment,
		Magnitude:     c.Field.Magnitude,
		Curl:          c.Field.Curl,
		TimeStep:      c.Field.TimeStep,
		Flocking:      c.Flock.Enabled,
		Flock: swarm.FlockRules{
			SeparationDist:   c.Flock.SeparationDist,
			AlignmentDist:    c.Flock.AlignmentDist,
			CohesionDist:     c.Flock.CohesionDist,
			SeparationWeight: c.Flock.SeparationWeight,
			AlignmentWeight:  c.Flock.AlignmentWeight,
			CohesionWeight:   c.Flock.CohesionWeight,
		},
		Pointer: swarm.PointerRules{
			Mode:            c.Pointer.Mode,
			RepelRadius:     c.Pointer.RepelRadius,
			RepelStrength:   c.Pointer.RepelStrength,
			AttractRadius:   c.Pointer.AttractRadius,
			AttractStrength: c.Pointer.AttractStrength,
		},
		Lifespan:  c.Swarm.Lifespan.Enabled,
		MinLife:   c.Swarm.Lifespan.Min,
		MaxLife:   c.Swarm.Lifespan.Max,
		SpawnRate: c.Swarm.Lifespan.SpawnRate,
	}
}

// SetSettings copies live simulation settings back into the configuration.
func (c *Config) SetSettings(s swarm.Settings) {
	c.Screen.Width, c.Screen.Height = int(s.Width), int(s.Height)
	c.Swarm = SwarmConfig{
		Count:         s.Count,
		Radius:        s.Radius,
		MaxSpeed:      s.MaxSpeed,
		MinStartSpeed: s.MinStartSpeed,
		MaxForce:      s.MaxForce,
		DT:            s.DT,
		Lifespan: LifespanConfig{
			Enabled:   s.Lifespan,
			Min:       s.MinLife,
			Max:       s.MaxLife,
			SpawnRate: s.SpawnRate,
		},
	}
	c.Field = FieldConfig{
		Enabled:    s.Flow,
		Noise:      s.NoiseKind,
		Resolution: s.Resolution,
		Increment:  s.Increment,
		Magnitude:  s.Magnitude,
		Curl:       s.Curl,
		TimeStep:   s.TimeStep,
	}
	c.Flock = FlockConfig{
		Enabled:          s.Flocking,
		SeparationDist:   s.Flock.SeparationDist,
		AlignmentDist:    s.Flock.AlignmentDist,
		CohesionDist:     s.Flock.CohesionDist,
		SeparationWeight: s.Flock.SeparationWeight,
		AlignmentWeight:  s.Flock.AlignmentWeight,
		CohesionWeight:   s.Flock.CohesionWeight,
	}
	c.Pointer = PointerConfig{
		Mode:            s.Pointer.Mode,
		RepelRadius:     s.Pointer.RepelRadius,
		RepelStrength:   s.Pointer.RepelStrength,
		AttractRadius:   s.Pointer.AttractRadius,
		AttractStrength: s.Pointer.AttractStrength,
	}
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
