package swarm

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Settings holds every tunable of the simulation.
type Settings struct {
	Width, Height float64

	Count         int
	Radius        float64
	MaxSpeed      float64
	MinStartSpeed float64
	MaxForce      float64
	DT            float64

	// Flow field
	Flow       bool
	NoiseKind  string
	Resolution float64
	Increment  float64
	Magnitude  float64
	Curl       float64
	TimeStep   float64

	Flocking bool
	Flock    FlockRules

	Pointer PointerRules

	// Finite lifespans; dead particles are replaced up to Count at SpawnRate per frame.
	Lifespan  bool
	MinLife   int
	MaxLife   int
	SpawnRate int
}

// DefaultSettings returns the parameters of the original swarm sketch on an 800×600 canvas.
func DefaultSettings() Settings {
	return Settings{
		Width:         800,
		Height:        600,
		Count:         200,
		Radius:        3,
		MaxSpeed:      4,
		MinStartSpeed: 2,
		MaxForce:      0.1,
		DT:            1,
		Flow:          true,
		NoiseKind:     NoisePerlin,
		Resolution:    20,
		Increment:     0.1,
		Magnitude:     0.2,
		Curl:          4,
		TimeStep:      0.003,
		Flocking:      true,
		Flock: FlockRules{
			SeparationDist:   30,
			AlignmentDist:    50,
			CohesionDist:     50,
			SeparationWeight: 1.8,
			AlignmentWeight:  1,
			CohesionWeight:   1,
		},
		Pointer: PointerRules{
			Mode:            PointerRepel,
			RepelRadius:     100,
			RepelStrength:   1,
			AttractRadius:   150,
			AttractStrength: 1,
		},
		MinLife:   200,
		MaxLife:   600,
		SpawnRate: 10,
	}
}

// Validate checks the settings for values the simulation cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %vx%v", s.Width, s.Height))
	}
	if s.Count < 0 {
		errs = append(errs, fmt.Errorf("particle count must not be negative, got %d", s.Count))
	}
	if s.Radius < 0 {
		errs = append(errs, fmt.Errorf("radius must not be negative, got %v", s.Radius))
	}
	if s.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("max speed must be positive, got %v", s.MaxSpeed))
	}
	if s.MaxForce < 0 {
		errs = append(errs, fmt.Errorf("max force must not be negative, got %v", s.MaxForce))
	}
	if s.DT <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %v", s.DT))
	}
	if s.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("field resolution must be positive, got %v", s.Resolution))
	}
	if s.NoiseKind != "" && s.NoiseKind != NoisePerlin && s.NoiseKind != NoiseSimplex {
		errs = append(errs, fmt.Errorf("unknown noise kind %q", s.NoiseKind))
	}
	if err := ValidPointerMode(s.Pointer.Mode); err != nil {
		errs = append(errs, err)
	}
	if s.Lifespan && (s.MinLife <= 0 || s.MaxLife < s.MinLife) {
		errs = append(errs, fmt.Errorf("lifespan range [%d, %d] is invalid", s.MinLife, s.MaxLife))
	}
	return errors.Join(errs...)
}

// Stroke is the draw command emitted for one particle in one frame.
type Stroke struct {
	From, To r2.Vec
	Heading  float64
	Radius   float64
	Color    color.NRGBA
	Wrapped  bool // From and To are on opposite edges; draw no connecting line
}

// State is the whole simulation. It is owned by the single frame loop.
type State struct {
	Settings  Settings
	Field     *Field
	Particles []Particle
	Time      float64 // noise time offset
	Frame     int

	noise   Noise
	rng     *rand.Rand
	bins    *Bins
	near    []int
	strokes []Stroke
}

// NewState creates a simulation and spawns Settings.Count particles.
func NewState(settings Settings, seed int64) (*State, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s := &State{Settings: settings}
	if err := s.Reseed(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Reseed discards all particles and noise and starts over from seed.
func (s *State) Reseed(seed int64) error {
	n, err := NewNoise(s.Settings.NoiseKind, seed)
	if err != nil {
		return err
	}
	s.noise = n
	s.rng = rand.New(rand.NewSource(seed))
	s.Time = 0
	s.Frame = 0
	s.layout()

	s.Particles = make([]Particle, 0, s.Settings.Count)
	for i := 0; i < s.Settings.Count; i++ {
		s.Particles = append(s.Particles, s.spawn())
	}
	s.Field.Generate(s.noise, s.Time)
	return nil
}

// Resize adapts the field and bins to a new canvas size. Particles are kept
// and wrapped into the new bounds.
func (s *State) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Settings.Width, s.Settings.Height = width, height
	s.layout()
	for i := range s.Particles {
		s.Particles[i].Wrap(width, height)
	}
	s.Field.Generate(s.noise, s.Time)
}

// Apply swaps in new settings, keeping particles and noise where possible.
func (s *State) Apply(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	noiseChanged := settings.NoiseKind != s.Settings.NoiseKind
	lifespanChanged := settings.Lifespan != s.Settings.Lifespan
	s.Settings = settings
	if noiseChanged {
		n, err := NewNoise(settings.NoiseKind, s.rng.Int63())
		if err != nil {
			return err
		}
		s.noise = n
	}
	s.layout()
	for i := range s.Particles {
		s.Particles[i].Radius = settings.Radius
		s.Particles[i].Vel = Limit(s.Particles[i].Vel, settings.MaxSpeed)
		s.Particles[i].Wrap(settings.Width, settings.Height)
	}
	if lifespanChanged {
		s.SetLifespan(settings.Lifespan)
	}
	if len(s.Particles) > settings.Count {
		s.Particles = s.Particles[:settings.Count]
	}
	for len(s.Particles) < settings.Count {
		s.Particles = append(s.Particles, s.spawn())
	}
	s.Field.Generate(s.noise, s.Time)
	return nil
}

func (s *State) layout() {
	st := s.Settings
	f := NewField(st.Width, st.Height, st.Resolution)
	f.Increment = st.Increment
	f.Magnitude = st.Magnitude
	if st.Curl > 0 {
		f.Curl = st.Curl
	}
	s.Field = f
	s.bins = NewBins(st.Width, st.Height, st.Flock.Reach())
}

// Step runs one frame: regenerate the flow field, then advance every particle.
func (s *State) Step(in Input) []Stroke {
	if s.Settings.Flow {
		s.Field.Generate(s.noise, s.Time)
		s.Time += s.Settings.TimeStep
	}
	return s.Advance(in)
}

// Advance moves every particle one frame against the current field and
// returns one stroke per particle still alive. The returned slice is reused
// by the next call.
func (s *State) Advance(in Input) []Stroke {
	st := s.Settings
	ps := s.Particles

	// Forces read positions and velocities from before this frame; only Acc changes here.
	if st.Flocking {
		s.bins.Build(ps)
	}
	for i := range ps {
		p := &ps[i]
		if st.Flow {
			p.ApplyForce(s.Field.Lookup(p.Pos))
		}
		if st.Pointer.repels() {
			p.ApplyForce(Repel(*p, in, st.Pointer.RepelRadius, st.Pointer.RepelStrength))
		}
		if st.Pointer.attracts() {
			p.ApplyForce(Attract(*p, in, st.Pointer.AttractRadius, st.Pointer.AttractStrength, st.MaxSpeed, st.MaxForce))
		}
		if st.Flocking {
			s.near = s.bins.Near(s.near[:0], p.Pos)
			p.ApplyForce(Flock(ps, i, s.near, st.Flock, st.MaxSpeed, st.MaxForce))
		}
	}

	s.strokes = s.strokes[:0]
	alive := 0
	for i := range ps {
		p := &ps[i]
		p.Integrate(st.MaxSpeed, st.DT)
		wrapped := p.Wrap(st.Width, st.Height)

		if st.Lifespan && p.MaxLife > 0 {
			p.Life--
			if !p.Alive() {
				continue
			}
		}

		ps[alive] = *p
		alive++
		s.strokes = append(s.strokes, Stroke{
			From:    p.Prev,
			To:      p.Pos,
			Heading: p.Heading(),
			Radius:  p.Radius,
			Color:   fade(p.Color, p.Age()),
			Wrapped: wrapped,
		})
	}
	s.Particles = ps[:alive]

	if st.Lifespan {
		for n := 0; n < st.SpawnRate && len(s.Particles) < st.Count; n++ {
			s.Particles = append(s.Particles, s.spawn())
		}
	}
	s.Frame++
	return s.strokes
}

// spawn creates a particle at a random position with a random heading.
func (s *State) spawn() Particle {
	st := s.Settings
	pos := r2.Vec{X: s.rng.Float64() * st.Width, Y: s.rng.Float64() * st.Height}
	lo := math.Min(st.MinStartSpeed, st.MaxSpeed)
	speed := lo + s.rng.Float64()*(st.MaxSpeed-lo)
	p := Particle{
		Pos:    pos,
		Prev:   pos,
		Vel:    FromAngle(s.rng.Float64()*2*math.Pi, speed),
		Radius: st.Radius,
		Color: color.NRGBA{
			R: uint8(100 + s.rng.Intn(156)),
			G: uint8(150 + s.rng.Intn(106)),
			B: 255,
			A: 180,
		},
	}
	if st.Lifespan && st.MaxLife > 0 {
		p.MaxLife = s.randomLife()
		p.Life = p.MaxLife
	}
	return p
}

func (s *State) randomLife() int {
	lo, hi := s.Settings.MinLife, s.Settings.MaxLife
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// fade scales the alpha of c by f.
func fade(c color.NRGBA, f float64) color.NRGBA {
	if f >= 1 {
		return c
	}
	c.A = uint8(float64(c.A) * math.Max(0, f))
	return c
}

// MeanSpeed returns the average particle speed.
func (s *State) MeanSpeed() float64 {
	if len(s.Particles) == 0 {
		return 0
	}
	var sum float64
	for i := range s.Particles {
		sum += r2.Norm(s.Particles[i].Vel)
	}
	return sum / float64(len(s.Particles))
}

// SetLifespan switches finite lifespans on or off. Living particles receive
// a fresh life when switched on and become immortal when switched off.
func (s *State) SetLifespan(on bool) {
	s.Settings.Lifespan = on
	for i := range s.Particles {
		p := &s.Particles[i]
		if on && s.Settings.MaxLife > 0 {
			p.MaxLife = s.randomLife()
			p.Life = p.MaxLife
		} else {
			p.MaxLife, p.Life = 0, 0
		}
	}
}
