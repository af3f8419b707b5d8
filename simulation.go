package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/olivierh59500/flowswarm/config"
	"github.com/olivierh59500/flowswarm/swarm"
	"github.com/olivierh59500/flowswarm/telemetry"
)

// View modes
const (
	ViewShapes = iota
	ViewField
	ViewTrails
	numViews
)

// Largest vertex batch before flushing; DrawTriangles indices are uint16.
const maxBatchVertices = 60000

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Simulation is the ebiten game wrapping the swarm state
type Simulation struct {
	cfg   *config.Config
	state *swarm.State
	log   *slog.Logger

	Paused       bool
	VisMode      int
	AutoPointer  bool
	SettingsPath string

	canvas  *ebiten.Image // persistent layer painted every tick
	strokes []swarm.Stroke
	orbit   *swarm.Orbit
	rng     *rand.Rand

	layoutW, layoutH int

	stats *telemetry.Collector
	last  telemetry.WindowStats

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewSimulation creates a new simulation instance
func NewSimulation(cfg *config.Config, seed int64, logger *slog.Logger) (*Simulation, error) {
	state, err := swarm.NewState(cfg.Settings(), seed)
	if err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:          cfg,
		state:        state,
		log:          logger,
		VisMode:      cfg.Screen.View,
		SettingsPath: "swarm.yaml",
		orbit:        swarm.NewOrbit(),
		rng:          rand.New(rand.NewSource(seed)),
		layoutW:      cfg.Screen.Width,
		layoutH:      cfg.Screen.Height,
		stats:        telemetry.NewCollector(cfg.Telemetry.Window),
	}
	s.newCanvas()
	return s, nil
}

// Update is called each tick by Ebitengine
func (s *Simulation) Update() error {
	// Handle input
	s.handleInput()

	if w, h := s.layoutW, s.layoutH; float64(w) != s.state.Settings.Width || float64(h) != s.state.Settings.Height {
		s.state.Resize(float64(w), float64(h))
		s.newCanvas()
		s.log.Debug("canvas resized", "width", w, "height", h)
	}

	if s.Paused {
		return nil
	}

	start := time.Now()
	s.strokes = s.state.Step(s.pointer())
	if stats, ok := s.stats.Sample(s.state, time.Since(start)); ok {
		s.last = stats
		if s.cfg.Telemetry.LogStats {
			s.log.Info("stats", "window", stats)
		}
	}

	s.paint()
	return nil
}

// Draw is called each frame by Ebitengine
func (s *Simulation) Draw(screen *ebiten.Image) {
	screen.DrawImage(s.canvas, nil)

	st := s.state.Settings
	msg := fmt.Sprintf("FPS %0.f  particles %d  mean speed %.2f  view %d\nflow %v  flock %v  lifespan %v  pointer %s",
		ebiten.ActualFPS(), len(s.state.Particles), s.last.MeanSpeed, s.VisMode,
		st.Flow, st.Flocking, st.Lifespan, st.Pointer.Mode)
	if s.Paused {
		msg += "\nPAUSED"
	}
	ebitenutil.DebugPrint(screen, msg)
}

// Layout returns the screen size
func (s *Simulation) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		s.layoutW, s.layoutH = outsideWidth, outsideHeight
	}
	return s.layoutW, s.layoutH
}

// handleInput processes keyboard toggles
func (s *Simulation) handleInput() {
	st := &s.state.Settings
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.Paused = !s.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := s.state.Reseed(s.rng.Int63()); err != nil {
			s.log.Error("reseed failed", "error", err)
		}
		s.clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		st.Flow = !st.Flow
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		st.Flocking = !st.Flocking
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		s.state.SetLifespan(!st.Lifespan)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		st.Pointer.Mode = nextPointerMode(st.Pointer.Mode)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		s.AutoPointer = !s.AutoPointer
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.VisMode = (s.VisMode + 1) % numViews
		s.clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		s.clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		s.saveSettings(s.SettingsPath)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		s.loadSettings(s.SettingsPath)
	}
}

// pointer polls the cursor, or the orbit when auto mode is on
func (s *Simulation) pointer() swarm.Input {
	w, h := s.state.Settings.Width, s.state.Settings.Height
	if s.AutoPointer {
		return s.orbit.Next(w, h)
	}
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	return swarm.Input{
		X:       x,
		Y:       y,
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Inside:  x > 0 && x < w && y > 0 && y < h,
	}
}

func nextPointerMode(mode string) string {
	modes := []string{swarm.PointerOff, swarm.PointerRepel, swarm.PointerAttract, swarm.PointerBoth}
	for i, m := range modes {
		if m == mode {
			return modes[(i+1)%len(modes)]
		}
	}
	return swarm.PointerRepel
}

// paint draws this tick's strokes onto the persistent canvas
func (s *Simulation) paint() {
	switch s.VisMode {
	case ViewShapes:
		s.fadeCanvas()
		s.drawTriangles()
	case ViewField:
		s.canvas.Fill(color.Black)
		s.drawField()
		for _, st := range s.strokes {
			vector.DrawFilledCircle(s.canvas, float32(st.To.X), float32(st.To.Y), float32(st.Radius*0.7), st.Color, true)
		}
	case ViewTrails:
		s.fadeCanvas()
		for _, st := range s.strokes {
			if st.Wrapped {
				continue
			}
			vector.StrokeLine(s.canvas, float32(st.From.X), float32(st.From.Y), float32(st.To.X), float32(st.To.Y), 1, headingColor(st.Heading, st.Color.A), true)
		}
	}
}

// fadeCanvas paints translucent black over the canvas so old frames leave trails
func (s *Simulation) fadeCanvas() {
	b := s.canvas.Bounds()
	fade := color.NRGBA{A: s.cfg.Screen.TrailFade}
	vector.DrawFilledRect(s.canvas, 0, 0, float32(b.Dx()), float32(b.Dy()), fade, false)
}

// drawTriangles draws every particle as a triangle pointing along its heading
func (s *Simulation) drawTriangles() {
	var path vector.Path
	s.vertices, s.indices = s.vertices[:0], s.indices[:0]
	for _, st := range s.strokes {
		r := float32(st.Radius)
		sin, cos := math.Sincos(st.Heading + math.Pi/2)
		sn, cs := float32(sin), float32(cos)
		x, y := float32(st.To.X), float32(st.To.Y)
		// Local vertices (0,-2r), (-r,2r), (r,2r) rotated by heading+90°
		rot := func(lx, ly float32) (float32, float32) {
			return x + lx*cs - ly*sn, y + lx*sn + ly*cs
		}

		path = vector.Path{}
		path.MoveTo(rot(0, -2*r))
		path.LineTo(rot(-r, 2*r))
		path.LineTo(rot(r, 2*r))
		path.Close()

		n := len(s.vertices)
		s.vertices, s.indices = path.AppendVerticesAndIndicesForFilling(s.vertices, s.indices)
		c := st.Color
		for i := n; i < len(s.vertices); i++ {
			v := &s.vertices[i]
			v.SrcX, v.SrcY = 1, 1
			v.ColorR = float32(c.R) / 0xff
			v.ColorG = float32(c.G) / 0xff
			v.ColorB = float32(c.B) / 0xff
			v.ColorA = float32(c.A) / 0xff
		}
		if len(s.vertices) > maxBatchVertices {
			s.flushTriangles()
		}
	}
	s.flushTriangles()
}

func (s *Simulation) flushTriangles() {
	if len(s.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	s.canvas.DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
	s.vertices, s.indices = s.vertices[:0], s.indices[:0]
}

// drawField draws one line per flow cell, scaled up to be visible
func (s *Simulation) drawField() {
	f := s.state.Field
	res := f.Resolution
	scale := res * 0.45 / math.Max(f.Magnitude, 1e-9)
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			v := f.At(col, row)
			cx := (float64(col) + 0.5) * res
			cy := (float64(row) + 0.5) * res
			c := headingColor(swarm.Heading(v), 90)
			vector.StrokeLine(s.canvas, float32(cx), float32(cy), float32(cx+v.X*scale), float32(cy+v.Y*scale), 1, c, true)
		}
	}
}

// headingColor maps a heading to a hue
func headingColor(heading float64, alpha uint8) color.NRGBA {
	deg := math.Mod(heading*180/math.Pi+360, 360)
	r, g, b := colorful.Hsv(deg, 0.55, 1).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

func (s *Simulation) newCanvas() {
	s.canvas = ebiten.NewImage(int(s.state.Settings.Width), int(s.state.Settings.Height))
	s.clear()
}

func (s *Simulation) clear() {
	s.canvas.Fill(color.Black)
}

// saveSettings writes the live settings to YAML
func (s *Simulation) saveSettings(path string) {
	s.cfg.SetSettings(s.state.Settings)
	s.cfg.Screen.View = s.VisMode
	if err := s.cfg.WriteYAML(path); err != nil {
		s.log.Error("saving settings", "path", path, "error", err)
		return
	}
	s.log.Info("settings saved", "path", path)
}

// loadSettings reads settings from YAML and applies them in place
func (s *Simulation) loadSettings(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		s.log.Error("loading settings", "path", path, "error", err)
		return
	}
	settings := cfg.Settings()
	// The window keeps its current size
	settings.Width, settings.Height = s.state.Settings.Width, s.state.Settings.Height
	if err := s.state.Apply(settings); err != nil {
		s.log.Error("applying settings", "path", path, "error", err)
		return
	}
	s.cfg = cfg
	s.VisMode = cfg.Screen.View
	s.clear()
	s.log.Info("settings loaded", "path", path)
}
