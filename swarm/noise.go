package swarm

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Noise kinds accepted by NewNoise.
const (
	NoisePerlin  = "perlin"
	NoiseSimplex = "simplex"
)

// Noise is a coherent 3-D noise source. Eval3 returns values in [0, 1].
type Noise interface {
	Eval3(x, y, z float64) float64
}

// Perlin wraps go-perlin gradient noise.
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin creates Perlin noise seeded with seed.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(2, 2, 3, seed)}
}

// Eval3 samples the noise and remaps it from [-1, 1] to [0, 1].
func (n *Perlin) Eval3(x, y, z float64) float64 {
	return clamp01((n.p.Noise3D(x, y, z) + 1) / 2)
}

// Simplex wraps OpenSimplex noise.
type Simplex struct {
	s opensimplex.Noise
}

// NewSimplex creates normalized OpenSimplex noise seeded with seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{s: opensimplex.NewNormalized(seed)}
}

// Eval3 samples the noise.
func (n *Simplex) Eval3(x, y, z float64) float64 {
	return clamp01(n.s.Eval3(x, y, z))
}

// NewNoise returns the noise source named by kind.
func NewNoise(kind string, seed int64) (Noise, error) {
	switch kind {
	case NoisePerlin, "":
		return NewPerlin(seed), nil
	case NoiseSimplex:
		return NewSimplex(seed), nil
	}
	return nil, fmt.Errorf("unknown noise kind %q", kind)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
