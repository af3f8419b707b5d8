package swarm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Limit scales v down to max when it is longer than max.
func Limit(v r2.Vec, max float64) r2.Vec {
	m2 := r2.Norm2(v)
	if m2 <= max*max || m2 == 0 {
		return v
	}
	return r2.Scale(max/math.Sqrt(m2), v)
}

// Normalize returns the unit vector along v, or the zero vector when v is zero.
func Normalize(v r2.Vec) r2.Vec {
	m := r2.Norm(v)
	if m == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/m, v)
}

// SetMag returns v rescaled to length mag.
func SetMag(v r2.Vec, mag float64) r2.Vec {
	return r2.Scale(mag, Normalize(v))
}

// Heading returns the angle of v in radians.
func Heading(v r2.Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle returns a vector of length mag pointing along angle.
func FromAngle(angle, mag float64) r2.Vec {
	return r2.Vec{X: math.Cos(angle) * mag, Y: math.Sin(angle) * mag}
}

// Dist returns the distance between two points.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Remap maps v linearly from [lo1, hi1] onto [lo2, hi2].
func Remap(v, lo1, hi1, lo2, hi2 float64) float64 {
	if hi1 == lo1 {
		return lo2
	}
	return lo2 + (v-lo1)/(hi1-lo1)*(hi2-lo2)
}
