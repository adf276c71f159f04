package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number is anything Min/Max/Clamp can compare
type Number interface {
	constraints.Integer | constraints.Float
}

// Lerp linearly interpolates between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep interpolates between a and b with a t²(3−2t) ease so the
// curve has zero slope at both ends
func Smoothstep(a, b, t float64) float64 {
	return Lerp(a, b, t*t*(3-2*t))
}

// Min returns the smaller of a and b
func Min[T Number](a, b T) T {
	if a > b {
		return b
	}
	return a
}

// Max returns the larger of a and b
func Max[T Number](a, b T) T {
	if a < b {
		return b
	}
	return a
}

// Clamp limits v to [lo, hi]
func Clamp[T Number](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}

// Mod is a floating point modulo whose result is always in [0, m)
func Mod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}
