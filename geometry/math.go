// Package geometry provides the small float helpers and intersection tests
// used by the routing code.
package geometry

import (
	"math"

	"grafed/core"
)

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Within reports whether a and b differ by at most tolerance on both axes.
func Within(a, b core.Point, tolerance float64) bool {
	return Abs(a.X-b.X) <= tolerance && Abs(a.Y-b.Y) <= tolerance
}
