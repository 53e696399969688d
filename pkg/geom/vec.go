// Package geom provides the 2D vector and bounding-box types shared by the
// facesvg packages. Vectors are sdfx v2.Vec values; equality between points is
// always tolerance based and spelled out at the call site with ApproxEq.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Tolerance is the point-equality epsilon used when stitching loops.
// Captured geometry carries small numerical noise, and small curved features
// need a looser match than the host's own modelling tolerance.
const Tolerance = 0.025

// Vec is a 2D point or vector in sheet units.
type Vec = v2.Vec

// V returns the vector (x, y).
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// ApproxEq reports whether a and b are closer than eps.
func ApproxEq(a, b Vec, eps float64) bool {
	return a.Sub(b).Length() < eps
}

// Same reports whether two scalars differ by less than eps.
func Same(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Perp rotates v by +90 degrees: (x, y) -> (-y, x).
func Perp(v Vec) Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// WithLength returns v scaled to the given length. The zero vector is
// returned unchanged.
func WithLength(v Vec, length float64) Vec {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(length / l)
}

// Unit returns v scaled to length 1.
func Unit(v Vec) Vec {
	return WithLength(v, 1)
}
