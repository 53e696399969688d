// Package emit turns assembled loops into SVG path data.
//
// Arcs are written with the large-arc flag fixed at 0: an arc spanning more
// than π is drawn as two commands through its angular midpoint, which also
// covers full circles whose start and end coincide.
package emit

import (
	"fmt"
	"math"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/logging"
	"github.com/chazu/facesvg/pkg/path"
)

// ArcParams is the SVG elliptical-arc parameter set for one Arc.
type ArcParams struct {
	RX       float64
	RY       float64
	Rotation float64  // degrees of the x vertex from the sheet x axis, in [0, 360)
	Mid      geom.Vec // ellipse point at the angular midpoint
	Large    bool     // span exceeds π, emit two commands
	Sweep    int      // 1 when the arc turns clockwise in SVG (y down) space
}

// Parameterize computes the drawing parameters for a.
//
// A circle (orthogonal axes of equal length) keeps its radius and has no
// rotation. Otherwise the principal vertices are found from the conjugate
// semi-diameters f1, f2 with cot(2θ) = (f1·f1 - f2·f2) / (2 f1·f2).
func Parameterize(a path.Arc) ArcParams {
	end := path.NormalizeEndAngle(a.EndAngle)
	f1, f2 := a.XAxis, a.YAxis

	var p ArcParams
	var vx geom.Vec
	if math.Abs(f1.Dot(f2)) < 1e-9 && geom.Same(f1.Length(), f2.Length(), geom.Tolerance) {
		vx = f1
		p.RX, p.RY = a.Radius, a.Radius
	} else {
		theta := 0.5 * math.Atan2(2*f1.Dot(f2), f1.Dot(f1)-f2.Dot(f2))
		vx = relPoint(f1, f2, theta)
		vy := relPoint(f1, f2, theta+math.Pi/2)
		p.RX, p.RY = vx.Length(), vy.Length()
	}

	if vx.X == 0 {
		p.Rotation = 90
	} else {
		p.Rotation = math.Mod(math.Atan2(vx.Y, vx.X)*180/math.Pi, 360)
		if p.Rotation < 0 {
			p.Rotation += 360
		}
		if p.Rotation == 0 {
			p.Rotation = 0 // drop the sign of -0
		}
	}

	p.Mid = a.Point((a.StartAngle + end) / 2)
	p.Large = end-a.StartAngle > math.Pi

	// Reported start honours reversal; the midpoint is the same either way.
	s := a.Start().Sub(a.Center)
	m := p.Mid.Sub(a.Center)
	if m.Dot(geom.Perp(s)) > 0 {
		p.Sweep = 1
	}

	logging.Logger().Debug("emit: arc parameters",
		"center", a.Center, "rx", p.RX, "ry", p.RY, "rot", p.Rotation,
		"start", a.StartAngle, "end", end, "large", p.Large, "sweep", p.Sweep)
	return p
}

func relPoint(f1, f2 geom.Vec, theta float64) geom.Vec {
	return f1.MulScalar(math.Cos(theta)).Add(f2.MulScalar(math.Sin(theta)))
}

const arcFormat = " A %0.3f %0.3f %0.3f 0 %d %0.3f %0.3f"

// arcData returns the arc command(s) for a, and the command end points.
func arcData(a path.Arc) (string, []geom.Vec) {
	p := Parameterize(a)
	end := a.End()
	last := fmt.Sprintf(arcFormat, p.RX, p.RY, p.Rotation, p.Sweep, end.X, end.Y)
	if p.Large {
		first := fmt.Sprintf(arcFormat, p.RX, p.RY, p.Rotation, p.Sweep, p.Mid.X, p.Mid.Y)
		return first + last, []geom.Vec{p.Mid, end}
	}
	return last, []geom.Vec{end}
}
