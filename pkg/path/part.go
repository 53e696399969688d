// Package path holds the boundary primitives of a captured face and the
// assembler that stitches an unordered bag of them into one closed loop.
package path

import (
	"fmt"
	"math"

	"github.com/chazu/facesvg/pkg/geom"
)

// Part is one boundary primitive: a Segment or an Arc.
// Parts are values; Reverse and Translate return new parts.
type Part interface {
	Start() geom.Vec
	End() geom.Vec
	Reverse() Part
	Translate(v geom.Vec) Part
	part() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Segment
// ---------------------------------------------------------------------------

// Segment is a straight edge from From to To.
type Segment struct {
	From geom.Vec
	To   geom.Vec
}

func (Segment) part() {}

// Line returns the segment (x1, y1) -> (x2, y2).
func Line(x1, y1, x2, y2 float64) Segment {
	return Segment{From: geom.V(x1, y1), To: geom.V(x2, y2)}
}

func (s Segment) Start() geom.Vec { return s.From }
func (s Segment) End() geom.Vec   { return s.To }

// Length is the distance between the endpoints.
func (s Segment) Length() float64 {
	return s.To.Sub(s.From).Length()
}

// Direction is the unit vector from From to To.
func (s Segment) Direction() geom.Vec {
	return geom.Unit(s.To.Sub(s.From))
}

func (s Segment) Reverse() Part {
	return Segment{From: s.To, To: s.From}
}

func (s Segment) Translate(v geom.Vec) Part {
	return Segment{From: s.From.Add(v), To: s.To.Add(v)}
}

func (s Segment) String() string {
	return fmt.Sprintf("Segment(%s -> %s)", fmtPoint(s.From), fmtPoint(s.To))
}

// ---------------------------------------------------------------------------
// Arc
// ---------------------------------------------------------------------------

// Arc is a circular or elliptical arc. XAxis and YAxis are conjugate
// semi-diameters of the ellipse: for a circle they are orthogonal and both
// have length Radius. Angles are radians in that local basis, and the arc
// runs from StartAngle to EndAngle with increasing angle unless reversed.
type Arc struct {
	ID         string // identity shared by fragments of the same arc, may be empty
	Center     geom.Vec
	Radius     float64
	XAxis      geom.Vec
	YAxis      geom.Vec
	StartAngle float64
	EndAngle   float64

	reversed bool
}

func (Arc) part() {}

// NewArc builds an arc and normalizes its end angle.
func NewArc(id string, center geom.Vec, radius float64, xaxis, yaxis geom.Vec, start, end float64) Arc {
	return Arc{
		ID:         id,
		Center:     center,
		Radius:     radius,
		XAxis:      xaxis,
		YAxis:      yaxis,
		StartAngle: start,
		EndAngle:   NormalizeEndAngle(end),
	}
}

// CircularArc builds a circular arc with the axes aligned to the sheet.
func CircularArc(id string, center geom.Vec, radius, start, end float64) Arc {
	return NewArc(id, center, radius, geom.V(radius, 0), geom.V(0, radius), start, end)
}

// Circle is a full circular revolution starting on the +x side.
func Circle(id string, center geom.Vec, radius float64) Arc {
	return CircularArc(id, center, radius, 0, 2*math.Pi)
}

// Point returns the ellipse point at angle theta.
func (a Arc) Point(theta float64) geom.Vec {
	return a.Center.Add(a.XAxis.MulScalar(math.Cos(theta))).Add(a.YAxis.MulScalar(math.Sin(theta)))
}

// Span is EndAngle - StartAngle.
func (a Arc) Span() float64 {
	return a.EndAngle - a.StartAngle
}

// Reversed reports whether Start and End are swapped.
func (a Arc) Reversed() bool { return a.reversed }

func (a Arc) Start() geom.Vec {
	if a.reversed {
		return a.Point(a.EndAngle)
	}
	return a.Point(a.StartAngle)
}

func (a Arc) End() geom.Vec {
	if a.reversed {
		return a.Point(a.StartAngle)
	}
	return a.Point(a.EndAngle)
}

func (a Arc) Reverse() Part {
	a.reversed = !a.reversed
	return a
}

func (a Arc) Translate(v geom.Vec) Part {
	a.Center = a.Center.Add(v)
	return a
}

func (a Arc) String() string {
	return fmt.Sprintf("Arc(center %s r %.3f %.4f..%.4f)", fmtPoint(a.Center), a.Radius, a.StartAngle, a.EndAngle)
}

// NormalizeEndAngle folds an end angle reported past a full revolution back
// by 2π. Only values above 2π are touched; applying it twice is harmless for
// the angles the capture side produces (at most 4π).
func NormalizeEndAngle(a float64) float64 {
	if a > 2*math.Pi {
		return a - 2*math.Pi
	}
	return a
}

func fmtPoint(p geom.Vec) string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}
