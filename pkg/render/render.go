// Package render draws a laid-out sheet in formats other than SVG: DXF for
// CAM tools that do not read Shaper SVG, and a PNG preview.
package render

import (
	"math"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/profile"
)

// Face is one placed profile: its outer loop first, then its holes, all in
// sheet coordinates.
type Face struct {
	Name  string
	Kind  profile.FaceKind
	Depth float64
	Loops []path.Loop
}

// loopKind returns the cut classification of loop i of f.
func (f Face) loopKind(i int) profile.LoopKind {
	p := profile.Profile{Kind: f.Kind}
	outer, inner := p.LoopKinds()
	if i == 0 {
		return outer
	}
	return inner
}

// circleTolerance bounds how far an arc's axes may stray from an
// orthogonal, equal-length pair before it is treated as an ellipse.
const circleTolerance = 1e-9

// circular reports whether a is a circular arc, and whether its local
// basis is mirrored (angles run clockwise on the sheet).
func circular(a path.Arc) (ok, mirrored bool) {
	x, y := a.XAxis, a.YAxis
	if math.Abs(x.Dot(y)) > circleTolerance*a.Radius*a.Radius {
		return false, false
	}
	if !geom.Same(x.Length(), y.Length(), geom.Tolerance) {
		return false, false
	}
	return true, geom.Cross(x, y) < 0
}

// sheetAngles returns the counterclockwise start and end angles, in
// radians from the sheet +x axis, that cover a circular arc.
func sheetAngles(a path.Arc, mirrored bool) (start, end float64) {
	phi := math.Atan2(a.XAxis.Y, a.XAxis.X)
	s, e := a.StartAngle, path.NormalizeEndAngle(a.EndAngle)
	if mirrored {
		return phi - e, phi - s
	}
	return phi + s, phi + e
}
