package relief

import (
	"math"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/logging"
	"github.com/chazu/facesvg/pkg/path"
)

const (
	// cornerScale places the arc center on the corner bisector at radius
	// distance: each leg has length r·√½.
	cornerScale = 0.7071

	// offsetLength separates the arc from the trimmed edges.
	offsetLength = 0.02

	// replayTolerance is the stitching tolerance for relieved loops. The
	// offset segments are shorter than geom.Tolerance.
	replayTolerance = 0.001
)

var replay = path.Assembler{Tolerance: replayTolerance}

// Symmetric relieves every corner of a rectangular loop with an arc of
// radius opts.Radius() that sweeps π through the corner, joined to the
// trimmed edges by short offset segments.
func Symmetric(loop path.Loop, opts Options) (path.Loop, error) {
	corners, ok := Rectangle(loop)
	if !ok {
		return nil, &NotRectangularError{Edges: len(loop)}
	}
	r := opts.Radius()
	leg := cornerScale * r
	for _, s := range loop.Segments() {
		if l := s.Length(); l < 4*leg+opts.MinClearance {
			return nil, &EdgeTooShortError{Radius: r, Length: l}
		}
	}

	parts := make([]path.Part, 0, 16)
	for _, s := range loop.Segments() {
		d := s.Direction().MulScalar(2 * leg)
		parts = append(parts, path.Segment{From: s.From.Add(d), To: s.To.Sub(d)})
	}
	for _, c := range corners {
		parts = append(parts, cornerArc(c, r, leg)...)
	}

	out, err := replay.Assemble(parts)
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("relief: symmetric", "radius", r, "parts", len(out))
	return out, nil
}

// cornerArc returns the two offset segments and the relief arc for c.
func cornerArc(c Corner, r, leg float64) []path.Part {
	v0 := geom.WithLength(c.End0.Sub(c.Common), leg)
	v1 := geom.WithLength(c.End1.Sub(c.Common), leg)
	center := c.Common.Add(v0).Add(v1)
	p0 := c.Common.Add(v0.MulScalar(2))
	p1 := c.Common.Add(v1.MulScalar(2))
	off := geom.WithLength(c.Common.Sub(center), offsetLength)

	// The y axis points from the center towards the corner whichever way
	// the corner turns, so angles 0..π run p0, corner, p1.
	n := math.Copysign(1, geom.Cross(v0, v1))
	x := geom.Unit(p0.Sub(center))
	y := geom.Perp(x).MulScalar(-n)

	arc := path.NewArc("", center.Add(off), r, x.MulScalar(r), y.MulScalar(r), 0, math.Pi)
	return []path.Part{
		path.Segment{From: p0, To: p0.Add(off)},
		arc,
		path.Segment{From: p1.Add(off), To: p1},
	}
}

// Auto applies Symmetric when the loop qualifies and reports whether it did.
// Non-rectangles, loops larger than opts.AutoMaxSize and loops with edges
// too short are returned unchanged without error.
func Auto(loop path.Loop, opts Options) (path.Loop, bool) {
	if _, ok := Rectangle(loop); !ok {
		return loop, false
	}
	b := loop.Endpoints()
	if opts.AutoMaxSize > 0 && math.Max(b.Width(), b.Height()) > opts.AutoMaxSize {
		logging.Logger().Debug("relief: auto skip, loop too large", "bounds", b.String())
		return loop, false
	}
	out, err := Symmetric(loop, opts)
	if err != nil {
		logging.Logger().Debug("relief: auto skip", "err", err)
		return loop, false
	}
	return out, true
}
