package relief

import (
	"math"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/logging"
	"github.com/chazu/facesvg/pkg/path"
)

// Asymmetric relieves the edge at index edge of a rectangular inner loop and
// its opposite edge. Each gets a half circle of radius opts.Radius() at both
// ends, bulging away from the hole, and the straight waste under each half
// circle is removed. The adjacent edges are left untouched.
func Asymmetric(loop path.Loop, edge int, inner bool, opts Options) (path.Loop, error) {
	if !inner {
		return nil, &NotInnerLoopError{}
	}
	if _, ok := Rectangle(loop); !ok || edge < 0 || edge >= len(loop) {
		return nil, &NotRectangularError{Edges: len(loop)}
	}
	r := opts.Radius()
	segs := loop.Segments()
	target := []int{edge, (edge + 2) % 4}
	for _, i := range target {
		if l := segs[i].Length(); l < opts.MinClearance+4*r {
			return nil, &EdgeTooShortError{Radius: r, Length: l}
		}
	}

	// The hole lies to the left of a counter-clockwise loop.
	outward := -1.0
	if loop.SignedArea() < 0 {
		outward = 1.0
	}

	parts := make([]path.Part, 0, 10)
	for i, s := range segs {
		if i != target[0] && i != target[1] {
			parts = append(parts, s)
			continue
		}
		u := s.Direction()
		b := geom.Perp(u).MulScalar(outward)
		parts = append(parts,
			endArc(s.From, u, b, r),
			path.Segment{From: s.From.Add(u.MulScalar(2 * r)), To: s.To.Sub(u.MulScalar(2 * r))},
			endArc(s.To, u.Neg(), b, r),
		)
	}

	out, err := replay.Assemble(parts)
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("relief: asymmetric", "edge", edge, "radius", r, "parts", len(out))
	return out, nil
}

// endArc is the half circle at end point s of an edge running along u. It
// starts at s+2ru and ends at s, passing through the side b.
func endArc(s, u, b geom.Vec, r float64) path.Arc {
	return path.NewArc("", s.Add(u.MulScalar(r)), r, u.MulScalar(r), b.MulScalar(r), 0, math.Pi)
}
