package relief

import (
	"math"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/path"
)

// rightAngleTolerance bounds |cos| of the corner angle between unit edges.
const rightAngleTolerance = 0.001

// Corner is one rectangle corner: the shared point and the far ends of the
// edge arriving at it and the edge leaving it.
type Corner struct {
	Common geom.Vec
	End0   geom.Vec
	End1   geom.Vec
}

// Rectangle returns the four corners of loop, or false when the loop is not
// four segments meeting at right angles. Corner i joins edge i and edge i+1.
func Rectangle(loop path.Loop) ([]Corner, bool) {
	segs := loop.Segments()
	if len(loop) != 4 || len(segs) != 4 {
		return nil, false
	}
	corners := make([]Corner, 0, 4)
	for i, s0 := range segs {
		s1 := segs[(i+1)%4]
		c := Corner{Common: s0.To, End0: s0.From, End1: s1.To}
		d0 := geom.Unit(c.End0.Sub(c.Common))
		d1 := geom.Unit(c.End1.Sub(c.Common))
		if math.Abs(d0.Dot(d1)) >= rightAngleTolerance {
			return nil, false
		}
		corners = append(corners, c)
	}
	return corners, true
}

// FindEdge returns the index of the segment of loop joining a and b in
// either direction.
func FindEdge(loop path.Loop, a, b geom.Vec, eps float64) (int, bool) {
	for i, p := range loop {
		s, ok := p.(path.Segment)
		if !ok {
			continue
		}
		if geom.ApproxEq(s.From, a, eps) && geom.ApproxEq(s.To, b, eps) ||
			geom.ApproxEq(s.From, b, eps) && geom.ApproxEq(s.To, a, eps) {
			return i, true
		}
	}
	return -1, false
}
