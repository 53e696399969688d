// Package tessellate flattens loops into closed polylines that the region
// kernel can consume. Arcs are sampled at a fixed maximum angular step, so
// the flattened extent of a loop includes the bulge of its arcs.
package tessellate

import (
	"math"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/kernel"
	"github.com/chazu/facesvg/pkg/path"
)

// MaxArcStep is the largest angle between consecutive samples of an arc.
const MaxArcStep = math.Pi / 32

// Flatten returns the loop as a closed polyline. Each part contributes its
// start point and, for arcs, the interior samples; the end point is left to
// the next part.
func Flatten(name string, loop path.Loop) *kernel.Outline {
	o := &kernel.Outline{Name: name}
	for _, p := range loop {
		switch v := p.(type) {
		case path.Segment:
			o.Points = append(o.Points, v.From)
		case path.Arc:
			o.Points = append(o.Points, arcSamples(v)...)
		}
	}
	return o
}

// arcSamples returns the arc's points from its reported start up to, but
// not including, its reported end.
func arcSamples(a path.Arc) []geom.Vec {
	start, end := a.StartAngle, path.NormalizeEndAngle(a.EndAngle)
	if a.Reversed() {
		start, end = end, start
	}
	n := int(math.Ceil(math.Abs(end-start) / MaxArcStep))
	if n < 2 {
		n = 2
	}
	pts := make([]geom.Vec, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, a.Point(start+(end-start)*float64(i)/float64(n)))
	}
	return pts
}

// Extent is the bounding box of the flattened loop.
func Extent(loop path.Loop) geom.Bounds {
	return Flatten("", loop).Bounds()
}
