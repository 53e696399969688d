package kernel

import "github.com/chazu/facesvg/pkg/geom"

// Outline is a closed polyline; the last point connects back to the first.
type Outline struct {
	Name   string // loop label, used in diagnostics
	Points []geom.Vec
}

// VertexCount returns the number of points.
func (o *Outline) VertexCount() int {
	return len(o.Points)
}

// IsEmpty reports whether the outline has too few points to enclose area.
func (o *Outline) IsEmpty() bool {
	return len(o.Points) < 3
}

// Bounds returns the bounding box of the points.
func (o *Outline) Bounds() geom.Bounds {
	return geom.NewBounds(o.Points...)
}

// Area is the signed shoelace area, positive for counter-clockwise.
func (o *Outline) Area() float64 {
	var sum float64
	for i, p := range o.Points {
		sum += geom.Cross(p, o.Points[(i+1)%len(o.Points)])
	}
	return sum / 2
}
