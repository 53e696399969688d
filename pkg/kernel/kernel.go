// Package kernel defines the abstract 2D region kernel. Flattened loops are
// turned into regions so that containment and overlap can be checked
// without caring how the region is represented.
// The sdfx implementation lives in kernel/sdfx.
package kernel

import "github.com/chazu/facesvg/pkg/geom"

// Region is an opaque handle to a kernel region.
type Region interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [2]float64)
}

// Kernel is the abstract region kernel interface.
type Kernel interface {
	// Primitives
	Polygon(o *Outline) (Region, error)

	// Queries
	Distance(r Region, p geom.Vec) float64 // signed, negative inside
	Inside(r Region, p geom.Vec) bool
}
