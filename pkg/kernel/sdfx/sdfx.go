// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// insideEpsilon treats points within this distance of the boundary as
// inside, so a hole touching its outer loop is not flagged.
const insideEpsilon = 1e-6

// sdfxRegion wraps an sdf.SDF2 to implement kernel.Region.
type sdfxRegion struct {
	s sdf.SDF2
}

// BoundingBox returns the axis-aligned bounding box.
func (r *sdfxRegion) BoundingBox() (min, max [2]float64) {
	bb := r.s.BoundingBox()
	min = [2]float64{bb.Min.X, bb.Min.Y}
	max = [2]float64{bb.Max.X, bb.Max.Y}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF2 from a kernel.Region.
func unwrap(r kernel.Region) sdf.SDF2 {
	return r.(*sdfxRegion).s
}

// wrap creates a kernel.Region from an sdf.SDF2.
func wrap(s sdf.SDF2) kernel.Region {
	return &sdfxRegion{s: s}
}

// Polygon builds a region from a closed outline. Orientation does not
// matter.
func (k *SdfxKernel) Polygon(o *kernel.Outline) (kernel.Region, error) {
	if o.IsEmpty() {
		return nil, fmt.Errorf("sdfx: outline %q has %d points, need at least 3", o.Name, o.VertexCount())
	}
	pts := make([]v2.Vec, len(o.Points))
	copy(pts, o.Points)
	s, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("sdfx: polygon %q: %w", o.Name, err)
	}
	return wrap(s), nil
}

// Distance returns the signed distance from p to the region boundary,
// negative inside.
func (k *SdfxKernel) Distance(r kernel.Region, p geom.Vec) float64 {
	return unwrap(r).Evaluate(p)
}

// Inside reports whether p is inside the region or on its boundary.
func (k *SdfxKernel) Inside(r kernel.Region, p geom.Vec) bool {
	return k.Distance(r, p) <= insideEpsilon
}
