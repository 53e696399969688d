package geom

import (
	"fmt"
	"math"
)

// Bounds is an axis-aligned bounding box accumulated point by point.
// The zero value is empty.
type Bounds struct {
	Min, Max Vec
	valid    bool
}

// NewBounds returns the box spanning the given points.
func NewBounds(pts ...Vec) Bounds {
	var b Bounds
	for _, p := range pts {
		b = b.Include(p)
	}
	return b
}

// Rect returns the box with minimum corner min and the given size.
func Rect(min Vec, width, height float64) Bounds {
	return NewBounds(min, min.Add(V(width, height)))
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return !b.valid
}

// Include returns b grown to contain p.
func (b Bounds) Include(p Vec) Bounds {
	if !b.valid {
		return Bounds{Min: p, Max: p, valid: true}
	}
	b.Min = V(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y))
	b.Max = V(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y))
	return b
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if o.Empty() {
		return b
	}
	return b.Include(o.Min).Include(o.Max)
}

// Translate returns b moved by v.
func (b Bounds) Translate(v Vec) Bounds {
	if b.Empty() {
		return b
	}
	b.Min = b.Min.Add(v)
	b.Max = b.Max.Add(v)
	return b
}

// Width is the x size of the box, 0 when empty.
func (b Bounds) Width() float64 {
	if b.Empty() {
		return 0
	}
	return b.Max.X - b.Min.X
}

// Height is the y size of the box, 0 when empty.
func (b Bounds) Height() float64 {
	if b.Empty() {
		return 0
	}
	return b.Max.Y - b.Min.Y
}

// Size returns (Width, Height).
func (b Bounds) Size() Vec {
	return V(b.Width(), b.Height())
}

// Extent is the diagonal length, used to order paths largest first.
func (b Bounds) Extent() float64 {
	return math.Hypot(b.Width(), b.Height())
}

// ApproxEq reports whether both corners match within eps.
func (b Bounds) ApproxEq(o Bounds, eps float64) bool {
	if b.Empty() || o.Empty() {
		return b.Empty() == o.Empty()
	}
	return ApproxEq(b.Min, o.Min, eps) && ApproxEq(b.Max, o.Max, eps)
}

func (b Bounds) String() string {
	if b.Empty() {
		return "Bounds(empty)"
	}
	return fmt.Sprintf("Bounds(min %.3f,%.3f max %.3f,%.3f)", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}
