package profile

import (
	"errors"
	"fmt"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/kernel"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/tessellate"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation
// ---------------------------------------------------------------------------

// validateGeometry assembles every loop and, when a kernel is given, checks
// that holes sit inside their outer loop and do not overlap each other.
func validateGeometry(c *Collection, k kernel.Kernel) []ValidationError {
	var errs []ValidationError

	for _, p := range c.Profiles {
		if len(p.Outer) == 0 {
			continue // reported by validateLoops
		}
		outer, inner, loopErrs := assembleProfile(p)
		errs = append(errs, loopErrs...)
		if len(loopErrs) > 0 || k == nil {
			continue
		}
		errs = append(errs, validateContainment(k, p, outer, inner)...)
	}
	return errs
}

// assembleProfile assembles the outer and inner loops of p, reporting each
// loop that fails.
func assembleProfile(p *Profile) (path.Loop, []path.Loop, []ValidationError) {
	var errs []ValidationError
	report := func(which string, err error) {
		msg := fmt.Sprintf("%s: %v", which, err)
		var dpe *path.DisconnectedPathError
		if errors.As(err, &dpe) {
			msg = fmt.Sprintf("%s is not closed: %v", which, err)
		}
		errs = append(errs, ValidationError{
			Face:     p.Name,
			Line:     p.Source.Line,
			Message:  msg,
			Severity: SeverityError,
		})
	}

	outer, err := path.Assemble(path.Collapse(p.Outer))
	if err != nil {
		report("outer loop", err)
	}
	inner := make([]path.Loop, 0, len(p.Inner))
	for i, parts := range p.Inner {
		if len(parts) == 0 {
			continue // reported by validateLoops
		}
		l, err := path.Assemble(path.Collapse(parts))
		if err != nil {
			report(fmt.Sprintf("inner loop %d", i), err)
			continue
		}
		inner = append(inner, l)
	}
	return outer, inner, errs
}

// validateContainment checks holes against the outer region and each other.
// A hole must not cross the outer loop or another hole; touching is allowed.
func validateContainment(k kernel.Kernel, p *Profile, outer path.Loop, inner []path.Loop) []ValidationError {
	var errs []ValidationError
	fail := func(msg string) {
		errs = append(errs, ValidationError{
			Face:     p.Name,
			Line:     p.Source.Line,
			Message:  msg,
			Severity: SeverityError,
		})
	}

	oo := tessellate.Flatten(p.Name+" outer", outer)
	region, err := k.Polygon(oo)
	if err != nil {
		fail(fmt.Sprintf("outer loop encloses no area: %v", err))
		return errs
	}

	holes := make([]kernel.Region, len(inner))
	outlines := make([]*kernel.Outline, len(inner))
	for i, l := range inner {
		outlines[i] = tessellate.Flatten(fmt.Sprintf("%s inner %d", p.Name, i), l)
		if !within(k, region, outlines[i]) || crosses(oo, outlines[i]) {
			fail(fmt.Sprintf("inner loop %d extends outside the outer loop", i))
		}
		if h, err := k.Polygon(outlines[i]); err == nil {
			holes[i] = h
		}
	}

	for i := range holes {
		for j := i + 1; j < len(holes); j++ {
			if holes[i] == nil || holes[j] == nil || !boxesMeet(holes[i], holes[j]) {
				continue
			}
			if overlaps(k, holes[i], outlines[j]) || overlaps(k, holes[j], outlines[i]) ||
				crosses(outlines[i], outlines[j]) {
				fail(fmt.Sprintf("inner loops %d and %d overlap", i, j))
			}
		}
	}
	return errs
}

// within reports whether every vertex of o is inside r or on its boundary.
func within(k kernel.Kernel, r kernel.Region, o *kernel.Outline) bool {
	for _, pt := range o.Points {
		if !k.Inside(r, pt) {
			return false
		}
	}
	return true
}

// overlaps reports whether any vertex of o lies strictly inside r.
func overlaps(k kernel.Kernel, r kernel.Region, o *kernel.Outline) bool {
	for _, pt := range o.Points {
		if k.Distance(r, pt) < -overlapEpsilon {
			return true
		}
	}
	return false
}

// overlapEpsilon separates a real crossing from two loops that only touch.
const overlapEpsilon = 1e-6

// boxesMeet reports whether the bounding boxes of a and b intersect.
func boxesMeet(a, b kernel.Region) bool {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	for i := 0; i < 2; i++ {
		if amax[i] < bmin[i] || bmax[i] < amin[i] {
			return false
		}
	}
	return true
}

// crosses reports whether an edge of a properly crosses an edge of b. Two
// loops can cross without either having a vertex inside the other, as in a
// plus sign made of two bars.
func crosses(a, b *kernel.Outline) bool {
	n, m := len(a.Points), len(b.Points)
	for i := 0; i < n; i++ {
		p0, p1 := a.Points[i], a.Points[(i+1)%n]
		for j := 0; j < m; j++ {
			q0, q1 := b.Points[j], b.Points[(j+1)%m]
			if straddles(p0, p1, q0, q1) && straddles(q0, q1, p0, p1) {
				return true
			}
		}
	}
	return false
}

// straddles reports whether q0 and q1 lie strictly on opposite sides of the
// line through p0 and p1.
func straddles(p0, p1, q0, q1 geom.Vec) bool {
	d := p1.Sub(p0)
	s0 := geom.Cross(d, q0.Sub(p0))
	s1 := geom.Cross(d, q1.Sub(p0))
	eps := overlapEpsilon * d.Length()
	return (s0 > eps && s1 < -eps) || (s0 < -eps && s1 > eps)
}
