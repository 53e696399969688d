package path

import (
	"errors"
	"fmt"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/logging"
)

// ErrNoParts is returned when assembling an empty part set.
var ErrNoParts = errors.New("path: no parts to assemble")

// DisconnectedPathError reports that no remaining part touches the dangling
// end of the last placed part. The input geometry is malformed; retrying
// cannot help.
type DisconnectedPathError struct {
	Last     Part
	Dangling geom.Vec
}

func (e *DisconnectedPathError) Error() string {
	return fmt.Sprintf("Unexpected: No edge/arc connected %v at %s", e.Last, fmtPoint(e.Dangling))
}

// Assembler stitches parts into a loop using its Tolerance for point
// equality.
type Assembler struct {
	Tolerance float64
}

// Assemble stitches parts with the process-wide tolerance.
func Assemble(parts []Part) (Loop, error) {
	return Assembler{Tolerance: geom.Tolerance}.Assemble(parts)
}

// Assemble orders parts into a start/end consistent loop. The first part
// seeds the loop; each step appends the first remaining part whose start
// meets the current end, or failing that the first whose end meets it,
// reversed. Every part is consumed exactly once, and the last part must
// end where the first begins.
func (a Assembler) Assemble(parts []Part) (Loop, error) {
	if len(parts) == 0 {
		return nil, ErrNoParts
	}
	eps := a.Tolerance
	if eps <= 0 {
		eps = geom.Tolerance
	}

	remaining := make([]Part, len(parts)-1)
	copy(remaining, parts[1:])
	out := make(Loop, 0, len(parts))
	out = append(out, parts[0])

	for len(remaining) > 0 {
		last := out[len(out)-1]
		end := last.End()

		idx, reverse := -1, false
		for i, p := range remaining {
			if geom.ApproxEq(p.Start(), end, eps) {
				idx = i
				break
			}
		}
		if idx < 0 {
			for i, p := range remaining {
				if geom.ApproxEq(p.End(), end, eps) {
					idx, reverse = i, true
					break
				}
			}
		}
		if idx < 0 {
			return nil, &DisconnectedPathError{Last: last, Dangling: end}
		}

		next := remaining[idx]
		if reverse {
			next = next.Reverse()
			logging.Logger().Debug("path: reversed part", "index", len(out), "part", next)
		}
		out = append(out, next)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	// An open chain consumes every part but never returns to the seed.
	if last := out[len(out)-1]; !geom.ApproxEq(last.End(), out[0].Start(), eps) {
		return nil, &DisconnectedPathError{Last: last, Dangling: last.End()}
	}
	return out, nil
}

// Collapse drops every arc whose ID was already seen earlier in parts, so
// the many captured fragments of one true arc become a single primitive.
// Segments and arcs without an ID are always kept.
func Collapse(parts []Part) []Part {
	seen := make(map[string]bool)
	out := make([]Part, 0, len(parts))
	for _, p := range parts {
		if a, ok := p.(Arc); ok && a.ID != "" {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
		}
		out = append(out, p)
	}
	return out
}
