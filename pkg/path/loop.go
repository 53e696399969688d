package path

import "github.com/chazu/facesvg/pkg/geom"

// Loop is an ordered boundary. An assembled loop satisfies
// parts[i].End() ≈ parts[i+1].Start() cyclically.
type Loop []Part

// Closed reports whether every consecutive pair, including last to first,
// meets within eps.
func (l Loop) Closed(eps float64) bool {
	if len(l) == 0 {
		return false
	}
	for i, p := range l {
		next := l[(i+1)%len(l)]
		if !geom.ApproxEq(p.End(), next.Start(), eps) {
			return false
		}
	}
	return true
}

// Translate returns a copy of the loop moved by v.
func (l Loop) Translate(v geom.Vec) Loop {
	out := make(Loop, len(l))
	for i, p := range l {
		out[i] = p.Translate(v)
	}
	return out
}

// Reverse returns the loop traversed the other way round.
func (l Loop) Reverse() Loop {
	out := make(Loop, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p.Reverse()
	}
	return out
}

// Segments returns the straight parts of the loop in order.
func (l Loop) Segments() []Segment {
	var out []Segment
	for _, p := range l {
		if s, ok := p.(Segment); ok {
			out = append(out, s)
		}
	}
	return out
}

// Arcs returns the arc parts of the loop in order.
func (l Loop) Arcs() []Arc {
	var out []Arc
	for _, p := range l {
		if a, ok := p.(Arc); ok {
			out = append(out, a)
		}
	}
	return out
}

// SignedArea is the shoelace area of the polygon through the part start
// points. Positive means counter-clockwise in a y-up frame. Arcs contribute
// only their chords.
func (l Loop) SignedArea() float64 {
	var sum float64
	for i, p := range l {
		a := p.Start()
		b := l[(i+1)%len(l)].Start()
		sum += geom.Cross(a, b)
	}
	return sum / 2
}

// Endpoints returns the bounding box of every part endpoint.
func (l Loop) Endpoints() geom.Bounds {
	var b geom.Bounds
	for _, p := range l {
		b = b.Include(p.Start()).Include(p.End())
	}
	return b
}
