package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/profile"
	"github.com/chazu/facesvg/pkg/relief"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites a capture script before zygomys sees it:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     Keywords stay plain strings so they never collide with user
//     variables of the same name.
//
//  2. Kebab-case to underscore: relief-edge -> relief_edge
//     zygomys reads a hyphen inside an identifier as subtraction, so
//     kebab-case identifiers are rewritten outside strings and comments.
//
//  3. ; line comments become // comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec2 is the value of (vec2 x y).
type sexpVec2 struct {
	v geom.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.v.X, v.v.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpParts holds loose parts from line and arc. They only become a
// boundary once grouped by loop.
type sexpParts struct {
	parts []path.Part
}

func (p *sexpParts) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(parts %d)", len(p.parts))
}
func (p *sexpParts) Type() *zygo.RegisteredType { return nil }

// sexpLoop is one boundary: the result of loop, rect or circle.
type sexpLoop struct {
	parts []path.Part
}

func (l *sexpLoop) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(loop %d)", len(l.parts))
}
func (l *sexpLoop) Type() *zygo.RegisteredType { return nil }

// sexpFaceRef is returned by face so scripts can bind and pass it to relief.
type sexpFaceRef struct {
	name string
}

func (f *sexpFaceRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(face-ref %q)", f.name)
}
func (f *sexpFaceRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_pocket) and plain strings ("pocket").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec2 extracts a point from a sexpVec2.
func toVec2(s zygo.Sexp) (geom.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.v, nil
	}
	return geom.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toFaceName accepts a face name string or a value returned by face.
func toFaceName(s zygo.Sexp) (string, error) {
	if f, ok := s.(*sexpFaceRef); ok {
		return f.name, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected face name: %w", err)
	}
	return name, nil
}

// toFloats extracts every arg as a number.
func toFloats(args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// collectParts flattens parts, loops, and lists or arrays of them.
func collectParts(s zygo.Sexp) ([]path.Part, error) {
	switch v := s.(type) {
	case *sexpParts:
		return v.parts, nil
	case *sexpLoop:
		return v.parts, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected line, arc or loop, got %T (%s)", s, s.SexpString(nil))
	}
	var out []path.Part
	for _, item := range items {
		parts, err := collectParts(item)
		if err != nil {
			return nil, err
		}
		out = append(out, parts...)
	}
	return out, nil
}

// collectLoops gathers the boundaries passed to face. Lists and arrays of
// loops are accepted so scripts can build holes with map.
func collectLoops(s zygo.Sexp) ([][]path.Part, error) {
	switch v := s.(type) {
	case *sexpLoop:
		return [][]path.Part{v.parts}, nil
	case *sexpParts:
		return nil, fmt.Errorf("bare line or arc must be wrapped in (loop ...)")
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected loop, got %T (%s)", s, s.SexpString(nil))
	}
	var out [][]path.Part
	for _, item := range items {
		loops, err := collectLoops(item)
		if err != nil {
			return nil, err
		}
		out = append(out, loops...)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the capture builtins into a zygomys environment.
// face, relief and relief-edge record into c as the script runs.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, c *profile.Collection) {

	// -----------------------------------------------------------------------
	// (vec2 x y)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires 2 arguments, got %d", len(args))
		}
		xy, err := toFloats(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: %w", err)
		}
		return &sexpVec2{v: geom.V(xy[0], xy[1])}, nil
	})

	// -----------------------------------------------------------------------
	// (line x1 y1 x2 y2) or (line (vec2 ...) (vec2 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var from, to geom.Vec
		switch len(args) {
		case 2:
			var err error
			if from, err = toVec2(args[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("line: from: %w", err)
			}
			if to, err = toVec2(args[1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("line: to: %w", err)
			}
		case 4:
			xy, err := toFloats(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line: %w", err)
			}
			from, to = geom.V(xy[0], xy[1]), geom.V(xy[2], xy[3])
		default:
			return zygo.SexpNull, fmt.Errorf("line requires 2 points or 4 numbers, got %d arguments", len(args))
		}
		if from == to {
			return zygo.SexpNull, fmt.Errorf("line: zero length at %v", from)
		}
		return &sexpParts{parts: []path.Part{path.Segment{From: from, To: to}}}, nil
	})

	// -----------------------------------------------------------------------
	// (arc :center (vec2 0 0) :radius 1 :start 0 :end 3.14159 :id "a1")
	// (arc :center (vec2 0 0) :xaxis (vec2 2 0) :yaxis (vec2 0 1) :start 0 :end 3.14159)
	// -----------------------------------------------------------------------
	env.AddFunction("arc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		xv, hasX := pa.kw["xaxis"]
		yv, hasY := pa.kw["yaxis"]
		if hasX != hasY {
			return zygo.SexpNull, fmt.Errorf("arc: :xaxis and :yaxis must be given together")
		}
		center, radius, id, err := circleArgs("arc", pa, !hasX)
		if err != nil {
			return zygo.SexpNull, err
		}

		var angles [2]float64
		for i, key := range []string{"start", "end"} {
			v, ok := pa.kw[key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("arc: :%s is required", key)
			}
			if angles[i], err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("arc: %s: %w", key, err)
			}
		}

		if !hasX {
			a := path.CircularArc(id, center, radius, angles[0], angles[1])
			return &sexpParts{parts: []path.Part{a}}, nil
		}
		xaxis, err := toVec2(xv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc: xaxis: %w", err)
		}
		yaxis, err := toVec2(yv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc: yaxis: %w", err)
		}
		if xaxis.Length() == 0 || yaxis.Length() == 0 {
			return zygo.SexpNull, fmt.Errorf("arc: axes must be non-zero")
		}
		// The axes are the semi-diameters and override :radius.
		radius = math.Max(xaxis.Length(), yaxis.Length())
		a := path.NewArc(id, center, radius, xaxis, yaxis, angles[0], angles[1])
		return &sexpParts{parts: []path.Part{a}}, nil
	})

	// -----------------------------------------------------------------------
	// (circle :center (vec2 1 1) :radius 0.5 :id "c1")
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		center, radius, id, err := circleArgs("circle", parseArgs(args), true)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpLoop{parts: []path.Part{path.Circle(id, center, radius)}}, nil
	})

	// -----------------------------------------------------------------------
	// (rect x y w h)
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rect requires 4 arguments (x y w h), got %d", len(args))
		}
		v, err := toFloats(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		x, y, w, h := v[0], v[1], v[2], v[3]
		if w <= 0 || h <= 0 {
			return zygo.SexpNull, fmt.Errorf("rect: width and height must be positive, got %g x %g", w, h)
		}
		return &sexpLoop{parts: []path.Part{
			path.Line(x, y, x+w, y),
			path.Line(x+w, y, x+w, y+h),
			path.Line(x+w, y+h, x, y+h),
			path.Line(x, y+h, x, y),
		}}, nil
	})

	// -----------------------------------------------------------------------
	// (loop part...)
	// -----------------------------------------------------------------------
	env.AddFunction("loop", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var parts []path.Part
		for i, a := range args {
			p, err := collectParts(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("loop: argument %d: %w", i+1, err)
			}
			parts = append(parts, p...)
		}
		if len(parts) == 0 {
			return zygo.SexpNull, fmt.Errorf("loop requires at least one line or arc")
		}
		return &sexpLoop{parts: parts}, nil
	})

	// -----------------------------------------------------------------------
	// (face "name" :kind :surface :depth 0.25 outer-loop inner-loop...)
	// -----------------------------------------------------------------------
	env.AddFunction("face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("face requires a name and at least one loop")
		}
		faceName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face: name: %w", err)
		}

		p := &profile.Profile{Name: faceName, Kind: profile.FaceSurface}
		if v, ok := pa.kw["kind"]; ok {
			k, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("face %q: kind: %w", faceName, err)
			}
			if p.Kind, err = profile.ParseFaceKind(k); err != nil {
				return zygo.SexpNull, fmt.Errorf("face %q: %w", faceName, err)
			}
		}
		if v, ok := pa.kw["depth"]; ok {
			if p.Depth, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("face %q: depth: %w", faceName, err)
			}
		}

		var loops [][]path.Part
		for _, a := range pa.positional[1:] {
			l, err := collectLoops(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("face %q: %w", faceName, err)
			}
			loops = append(loops, l...)
		}
		if len(loops) == 0 {
			return zygo.SexpNull, fmt.Errorf("face %q: no loops", faceName)
		}
		p.Outer = loops[0]
		p.Inner = loops[1:]
		c.Add(p)

		return &sexpFaceRef{name: faceName}, nil
	})

	// -----------------------------------------------------------------------
	// (relief :symmetric "face" ...)
	//
	// The mode comes first, so arguments are not run through parseArgs,
	// which would pair the keyword with the first face name.
	// -----------------------------------------------------------------------
	env.AddFunction("relief", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("relief requires a mode and at least one face")
		}
		m, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("relief: mode: %w", err)
		}
		mode, err := relief.ParseMode(m)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("relief: %w", err)
		}
		if mode == relief.ModeAsymmetric {
			return zygo.SexpNull, fmt.Errorf("relief: asymmetric relief needs an edge, use relief-edge")
		}
		for _, a := range args[1:] {
			face, err := toFaceName(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("relief: %w", err)
			}
			c.AddRelief(profile.ReliefRequest{Face: face, Mode: mode})
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (relief-edge "face" (vec2 x1 y1) (vec2 x2 y2))
	//
	// Registered as "relief_edge"; the preprocessor rewrites the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("relief_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("relief-edge requires a face and 2 points, got %d arguments", len(args))
		}
		face, err := toFaceName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("relief-edge: %w", err)
		}
		from, err := toVec2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("relief-edge: from: %w", err)
		}
		to, err := toVec2(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("relief-edge: to: %w", err)
		}
		c.AddRelief(profile.ReliefRequest{
			Face:     face,
			Mode:     relief.ModeAsymmetric,
			EdgeFrom: from,
			EdgeTo:   to,
		})
		return zygo.SexpNull, nil
	})
}

// circleArgs reads the :center, :radius and :id arguments shared by arc
// and circle. A missing :radius is 0 unless required.
func circleArgs(fn string, pa kwArgs, needRadius bool) (center geom.Vec, radius float64, id string, err error) {
	v, ok := pa.kw["center"]
	if !ok {
		return center, 0, "", fmt.Errorf("%s: :center is required", fn)
	}
	if center, err = toVec2(v); err != nil {
		return center, 0, "", fmt.Errorf("%s: center: %w", fn, err)
	}
	if v, ok = pa.kw["radius"]; ok {
		if radius, err = toFloat64(v); err != nil {
			return center, 0, "", fmt.Errorf("%s: radius: %w", fn, err)
		}
		if radius <= 0 || math.IsNaN(radius) {
			return center, 0, "", fmt.Errorf("%s: radius must be positive, got %g", fn, radius)
		}
	} else if needRadius {
		return center, 0, "", fmt.Errorf("%s: :radius is required", fn)
	}
	if v, ok := pa.kw["id"]; ok {
		if id, err = toString(v); err != nil {
			return center, 0, "", fmt.Errorf("%s: id: %w", fn, err)
		}
	}
	return center, radius, id, nil
}
