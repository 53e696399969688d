package profile

import (
	"strings"
	"testing"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/kernel/sdfx"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/relief"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildValidPanel creates a surface face with one hole, a pocket, and a
// symmetric relief request on the panel.
func buildValidPanel() *Collection {
	c := New()
	c.Add(&Profile{
		Name:  "panel",
		Kind:  FaceSurface,
		Outer: rectParts(0, 0, 10, 6),
		Inner: [][]path.Part{rectParts(2, 2, 2, 2)},
	})
	c.Add(&Profile{
		Name:  "dado",
		Kind:  FacePocket,
		Depth: 0.3,
		Outer: rectParts(0, 0, 4, 1),
	})
	c.AddRelief(ReliefRequest{Face: "panel", Mode: relief.ModeSymmetric})
	return c
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func warningContains(ws []ValidationWarning, substr string) bool {
	for _, w := range ws {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Tier 1
// ---------------------------------------------------------------------------

func TestValidateValidCollection(t *testing.T) {
	errs := Validate(buildValidPanel())
	if len(errs) != 0 {
		t.Fatalf("expected no findings, got %v", errs)
	}
}

func TestValidateDuplicateName(t *testing.T) {
	c := buildValidPanel()
	c.Add(&Profile{Name: "panel", Outer: rectParts(0, 0, 1, 1)})
	if !hasError(Validate(c), "duplicate face name") {
		t.Error("expected duplicate name error")
	}
}

func TestValidateMissingName(t *testing.T) {
	c := New()
	c.Add(&Profile{Outer: rectParts(0, 0, 1, 1), Source: SourceRef{Line: 3}})
	errs := Validate(c)
	if !hasError(errs, "no name") {
		t.Fatal("expected missing name error")
	}
	if errs[0].Line != 3 {
		t.Errorf("Line = %d, want 3", errs[0].Line)
	}
}

func TestValidateEmptyLoops(t *testing.T) {
	c := New()
	c.Add(&Profile{Name: "empty"})
	c.Add(&Profile{Name: "hollow", Outer: rectParts(0, 0, 1, 1), Inner: [][]path.Part{nil}})
	errs := Validate(c)
	if !hasError(errs, "no outer loop") {
		t.Error("expected no outer loop error")
	}
	if !hasError(errs, "inner loop 0 is empty") {
		t.Error("expected empty inner loop error")
	}
}

func TestValidateDepths(t *testing.T) {
	c := New()
	c.Add(&Profile{Name: "neg", Depth: -1, Outer: rectParts(0, 0, 1, 1)})
	c.Add(&Profile{Name: "pocket", Kind: FacePocket, Outer: rectParts(0, 0, 1, 1)})
	c.Add(&Profile{Name: "guide", Kind: FaceGuide, Depth: 0.1, Outer: rectParts(0, 0, 1, 1)})
	errs := Validate(c)
	if !hasError(errs, "must not be negative") {
		t.Error("expected negative depth error")
	}
	if !hasError(errs, "pocket face needs a positive :depth") {
		t.Error("expected pocket depth error")
	}
	if !hasWarning(errs, ":depth is ignored") {
		t.Error("expected guide depth warning")
	}
}

func TestValidateReliefs(t *testing.T) {
	c := buildValidPanel()
	c.Add(&Profile{Name: "mark", Kind: FaceGuide, Outer: rectParts(0, 0, 1, 1)})
	c.AddRelief(ReliefRequest{Face: "ghost", Mode: relief.ModeSymmetric})
	c.AddRelief(ReliefRequest{Face: "mark", Mode: relief.ModeSymmetric})
	c.AddRelief(ReliefRequest{Face: "panel", Mode: relief.ModeSymmetricAuto})

	errs := Validate(c)
	if !hasError(errs, `unknown face "ghost"`) {
		t.Error("expected unknown face error")
	}
	if !hasWarning(errs, "guide face is ignored") {
		t.Error("expected guide relief warning")
	}
	if !hasError(errs, "cannot be requested per face") {
		t.Error("expected mode error")
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Face: "panel", Message: "boom", Severity: SeverityError}
	if got := e.Error(); got != `[error] face "panel": boom` {
		t.Errorf("Error() = %q", got)
	}
	e = ValidationError{Message: "boom", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] boom" {
		t.Errorf("Error() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Tier 2
// ---------------------------------------------------------------------------

func TestValidateAllValid(t *testing.T) {
	res := ValidateAll(buildValidPanel(), sdfx.New())
	if len(res.Errors) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("expected clean result, got %+v", res)
	}
}

func TestValidateAllDisconnectedLoop(t *testing.T) {
	c := New()
	c.Add(&Profile{Name: "broken", Outer: []path.Part{
		path.Line(0, 0, 1, 0),
		path.Line(1, 0, 1, 1),
		path.Line(5, 5, 6, 6),
	}})
	res := ValidateAll(c, sdfx.New())
	if !hasError(res.Errors, "outer loop is not closed") {
		t.Fatalf("expected disconnected error, got %+v", res.Errors)
	}
	if !hasError(res.Errors, "Unexpected: No edge/arc connected") {
		t.Error("message should carry the assembler error")
	}
}

func TestValidateAllHoleOutside(t *testing.T) {
	c := New()
	c.Add(&Profile{
		Name:  "panel",
		Outer: rectParts(0, 0, 4, 4),
		Inner: [][]path.Part{rectParts(3, 3, 2, 2)},
	})
	res := ValidateAll(c, sdfx.New())
	if !hasError(res.Errors, "inner loop 0 extends outside the outer loop") {
		t.Fatalf("expected containment error, got %+v", res.Errors)
	}
}

func TestValidateAllOverlappingHoles(t *testing.T) {
	tests := []struct {
		name  string
		inner [][]path.Part
	}{
		{"corner inside", [][]path.Part{rectParts(1, 1, 3, 3), rectParts(2, 2, 3, 3)}},
		{"nested", [][]path.Part{rectParts(1, 1, 6, 6), rectParts(2, 2, 1, 1)}},
		// Neither bar has a vertex inside the other.
		{"plus sign", [][]path.Part{rectParts(1, 4, 8, 2), rectParts(4, 1, 2, 8)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Add(&Profile{Name: "panel", Outer: rectParts(0, 0, 10, 10), Inner: tt.inner})
			res := ValidateAll(c, sdfx.New())
			if !hasError(res.Errors, "inner loops 0 and 1 overlap") {
				t.Errorf("expected overlap error, got %+v", res.Errors)
			}
		})
	}
}

func TestValidateAllTouchingHoles(t *testing.T) {
	c := New()
	c.Add(&Profile{
		Name:  "panel",
		Outer: rectParts(0, 0, 10, 10),
		Inner: [][]path.Part{rectParts(1, 1, 2, 2), rectParts(3, 1, 2, 2), rectParts(6, 6, 1, 1)},
	})
	res := ValidateAll(c, sdfx.New())
	if len(res.Errors) != 0 {
		t.Fatalf("holes sharing an edge or apart should pass, got %+v", res.Errors)
	}
}

func TestValidateAllHoleCrossesOutline(t *testing.T) {
	// An L-shaped outline with a bar across its notch: every bar vertex
	// is inside the outline but the bar leaves it.
	c := New()
	c.Add(&Profile{
		Name: "ell",
		Outer: []path.Part{
			path.Line(0, 0, 10, 0),
			path.Line(10, 0, 10, 4),
			path.Line(10, 4, 4, 4),
			path.Line(4, 4, 4, 10),
			path.Line(4, 10, 0, 10),
			path.Line(0, 10, 0, 0),
		},
		Inner: [][]path.Part{{
			path.Line(1, 3, 3, 3),
			path.Line(3, 3, 3, 9),
			path.Line(3, 9, 1, 9),
			path.Line(1, 9, 1, 3),
		}},
	})
	res := ValidateAll(c, sdfx.New())
	if len(res.Errors) != 0 {
		t.Fatalf("bar inside the upright should pass, got %+v", res.Errors)
	}

	// A diagonal bar from the top of the upright to the end of the foot
	// passes over the notch.
	c = New()
	c.Add(&Profile{
		Name: "ell",
		Outer: []path.Part{
			path.Line(0, 0, 10, 0),
			path.Line(10, 0, 10, 4),
			path.Line(10, 4, 4, 4),
			path.Line(4, 4, 4, 10),
			path.Line(4, 10, 0, 10),
			path.Line(0, 10, 0, 0),
		},
		Inner: [][]path.Part{{
			path.Line(1, 8, 2, 9),
			path.Line(2, 9, 9, 2),
			path.Line(9, 2, 8, 1),
			path.Line(8, 1, 1, 8),
		}},
	})
	res = ValidateAll(c, sdfx.New())
	if !hasError(res.Errors, "inner loop 0 extends outside the outer loop") {
		t.Errorf("expected containment error, got %+v", res.Errors)
	}
}

func TestValidateAllCircleHole(t *testing.T) {
	c := New()
	c.Add(&Profile{
		Name:  "plate",
		Outer: rectParts(0, 0, 4, 4),
		Inner: [][]path.Part{{path.Circle("hole", geom.V(2, 2), 1)}},
	})
	res := ValidateAll(c, sdfx.New())
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
}

func TestValidateAllWithoutKernel(t *testing.T) {
	c := New()
	c.Add(&Profile{
		Name:  "panel",
		Outer: rectParts(0, 0, 4, 4),
		Inner: [][]path.Part{rectParts(3, 3, 2, 2)},
	})
	res := ValidateAll(c, nil)
	if len(res.Errors) != 0 {
		t.Errorf("containment is a kernel check; got %+v", res.Errors)
	}
}

func TestValidateAllSplitsWarnings(t *testing.T) {
	c := buildValidPanel()
	c.Add(&Profile{Name: "mark", Kind: FaceGuide, Depth: 0.2, Outer: rectParts(0, 0, 1, 1)})
	res := ValidateAll(c, sdfx.New())
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if !warningContains(res.Warnings, ":depth is ignored") {
		t.Errorf("expected depth warning in Warnings, got %+v", res.Warnings)
	}
}
