package profile

import (
	"fmt"

	"github.com/chazu/facesvg/pkg/kernel"
	"github.com/chazu/facesvg/pkg/relief"
)

// ValidationSeverity indicates whether a validation finding blocks layout
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks layout
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Face     string             // which face has the problem (empty if collection-level)
	Line     int                // source line, 0 when unknown
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Face == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] face %q: %s", e.Severity, e.Face, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Face    string
	Line    int
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Validate runs the structural checks on the collection. An empty slice
// means the collection is valid. It never mutates the collection.
func Validate(c *Collection) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(c)...)
	errs = append(errs, validateLoops(c)...)
	errs = append(errs, validateDepths(c)...)
	errs = append(errs, validateReliefs(c)...)
	return errs
}

// ValidateAll runs the structural and geometric tiers and separates errors
// from warnings. The geometric tier needs k for its containment checks;
// with a nil kernel only loop assembly is checked.
func ValidateAll(c *Collection, k kernel.Kernel) ValidationResult {
	tier1 := Validate(c)
	tier2 := validateGeometry(c, k)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Face:    e.Face,
				Line:    e.Line,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Errors = append(result.Errors, tier2...)
	return result
}

// validateNames checks that every face is named and that names are unique.
func validateNames(c *Collection) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for _, p := range c.Profiles {
		if p.Name == "" {
			errs = append(errs, ValidationError{
				Line:     p.Source.Line,
				Message:  "face has no name",
				Severity: SeverityError,
			})
			continue
		}
		seen[p.Name]++
		if seen[p.Name] == 2 {
			errs = append(errs, ValidationError{
				Face:     p.Name,
				Line:     p.Source.Line,
				Message:  fmt.Sprintf("duplicate face name %q", p.Name),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateLoops checks that every face has an outer loop and no empty loops.
func validateLoops(c *Collection) []ValidationError {
	var errs []ValidationError
	for _, p := range c.Profiles {
		if len(p.Outer) == 0 {
			errs = append(errs, ValidationError{
				Face:     p.Name,
				Line:     p.Source.Line,
				Message:  "face has no outer loop",
				Severity: SeverityError,
			})
		}
		for i, in := range p.Inner {
			if len(in) == 0 {
				errs = append(errs, ValidationError{
					Face:     p.Name,
					Line:     p.Source.Line,
					Message:  fmt.Sprintf("inner loop %d is empty", i),
					Severity: SeverityError,
				})
			}
		}
		if p.Kind == FaceGuide && len(p.Inner) > 0 {
			errs = append(errs, ValidationError{
				Face:     p.Name,
				Line:     p.Source.Line,
				Message:  fmt.Sprintf("guide face has %d inner loops; they are drawn as guides", len(p.Inner)),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateDepths rejects negative depths and pockets without a depth.
func validateDepths(c *Collection) []ValidationError {
	var errs []ValidationError
	for _, p := range c.Profiles {
		switch {
		case p.Depth < 0:
			errs = append(errs, ValidationError{
				Face:     p.Name,
				Line:     p.Source.Line,
				Message:  fmt.Sprintf("depth is %.4f, must not be negative", p.Depth),
				Severity: SeverityError,
			})
		case p.Kind == FacePocket && p.Depth == 0:
			errs = append(errs, ValidationError{
				Face:     p.Name,
				Line:     p.Source.Line,
				Message:  "pocket face needs a positive :depth",
				Severity: SeverityError,
			})
		case p.Kind == FaceGuide && p.Depth != 0:
			errs = append(errs, ValidationError{
				Face:     p.Name,
				Line:     p.Source.Line,
				Message:  "guide faces are not cut; :depth is ignored",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateReliefs checks that relief requests name existing faces that can
// be relieved.
func validateReliefs(c *Collection) []ValidationError {
	var errs []ValidationError
	for _, r := range c.Reliefs {
		p := c.Lookup(r.Face)
		if p == nil {
			errs = append(errs, ValidationError{
				Face:     r.Face,
				Line:     r.Source.Line,
				Message:  fmt.Sprintf("relief references unknown face %q", r.Face),
				Severity: SeverityError,
			})
			continue
		}
		if p.Kind == FaceGuide {
			errs = append(errs, ValidationError{
				Face:     r.Face,
				Line:     r.Source.Line,
				Message:  "relief on a guide face is ignored",
				Severity: SeverityWarning,
			})
		}
		if r.Mode != relief.ModeSymmetric && r.Mode != relief.ModeAsymmetric {
			errs = append(errs, ValidationError{
				Face:     r.Face,
				Line:     r.Source.Line,
				Message:  fmt.Sprintf("relief mode %s cannot be requested per face", r.Mode),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
