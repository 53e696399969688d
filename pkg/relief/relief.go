// Package relief adds dogbone corner relief to rectangular loops so a round
// tool can clear their inside corners.
//
// Every operation takes an assembled loop and returns a new assembled loop;
// the input is never modified.
package relief

import (
	"fmt"
	"strings"
)

// Mode selects how relief is applied.
type Mode int

const (
	ModeNone          Mode = iota // no relief
	ModeSymmetric                 // arc at each corner, on request
	ModeAsymmetric                // half circles at the ends of a chosen edge
	ModeSymmetricAuto             // symmetric, applied silently to every qualifying loop
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeSymmetric:
		return "symmetric"
	case ModeAsymmetric:
		return "asymmetric"
	case ModeSymmetricAuto:
		return "symmetric-auto"
	default:
		return "unknown"
	}
}

// ParseMode accepts the mode names and the labels shown in the settings
// dialog of the original plugin ("Symmetric, automatic").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ModeNone, nil
	case "symmetric":
		return ModeSymmetric, nil
	case "asymmetric":
		return ModeAsymmetric, nil
	case "symmetric-auto", "symmetric_auto", "symmetric, automatic", "auto":
		return ModeSymmetricAuto, nil
	default:
		return ModeNone, fmt.Errorf("relief: unknown mode %q", s)
	}
}

// MarshalText lets a Mode be stored in config files by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a Mode written by MarshalText.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Options are the tool and threshold values for relief.
type Options struct {
	Mode         Mode
	ToolRadius   float64 // half the bit diameter
	Clearance    float64 // added to the tool radius
	MinClearance float64 // material that must remain on a trimmed edge
	AutoMaxSize  float64 // loops larger than this are skipped in auto mode
}

// Radius is the relief arc radius, ToolRadius + Clearance.
func (o Options) Radius() float64 {
	return o.ToolRadius + o.Clearance
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// NotRectangularError reports a loop that is not four edges meeting at right
// angles.
type NotRectangularError struct {
	Edges int
}

func (e *NotRectangularError) Error() string {
	return "*Error* Edge not rectangular"
}

// EdgeTooShortError reports an edge with too little length left for the
// relief arcs.
type EdgeTooShortError struct {
	Radius float64
	Length float64
}

func (e *EdgeTooShortError) Error() string {
	return fmt.Sprintf("Cannot generate corner relief with radius %0.3f - edge too short", e.Radius)
}

// NotInnerLoopError reports an asymmetric relief request on an outer loop.
type NotInnerLoopError struct{}

func (e *NotInnerLoopError) Error() string {
	return "Edge not part of an inner loop, cannot do asymmetric corner relief"
}

// IgnoredWarning is the aggregate message for a batch that skipped loops.
func IgnoredWarning(n int) string {
	return fmt.Sprintf("*Warning* %d profiles ignored - not rectangular", n)
}
