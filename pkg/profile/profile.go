package profile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/relief"
)

// ---------------------------------------------------------------------------
// Kinds
// ---------------------------------------------------------------------------

// FaceKind is the material classification of a captured face.
type FaceKind int

const (
	FaceSurface FaceKind = iota // cut through: outer exterior, holes interior
	FacePocket                  // shallow cut, loops merged with evenodd fill
	FaceGuide                   // drawn only, never cut
)

func (k FaceKind) String() string {
	switch k {
	case FaceSurface:
		return "surface"
	case FacePocket:
		return "pocket"
	case FaceGuide:
		return "guide"
	default:
		return "unknown"
	}
}

// ParseFaceKind accepts the names returned by FaceKind.String.
func ParseFaceKind(s string) (FaceKind, error) {
	switch s {
	case "surface":
		return FaceSurface, nil
	case "pocket":
		return FacePocket, nil
	case "guide":
		return FaceGuide, nil
	default:
		return FaceSurface, fmt.Errorf("profile: unknown face kind %q", s)
	}
}

// LoopKind is the cut classification of one emitted loop.
type LoopKind int

const (
	LoopExterior LoopKind = iota
	LoopInterior
	LoopPocket
	LoopGuide
)

// String returns the shaper:pathType value.
func (k LoopKind) String() string {
	switch k {
	case LoopExterior:
		return "exterior"
	case LoopInterior:
		return "interior"
	case LoopPocket:
		return "hogging"
	case LoopGuide:
		return "guide"
	default:
		return "unknown"
	}
}

// ---------------------------------------------------------------------------
// Profile
// ---------------------------------------------------------------------------

// Loop is one boundary with its cut classification.
type Loop struct {
	Kind  LoopKind
	Depth float64
	Parts path.Loop
}

// SourceRef locates the form that captured a face.
type SourceRef struct {
	Line int `json:"line,omitempty"`
}

// Profile is one captured face: exactly one outer loop and any number of
// inner loops, each an unordered bag of parts as captured.
type Profile struct {
	ID     uuid.UUID
	Name   string
	Kind   FaceKind
	Depth  float64 // cut depth; zero means the configured default
	Outer  []path.Part
	Inner  [][]path.Part
	Source SourceRef
}

// profileNamespace scopes the name-derived profile IDs.
var profileNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/facesvg/profile"))

// NewID returns the deterministic ID for a profile name.
func NewID(name string) uuid.UUID {
	return uuid.NewSHA1(profileNamespace, []byte(name))
}

// LoopKinds returns the kind of the outer loop and of the inner loops.
func (p *Profile) LoopKinds() (outer, inner LoopKind) {
	switch p.Kind {
	case FacePocket:
		return LoopPocket, LoopPocket
	case FaceGuide:
		return LoopGuide, LoopGuide
	default:
		return LoopExterior, LoopInterior
	}
}

// LoopCount is 1 + the number of inner loops.
func (p *Profile) LoopCount() int {
	return 1 + len(p.Inner)
}

// ---------------------------------------------------------------------------
// Relief requests
// ---------------------------------------------------------------------------

// ReliefRequest asks for corner relief on a face. Symmetric requests cover
// every inner loop of the face; asymmetric requests name one edge of an
// inner loop by its end points.
type ReliefRequest struct {
	Face     string
	Mode     relief.Mode
	EdgeFrom geom.Vec
	EdgeTo   geom.Vec
	Source   SourceRef
}
