// Package svgdoc writes laid-out profiles as a Shaper Origin SVG document.
package svgdoc

import (
	"fmt"

	"github.com/chazu/facesvg/pkg/profile"
)

// Shaper namespace and attribute names.
const (
	ShaperNamespace = "http://www.shapertools.com/namespaces/shaper"
	attrPathType    = "shaper:pathType"
	attrCutDepth    = "shaper:cutDepth"
)

// Colors.
const (
	black = "rgb(0,0,0)"
	white = "rgb(255,255,255)"
	blue  = "rgb(20,110,255)"
)

const nonScalingStroke = "non-scaling-stroke"

// Attr is one XML attribute. Order matters: attributes are written in the
// order PathAttributes returns them.
type Attr struct {
	Name  string
	Value string
}

// String renders the attribute as name="value", the raw form svgo accepts.
func (a Attr) String() string {
	return fmt.Sprintf(`%s="%s"`, a.Name, a.Value)
}

// PathAttributes returns the classification attributes of a path of the
// given kind. pocketMax scales the pocket gray.
func PathAttributes(kind profile.LoopKind, cutDepth, pocketMax float64) []Attr {
	depth := fmt.Sprintf("%0.3f", cutDepth)
	switch kind {
	case profile.LoopExterior:
		return []Attr{
			{attrPathType, kind.String()},
			{attrCutDepth, depth},
			{"fill", black},
		}
	case profile.LoopInterior:
		return []Attr{
			{attrPathType, kind.String()},
			{attrCutDepth, depth},
			{"fill", white},
			{"stroke", black},
			{"stroke-width", "2"},
			{"vector-effect", nonScalingStroke},
		}
	case profile.LoopPocket:
		gray := Gray(cutDepth, pocketMax)
		return []Attr{
			{attrPathType, kind.String()},
			{attrCutDepth, depth},
			{"fill-rule", "evenodd"},
			{"fill", gray},
			{"stroke-width", "2"},
			{"stroke", gray},
			{"vector-effect", nonScalingStroke},
		}
	default:
		return []Attr{
			{attrPathType, profile.LoopGuide.String()},
			{"stroke-width", "2"},
			{"stroke", blue},
			{"vector-effect", nonScalingStroke},
			{"fill", "none"},
		}
	}
}

// Gray is the pocket color for a depth, as an rgb() value.
func Gray(depth, pocketMax float64) string {
	g := GrayLevel(depth, pocketMax)
	return fmt.Sprintf("rgb(%d,%d,%d)", g, g, g)
}

// GrayLevel is the channel value of the pocket gray:
// 70 + min(int(100*depth/pocketMax), 100). A non-positive pocketMax is
// treated as a full-depth pocket.
func GrayLevel(depth, pocketMax float64) uint8 {
	step := 100
	if pocketMax > 0 {
		step = min(int(100*depth/pocketMax), 100)
	}
	return uint8(70 + step)
}
