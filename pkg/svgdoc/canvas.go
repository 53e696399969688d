package svgdoc

import (
	"fmt"
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"
	"github.com/samber/lo"

	"github.com/chazu/facesvg/pkg/emit"
	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/logging"
	"github.com/chazu/facesvg/pkg/profile"
	"github.com/chazu/facesvg/pkg/version"
)

// arcLegend documents the A command arguments for anyone reading the file.
const arcLegend = "<!-- ARC is A xrad yrad xrotation-degrees largearc sweep end_x end_y -->\n"

// pocketExtentBias orders a pocket after an interior cut of the same extent.
const pocketExtentBias = 0.01

// pathNode is one <path> waiting to be written.
type pathNode struct {
	data   string
	extent float64
	attrs  []Attr
}

// Canvas collects paths for one document. Paths are written largest extent
// first so that enclosing cuts precede what they enclose.
type Canvas struct {
	Model     string
	Unit      string
	PocketMax float64
	viewport  geom.Bounds
	paths     []pathNode
}

// NewCanvas returns an empty canvas covering viewport.
func NewCanvas(model string, viewport geom.Bounds, unit string, pocketMax float64) *Canvas {
	return &Canvas{
		Model:     model,
		Unit:      unit,
		PocketMax: pocketMax,
		viewport:  viewport,
	}
}

// Len returns the number of paths added so far.
func (c *Canvas) Len() int {
	return len(c.paths)
}

// AddCutPaths adds a through-cut face: the first result is the outer loop
// (exterior), the rest are holes (interior). Each path keeps its own extent.
func (c *Canvas) AddCutPaths(loops []emit.Result, cutDepth float64) {
	for i, r := range loops {
		kind := profile.LoopInterior
		if i == 0 {
			kind = profile.LoopExterior
		}
		c.add(r.Data, r.Bounds.Extent(), PathAttributes(kind, cutDepth, c.PocketMax))
	}
}

// AddPocketPaths merges every loop of a pocket face into one evenodd path.
// Its extent is the outer loop's, less a small bias.
func (c *Canvas) AddPocketPaths(loops []emit.Result, cutDepth float64) {
	if len(loops) == 0 {
		return
	}
	merged := emit.Merge(loops)
	extent := loops[0].Bounds.Extent() - pocketExtentBias
	c.add(merged.Data, extent, PathAttributes(profile.LoopPocket, cutDepth, c.PocketMax))
}

// AddGuidePaths adds drawn-only loops.
func (c *Canvas) AddGuidePaths(loops []emit.Result) {
	for _, r := range loops {
		c.add(r.Data, r.Bounds.Extent(), PathAttributes(profile.LoopGuide, 0, c.PocketMax))
	}
}

func (c *Canvas) add(data string, extent float64, attrs []Attr) {
	c.paths = append(c.paths, pathNode{data: data, extent: extent, attrs: attrs})
}

// rootAttributes returns the <svg> attributes ahead of the namespaces
// svgo adds itself.
func (c *Canvas) rootAttributes() []string {
	vp := c.viewport
	if vp.Empty() {
		vp = geom.NewBounds(geom.V(0, 0))
	}
	return []string{
		Attr{"height", fmt.Sprintf("%0.3f%s", vp.Height(), c.Unit)}.String(),
		Attr{"width", fmt.Sprintf("%0.3f%s", vp.Width(), c.Unit)}.String(),
		Attr{"version", "1.1"}.String(),
		Attr{"viewBox", fmt.Sprintf("%0.3f %0.3f %0.3f %0.3f", vp.Min.X, vp.Min.Y, vp.Width(), vp.Height())}.String(),
		Attr{"x", fmt.Sprintf("%0.3f%s", vp.Min.X, c.Unit)}.String(),
		Attr{"y", fmt.Sprintf("%0.3f%s", vp.Min.Y, c.Unit)}.String(),
		Attr{"xmlns:shaper", ShaperNamespace}.String(),
		Attr{"shaper:sketchupaddin", version.GetVersion()}.String(),
	}
}

// sorted returns the paths largest extent first, keeping insertion order
// among equal extents.
func (c *Canvas) sorted() []pathNode {
	out := make([]pathNode, len(c.paths))
	copy(out, c.paths)
	sort.SliceStable(out, func(i, j int) bool { return out[i].extent > out[j].extent })
	return out
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// Write emits the whole document. Every path is flipped by the
// matrix(1,0,0,-1,0,maxy) transform so model Y up becomes SVG Y down.
func (c *Canvas) Write(w io.Writer) error {
	ew := &errWriter{w: w}
	doc := svg.New(ew)

	doc.Startraw(c.rootAttributes()...)
	io.WriteString(ew, arcLegend)
	doc.Title(fmt.Sprintf("%s cut profile", c.Model))
	doc.Desc(fmt.Sprintf("Shaper cut profile from model %s", c.Model))

	transform := Attr{"transform", fmt.Sprintf("matrix(1,0,0,-1,0.0,%0.3f)", c.viewport.Max.Y)}.String()
	for _, p := range c.sorted() {
		attrs := append([]string{transform}, lo.Map(p.attrs, func(a Attr, _ int) string { return a.String() })...)
		doc.Path(p.data, attrs...)
	}
	doc.End()

	if ew.err != nil {
		return fmt.Errorf("svgdoc: write: %w", ew.err)
	}
	logging.Logger().Info("svg document written", "model", c.Model, "paths", len(c.paths))
	return nil
}
