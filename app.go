package main

import (
	"fmt"
	"io"
	"log"

	"github.com/chazu/facesvg/pkg/config"
	"github.com/chazu/facesvg/pkg/emit"
	"github.com/chazu/facesvg/pkg/engine"
	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/kernel"
	"github.com/chazu/facesvg/pkg/kernel/sdfx"
	"github.com/chazu/facesvg/pkg/layout"
	"github.com/chazu/facesvg/pkg/logging"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/profile"
	"github.com/chazu/facesvg/pkg/relief"
	"github.com/chazu/facesvg/pkg/render"
	"github.com/chazu/facesvg/pkg/store"
	"github.com/chazu/facesvg/pkg/svgdoc"
	"github.com/chazu/facesvg/pkg/tessellate"
)

// App is one layout session: a sheet and the profiles placed on it. It is
// not safe for concurrent use; callers serialize access per document.
type App struct {
	cfg    config.Config
	model  string
	engine *engine.Engine
	kernel kernel.Kernel
	sheet  *layout.Sheet

	faces    []store.Face
	geometry []render.Face
}

// ErrorData is a JSON-serializable error or warning.
type ErrorData struct {
	Line    int    `json:"line"`
	Face    string `json:"face,omitempty"`
	Message string `json:"message"`
}

// ProfileData summarizes one placed profile.
type ProfileData struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Loops  int     `json:"loops"`
}

// LayoutResult is the outcome of one Layout call. When Errors is non-empty
// nothing was placed.
type LayoutResult struct {
	Profiles []ProfileData `json:"profiles"`
	Errors   []ErrorData   `json:"errors"`
	Warnings []ErrorData   `json:"warnings"`
}

// OK reports whether the layout succeeded.
func (r LayoutResult) OK() bool {
	return len(r.Errors) == 0
}

// NewApp creates a session with an empty sheet.
func NewApp(cfg config.Config, model string) *App {
	return &App{
		cfg:    cfg,
		model:  model,
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
		sheet:  layout.NewSheet(cfg.LayoutWidth, cfg.LayoutSpacing),
	}
}

// prepared is a profile whose loops are assembled and relieved but not yet
// placed.
type prepared struct {
	p     *profile.Profile
	loops []path.Loop // outer first
	depth float64
}

// Layout evaluates a capture script and places every face it declares.
// Either every face is placed or, on any error, none is.
func (a *App) Layout(source string) LayoutResult {
	result := LayoutResult{
		Profiles: []ProfileData{},
		Errors:   []ErrorData{},
		Warnings: []ErrorData{},
	}

	// Step 1: Evaluate the script into a collection.
	c, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, ErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, ErrorData{Line: e.Line, Message: e.Message})
	}
	if len(evalErrs) > 0 {
		return result
	}

	// Step 2: Validate.
	vr := profile.ValidateAll(c, a.kernel)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, ErrorData{Line: w.Line, Face: w.Face, Message: w.Message})
	}
	for _, e := range vr.Errors {
		result.Errors = append(result.Errors, ErrorData{Line: e.Line, Face: e.Face, Message: e.Message})
	}
	if len(vr.Errors) > 0 {
		return result
	}

	// Step 3: Assemble and relieve every profile before anything is placed.
	// Loops skipped by symmetric relief are reported once for the script.
	ready := make([]prepared, 0, c.Count())
	ignored := 0
	for _, p := range c.Profiles {
		pr, skipped, err := a.prepare(c, p)
		ignored += skipped
		if err != nil {
			result.Errors = append(result.Errors, ErrorData{Line: p.Source.Line, Face: p.Name, Message: err.Error()})
			continue
		}
		ready = append(ready, pr)
	}
	if len(result.Errors) > 0 {
		return result
	}
	if ignored > 0 {
		result.Warnings = append(result.Warnings, ErrorData{Message: relief.IgnoredWarning(ignored)})
	}

	// Step 4: Place and emit.
	for _, pr := range ready {
		result.Profiles = append(result.Profiles, a.place(pr))
	}
	logging.Logger().Info("layout complete", "model", a.model, "profiles", len(ready))
	return result
}

// prepare assembles the loops of p and applies the relief it asked for. It
// returns how many loops symmetric relief skipped as not rectangular.
func (a *App) prepare(c *profile.Collection, p *profile.Profile) (prepared, int, error) {
	pr := prepared{p: p, depth: a.depthOf(p)}

	outer, err := path.Assemble(path.Collapse(p.Outer))
	if err != nil {
		return pr, 0, fmt.Errorf("outer loop: %w", err)
	}
	pr.loops = append(pr.loops, outer)
	for i, parts := range p.Inner {
		l, err := path.Assemble(path.Collapse(parts))
		if err != nil {
			return pr, 0, fmt.Errorf("inner loop %d: %w", i, err)
		}
		pr.loops = append(pr.loops, l)
	}
	if p.Kind == profile.FaceGuide {
		return pr, 0, nil
	}

	// Relief applies to the holes of a through cut, and to the outline of
	// a pocket.
	first := 1
	if p.Kind == profile.FacePocket {
		first = 0
	}
	opts := a.cfg.ReliefOptions()
	ignored := 0

	requests := c.ReliefsFor(p.Name)
	if len(requests) == 0 && opts.Mode == relief.ModeSymmetric {
		requests = []profile.ReliefRequest{{Face: p.Name, Mode: relief.ModeSymmetric}}
	}
	for _, r := range requests {
		switch r.Mode {
		case relief.ModeSymmetric:
			opts.Mode = relief.ModeSymmetric
			relieved, n, err := relief.Batch(pr.loops[first:], opts)
			if err != nil {
				return pr, 0, err
			}
			copy(pr.loops[first:], relieved)
			ignored += n
		case relief.ModeAsymmetric:
			if err := a.reliefEdge(&pr, first, r, opts); err != nil {
				return pr, 0, err
			}
		}
	}

	if a.cfg.CornerRelief == relief.ModeSymmetricAuto {
		opts.Mode = relief.ModeSymmetricAuto
		relieved, _, err := relief.Batch(pr.loops[first:], opts)
		if err != nil {
			return pr, 0, err
		}
		copy(pr.loops[first:], relieved)
	}
	return pr, ignored, nil
}

// reliefEdge applies asymmetric relief to the loop holding the requested
// edge. An edge found only on the outer loop of a through cut is refused.
func (a *App) reliefEdge(pr *prepared, first int, r profile.ReliefRequest, opts relief.Options) error {
	for i, l := range pr.loops {
		idx, ok := relief.FindEdge(l, r.EdgeFrom, r.EdgeTo, geom.Tolerance)
		if !ok {
			continue
		}
		relieved, err := relief.Asymmetric(l, idx, i >= first, opts)
		if err != nil {
			return err
		}
		pr.loops[i] = relieved
		return nil
	}
	return fmt.Errorf("relief-edge: no edge from %v to %v", r.EdgeFrom, r.EdgeTo)
}

// depthOf resolves the cut depth of a profile.
func (a *App) depthOf(p *profile.Profile) float64 {
	switch {
	case p.Kind == profile.FaceGuide:
		return 0
	case p.Depth == 0:
		return a.cfg.CutDepth
	default:
		return p.Depth
	}
}

// place puts a prepared profile on the sheet and records its paths.
func (a *App) place(pr prepared) ProfileData {
	var extent geom.Bounds
	for _, l := range pr.loops {
		extent = extent.Union(emit.Emit(l).Bounds).Union(tessellate.Extent(l))
	}
	pl := a.sheet.Place(extent)
	delta := pl.Offset.Sub(extent.Min)

	face := store.Face{Name: pr.p.Name, Kind: pr.p.Kind, Depth: pr.depth}
	geo := render.Face{Name: pr.p.Name, Kind: pr.p.Kind, Depth: pr.depth}
	for _, l := range pr.loops {
		moved := l.Translate(delta)
		r := emit.Emit(moved)
		r.Bounds = r.Bounds.Union(tessellate.Extent(moved))
		face.Paths = append(face.Paths, store.NewPath(r))
		geo.Loops = append(geo.Loops, moved)
	}
	a.faces = append(a.faces, face)
	a.geometry = append(a.geometry, geo)

	return ProfileData{
		ID:     pr.p.ID.String(),
		Name:   pr.p.Name,
		Kind:   pr.p.Kind.String(),
		X:      pl.Offset.X,
		Y:      pl.Offset.Y,
		Width:  extent.Width(),
		Height: extent.Height(),
		Loops:  len(pr.loops),
	}
}

// Write writes the SVG document for everything placed so far.
func (a *App) Write(w io.Writer) error {
	canvas := svgdoc.NewCanvas(a.model, a.sheet.Viewport(), a.cfg.Units, a.cfg.PocketMax)
	for _, f := range a.faces {
		results := make([]emit.Result, len(f.Paths))
		for i, p := range f.Paths {
			results[i] = p.Result()
		}
		switch f.Kind {
		case profile.FacePocket:
			canvas.AddPocketPaths(results, f.Depth)
		case profile.FaceGuide:
			canvas.AddGuidePaths(results)
		default:
			canvas.AddCutPaths(results, f.Depth)
		}
	}
	return canvas.Write(w)
}

// WriteDXF writes the faces placed in this process as DXF. Faces restored
// from a saved session carry only path data and are skipped.
func (a *App) WriteDXF(filename string) error {
	if skipped := len(a.faces) - len(a.geometry); skipped > 0 {
		log.Printf("WriteDXF: skipping %d restored faces", skipped)
	}
	return render.WriteDXF(filename, a.geometry)
}

// preview returns the PNG settings for the configured unit.
func (a *App) preview() render.Preview {
	p := render.DefaultPreview
	p.PocketMax = a.cfg.PocketMax
	if a.cfg.Units == config.Millimetres {
		p.PixelsPerUnit /= 25.4
	}
	return p
}

// WritePNG writes a preview of the faces placed in this process.
func (a *App) WritePNG(w io.Writer) error {
	return a.preview().WritePNG(w, a.sheet.Viewport(), a.geometry)
}

// SavePNG writes the preview to a file.
func (a *App) SavePNG(filename string) error {
	return a.preview().SavePNG(filename, a.sheet.Viewport(), a.geometry)
}

// Reset clears the sheet and every placed profile.
func (a *App) Reset() {
	a.sheet.Reset()
	a.faces = nil
	a.geometry = nil
}

// Placed returns the number of placed profiles.
func (a *App) Placed() int {
	return len(a.faces)
}

// Session snapshots the sheet and placed faces for the store.
func (a *App) Session(name string) store.Session {
	faces := make([]store.Face, len(a.faces))
	copy(faces, a.faces)
	return store.Session{Name: name, State: a.sheet.State(), Faces: faces}
}

// Restore continues a saved session. Restored faces are written to SVG
// but not to DXF or PNG.
func (a *App) Restore(s store.Session) {
	a.sheet.Restore(s.State)
	a.faces = append([]store.Face(nil), s.Faces...)
	a.geometry = nil
}
