package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sort"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/profile"
	"github.com/chazu/facesvg/pkg/svgdoc"
	"github.com/chazu/facesvg/pkg/tessellate"
)

// Preview controls the PNG rendering.
type Preview struct {
	PixelsPerUnit float64
	Margin        int     // pixels around the viewport
	PocketMax     float64 // scales pocket gray
}

// DefaultPreview suits a sheet measured in inches.
var DefaultPreview = Preview{PixelsPerUnit: 40, Margin: 10, PocketMax: 0.75}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	blue  = color.RGBA{20, 110, 255, 255}
)

// Image draws faces over viewport. Faces are painted largest first so that
// holes and pockets land on top of the faces around them.
func (p Preview) Image(viewport geom.Bounds, faces []Face) *image.RGBA {
	w := int(viewport.Width()*p.PixelsPerUnit) + 2*p.Margin
	h := int(viewport.Height()*p.PixelsPerUnit) + 2*p.Margin
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: white}, image.Point{}, draw.Src)

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetLineWidth(1)

	// Sheet Y points up; image Y points down.
	toPixel := func(v geom.Vec) (float64, float64) {
		x := (v.X-viewport.Min.X)*p.PixelsPerUnit + float64(p.Margin)
		y := (viewport.Max.Y-v.Y)*p.PixelsPerUnit + float64(p.Margin)
		return x, y
	}
	trace := func(loop path.Loop) {
		pts := tessellate.Flatten("", loop).Points
		for i, pt := range pts {
			x, y := toPixel(pt)
			if i == 0 {
				gc.MoveTo(x, y)
			} else {
				gc.LineTo(x, y)
			}
		}
		gc.Close()
	}

	for _, f := range byExtent(faces) {
		if len(f.Loops) == 0 {
			continue
		}
		switch f.Kind {
		case profile.FacePocket:
			g := svgdoc.GrayLevel(f.Depth, p.PocketMax)
			gray := color.RGBA{g, g, g, 255}
			gc.SetFillRule(draw2d.FillRuleEvenOdd)
			gc.SetFillColor(gray)
			gc.SetStrokeColor(gray)
			gc.BeginPath()
			for _, l := range f.Loops {
				trace(l)
			}
			gc.FillStroke()
		case profile.FaceGuide:
			gc.SetStrokeColor(blue)
			gc.BeginPath()
			for _, l := range f.Loops {
				trace(l)
			}
			gc.Stroke()
		default:
			gc.SetFillRule(draw2d.FillRuleWinding)
			gc.SetFillColor(black)
			gc.BeginPath()
			trace(f.Loops[0])
			gc.Fill()
			gc.SetFillColor(white)
			gc.SetStrokeColor(black)
			for _, l := range f.Loops[1:] {
				gc.BeginPath()
				trace(l)
				gc.FillStroke()
			}
		}
	}
	return img
}

// WritePNG encodes the preview as PNG.
func (p Preview) WritePNG(w io.Writer, viewport geom.Bounds, faces []Face) error {
	if err := png.Encode(w, p.Image(viewport, faces)); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// SavePNG writes the preview to a file.
func (p Preview) SavePNG(filename string, viewport geom.Bounds, faces []Face) error {
	if err := draw2dimg.SaveToPngFile(filename, p.Image(viewport, faces)); err != nil {
		return fmt.Errorf("render: save png: %w", err)
	}
	return nil
}

// byExtent returns faces ordered by the extent of their outer loop,
// largest first, keeping input order among equals.
func byExtent(faces []Face) []Face {
	out := make([]Face, len(faces))
	copy(out, faces)
	extent := func(f Face) float64 {
		if len(f.Loops) == 0 {
			return 0
		}
		return tessellate.Extent(f.Loops[0]).Extent()
	}
	sort.SliceStable(out, func(i, j int) bool { return extent(out[i]) > extent(out[j]) })
	return out
}
