package render

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/chazu/facesvg/pkg/logging"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/profile"
	"github.com/chazu/facesvg/pkg/tessellate"
)

// layerColors assigns one DXF layer per loop kind.
var layerColors = []struct {
	kind  profile.LoopKind
	color color.ColorNumber
}{
	{profile.LoopExterior, color.White},
	{profile.LoopInterior, color.Red},
	{profile.LoopPocket, color.Cyan},
	{profile.LoopGuide, color.Blue},
}

// fullTurn is the span at which an arc is written as a CIRCLE.
const fullTurn = 2*math.Pi - 1e-9

// WriteDXF writes faces to a DXF file, one layer per loop kind. Circular
// arcs become ARC or CIRCLE entities; elliptical arcs are flattened into
// lines.
func WriteDXF(filename string, faces []Face) error {
	d := dxf.NewDrawing()
	for _, l := range layerColors {
		if _, err := d.AddLayer(l.kind.String(), l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("render: dxf layer %s: %w", l.kind, err)
		}
	}

	entities := 0
	for _, f := range faces {
		for i, loop := range f.Loops {
			if err := d.ChangeLayer(f.loopKind(i).String()); err != nil {
				return fmt.Errorf("render: dxf face %q: %w", f.Name, err)
			}
			n, err := dxfLoop(d, loop)
			if err != nil {
				return fmt.Errorf("render: dxf face %q loop %d: %w", f.Name, i, err)
			}
			entities += n
		}
	}

	if err := d.SaveAs(filename); err != nil {
		return fmt.Errorf("render: save dxf: %w", err)
	}
	logging.Logger().Info("dxf written", "file", filename, "faces", len(faces), "entities", entities)
	return nil
}

// dxfLoop adds the entities of one loop to d and returns how many it added.
func dxfLoop(d *drawing.Drawing, loop path.Loop) (int, error) {
	n := 0
	for _, p := range loop {
		switch v := p.(type) {
		case path.Segment:
			if _, err := d.Line(v.From.X, v.From.Y, 0, v.To.X, v.To.Y, 0); err != nil {
				return n, err
			}
			n++
		case path.Arc:
			added, err := dxfArc(d, v)
			if err != nil {
				return n, err
			}
			n += added
		}
	}
	return n, nil
}

func dxfArc(d *drawing.Drawing, a path.Arc) (int, error) {
	ok, mirrored := circular(a)
	if !ok {
		pts := tessellate.Flatten("", path.Loop{a}).Points
		pts = append(pts, a.End())
		for i := 1; i < len(pts); i++ {
			if _, err := d.Line(pts[i-1].X, pts[i-1].Y, 0, pts[i].X, pts[i].Y, 0); err != nil {
				return i - 1, err
			}
		}
		return len(pts) - 1, nil
	}

	r := a.XAxis.Length()
	if a.Span() >= fullTurn {
		_, err := d.Circle(a.Center.X, a.Center.Y, 0, r)
		return 1, err
	}
	start, end := sheetAngles(a, mirrored)
	_, err := d.Arc(a.Center.X, a.Center.Y, 0, r, degrees(start), degrees(end))
	return 1, err
}

func degrees(r float64) float64 {
	deg := math.Mod(r*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

