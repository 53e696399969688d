package svgdoc

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/facesvg/pkg/emit"
	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/path"
	"github.com/chazu/facesvg/pkg/profile"
)

func TestGray(t *testing.T) {
	tests := []struct {
		depth, max float64
		want       string
	}{
		{0, 0.75, "rgb(70,70,70)"},
		{0.375, 0.75, "rgb(120,120,120)"},
		{0.75, 0.75, "rgb(170,170,170)"},
		{2, 0.75, "rgb(170,170,170)"},
		{0.3, 0, "rgb(170,170,170)"},
	}
	for _, tt := range tests {
		if got := Gray(tt.depth, tt.max); got != tt.want {
			t.Errorf("Gray(%g, %g) = %s, want %s", tt.depth, tt.max, got, tt.want)
		}
	}
}

func TestPathAttributesOrder(t *testing.T) {
	tests := []struct {
		kind profile.LoopKind
		want string
	}{
		{profile.LoopExterior, `shaper:pathType="exterior" shaper:cutDepth="0.250" fill="rgb(0,0,0)"`},
		{profile.LoopInterior, `shaper:pathType="interior" shaper:cutDepth="0.250" fill="rgb(255,255,255)" stroke="rgb(0,0,0)" stroke-width="2" vector-effect="non-scaling-stroke"`},
		{profile.LoopPocket, `shaper:pathType="hogging" shaper:cutDepth="0.250" fill-rule="evenodd" fill="rgb(103,103,103)" stroke-width="2" stroke="rgb(103,103,103)" vector-effect="non-scaling-stroke"`},
		{profile.LoopGuide, `shaper:pathType="guide" stroke-width="2" stroke="rgb(20,110,255)" vector-effect="non-scaling-stroke" fill="none"`},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			attrs := PathAttributes(tt.kind, 0.25, 0.75)
			parts := make([]string, len(attrs))
			for i, a := range attrs {
				parts[i] = a.String()
			}
			if got := strings.Join(parts, " "); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func square(x, y, s float64) emit.Result {
	return emit.Emit(path.Loop{
		path.Line(x, y, x+s, y),
		path.Line(x+s, y, x+s, y+s),
		path.Line(x+s, y+s, x, y+s),
		path.Line(x, y+s, x, y),
	})
}

func TestCanvasWrite(t *testing.T) {
	vp := geom.NewBounds(geom.V(0, 0), geom.V(10, 6))
	c := NewCanvas("shelf", vp, "in", 0.75)
	c.AddCutPaths([]emit.Result{square(0, 0, 6), square(1, 1, 2)}, 0.25)
	c.AddGuidePaths([]emit.Result{square(7, 0, 1)})
	c.AddPocketPaths([]emit.Result{square(1, 1, 2)}, 0.375)
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`height="6.000in"`,
		`width="10.000in"`,
		`version="1.1"`,
		`viewBox="0.000 0.000 10.000 6.000"`,
		`xmlns:shaper="http://www.shapertools.com/namespaces/shaper"`,
		`shaper:sketchupaddin="dev"`,
		`xmlns="http://www.w3.org/2000/svg"`,
		"ARC is A xrad yrad",
		"<title>shelf cut profile</title>",
		"<desc>Shaper cut profile from model shelf</desc>",
		`transform="matrix(1,0,0,-1,0.0,6.000)"`,
		`d="M 0.000 0.000 L 6.000 0.000`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// Largest extent first; the pocket sorts after the interior cut it matches.
	order := []string{`"exterior"`, `"interior"`, `"hogging"`, `"guide"`}
	last := -1
	for _, marker := range order {
		i := strings.Index(out, marker)
		if i < 0 {
			t.Fatalf("missing %s", marker)
		}
		if i < last {
			t.Errorf("%s written out of extent order", marker)
		}
		last = i
	}
	if strings.Index(out, "<title>") > strings.Index(out, "<path") {
		t.Error("title should precede paths")
	}
}

func TestCanvasPocketMergesLoops(t *testing.T) {
	c := NewCanvas("p", geom.NewBounds(geom.V(0, 0), geom.V(4, 4)), "mm", 20)
	c.AddPocketPaths([]emit.Result{square(0, 0, 4), square(1, 1, 1)}, 5)
	if c.Len() != 1 {
		t.Fatalf("pocket should be one path, got %d", c.Len())
	}
	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "M "); n != 2 {
		t.Errorf("merged path has %d subpaths, want 2", n)
	}
	if !strings.Contains(buf.String(), `fill-rule="evenodd"`) {
		t.Error("pocket path needs evenodd fill")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCanvasWriteError(t *testing.T) {
	c := NewCanvas("x", geom.Bounds{}, "in", 1)
	err := c.Write(failWriter{})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write error, got %v", err)
	}
}
