package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/facesvg/pkg/config"
	"github.com/chazu/facesvg/pkg/relief"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	return NewApp(config.Defaults(config.Inches), "test")
}

func readExample(t *testing.T, name string) string {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("examples", name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(src)
}

func requireOK(t *testing.T, result LayoutResult) {
	t.Helper()
	if !result.OK() {
		for _, e := range result.Errors {
			t.Errorf("layout error (line %d, face %q): %s", e.Line, e.Face, e.Message)
		}
		t.FailNow()
	}
}

// TestE2EPanelExample runs a script through evaluation, validation, relief,
// layout and SVG output.
func TestE2EPanelExample(t *testing.T) {
	app := newTestApp(t)
	result := app.Layout(readExample(t, "panel.fsvg"))
	requireOK(t, result)

	if len(result.Profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(result.Profiles))
	}
	want := []struct{ name, kind string }{
		{"side", "surface"},
		{"dado", "pocket"},
		{"hinge", "guide"},
	}
	for i, w := range want {
		p := result.Profiles[i]
		if p.Name != w.name || p.Kind != w.kind {
			t.Errorf("profile %d = %s/%s, want %s/%s", i, p.Name, p.Kind, w.name, w.kind)
		}
		if p.ID == "" {
			t.Errorf("profile %q has no ID", p.Name)
		}
	}

	side := result.Profiles[0]
	if side.X != 0.5 || side.Y != 0.5 {
		t.Errorf("side placed at (%f, %f), want (0.5, 0.5)", side.X, side.Y)
	}
	if math.Abs(side.Width-12) > 1e-9 || math.Abs(side.Height-8) > 1e-9 {
		t.Errorf("side extent = %fx%f, want 12x8", side.Width, side.Height)
	}
	if side.Loops != 3 {
		t.Errorf("side has %d loops, want 3", side.Loops)
	}

	// The dado does not fit next to the side on a 24 wide sheet.
	dado := result.Profiles[1]
	if dado.X != 0.5 || math.Abs(dado.Y-9) > 1e-9 {
		t.Errorf("dado placed at (%f, %f), want (0.5, 9)", dado.X, dado.Y)
	}
	// Relieved corners bulge past the rectangle.
	if dado.Width <= 12 {
		t.Errorf("dado width = %f, want > 12 after relief", dado.Width)
	}

	// The round hole in the side cannot be relieved.
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
	if msg := result.Warnings[0].Message; msg != relief.IgnoredWarning(1) {
		t.Errorf("warning = %q, want %q", msg, relief.IgnoredWarning(1))
	}

	var buf bytes.Buffer
	if err := app.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	svg := buf.String()
	for _, want := range []string{
		`shaper:pathType="exterior"`,
		`shaper:pathType="interior"`,
		`shaper:pathType="hogging"`,
		`shaper:pathType="guide"`,
		`shaper:cutDepth="0.250"`,
		`xmlns:shaper="http://www.shapertools.com/namespaces/shaper"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s", want)
		}
	}
	if got := strings.Count(svg, "<path"); got != 5 {
		t.Errorf("SVG has %d paths, want 5", got)
	}
}

func TestE2EDrawerAsymmetricRelief(t *testing.T) {
	app := newTestApp(t)
	result := app.Layout(readExample(t, "drawer.fsvg"))
	requireOK(t, result)

	if len(result.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(result.Profiles))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	front := app.geometry[0]
	slot := front.Loops[1]
	if got := len(slot.Arcs()); got != 4 {
		t.Errorf("slot has %d arcs, want 4 (two per long edge)", got)
	}
	if got := len(front.Loops[0].Arcs()); got != 0 {
		t.Errorf("outer loop has %d arcs, want 0", got)
	}

	var buf bytes.Buffer
	if err := app.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `shaper:cutDepth="0.750"`) {
		t.Error("front should be cut at its own depth")
	}
}

func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t)
	result := app.Layout("")
	requireOK(t, result)

	if len(result.Profiles) != 0 {
		t.Errorf("expected 0 profiles, got %d", len(result.Profiles))
	}
	// Slices are non-nil so JSON has [] rather than null.
	if result.Profiles == nil || result.Errors == nil || result.Warnings == nil {
		t.Errorf("result slices should be non-nil: %+v", result)
	}

	var buf bytes.Buffer
	if err := app.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(buf.String(), "<path") {
		t.Error("empty sheet should have no paths")
	}
}

func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t)
	result := app.Layout(`(face "a" :kind :surface (rect 0 0 1 1)`)
	if result.OK() {
		t.Fatal("expected syntax error")
	}
	if app.Placed() != 0 {
		t.Errorf("nothing should be placed, got %d", app.Placed())
	}
}

// TestE2EErrorPlacesNothing checks that one bad face keeps every face in the
// same script off the sheet.
func TestE2EErrorPlacesNothing(t *testing.T) {
	app := newTestApp(t)
	result := app.Layout(`
(face "good" :kind :surface (rect 0 0 2 2))
(face "bad" :kind :pocket (rect 0 0 2 2))
`)
	if result.OK() {
		t.Fatal("expected pocket without depth to fail")
	}
	if result.Errors[0].Face != "bad" {
		t.Errorf("error face = %q, want bad", result.Errors[0].Face)
	}
	if len(result.Profiles) != 0 || app.Placed() != 0 {
		t.Errorf("nothing should be placed: profiles=%d placed=%d", len(result.Profiles), app.Placed())
	}

	// The sheet is untouched: the next good face lands at the origin.
	result = app.Layout(`(face "next" :kind :surface (rect 0 0 2 2))`)
	requireOK(t, result)
	if p := result.Profiles[0]; p.X != 0.5 || p.Y != 0.5 {
		t.Errorf("next placed at (%f, %f), want (0.5, 0.5)", p.X, p.Y)
	}
}

func TestE2EReliefFailureRollsBack(t *testing.T) {
	app := newTestApp(t)
	result := app.Layout(`
(face "plate" :kind :surface (rect 0 0 4 4) (rect 1 1 2 0.2))
(relief-edge "plate" (vec2 0 0) (vec2 4 0))
`)
	if result.OK() {
		t.Fatal("expected relief on the outer loop of a through cut to fail")
	}
	if app.Placed() != 0 {
		t.Errorf("nothing should be placed, got %d", app.Placed())
	}
}

func TestE2ESuccessiveLayoutsShareSheet(t *testing.T) {
	app := newTestApp(t)
	requireOK(t, app.Layout(`(face "a" :kind :surface (rect 0 0 2 2))`))
	result := app.Layout(`(face "b" :kind :surface (rect 0 0 2 2))`)
	requireOK(t, result)

	if p := result.Profiles[0]; p.X != 3 || p.Y != 0.5 {
		t.Errorf("b placed at (%f, %f), want (3, 0.5)", p.X, p.Y)
	}
	if app.Placed() != 2 {
		t.Errorf("placed = %d, want 2", app.Placed())
	}
}

func TestE2EReset(t *testing.T) {
	app := newTestApp(t)
	requireOK(t, app.Layout(`(face "a" :kind :surface (rect 0 0 2 2))`))
	app.Reset()
	app.Reset()

	if app.Placed() != 0 {
		t.Errorf("placed = %d after reset", app.Placed())
	}
	result := app.Layout(`(face "b" :kind :surface (rect 0 0 2 2))`)
	requireOK(t, result)
	if p := result.Profiles[0]; p.X != 0.5 || p.Y != 0.5 {
		t.Errorf("b placed at (%f, %f) after reset, want (0.5, 0.5)", p.X, p.Y)
	}
}

func TestE2ESessionRestore(t *testing.T) {
	first := newTestApp(t)
	requireOK(t, first.Layout(`(face "a" :kind :surface (rect 0 0 2 2))`))
	sess := first.Session("doc")

	var want bytes.Buffer
	if err := first.Write(&want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	second := newTestApp(t)
	second.Restore(sess)
	var got bytes.Buffer
	if err := second.Write(&got); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got.String() != want.String() {
		t.Errorf("restored SVG differs:\n%s\nwant:\n%s", got.String(), want.String())
	}

	result := second.Layout(`(face "b" :kind :surface (rect 0 0 2 2))`)
	requireOK(t, result)
	if p := result.Profiles[0]; p.X != 3 {
		t.Errorf("b placed at x=%f after restore, want 3", p.X)
	}
}

func TestE2EConfiguredDepthAndRelief(t *testing.T) {
	cfg := config.Defaults(config.Millimetres)
	cfg.CutDepth = 12
	app := NewApp(cfg, "mm")

	result := app.Layout(`(face "a" :kind :surface (rect 0 0 100 50) (rect 10 10 40 20))`)
	requireOK(t, result)

	var buf bytes.Buffer
	if err := app.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `shaper:cutDepth="12.000"`) {
		t.Error("face without :depth should use the configured depth")
	}
	if !strings.Contains(buf.String(), `height="`) {
		t.Error("SVG should carry a height")
	}
}

func TestE2ESymmetricConfigRelievesEveryHole(t *testing.T) {
	cfg := config.Defaults(config.Inches)
	cfg.CornerRelief = relief.ModeSymmetric
	app := NewApp(cfg, "test")

	requireOK(t, app.Layout(`(face "a" :kind :surface (rect 0 0 6 6) (rect 1 1 2 2))`))
	if got := len(app.geometry[0].Loops[1].Arcs()); got != 4 {
		t.Errorf("hole has %d arcs, want 4", got)
	}
}

// TestE2EIgnoredLoopsWarnOnce checks that loops skipped by symmetric relief
// are counted across faces and reported in one warning.
func TestE2EIgnoredLoopsWarnOnce(t *testing.T) {
	cfg := config.Defaults(config.Inches)
	cfg.CornerRelief = relief.ModeSymmetric
	app := NewApp(cfg, "test")

	result := app.Layout(`
(face "a" :kind :surface (rect 0 0 6 6) (loop (line 1 1 3 1) (line 3 1 2 3) (line 2 3 1 1)))
(face "b" :kind :surface (rect 0 0 6 6) (loop (line 1 1 3 1) (line 3 1 2 3) (line 2 3 1 1)))
`)
	requireOK(t, result)
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
	if msg := result.Warnings[0].Message; msg != relief.IgnoredWarning(2) {
		t.Errorf("warning = %q, want %q", msg, relief.IgnoredWarning(2))
	}
}

func TestE2EOpenLoopRejected(t *testing.T) {
	app := newTestApp(t)
	result := app.Layout(`(face "u" (loop (line 0 0 4 0) (line 4 0 4 4) (line 4 4 0 4)))`)
	if result.OK() {
		t.Fatal("expected an open loop to fail")
	}
	if !strings.Contains(result.Errors[0].Message, "No edge/arc connected") {
		t.Errorf("error = %q", result.Errors[0].Message)
	}
	if app.Placed() != 0 {
		t.Errorf("placed = %d, want 0", app.Placed())
	}
}

func TestE2EExportFiles(t *testing.T) {
	app := newTestApp(t)
	requireOK(t, app.Layout(readExample(t, "panel.fsvg")))

	dir := t.TempDir()
	dxfFile := filepath.Join(dir, "panel.dxf")
	pngFile := filepath.Join(dir, "panel.png")
	if err := app.WriteDXF(dxfFile); err != nil {
		t.Fatalf("WriteDXF: %v", err)
	}
	if err := app.SavePNG(pngFile); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	for _, f := range []string{dxfFile, pngFile} {
		info, err := os.Stat(f)
		if err != nil {
			t.Fatalf("stat %s: %v", f, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", f)
		}
	}

	var buf bytes.Buffer
	if err := app.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("WritePNG did not produce a PNG")
	}
}
