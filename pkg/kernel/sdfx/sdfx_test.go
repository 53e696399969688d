package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/kernel"
)

func rect(x, y, w, h float64) *kernel.Outline {
	return &kernel.Outline{Name: "rect", Points: []geom.Vec{
		geom.V(x, y), geom.V(x+w, y), geom.V(x+w, y+h), geom.V(x, y+h),
	}}
}

func TestPolygon(t *testing.T) {
	k := New()
	r, err := k.Polygon(rect(0, 0, 4, 2))
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	min, max := r.BoundingBox()
	if min[0] > 1e-9 || min[1] > 1e-9 || math.Abs(max[0]-4) > 1e-9 || math.Abs(max[1]-2) > 1e-9 {
		t.Errorf("bounding box = %v %v", min, max)
	}
	if !k.Inside(r, geom.V(1, 1)) {
		t.Error("(1,1) should be inside")
	}
	if k.Inside(r, geom.V(5, 1)) {
		t.Error("(5,1) should be outside")
	}
	if d := k.Distance(r, geom.V(2, 1)); math.Abs(d+1) > 1e-9 {
		t.Errorf("distance at center = %v, want -1", d)
	}
}

func TestPolygonOrientation(t *testing.T) {
	k := New()
	o := rect(0, 0, 2, 2)
	rev := &kernel.Outline{Points: []geom.Vec{o.Points[3], o.Points[2], o.Points[1], o.Points[0]}}
	r, err := k.Polygon(rev)
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	if !k.Inside(r, geom.V(1, 1)) {
		t.Error("clockwise outline: (1,1) should be inside")
	}
}

func TestPolygonTooFewPoints(t *testing.T) {
	k := New()
	_, err := k.Polygon(&kernel.Outline{Name: "line", Points: []geom.Vec{geom.V(0, 0), geom.V(1, 0)}})
	if err == nil {
		t.Fatal("expected error for a two point outline")
	}
}
