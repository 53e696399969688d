package layout

import (
	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/logging"
)

// Placement is where one profile landed and the cursor after it.
type Placement struct {
	Offset geom.Vec
	Cursor Cursor
}

// Sheet is the layout state of one document. It is not safe for concurrent
// use; callers serialize layout per document.
type Sheet struct {
	Width   float64
	Spacing float64

	cursor   Cursor
	viewport geom.Bounds
}

// NewSheet returns an empty sheet.
func NewSheet(width, spacing float64) *Sheet {
	s := &Sheet{Width: width, Spacing: spacing}
	s.Reset()
	return s
}

// Place positions a box with bounds b and grows the viewport to cover it.
func (s *Sheet) Place(b geom.Bounds) Placement {
	offset, next := Place(b, s.cursor, s.Width, s.Spacing)
	s.cursor = next
	s.viewport = s.viewport.Union(geom.Rect(offset, b.Width(), b.Height()))
	logging.Logger().Debug("layout: placed",
		"bounds", b.String(), "x", offset.X, "y", offset.Y, "next_x", next.X, "next_y", next.Y)
	return Placement{Offset: offset, Cursor: next}
}

// Cursor returns the current cursor.
func (s *Sheet) Cursor() Cursor { return s.cursor }

// Viewport is the union of every placed box; empty before the first Place.
func (s *Sheet) Viewport() geom.Bounds { return s.viewport }

// Reset returns the sheet to its initial state. Calling it again is a no-op.
func (s *Sheet) Reset() {
	s.cursor = Origin(s.Spacing)
	s.viewport = geom.Bounds{}
}

// State is the persistable part of a Sheet.
type State struct {
	Cursor      Cursor   `json:"cursor"`
	HasViewport bool     `json:"has_viewport"`
	ViewMin     geom.Vec `json:"view_min"`
	ViewMax     geom.Vec `json:"view_max"`
}

// State snapshots the cursor and viewport.
func (s *Sheet) State() State {
	st := State{Cursor: s.cursor, HasViewport: !s.viewport.Empty()}
	if st.HasViewport {
		st.ViewMin, st.ViewMax = s.viewport.Min, s.viewport.Max
	}
	return st
}

// Restore replaces the cursor and viewport with a snapshot.
func (s *Sheet) Restore(st State) {
	s.cursor = st.Cursor
	s.viewport = geom.Bounds{}
	if st.HasViewport {
		s.viewport = geom.NewBounds(st.ViewMin, st.ViewMax)
	}
}
