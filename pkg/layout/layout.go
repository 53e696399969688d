// Package layout places profile bounding boxes on a fixed-width sheet using
// greedy shelf packing: left to right in rows, wrapping to a new row when
// the sheet width is exceeded. Placement is online and deterministic; a box
// is never moved once placed.
package layout

import (
	"math"

	"github.com/chazu/facesvg/pkg/geom"
)

// Cursor is the running shelf state: where the next box goes and the height
// of the tallest box in the current row.
type Cursor struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	RowHeight float64 `json:"row_height"`
}

// Origin is the cursor of an empty sheet.
func Origin(spacing float64) Cursor {
	return Cursor{X: spacing, Y: spacing}
}

func (c Cursor) wrap(spacing float64) Cursor {
	return Cursor{X: spacing, Y: c.Y + c.RowHeight + spacing}
}

// Place returns the offset for a box with bounds b and the advanced cursor.
// A box that would overflow a row already holding boxes starts a new row
// first. After placing, the cursor moves right by the box width plus spacing
// and wraps once it is past the sheet width.
func Place(b geom.Bounds, c Cursor, sheetWidth, spacing float64) (geom.Vec, Cursor) {
	w, h := b.Width(), b.Height()
	if c.X > spacing && c.X+w > sheetWidth {
		c = c.wrap(spacing)
	}
	offset := geom.V(c.X, c.Y)

	c.X += spacing + w
	c.RowHeight = math.Max(c.RowHeight, h)
	if c.X > sheetWidth {
		c = c.wrap(spacing)
	}
	return offset, c
}
