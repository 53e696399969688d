package emit

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/facesvg/pkg/geom"
	"github.com/chazu/facesvg/pkg/path"
)

// Result is the path data for one loop and the box over its command points.
type Result struct {
	Data   string
	Bounds geom.Bounds
}

// Emit writes loop as "M x y" followed by one L or A command group per part,
// joined by single spaces and closed with " Z ".
func Emit(loop path.Loop) Result {
	var bounds geom.Bounds
	pieces := lo.Map(loop, func(p path.Part, i int) string {
		var sb strings.Builder
		if i == 0 {
			start := p.Start()
			fmt.Fprintf(&sb, "M %0.3f %0.3f", start.X, start.Y)
			bounds = bounds.Include(start)
		}
		switch v := p.(type) {
		case path.Segment:
			fmt.Fprintf(&sb, " L %0.3f %0.3f", v.To.X, v.To.Y)
			bounds = bounds.Include(v.From).Include(v.To)
		case path.Arc:
			data, pts := arcData(v)
			sb.WriteString(data)
			bounds = bounds.Include(v.Start())
			for _, pt := range pts {
				bounds = bounds.Include(pt)
			}
		}
		return sb.String()
	})
	return Result{
		Data:   strings.Join(pieces, " ") + " Z ",
		Bounds: bounds,
	}
}

// Merge joins several results into one path, as used for evenodd pockets.
// The bounds of the merged result cover every input.
func Merge(results []Result) Result {
	return Result{
		Data: strings.Join(lo.Map(results, func(r Result, _ int) string { return r.Data }), " "),
		Bounds: lo.Reduce(results, func(b geom.Bounds, r Result, _ int) geom.Bounds {
			return b.Union(r.Bounds)
		}, geom.Bounds{}),
	}
}
