package relief

import (
	"errors"

	"github.com/samber/lo"

	"github.com/chazu/facesvg/pkg/logging"
	"github.com/chazu/facesvg/pkg/path"
)

// Batch applies symmetric relief to many loops. Loops that are not
// rectangles are returned unchanged and counted; callers relieving several
// faces add the counts up and report one IgnoredWarning. Any other failure
// aborts the batch. With ModeSymmetricAuto every skip is silent: the count
// is 0 and no error is returned.
func Batch(loops []path.Loop, opts Options) ([]path.Loop, int, error) {
	auto := opts.Mode == ModeSymmetricAuto
	out := make([]path.Loop, len(loops))
	ignored := 0
	for i, l := range loops {
		if auto {
			out[i], _ = Auto(l, opts)
			continue
		}
		relieved, err := Symmetric(l, opts)
		var nre *NotRectangularError
		switch {
		case errors.As(err, &nre):
			ignored++
			out[i] = l
		case err != nil:
			return nil, 0, err
		default:
			out[i] = relieved
		}
	}

	logging.Logger().Debug("relief: batch",
		"loops", len(loops),
		"relieved", lo.CountBy(out, func(l path.Loop) bool { return len(l.Arcs()) > 0 }),
		"ignored", ignored)
	return out, ignored, nil
}
