package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/facesvg/pkg/profile"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult carries one evaluation's output back from its goroutine.
type evalResult struct {
	collection *profile.Collection
	errors     []EvalError
	err        error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds EvalTimeout. A result whose generation is no
// longer current is discarded.
//
// On timeout the goroutine may still be running; the generation check
// drops its result when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*profile.Collection, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}

		return res.collection, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
