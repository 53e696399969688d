// Package engine evaluates capture scripts. It wraps zygomys in a
// sandboxed environment and produces a profile.Collection from user source.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/facesvg/pkg/profile"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs a capture script and returns the faces and relief requests
// it declared.
//
// Return semantics:
//   - On success: returns collection + nil errors + nil error
//   - On parse/eval failure: returns nil collection + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*profile.Collection, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := e.evaluate(source)
		ch <- evalResult{collection: c, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*profile.Collection, []EvalError, error) {
	c := profile.New()
	if strings.TrimSpace(source) == "" {
		return c, nil, nil
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, c)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return c, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values,
// pulling out the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
