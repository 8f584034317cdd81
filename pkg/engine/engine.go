// Package engine evaluates stroke scripts. Scripts are zygomys Lisp run in
// a sandbox; the `stroke` builtin records one stroke per call so a drawing
// can be replayed without a pointer device.
//
//	(stroke "canopy" :brush (vec2 0.02 0.02)
//	  (vec2 0.1 0.5) (vec2 0.5 0.7) (vec2 0.9 0.5))
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	v2 "github.com/deadsy/sdfx/vec/v2"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/drawchute/pkg/stroke"
)

// DefaultBrush is the relative brush size for strokes without :brush.
var DefaultBrush = v2.Vec{X: 0.025, Y: 0.025}

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

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithDefaultBrush sets the brush used by strokes that do not name one.
func WithDefaultBrush(b v2.Vec) Option {
	return func(e *Engine) { e.brush = b }
}

// Engine wraps the zygomys interpreter. Each call to Evaluate creates a
// fresh sandboxed environment for determinism. zygomys keeps global state
// while building sandboxes, so callers serialize Evaluate.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	brush      v2.Vec
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout, brush: DefaultBrush}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs a stroke script and returns the strokes it declares, in
// declaration order.
//
// Return semantics:
//   - On success: returns strokes + nil errors + nil error
//   - On parse/eval failure: returns nil strokes + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) ([]stroke.Stroke, []EvalError, error) {
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

		strokes, evalErrs, err := e.evaluate(source)
		ch <- evalResult{strokes: strokes, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) ([]stroke.Stroke, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return []stroke.Stroke{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	rec := &recorder{brush: e.brush, names: map[string]bool{}}
	registerBuiltins(env, rec)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if rec.strokes == nil {
		rec.strokes = []stroke.Stroke{}
	}
	return rec.strokes, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, pulling out
// the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
