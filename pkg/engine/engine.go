// Package engine provides the Lisp evaluation engine for flexure profiles.
// It wraps zygomys in a sandboxed environment and produces a library of
// profiles from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/flexure/pkg/library"
	zygo "github.com/glycerine/zygomys/zygo"
)

// DefaultCategory is the category of a defprofile without :category.
const DefaultCategory = "User"

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

// EvalWarning is a non-fatal advisory about a defined profile, such as a
// gap between consecutive primitives.
type EvalWarning struct {
	Profile string
	Index   int // primitive index within the profile
	Message string
}

func (w EvalWarning) String() string {
	return fmt.Sprintf("%s: primitive %d: %s", w.Profile, w.Index, w.Message)
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Library  *library.Library
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for profile evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	base       *library.Library
}

// NewEngine creates a new Engine. Profiles in base can be referenced from
// source with (profile "name"); base may be nil.
func NewEngine(base *library.Library) *Engine {
	if base == nil {
		base = library.Empty()
	}
	return &Engine{base: base}
}

// Evaluate takes Lisp source code and produces a library holding every
// profile the source defines.
//
// Return semantics:
//   - On success: returns library + nil errors + nil error
//   - On parse/eval failure: returns nil library + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*library.Library, []EvalError, error) {
	res, err := e.EvaluateResult(source)
	if err != nil {
		return nil, nil, err
	}
	return res.Library, res.Errors, nil
}

// EvaluateResult is like Evaluate but also reports profile warnings.
func (e *Engine) EvaluateResult(source string) (*EvalResult, error) {
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

		ch <- e.evaluate(source)
	}()

	res, err := waitWithTimeout(ch, gen, &e.mu, &e.generation)
	if err != nil {
		return nil, err
	}
	return &EvalResult{Library: res.lib, Errors: res.errors, Warnings: res.warnings}, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) evalResult {
	// Empty source is a valid program that defines nothing.
	if strings.TrimSpace(source) == "" {
		return evalResult{lib: library.Empty()}
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	st := newState(e.base)
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return evalResult{errors: parseZygomysError(err)}
	}
	if _, err := env.Run(); err != nil {
		return evalResult{errors: parseZygomysError(err)}
	}

	lib, err := st.build()
	if err != nil {
		return evalResult{errors: []EvalError{{Message: err.Error()}}}
	}
	return evalResult{lib: lib, warnings: st.warnings}
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
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
