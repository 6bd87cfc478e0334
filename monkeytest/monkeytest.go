// Package monkeytest provides helpers for testing monkey scripts.
package monkeytest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/monkey"
	"github.com/podhmo/monkey/object"
)

// Runner runs a script in a fresh interpreter with captured output.
type Runner struct {
	t       *testing.T
	source  string
	input   string
	options []monkey.Option
}

// NewRunner creates a runner for a single script.
func NewRunner(t *testing.T, source string) *Runner {
	t.Helper()
	return &Runner{t: t, source: source}
}

// WithInput sets the text the input builtin reads from.
func (r *Runner) WithInput(input string) *Runner {
	r.input = input
	return r
}

// WithOptions passes extra options to the interpreter, e.g. monkey.WithGlobals.
func (r *Runner) WithOptions(options ...monkey.Option) *Runner {
	r.options = append(r.options, options...)
	return r
}

// Result provides access to the outcome of a script execution.
type Result struct {
	interp *monkey.Interpreter

	// Value is the value of the last statement, nil when the script failed.
	Value object.Object
	// Stdout is everything the script printed.
	Stdout string
	// Err is the error returned by the interpreter, if any.
	Err error
}

// Get retrieves a global variable by name from the script's environment.
func (r *Result) Get(name string) (object.Object, bool) {
	return r.interp.Get(name)
}

// Run parses and evaluates the script. Parse diagnostics fail the test;
// runtime errors are kept in Result.Err.
func (r *Runner) Run() *Result {
	r.t.Helper()

	var stdout bytes.Buffer
	options := append([]monkey.Option{
		monkey.WithStdin(strings.NewReader(r.input)),
		monkey.WithStdout(&stdout),
		monkey.WithStderr(&stdout),
	}, r.options...)
	interp, err := monkey.NewInterpreter(options...)
	if err != nil {
		r.t.Fatalf("failed to create interpreter: %+v", err)
	}

	if err := interp.LoadFile("main.mk", []byte(r.source)); err != nil {
		r.t.Fatalf("failed to load script: %+v", err)
	}
	res, err := interp.Run(context.Background())
	result := &Result{interp: interp, Stdout: stdout.String(), Err: err}
	if res != nil {
		result.Value = res.Value
	}
	return result
}

// AssertSuccess fails the test if the script ended with an error.
// A script that stopped itself with exit() counts as a success.
func AssertSuccess(t *testing.T, result *Result) {
	t.Helper()
	if result.Err != nil && !errors.Is(result.Err, monkey.ErrExit) {
		t.Fatalf("expected success, but got error: %+v", result.Err)
	}
}

// AssertError fails the test if the script did not end with a runtime
// error whose message contains each of contains.
func AssertError(t *testing.T, result *Result, contains ...string) {
	t.Helper()
	var rerr *monkey.RuntimeError
	if !errors.As(result.Err, &rerr) {
		t.Fatalf("expected a runtime error, but got %v", result.Err)
	}
	for _, c := range contains {
		if !strings.Contains(rerr.Err.Message, c) {
			t.Errorf("error message %q does not contain %q", rerr.Err.Message, c)
		}
	}
}

// AssertStdout compares what the script printed.
func AssertStdout(t *testing.T, result *Result, want string) {
	t.Helper()
	if diff := cmp.Diff(want, result.Stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
}

// AssertInspect compares the printed form of the script's value.
func AssertInspect(t *testing.T, result *Result, want string) {
	t.Helper()
	if result.Value == nil {
		t.Fatalf("expected value %q, but the script produced none (err=%v)", want, result.Err)
	}
	if diff := cmp.Diff(want, result.Value.Inspect()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}
