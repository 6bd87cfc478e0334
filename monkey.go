package monkey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/podhmo/monkey/ast"
	"github.com/podhmo/monkey/evaluator"
	"github.com/podhmo/monkey/object"
	"github.com/podhmo/monkey/parser"
)

// Interpreter is the main entry point for embedding the language.
// It holds the evaluator and the root environment, which persists across
// calls, so later evaluations see the bindings of earlier ones.
type Interpreter struct {
	eval      *evaluator.Evaluator
	globalEnv *object.Environment
	logger    *slog.Logger

	filename string
	program  *ast.Program

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	globals map[string]any
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithStdin sets the standard input used by the input builtin.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) {
		i.stdin = r
	}
}

// WithStdout sets the standard output used by print and printl.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stdout = w
	}
}

// WithStderr sets the standard error for the interpreter.
func WithStderr(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stderr = w
	}
}

// WithLogger sets the logger for debug records about parsing and evaluation.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithGlobals injects Go values into the script's global scope.
// The map key is the variable name in the script. Values are converted
// with FromGo.
func WithGlobals(globals map[string]any) Option {
	return func(i *Interpreter) {
		for name, value := range globals {
			i.globals[name] = value
		}
	}
}

// NewInterpreter creates a new interpreter instance, configured with options.
func NewInterpreter(options ...Option) (*Interpreter, error) {
	i := &Interpreter{
		globalEnv: object.NewEnvironment(),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		globals:   map[string]any{},
	}
	for _, opt := range options {
		opt(i)
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for name, value := range i.globals {
		obj, err := FromGo(value)
		if err != nil {
			return nil, fmt.Errorf("converting global %q: %w", name, err)
		}
		i.globalEnv.Set(name, obj, true)
	}

	i.eval = evaluator.New(evaluator.Config{
		Stdin:  i.stdin,
		Stdout: i.stdout,
		Stderr: i.stderr,
		Logger: i.logger,
	})
	return i, nil
}

// ErrExit is returned when a script stops itself by calling exit().
var ErrExit = errors.New("script called exit()")

// ParseError carries the diagnostics of a source text. Parsing problems do
// not stop evaluation; the statements that could be parsed still run.
type ParseError struct {
	Filename    string
	Diagnostics []string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Filename != "" {
		b.WriteString(e.Filename)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%d parse error(s)", len(e.Diagnostics))
	for _, msg := range e.Diagnostics {
		b.WriteString("\n\t")
		b.WriteString(msg)
	}
	return b.String()
}

// RuntimeError wraps the error value a script evaluated to.
type RuntimeError struct {
	Err *object.Error
}

func (e *RuntimeError) Error() string { return "runtime error: " + e.Err.Message }
func (e *RuntimeError) Unwrap() error { return e.Err }

// Result holds the outcome of a script execution.
type Result struct {
	Value object.Object
}

// EvalString parses and evaluates source against the persistent global
// environment. When source has parse errors the parsable part is still
// evaluated, and the *ParseError is returned together with the result.
func (i *Interpreter) EvalString(ctx context.Context, source string) (*Result, error) {
	program, diagnostics := parser.Parse(source)
	return i.evalProgram(ctx, "", program, diagnostics)
}

// EvalLine evaluates a single line of input for the REPL. Unlike
// EvalString it hands back the raw value, which is nil when the line only
// binds names.
func (i *Interpreter) EvalLine(ctx context.Context, line string) (object.Object, error) {
	program, diagnostics := parser.Parse(line)
	result, err := i.evalProgram(ctx, "", program, diagnostics)
	if result == nil {
		return nil, err
	}
	if len(program.Statements) > 0 && producesNoValue(program.Statements[len(program.Statements)-1]) {
		return nil, err
	}
	return result.Value, err
}

// LoadFile parses a script and keeps it for Run. A *ParseError is returned
// for diagnostics, but the partial program is kept and Run evaluates it.
func (i *Interpreter) LoadFile(filename string, source []byte) error {
	program, diagnostics := parser.Parse(string(source))
	i.filename = filename
	i.program = program
	i.logger.Debug("load file", "filename", filename, "statements", len(program.Statements), "diagnostics", len(diagnostics))
	if len(diagnostics) > 0 {
		return &ParseError{Filename: filename, Diagnostics: diagnostics}
	}
	return nil
}

// Run evaluates the program loaded by LoadFile.
func (i *Interpreter) Run(ctx context.Context) (*Result, error) {
	if i.program == nil {
		return nil, fmt.Errorf("no script loaded")
	}
	return i.evalProgram(ctx, i.filename, i.program, nil)
}

// Names returns the names bound in the global scope, sorted.
func (i *Interpreter) Names() []string {
	return i.globalEnv.Names()
}

// Get looks up a global binding.
func (i *Interpreter) Get(name string) (object.Object, bool) {
	return i.globalEnv.Get(name)
}

func (i *Interpreter) evalProgram(ctx context.Context, filename string, program *ast.Program, diagnostics []string) (*Result, error) {
	var parseErr error
	if len(diagnostics) > 0 {
		i.logger.Debug("parse diagnostics", "count", len(diagnostics))
		parseErr = &ParseError{Filename: filename, Diagnostics: diagnostics}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(parseErr, err)
	}

	evaluated := i.eval.Eval(program, i.globalEnv)
	if evaluated == nil {
		evaluated = object.NULL
	}
	i.logger.Debug("script finished", "filename", filename, "type", evaluated.Type())

	switch evaluated := evaluated.(type) {
	case *object.Error:
		return nil, errors.Join(parseErr, &RuntimeError{Err: evaluated})
	case *object.Exit:
		return &Result{Value: evaluated}, errors.Join(parseErr, ErrExit)
	}
	return &Result{Value: evaluated}, parseErr
}

func producesNoValue(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.LetStatement, *ast.AssignStatement:
		return true
	}
	return false
}

// IsIncomplete reports whether diagnostics come from input that ended too
// early, so an interactive reader should ask for more lines.
func IsIncomplete(diagnostics []string) bool {
	return parser.IsIncomplete(diagnostics)
}
