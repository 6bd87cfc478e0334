package object

import (
	"bufio"
	"hash/fnv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/podhmo/monkey/ast"
)

// ObjectType is a string representation of an object's type.
type ObjectType string

const (
	INTEGER_OBJ      ObjectType = "INTEGER"
	BOOLEAN_OBJ      ObjectType = "BOOLEAN"
	STRING_OBJ       ObjectType = "STRING"
	NULL_OBJ         ObjectType = "NULL"
	ARRAY_OBJ        ObjectType = "ARRAY"
	HASH_OBJ         ObjectType = "HASH"
	FUNCTION_OBJ     ObjectType = "FUNCTION"
	BUILTIN_OBJ      ObjectType = "BUILTIN"
	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
	ERROR_OBJ        ObjectType = "ERROR"
	BREAK_OBJ        ObjectType = "BREAK"
	CONTINUE_OBJ     ObjectType = "CONTINUE"
	EXIT_OBJ         ObjectType = "EXIT"
	CLASS_OBJ        ObjectType = "CLASS"
	INSTANCE_OBJ     ObjectType = "INSTANCE"
)

// Object is the interface that all value types in the interpreter implement.
type Object interface {
	// Type returns the type of the object.
	Type() ObjectType
	// Inspect returns a string representation of the object's value.
	Inspect() string
}

// Hashable is implemented by objects that can be used as hash keys.
type Hashable interface {
	Object
	// HashKey returns a key that is equal for objects with equal content.
	HashKey() HashKey
}

// HashKey is the key of the internal map of a Hash.
type HashKey struct {
	Type  ObjectType
	Value uint64
}

// --- Integer Object ---

// Integer is the only numeric type. A division that does not come out even
// produces an Integer carrying the exact quotient in Float, with Fractional
// set; it is still tagged INTEGER.
type Integer struct {
	Value      int64
	Float      float64
	Fractional bool
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string {
	if i.Fractional {
		return strconv.FormatFloat(i.Float, 'f', -1, 64)
	}
	return strconv.FormatInt(i.Value, 10)
}

func (i *Integer) HashKey() HashKey {
	if i.Fractional {
		return HashKey{Type: i.Type(), Value: math.Float64bits(i.Float)}
	}
	return HashKey{Type: i.Type(), Value: uint64(i.Value)}
}

// Number returns the value as a float64.
func (i *Integer) Number() float64 {
	if i.Fractional {
		return i.Float
	}
	return float64(i.Value)
}

// NewNumber wraps f, collapsing whole values back to plain integers.
func NewNumber(f float64) *Integer {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return &Integer{Value: int64(f)}
	}
	return &Integer{Value: int64(f), Float: f, Fractional: true}
}

// --- Boolean Object ---

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) HashKey() HashKey {
	var value uint64
	if b.Value {
		value = 1
	}
	return HashKey{Type: b.Type(), Value: value}
}

// --- String Object ---

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) HashKey() HashKey {
	h := fnv.New64a()
	h.Write([]byte(s.Value))
	return HashKey{Type: s.Type(), Value: h.Sum64()}
}

// --- Null Object ---

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// --- Array Object ---

// Array is a mutable sequence; push and update modify it in place.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	elements := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		elements = append(elements, e.Inspect())
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// --- Hash Object ---

// HashPair keeps the original key next to its value so the key can be rendered.
type HashPair struct {
	Key   Object
	Value Object
}

type Hash struct {
	Pairs map[HashKey]HashPair
}

func (h *Hash) Type() ObjectType { return HASH_OBJ }

// Inspect renders the pairs sorted by their text, so output is stable.
func (h *Hash) Inspect() string {
	pairs := make([]string, 0, len(h.Pairs))
	for _, pair := range h.Pairs {
		pairs = append(pairs, pair.Key.Inspect()+": "+pair.Value.Inspect())
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ", ") + "}"
}

// --- Function Object ---

// Function is a user-defined function. Env is the environment the literal
// was evaluated in; calls run in a child of it.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	return "fn(" + strings.Join(params, ", ") + ") " + f.Body.String()
}

// --- Builtin Function Object ---

// BuiltinContext provides the I/O streams and helpers a builtin may use.
type BuiltinContext struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	NewError func(format string, args ...any) *Error

	lines *bufio.Reader
}

// ReadLine reads one line from Stdin without its line terminator. The
// buffered reader is kept between calls so no input is lost.
func (ctx *BuiltinContext) ReadLine() (string, error) {
	if ctx.lines == nil {
		if ctx.Stdin == nil {
			return "", io.EOF
		}
		ctx.lines = bufio.NewReader(ctx.Stdin)
	}
	line, err := ctx.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// BuiltinFunction is the signature for built-in functions.
type BuiltinFunction func(ctx *BuiltinContext, args ...Object) Object

type Builtin struct {
	Fn BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function" }

// --- Signals ---

// ReturnValue wraps the value of a return statement while it unwinds to the
// enclosing call.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error is a runtime error. It unwinds to the top of evaluation.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// Error makes it a valid Go error.
func (e *Error) Error() string { return e.Message }

type Break struct{}

func (b *Break) Type() ObjectType { return BREAK_OBJ }
func (b *Break) Inspect() string  { return "break" }

type Continue struct{}

func (c *Continue) Type() ObjectType { return CONTINUE_OBJ }
func (c *Continue) Inspect() string  { return "continue" }

// Exit is produced by the exit builtin: stop, successfully.
type Exit struct{}

func (e *Exit) Type() ObjectType { return EXIT_OBJ }
func (e *Exit) Inspect() string  { return "exit" }

// --- Classes ---

// Class holds the fields and methods of a class literal in a parentless
// environment. Calling it creates an instance with its own copy.
type Class struct {
	Body *ast.BlockStatement
	Env  *Environment
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "class " + c.Body.String() }

type ClassInstance struct {
	Class *Class
	Env   *Environment
}

func (ci *ClassInstance) Type() ObjectType { return INSTANCE_OBJ }
func (ci *ClassInstance) Inspect() string  { return "instance" }

// --- Global Instances ---

// Singletons; never mutated.
var (
	TRUE     = &Boolean{Value: true}
	FALSE    = &Boolean{Value: false}
	NULL     = &Null{}
	BREAK    = &Break{}
	CONTINUE = &Continue{}
	EXIT     = &Exit{}
)
