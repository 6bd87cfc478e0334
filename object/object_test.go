package object

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/monkey/ast"
	"github.com/podhmo/monkey/token"
)

func TestObjectTypes(t *testing.T) {
	body := &ast.BlockStatement{Token: token.Token{Type: token.LBRACE, Literal: "{"}}
	tests := []struct {
		obj             Object
		expectedType    ObjectType
		expectedInspect string
	}{
		{obj: &Integer{Value: 123}, expectedType: INTEGER_OBJ, expectedInspect: "123"},
		{obj: &Integer{Value: -7}, expectedType: INTEGER_OBJ, expectedInspect: "-7"},
		{obj: NewNumber(3.5), expectedType: INTEGER_OBJ, expectedInspect: "3.5"},
		{obj: &String{Value: "hello"}, expectedType: STRING_OBJ, expectedInspect: "hello"},
		{obj: TRUE, expectedType: BOOLEAN_OBJ, expectedInspect: "true"},
		{obj: FALSE, expectedType: BOOLEAN_OBJ, expectedInspect: "false"},
		{obj: NULL, expectedType: NULL_OBJ, expectedInspect: "null"},
		{obj: &Error{Message: "boom"}, expectedType: ERROR_OBJ, expectedInspect: "ERROR: boom"},
		{obj: &Array{Elements: []Object{&Integer{Value: 1}, &String{Value: "a"}}}, expectedType: ARRAY_OBJ, expectedInspect: "[1, a]"},
		{obj: &ReturnValue{Value: &Integer{Value: 1}}, expectedType: RETURN_VALUE_OBJ, expectedInspect: "1"},
		{obj: &Builtin{}, expectedType: BUILTIN_OBJ, expectedInspect: "builtin function"},
		{obj: BREAK, expectedType: BREAK_OBJ, expectedInspect: "break"},
		{obj: CONTINUE, expectedType: CONTINUE_OBJ, expectedInspect: "continue"},
		{obj: EXIT, expectedType: EXIT_OBJ, expectedInspect: "exit"},
		{obj: &Class{Body: body}, expectedType: CLASS_OBJ, expectedInspect: "class {}"},
		{obj: &ClassInstance{}, expectedType: INSTANCE_OBJ, expectedInspect: "instance"},
		{
			obj: &Function{
				Parameters: []*ast.Identifier{{Value: "x"}, {Value: "y"}},
				Body:       body,
			},
			expectedType:    FUNCTION_OBJ,
			expectedInspect: "fn(x, y) {}",
		},
	}

	for _, tt := range tests {
		if tt.obj.Type() != tt.expectedType {
			t.Errorf("wrong type: expected=%q, got=%q", tt.expectedType, tt.obj.Type())
		}
		if tt.obj.Inspect() != tt.expectedInspect {
			t.Errorf("wrong inspect: expected=%q, got=%q", tt.expectedInspect, tt.obj.Inspect())
		}
	}
}

func TestHashInspectIsSorted(t *testing.T) {
	hash := &Hash{Pairs: map[HashKey]HashPair{}}
	for _, k := range []string{"b", "a", "c"} {
		key := &String{Value: k}
		hash.Pairs[key.HashKey()] = HashPair{Key: key, Value: &Integer{Value: int64(len(hash.Pairs))}}
	}
	if got, want := hash.Inspect(), "{a: 1, b: 0, c: 2}"; got != want {
		t.Errorf("Inspect() = %q, want %q", got, want)
	}
}

func TestStringHashKey(t *testing.T) {
	hello1 := &String{Value: "Hello World"}
	hello2 := &String{Value: "Hello World"}
	diff1 := &String{Value: "My name is johnny"}
	diff2 := &String{Value: "My name is johnny"}

	if hello1.HashKey() != hello2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}
	if diff1.HashKey() != diff2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}
	if hello1.HashKey() == diff1.HashKey() {
		t.Errorf("strings with different content have same hash keys")
	}
}

func TestHashKeysDifferByType(t *testing.T) {
	one := &Integer{Value: 1}
	if one.HashKey() == TRUE.HashKey() {
		t.Errorf("integer 1 and true share a hash key")
	}
	if one.HashKey() != (&Integer{Value: 1}).HashKey() {
		t.Errorf("equal integers have different hash keys")
	}
	if NewNumber(0.5).HashKey() != NewNumber(0.5).HashKey() {
		t.Errorf("equal fractional values have different hash keys")
	}
}

func TestNewNumber(t *testing.T) {
	tests := []struct {
		in             float64
		wantFractional bool
		wantInspect    string
	}{
		{4, false, "4"},
		{-2, false, "-2"},
		{3.5, true, "3.5"},
		{0.25, true, "0.25"},
	}
	for _, tt := range tests {
		got := NewNumber(tt.in)
		if got.Fractional != tt.wantFractional {
			t.Errorf("NewNumber(%v).Fractional = %v, want %v", tt.in, got.Fractional, tt.wantFractional)
		}
		if got.Inspect() != tt.wantInspect {
			t.Errorf("NewNumber(%v).Inspect() = %q, want %q", tt.in, got.Inspect(), tt.wantInspect)
		}
	}
}

func TestBuiltinContextReadLine(t *testing.T) {
	ctx := &BuiltinContext{Stdin: strings.NewReader("first\r\nsecond\nlast")}
	var got []string
	for {
		line, err := ctx.ReadLine()
		if err != nil {
			break
		}
		got = append(got, line)
	}
	if diff := cmp.Diff([]string{"first", "second", "last"}, got); diff != "" {
		t.Errorf("ReadLine() mismatch (-want +got):\n%s", diff)
	}

	empty := &BuiltinContext{}
	if _, err := empty.ReadLine(); err == nil {
		t.Errorf("expected an error without stdin")
	}
}
