package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/monkey"
)

func newTestApp(t *testing.T) (*app, *monkey.Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := &app{
		stdin:  strings.NewReader(""),
		stdout: &out,
		stderr: &out,
		config: defaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	interp, err := a.newInterpreter()
	if err != nil {
		t.Fatalf("newInterpreter() failed: %+v", err)
	}
	return a, interp, &out
}

func TestEvalLine(t *testing.T) {
	ctx := context.Background()
	a, interp, out := newTestApp(t)

	lines := []struct {
		code string
		want string
	}{
		{"let x = 5;", ""},
		{"x * 2", "10\n"},
		{"printl(x)", "5\nnull\n"},
		{"x + true", "ERROR: type mismatch: INTEGER + BOOLEAN\n"},
		{"let = 1; x", "\texpected next token to be IDENT, got = instead\n\tno prefix parse function for = found\n5\n"},
		{"let add = fn(a, b) { a + b };", ""},
		{"add(1, 2)", "3\n"},
	}
	for _, l := range lines {
		out.Reset()
		if done := a.evalLine(ctx, interp, l.code); done {
			t.Fatalf("evalLine(%q) ended the session", l.code)
		}
		if diff := cmp.Diff(l.want, out.String()); diff != "" {
			t.Errorf("evalLine(%q) output mismatch (-want +got):\n%s", l.code, diff)
		}
	}

	out.Reset()
	if done := a.evalLine(ctx, interp, "exit()"); !done {
		t.Error("exit() should end the session")
	}
	if out.Len() != 0 {
		t.Errorf("exit() should print nothing, got %q", out.String())
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"let x = 1;", false},
		{"let f = fn(x) {", true},
		{"let f = fn(x) {\n x + 1\n};", false},
		{"while (true) {", true},
		{"add(1, ", true},
		{"let = 1;", false},
	}
	for _, tt := range tests {
		if got := needsMoreInput(tt.src); got != tt.want {
			t.Errorf("needsMoreInput(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestCompleter(t *testing.T) {
	_, interp, _ := newTestApp(t)
	if _, err := interp.EvalString(context.Background(), "let printer = 1; let counter = 0;"); err != nil {
		t.Fatalf("EvalString() failed: %+v", err)
	}
	complete := completer(interp)

	tests := []struct {
		line string
		want []string
	}{
		{"pri", []string{"print", "printl", "printer"}},
		{"let y = co", []string{"let y = continue", "let y = counter"}},
		{"wh", []string{"while"}},
		{"zzz", nil},
		{"x + ", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, complete(tt.line)); diff != "" {
			t.Errorf("complete(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}
