package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/podhmo/monkey"
	"github.com/podhmo/monkey/evaluator"
	"github.com/podhmo/monkey/parser"
	"github.com/podhmo/monkey/token"
)

const continuationPrompt = ".. "

func (a *app) cmdRepl(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	noHistory := fs.Bool("no-history", false, "do not read or write the history file")
	if err := fs.Parse(args); err != nil {
		return 2, nil
	}

	interp, err := a.newInterpreter()
	if err != nil {
		return 0, fmt.Errorf("creating interpreter: %w", err)
	}
	if a.config.Banner != "" {
		fmt.Fprintln(a.stdout, a.config.Banner)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completer(interp))

	historyFile := a.config.HistoryFile
	if *noHistory {
		historyFile = ""
	}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			} else {
				a.logger.Warn("cannot write history", "path", historyFile, "error", err)
			}
		}()
	}

	for {
		code, ok := readByParseProbe(ln, a.config.Prompt, continuationPrompt)
		if !ok {
			fmt.Fprintln(a.stdout)
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if done := a.evalLine(ctx, interp, code); done {
			break
		}
	}
	return 0, nil
}

// evalLine evaluates one REPL entry and prints its outcome. It reports
// whether the session should end.
func (a *app) evalLine(ctx context.Context, interp *monkey.Interpreter, code string) bool {
	value, err := interp.EvalLine(ctx, code)

	var perr *monkey.ParseError
	if errors.As(err, &perr) {
		printDiagnostics(a.stdout, perr.Diagnostics)
	}
	var rerr *monkey.RuntimeError
	switch {
	case errors.Is(err, monkey.ErrExit):
		return true
	case errors.As(err, &rerr):
		fmt.Fprintln(a.stdout, rerr.Err.Inspect())
		return false
	case err != nil && perr == nil:
		fmt.Fprintln(a.stderr, err)
		return false
	}
	if value != nil {
		fmt.Fprintln(a.stdout, value.Inspect())
	}
	return false
}

// readByParseProbe reads lines until they form input that does not end
// early. ok is false when the user closed the input.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if needsMoreInput(src) {
			continue
		}
		return src, true
	}
}

func needsMoreInput(src string) bool {
	_, diagnostics := parser.Parse(src)
	return monkey.IsIncomplete(diagnostics)
}

// completer completes the identifier under the cursor from keywords,
// builtins and the session's global names.
func completer(interp *monkey.Interpreter) liner.Completer {
	return func(line string) []string {
		start := len(line)
		for start > 0 && isIdentByte(line[start-1]) {
			start--
		}
		prefix := line[start:]
		if prefix == "" {
			return nil
		}

		seen := map[string]bool{}
		var candidates []string
		for _, group := range [][]string{token.Keywords(), evaluator.BuiltinNames(), interp.Names()} {
			for _, name := range group {
				if seen[name] || !strings.HasPrefix(name, prefix) {
					continue
				}
				seen[name] = true
				candidates = append(candidates, line[:start]+name)
			}
		}
		return candidates
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
