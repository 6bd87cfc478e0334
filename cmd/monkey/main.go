package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/podhmo/monkey"
	"github.com/podhmo/monkey/object"
)

const usage = `Usage: monkey [options] <command> [arguments]

Commands:
  run <file>          run a script and print its final value
  repl                start an interactive session (default)
  check <file>...     report parse errors without running

Options:
`

// logLevelVar is a flag.Value for slog.LevelVar
type logLevelVar struct {
	levelVar *slog.LevelVar
	set      bool
}

func (v *logLevelVar) String() string {
	if v.levelVar == nil {
		return ""
	}
	return v.levelVar.Level().String()
}

func (v *logLevelVar) Set(s string) error {
	var level slog.Level
	switch strings.ToLower(s) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level: %s", s)
	}
	v.levelVar.Set(level)
	v.set = true
	return nil
}

func main() {
	code, err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("!! %+v", err)
	}
	os.Exit(code)
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	config *Config
	logger *slog.Logger
}

// run returns the process exit code: 0 on success or exit(), 1 on a
// runtime error and 2 on parse errors or bad usage. A non-nil error means
// the command could not be set up at all.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	fs := flag.NewFlagSet("monkey", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to the YAML config file (default $HOME/"+defaultConfigName+")")
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelWarn)
	levelFlag := &logLevelVar{levelVar: logLevel}
	fs.Var(levelFlag, "log-level", "set log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, nil
		}
		return 2, nil
	}

	path, explicit := *configPath, true
	if path == "" {
		path, explicit = defaultConfigPath(), false
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return 0, err
	}
	if !levelFlag.set && cfg.LogLevel != "" {
		if err := levelFlag.Set(cfg.LogLevel); err != nil {
			return 0, fmt.Errorf("config: %w", err)
		}
	}

	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		config: cfg,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})),
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return a.cmdRepl(ctx, nil)
	}
	switch rest[0] {
	case "run":
		return a.cmdRun(ctx, rest[1:])
	case "repl":
		return a.cmdRepl(ctx, rest[1:])
	case "check":
		return a.cmdCheck(ctx, rest[1:])
	case "help":
		fs.Usage()
		return 0, nil
	default:
		// monkey <file> is a shorthand for monkey run <file>
		return a.cmdRun(ctx, rest)
	}
}

func (a *app) newInterpreter() (*monkey.Interpreter, error) {
	return monkey.NewInterpreter(
		monkey.WithStdin(a.stdin),
		monkey.WithStdout(a.stdout),
		monkey.WithStderr(a.stderr),
		monkey.WithLogger(a.logger),
	)
}

func (a *app) cmdRun(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2, nil
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "Usage: monkey run <file>")
		return 2, nil
	}
	filename := fs.Arg(0)

	source, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("reading script: %w", err)
	}
	interp, err := a.newInterpreter()
	if err != nil {
		return 0, fmt.Errorf("creating interpreter: %w", err)
	}

	code := 0
	if err := interp.LoadFile(filename, source); err != nil {
		var perr *monkey.ParseError
		if !errors.As(err, &perr) {
			return 0, err
		}
		printDiagnostics(a.stdout, perr.Diagnostics)
		code = 2
	}

	result, err := interp.Run(ctx)
	var rerr *monkey.RuntimeError
	switch {
	case errors.Is(err, monkey.ErrExit):
		return code, nil
	case errors.As(err, &rerr):
		fmt.Fprintln(a.stderr, rerr.Err.Inspect())
		return 1, nil
	case err != nil:
		return 0, err
	}
	if result.Value != object.NULL {
		fmt.Fprintln(a.stdout, result.Value.Inspect())
	}
	return code, nil
}

func (a *app) cmdCheck(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2, nil
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(a.stderr, "Usage: monkey check <file>...")
		return 2, nil
	}

	results, err := monkey.CheckFiles(ctx, fs.Args()...)
	if err != nil {
		return 0, err
	}
	code := 0
	for _, r := range results {
		a.logger.Info("checked", "path", r.Path, "diagnostics", len(r.Diagnostics))
		if len(r.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintf(a.stdout, "%s:\n", r.Path)
		printDiagnostics(a.stdout, r.Diagnostics)
		code = 2
	}
	return code, nil
}

func printDiagnostics(w io.Writer, diagnostics []string) {
	for _, msg := range diagnostics {
		fmt.Fprintf(w, "\t%s\n", msg)
	}
}
