// Package main is the entry point for the lgrep tool.
// lgrep prints every line of a file that contains a query string.
//
// Usage:
//
//	lgrep [flags] <query> <filename>
//
// Set LGREP_CASE_INSENSITIVE (to any value) to search case-insensitively.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/f4ah6o/lgrep-go/internal/config"
	"github.com/f4ah6o/lgrep-go/internal/runner"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	exitOK    = 0
	exitError = 1
)

// app carries the process streams and environment so the CLI can be driven
// from tests.
type app struct {
	stdout io.Writer
	// diag receives "Problem parsing arguments" and "Application error"
	// messages as well as log output.
	diag   io.Writer
	lookup config.LookupFunc
	// colorize reports whether diag is a terminal that should get colored output.
	colorize bool
}

// options holds the values of the optional flags.
type options struct {
	showHelp    bool
	showVersion bool
	verbose     int
	noColor     bool
}

func main() {
	a := &app{
		stdout:   os.Stdout,
		diag:     os.Stderr,
		lookup:   os.LookupEnv,
		colorize: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
	os.Exit(a.run(os.Args))
}

func newFlagSet(prog string, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	// Usage is printed by the caller once it knows the arguments are not
	// a query and filename after all.
	fs.Usage = func() {}
	fs.SetInterspersed(false)

	fs.BoolVarP(&opts.showVersion, "version", "V", false, "Show version and exit")
	fs.CountVarP(&opts.verbose, "verbose", "v", "Increase verbosity (-v for debug logs)")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable color output (respects NO_COLOR env var)")
	return fs
}

// parseArgs separates flags from the <query> <filename> positionals.
// When there are at least two raw arguments but flag parsing fails or leaves
// fewer than two positionals, the raw arguments are taken as positionals, so
// "lgrep -v notes.txt" searches for "-v".
func parseArgs(prog string, rest []string) (options, []string, error) {
	var opts options
	fs := newFlagSet(prog, &opts)

	err := fs.Parse(rest)
	if len(rest) >= 2 && (err != nil || fs.NArg() < 2) {
		return options{}, rest, nil
	}
	if errors.Is(err, flag.ErrHelp) {
		return options{showHelp: true}, nil, nil
	}
	if err != nil {
		return options{}, nil, err
	}
	return opts, fs.Args(), nil
}

func (a *app) printUsage(prog string) {
	fmt.Fprintf(a.diag, `lgrep - print lines of a file that contain a query

Usage:
  %s [flags] <query> <filename>

Flags:
`, prog)
	fs := newFlagSet(prog, &options{})
	fs.SetOutput(a.diag)
	fs.PrintDefaults()
	fmt.Fprintf(a.diag, `
Flags apply only when a query and filename follow them; otherwise every
argument is taken literally, so "%[2]s -v notes.txt" searches for "-v".

Environment Variables:
  %[1]s  Search case-insensitively when set (any value)
  NO_COLOR                Disable color output

Examples:
  %[2]s body poem.txt
  %[1]s=1 %[2]s to poem.txt
`, config.EnvCaseInsensitive, prog)
}

func (a *app) run(args []string) int {
	if len(args) == 0 {
		args = []string{"lgrep"}
	}
	prog := args[0]

	opts, positionals, parseErr := parseArgs(prog, args[1:])

	if v, ok := a.lookup("NO_COLOR"); ok && v != "" {
		opts.noColor = true
	}

	errColor := color.New(color.FgRed, color.Bold)
	if opts.noColor || !a.colorize {
		errColor.DisableColor()
	} else {
		errColor.EnableColor()
	}

	if parseErr != nil {
		errColor.Fprint(a.diag, "Problem parsing arguments:")
		fmt.Fprintf(a.diag, " %v\n", parseErr)
		return exitError
	}

	if opts.showHelp {
		a.printUsage(prog)
		return exitOK
	}

	if opts.showVersion {
		fmt.Fprintf(a.stdout, "lgrep version %s\n", version)
		fmt.Fprintf(a.stdout, "commit: %s\n", commit)
		fmt.Fprintf(a.stdout, "built: %s\n", date)
		return exitOK
	}

	logger := newLogger(a.diag, opts.verbose)

	cfg, err := config.Resolve(slices.Values(append([]string{prog}, positionals...)), a.lookup)
	if err != nil {
		errColor.Fprint(a.diag, "Problem parsing arguments:")
		fmt.Fprintf(a.diag, " %v\n", err)
		return exitError
	}

	logger.Debug("resolved configuration",
		"query", cfg.Query,
		"filename", cfg.Filename,
		"case_sensitive", cfg.CaseSensitive)

	if err := runner.New(logger).Run(cfg, a.stdout); err != nil {
		errColor.Fprint(a.diag, "Application error:")
		fmt.Fprintf(a.diag, " %v\n", err)
		return exitError
	}

	return exitOK
}

// newLogger returns a text logger on w. Only warnings are shown unless
// verbosity is raised.
func newLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelWarn
	if verbosity > 0 {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
