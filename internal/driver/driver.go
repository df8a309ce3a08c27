// Package driver runs loxi source through the scanner, the parser and
// the interpreter, and reports the diagnostics of each phase.
package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/you-not-fish/loxi/internal/config"
	"github.com/you-not-fish/loxi/internal/interp"
	"github.com/you-not-fish/loxi/internal/syntax"
)

// Options configures a Runner.
type Options struct {
	Config *config.Config // nil means config.Default()
	Stdout io.Writer      // print output
	Stderr io.Writer      // diagnostics
	Color  bool           // color diagnostics

	// Logger receives phase trace records at debug level. Nil disables tracing.
	Logger *slog.Logger
}

// Runner executes source text. One Runner owns one interpreter, so
// globals defined by one Run are visible to the next.
type Runner struct {
	cfg    *config.Config
	interp *interp.Interpreter
	rep    *Reporter
	logger *slog.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Runner{
		cfg: cfg,
		interp: interp.New(stdout, interp.Options{
			EagerTernary: cfg.Interpreter.EagerTernary,
			Logger:       opts.Logger,
		}),
		rep:    NewReporter(stderr, opts.Color),
		logger: opts.Logger,
	}
}

// Reporter returns the Runner's diagnostic reporter.
func (r *Runner) Reporter() *Reporter {
	return r.rep
}

// Globals returns the interpreter's global scope.
func (r *Runner) Globals() *interp.Environment {
	return r.interp.Globals()
}

// RunFile reads and runs the script at path and returns the process
// exit code.
func (r *Runner) RunFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		r.rep.IOError(err)
		return r.rep.ExitCode()
	}
	return r.Run(path, string(src))
}

// Run scans, parses and executes src, stopping after the first phase
// that reports an error. The name identifies the source in trace
// records. Run returns the exit code for this source.
func (r *Runner) Run(name, src string) int {
	r.rep.Reset()

	start := time.Now()
	toks, _ := syntax.ScanTokens(src, r.rep.Error)
	r.trace("scan", start,
		slog.String("source", name),
		slog.String("size", humanize.Bytes(uint64(len(src)))),
		slog.Int("tokens", len(toks)))
	if r.rep.HadError {
		return r.rep.ExitCode()
	}

	start = time.Now()
	p := syntax.NewParser(toks, r.rep.Error)
	p.SetSynchronize(r.cfg.Parser.Synchronize)
	p.SetMaxErrors(r.cfg.Parser.MaxErrors)
	stmts := p.Parse()
	r.trace("parse", start,
		slog.Int("stmts", len(stmts)),
		slog.Int("errors", p.Errors()))
	if r.rep.HadError {
		return r.rep.ExitCode()
	}

	start = time.Now()
	err := r.interp.Interpret(stmts)
	r.trace("interpret", start, slog.Bool("ok", err == nil))
	if err != nil {
		var rerr *interp.RuntimeError
		if errors.As(err, &rerr) {
			r.rep.RuntimeError(rerr)
		} else {
			r.rep.IOError(fmt.Errorf("%s: %w", name, err))
		}
	}
	return r.rep.ExitCode()
}

func (r *Runner) trace(phase string, start time.Time, attrs ...any) {
	if r.logger == nil {
		return
	}
	attrs = append(attrs, slog.Duration("elapsed", time.Since(start)))
	r.logger.Debug(phase, attrs...)
}

// Incomplete reports whether src ends in the middle of a statement, so
// that an interactive reader should ask for another line: an
// unterminated string, or a syntax error at the end of input.
func Incomplete(src string) bool {
	var atEOF, other bool
	toks, _ := syntax.ScanTokens(src, func(tok syntax.Token, msg string) {
		if tok.Kind == syntax.EOF {
			atEOF = true
		} else {
			other = true
		}
	})
	if other {
		return false
	}
	if atEOF {
		return true
	}

	p := syntax.NewParser(toks, nil)
	p.SetSynchronize(false)
	p.Parse()
	var serr *syntax.Error
	if errors.As(p.FirstError(), &serr) {
		return serr.Tok.Kind == syntax.EOF
	}
	return false
}
