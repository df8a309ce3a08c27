package driver

import (
	"fmt"
	"io"

	"github.com/you-not-fish/loxi/internal/interp"
	"github.com/you-not-fish/loxi/internal/syntax"
)

// Exit codes, following sysexits.h.
const (
	ExitOK       = 0
	ExitUsage    = 64 // EX_USAGE: bad command line
	ExitDataErr  = 65 // EX_DATAERR: lexical or syntax error
	ExitSoftware = 70 // EX_SOFTWARE: runtime error
	ExitIOErr    = 74 // EX_IOERR: the script could not be read or output failed
)

// Reporter prints diagnostics and remembers which kinds were reported.
type Reporter struct {
	w     io.Writer
	color bool

	// HadError is set by lexical and syntax errors.
	HadError bool
	// HadRuntimeError is set by runtime errors.
	HadRuntimeError bool
	// HadIOError is set when reading the script or writing output failed.
	HadIOError bool

	count int
}

// NewReporter returns a Reporter writing to w. With color set,
// diagnostics are printed in red.
func NewReporter(w io.Writer, color bool) *Reporter {
	return &Reporter{w: w, color: color}
}

// Error reports a lexical or syntax error. It has the signature of a
// syntax.ErrorHandler.
func (r *Reporter) Error(tok syntax.Token, msg string) {
	r.HadError = true
	r.print(syntax.FormatError(tok, msg))
}

// RuntimeError reports a runtime error.
func (r *Reporter) RuntimeError(err *interp.RuntimeError) {
	r.HadRuntimeError = true
	r.print(err.Error())
}

// IOError reports an I/O failure.
func (r *Reporter) IOError(err error) {
	r.HadIOError = true
	r.print("loxi: " + err.Error())
}

func (r *Reporter) print(line string) {
	r.count++
	if r.color {
		line = red(line)
	}
	fmt.Fprintln(r.w, line)
}

// Count returns the number of diagnostics printed so far.
func (r *Reporter) Count() int {
	return r.count
}

// Reset clears the error flags. The REPL calls it before each input so
// that one bad line does not poison the next.
func (r *Reporter) Reset() {
	r.HadError = false
	r.HadRuntimeError = false
	r.HadIOError = false
}

// ExitCode maps the reported errors to a process exit code.
func (r *Reporter) ExitCode() int {
	switch {
	case r.HadIOError:
		return ExitIOErr
	case r.HadError:
		return ExitDataErr
	case r.HadRuntimeError:
		return ExitSoftware
	}
	return ExitOK
}

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }
