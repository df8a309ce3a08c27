package interp

import (
	"fmt"

	"github.com/you-not-fish/loxi/internal/syntax"
)

// RuntimeError is an error raised while executing a program.
// Tok is the token the error is reported at.
type RuntimeError struct {
	Tok syntax.Token
	Msg string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return syntax.FormatError(e.Tok, e.Msg)
}

// errorf returns a runtime error located at tok.
func errorf(tok syntax.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}
