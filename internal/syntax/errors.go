package syntax

import "fmt"

// Error is a lexical or syntax error located at a token.
type Error struct {
	Tok Token
	Msg string
}

func (e *Error) Error() string {
	return FormatError(e.Tok, e.Msg)
}

// ErrorHandler is called for each lexical or syntax error.
type ErrorHandler func(tok Token, msg string)

// Where describes the location of tok for a diagnostic:
// "at end" for EOF and "at 'lexeme'" otherwise.
func Where(tok Token) string {
	if tok.Kind == EOF {
		return "at end"
	}
	return fmt.Sprintf("at '%s'", tok.Lexeme)
}

// FormatError renders a diagnostic as "[line N] Error at 'x': msg".
func FormatError(tok Token, msg string) string {
	return fmt.Sprintf("[line %d] Error %s: %s", tok.Line(), Where(tok), msg)
}
