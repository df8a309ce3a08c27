package syntax

import "unicode/utf8"

// source is a character reader with position tracking.
// It reads UTF-8 encoded source text and provides character-by-character access.
type source struct {
	buf string // source text

	// Position tracking
	line uint32 // current line number (1-based)
	col  uint32 // current column number (1-based, byte offset)

	// Current state
	ch   rune // current character, -1 for EOF
	offs int  // byte offset of ch in buf
	next int  // byte offset of the character after ch

	// Error handling
	errh func(line, col uint32, msg string)
}

// init prepares s to read text.
// The errh function is called for each error; if nil, errors are silently ignored.
func (s *source) init(text string, errh func(line, col uint32, msg string)) {
	*s = source{
		buf:  text,
		line: 1,
		col:  0,  // incremented to 1 by the first nextch
		ch:   -1, // sentinel: "before first char", prevents a line bump
		errh: errh,
	}
	s.nextch()
}

// nextch reads the next character from the source and updates position.
// Sets s.ch to -1 at EOF.
//
// Position tracking: (line, col) always refers to the position of s.ch after nextch() returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.offs = s.next
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRuneInString(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("Invalid UTF-8 encoding.")
		// Continue anyway to avoid getting stuck
	}

	s.ch = r
	s.next = s.offs + width
}

// peekNext returns the character after s.ch without consuming anything,
// or -1 at EOF.
func (s *source) peekNext() rune {
	if s.next >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s.buf[s.next:])
	return r
}

// match consumes s.ch if it equals want.
func (s *source) match(want rune) bool {
	if s.ch != want {
		return false
	}
	s.nextch()
	return true
}

// segment returns the source text from start up to, not including, s.ch.
func (s *source) segment(start int) string {
	return s.buf[start:s.offs]
}

// pos returns the current position (position of current character).
func (s *source) pos() Pos {
	return NewPos(s.line, s.col)
}

// error reports an error at the current position.
func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

// Character classification helpers

// isLetter reports whether r is a letter (a-z, A-Z, or _).
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isWhitespace reports whether r is insignificant whitespace.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
