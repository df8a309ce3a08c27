package syntax

import (
	"strconv"

	"github.com/you-not-fish/loxi/internal/value"
)

// Scanner performs lexical analysis on loxi source code.
//
// Lexical errors are reported to the error handler and scanning
// continues, so a single pass can surface several independent errors.
type Scanner struct {
	source // embedded character reader

	tok    Token // current token
	start  int   // byte offset of the current token
	errh   ErrorHandler
	errcnt int
}

// NewScanner creates a new Scanner for src.
// The errh function is called for each lexical error; if nil, errors are only counted.
func NewScanner(src string, errh ErrorHandler) *Scanner {
	s := &Scanner{errh: errh}
	s.source.init(src, func(line, col uint32, msg string) {
		s.errorAt(Token{Kind: Illegal, Lexeme: "�", Pos: NewPos(line, col)}, msg)
	})
	return s
}

// ScanTokens scans the whole source and returns its tokens, terminated by
// a single EOF token carrying the final line number.
func ScanTokens(src string, errh ErrorHandler) ([]Token, int) {
	s := NewScanner(src, errh)
	return s.ScanTokens(), s.Errors()
}

// ScanTokens scans the remaining input and returns its tokens, ending with EOF.
func (s *Scanner) ScanTokens() []Token {
	var toks []Token
	for {
		s.Next()
		toks = append(toks, s.tok)
		if s.tok.Kind == EOF {
			return toks
		}
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	s.skipWhitespace()

	s.start = s.offs
	pos := s.pos()

	switch {
	case s.ch < 0:
		s.tok = Token{Kind: EOF, Pos: pos}
		return

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		if !s.scanString() {
			goto redo
		}

	default:
		ch := s.ch
		s.nextch()
		kind, comment := s.scanOperator(ch)
		if comment {
			goto redo
		}
		if kind == Illegal {
			s.errorAt(Token{Kind: Illegal, Lexeme: string(ch), Pos: pos}, "Unexpected character.")
			goto redo
		}
		s.tok = Token{Kind: kind}
	}

	s.tok.Lexeme = s.segment(s.start)
	s.tok.Pos = pos
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return s.tok
}

// Errors returns the number of lexical errors reported so far.
func (s *Scanner) Errors() int {
	return s.errcnt
}

// errorAt reports a lexical error located at tok.
func (s *Scanner) errorAt(tok Token, msg string) {
	s.errcnt++
	if s.errh != nil {
		s.errh(tok, msg)
	}
}

// skipWhitespace skips spaces, tabs, carriage returns and newlines.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}
	s.tok = Token{Kind: LookupKeyword(s.segment(s.start))}
}

// scanNumber scans a number literal: a digit run, optionally followed by
// a '.' and more digits. A '.' with no digit after it is left alone.
func (s *Scanner) scanNumber() {
	for isDigit(s.ch) {
		s.nextch()
	}
	if s.ch == '.' && isDigit(s.peekNext()) {
		s.nextch() // consume .
		for isDigit(s.ch) {
			s.nextch()
		}
	}

	// The lexeme is a plain digit run, so parsing cannot fail.
	f, _ := strconv.ParseFloat(s.segment(s.start), 64)
	s.tok = Token{Kind: NumberLit, Literal: value.Number(f)}
}

// scanString scans a string literal. Strings may span lines; the literal
// is the raw text between the quotes. It reports false, after reporting
// the error, when the closing quote is missing.
func (s *Scanner) scanString() bool {
	s.nextch() // skip opening "
	for s.ch != '"' && s.ch >= 0 {
		s.nextch()
	}

	if s.ch < 0 {
		s.errorAt(Token{Kind: EOF, Pos: s.pos()}, "Unterminated string.")
		return false
	}

	text := s.segment(s.start + 1)
	s.nextch() // skip closing "
	s.tok = Token{Kind: StringLit, Literal: value.String(text)}
	return true
}

// scanOperator scans an operator or delimiter whose first character ch
// has already been consumed. It reports comment=true when a line comment
// was skipped instead, and returns Illegal for characters outside the language.
func (s *Scanner) scanOperator(ch rune) (kind Kind, comment bool) {
	switch ch {
	case '(':
		return LeftParen, false
	case ')':
		return RightParen, false
	case '{':
		return LeftBrace, false
	case '}':
		return RightBrace, false
	case ',':
		return Comma, false
	case '.':
		return Dot, false
	case ';':
		return Semicolon, false
	case '?':
		return Question, false
	case ':':
		return Colon, false
	case '*':
		return Star, false
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return Illegal, true
		}
		return Slash, false
	case '+':
		if s.match('+') {
			return PlusPlus, false
		}
		return Plus, false
	case '-':
		if s.match('-') {
			return MinusMinus, false
		}
		return Minus, false
	case '!':
		if s.match('=') {
			return BangEqual, false
		}
		return Bang, false
	case '=':
		if s.match('=') {
			return EqualEqual, false
		}
		return Equal, false
	case '<':
		if s.match('=') {
			return LessEqual, false
		}
		return Less, false
	case '>':
		if s.match('=') {
			return GreaterEqual, false
		}
		return Greater, false
	}
	return Illegal, false
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
