// Package syntax implements lexical and syntactic analysis for the loxi language.
package syntax

import (
	"fmt"

	"github.com/you-not-fish/loxi/internal/value"
)

// Kind represents the type of a lexical token.
type Kind uint

const (
	// Special tokens
	EOF     Kind = iota // end of file
	Illegal             // unexpected character, used to locate lexical errors

	// Literals
	Ident     // identifier: foo, bar
	Label     // loop label: outer (written "outer:")
	StringLit // "hello"
	NumberLit // 12, 3.5

	// Delimiters
	LeftParen  // (
	RightParen // )
	LeftBrace  // {
	RightBrace // }
	Comma      // ,
	Dot        // .
	Semicolon  // ;
	Question   // ?
	Colon      // :

	// Operators
	Slash        // /
	Star         // *
	Plus         // +
	PlusPlus     // ++
	Minus        // -
	MinusMinus   // --
	Bang         // !
	BangEqual    // !=
	Equal        // =
	EqualEqual   // ==
	Greater      // >
	GreaterEqual // >=
	Less         // <
	LessEqual    // <=

	// Keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Let
	While

	kindCount
)

// kindNames maps kinds to their string representation.
var kindNames = [...]string{
	EOF:     "EOF",
	Illegal: "ILLEGAL",

	Ident:     "IDENT",
	Label:     "LABEL",
	StringLit: "STRING",
	NumberLit: "NUMBER",

	LeftParen:  "(",
	RightParen: ")",
	LeftBrace:  "{",
	RightBrace: "}",
	Comma:      ",",
	Dot:        ".",
	Semicolon:  ";",
	Question:   "?",
	Colon:      ":",

	Slash:        "/",
	Star:         "*",
	Plus:         "+",
	PlusPlus:     "++",
	Minus:        "-",
	MinusMinus:   "--",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",

	And:    "and",
	Class:  "class",
	Else:   "else",
	False:  "false",
	Fun:    "fun",
	For:    "for",
	If:     "if",
	Nil:    "nil",
	Or:     "or",
	Print:  "print",
	Return: "return",
	Super:  "super",
	This:   "this",
	True:   "true",
	Let:    "let",
	While:  "while",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsKeyword reports whether k is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= And && k <= While
}

// IsOperator reports whether k is an operator.
func (k Kind) IsOperator() bool {
	return k >= Slash && k <= LessEqual
}

// IsLiteral reports whether k carries a literal value.
func (k Kind) IsLiteral() bool {
	return k == StringLit || k == NumberLit
}

// keywords maps keyword strings to their kind.
var keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"let":    Let,
	"while":  While,
}

// LookupKeyword returns the kind for the given identifier text:
// the keyword kind if ident is a keyword, Ident otherwise.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}

// Token is a single lexical token. Tokens are produced once by the
// scanner and never modified afterwards.
type Token struct {
	Kind    Kind
	Lexeme  string      // source text of the token
	Literal value.Value // value of StringLit and NumberLit tokens, nil otherwise
	Pos     Pos         // position of the first character
}

// Line returns the 1-based source line of the token.
func (t Token) Line() int {
	return int(t.Pos.line)
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, value.Stringify(t.Literal))
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}
