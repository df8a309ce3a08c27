package syntax

import (
	"fmt"

	"github.com/you-not-fish/loxi/internal/value"
)

// Maximum number of errors before aborting parse.
const maxErrors = 10

// bailout is the panic value used to unwind out of a malformed production.
// It never escapes the parser.
type bailout struct{}

// Parser performs syntax analysis on a loxi token stream.
type Parser struct {
	toks []Token
	idx  int   // index of tok in toks
	tok  Token // current token
	prev Token // most recently consumed token

	// Error handling
	errh        ErrorHandler
	errcnt      int
	first       *Error // first error encountered
	abort       bool   // set when the parse must stop
	maxErrors   int
	synchronize bool // recover at statement boundaries after an error
}

// NewParser creates a new Parser over toks. The token slice should end
// with an EOF token; one is appended if it is missing.
// The errh function is called for each syntax error; if nil, errors are only recorded.
func NewParser(toks []Token, errh ErrorHandler) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != EOF {
		eof := Token{Kind: EOF, Pos: NewPos(1, 1)}
		if len(toks) > 0 {
			eof.Pos = toks[len(toks)-1].Pos
		}
		toks = append(toks[:len(toks):len(toks)], eof)
	}
	return &Parser{
		toks:        toks,
		tok:         toks[0],
		errh:        errh,
		maxErrors:   maxErrors,
		synchronize: true,
	}
}

// SetSynchronize controls error recovery. When enabled (the default) the
// parser skips to the next statement boundary after a syntax error and
// keeps going, so one run can report several independent errors. When
// disabled the first syntax error ends the parse.
func (p *Parser) SetSynchronize(enabled bool) {
	p.synchronize = enabled
}

// SetMaxErrors sets the number of errors after which parsing stops.
// Values below 1 restore the default.
func (p *Parser) SetMaxErrors(n int) {
	if n < 1 {
		n = maxErrors
	}
	p.maxErrors = n
}

// Parse scans and parses src. It returns the statements together with
// the first lexical or syntax error. When the source has lexical errors
// it is not parsed.
func Parse(src string, errh ErrorHandler) ([]Stmt, error) {
	var first *Error
	record := func(tok Token, msg string) {
		if first == nil {
			first = &Error{Tok: tok, Msg: msg}
		}
		if errh != nil {
			errh(tok, msg)
		}
	}

	toks, n := ScanTokens(src, record)
	if n > 0 {
		return nil, first
	}

	p := NewParser(toks, record)
	stmts := p.Parse()
	if p.Errors() > 0 {
		return stmts, first
	}
	return stmts, nil
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token. It never moves past EOF.
func (p *Parser) next() {
	if p.tok.Kind == EOF {
		return
	}
	p.prev = p.tok
	p.idx++
	p.tok = p.toks[p.idx]
}

// peek returns the token after the current one.
func (p *Parser) peek() Token {
	if p.idx+1 < len(p.toks) {
		return p.toks[p.idx+1]
	}
	return p.toks[len(p.toks)-1]
}

// got reports whether the current token is one of kinds.
// If so, it consumes the token and returns true.
func (p *Parser) got(kinds ...Kind) bool {
	for _, k := range kinds {
		if p.tok.Kind == k {
			p.next()
			return true
		}
	}
	return false
}

// want consumes and returns the current token if it has kind k.
// Otherwise it reports msg and abandons the current production.
func (p *Parser) want(k Kind, msg string) Token {
	if p.tok.Kind != k {
		p.fail(p.tok, msg)
	}
	tok := p.tok
	p.next()
	return tok
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxErrorAt reports a syntax error located at tok.
func (p *Parser) syntaxErrorAt(tok Token, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &Error{Tok: tok, Msg: msg}
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(tok, msg)
	}

	if !p.synchronize {
		p.abort = true
		return
	}
	p.errorLimitCheck(tok)
}

// errorLimitCheck aborts parsing if too many errors have occurred.
func (p *Parser) errorLimitCheck(tok Token) {
	if p.errcnt >= p.maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(tok, "Too many errors.")
		}
	}
}

// fail reports a syntax error and unwinds to the enclosing declaration.
func (p *Parser) fail(tok Token, msg string) {
	p.syntaxErrorAt(tok, msg)
	panic(bailout{})
}

// sync skips tokens until a likely statement boundary: just past a ';'
// or just before a keyword that starts a statement.
func (p *Parser) sync() {
	p.next()
	for p.tok.Kind != EOF {
		if p.prev.Kind == Semicolon {
			return
		}
		switch p.tok.Kind {
		case Class, Fun, Let, For, If, While, Print, Return:
			return
		}
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	if p.first == nil {
		return nil
	}
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses the whole token stream and returns the program's
// statements. After a syntax error it returns the statements that were
// parsed successfully.
func (p *Parser) Parse() (stmts []Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
		}
	}()

	for !p.abort && p.tok.Kind != EOF {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// ----------------------------------------------------------------------------
// Declarations

// declaration parses a declaration or statement. With synchronization
// enabled it recovers from a syntax error inside the declaration and
// returns nil.
func (p *Parser) declaration() (s Stmt) {
	if p.synchronize {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(bailout); !ok || p.abort {
					panic(r)
				}
				p.sync()
				s = nil
			}
		}()
	}

	if p.tok.Kind == Let {
		return p.varDecl()
	}
	return p.stmt()
}

// varDecl parses: let Name [= Init];
func (p *Parser) varDecl() *VarStmt {
	s := &VarStmt{}
	s.pos = p.tok.Pos

	p.want(Let, "Expected 'let'.")
	s.Name = p.want(Ident, "Expected variable name.")
	if p.got(Equal) {
		s.Init = p.expr()
	}
	p.want(Semicolon, "Expected ';' after variable declaration.")
	return s
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement.
func (p *Parser) stmt() Stmt {
	switch p.tok.Kind {
	case LeftBrace:
		return p.blockStmt()

	case If:
		return p.ifStmt()

	case While:
		return p.whileStmt(nil)

	case For:
		return p.forStmt(nil)

	case Print:
		return p.printStmt()

	case Ident:
		if p.peek().Kind == Colon {
			return p.labeledStmt()
		}
	}
	return p.exprStmt()
}

// labeledStmt parses: Label: for ... | Label: while ...
func (p *Parser) labeledStmt() Stmt {
	label := p.tok
	label.Kind = Label
	p.next() // identifier
	p.next() // :

	switch p.tok.Kind {
	case While:
		return p.whileStmt(&label)
	case For:
		return p.forStmt(&label)
	}
	p.fail(p.tok, "Expected loop after label.")
	return nil
}

// exprStmt parses: X;
func (p *Parser) exprStmt() *ExprStmt {
	s := &ExprStmt{}
	s.pos = p.tok.Pos
	s.X = p.expr()
	p.want(Semicolon, "Expected ';' after expression.")
	return s
}

// printStmt parses: print(X);
func (p *Parser) printStmt() *PrintStmt {
	s := &PrintStmt{}
	s.pos = p.tok.Pos

	p.want(Print, "Expected 'print'.")
	p.want(LeftParen, "Expected '(' after 'print'.")
	s.X = p.expr()
	p.want(RightParen, "Expected ')' after value.")
	p.want(Semicolon, "Expected ';' after value.")
	return s
}

// blockStmt parses { declarations... }
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.tok.Pos

	p.want(LeftBrace, "Expected '{'.")
	for !p.abort && p.tok.Kind != RightBrace && p.tok.Kind != EOF {
		if s := p.declaration(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	p.want(RightBrace, "Expected '}' after block.")
	return b
}

// ifStmt parses: if (Cond) Then [else Else]
func (p *Parser) ifStmt() *IfStmt {
	s := &IfStmt{}
	s.pos = p.tok.Pos

	p.want(If, "Expected 'if'.")
	p.want(LeftParen, "Expected '(' after 'if'.")
	s.Cond = p.expr()
	p.want(RightParen, "Expected ')' after if condition.")
	s.Then = p.stmt()
	if p.got(Else) {
		s.Else = p.stmt()
	}
	return s
}

// whileStmt parses: while (Cond) Body
func (p *Parser) whileStmt(label *Token) *WhileStmt {
	s := &WhileStmt{Label: label}
	s.pos = p.tok.Pos

	p.want(While, "Expected 'while'.")
	p.want(LeftParen, "Expected '(' after 'while'.")
	s.Cond = p.expr()
	p.want(RightParen, "Expected ')' after condition.")
	s.Body = p.stmt()
	return s
}

// forStmt parses: for (Init; Cond; Post) Body
// and desugars it into
//
//	{ Init; while (Cond) { Body; Post; } }
//
// A missing Cond becomes the literal true. The label, if any, ends up on
// the while loop.
func (p *Parser) forStmt(label *Token) Stmt {
	pos := p.tok.Pos

	p.want(For, "Expected 'for'.")
	p.want(LeftParen, "Expected '(' after 'for'.")

	var init Stmt
	switch p.tok.Kind {
	case Semicolon:
		p.next()
	case Let:
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond Expr
	if p.tok.Kind != Semicolon {
		cond = p.expr()
	}
	p.want(Semicolon, "Expected ';' after loop condition.")

	var post Expr
	if p.tok.Kind != RightParen {
		post = p.expr()
	}
	p.want(RightParen, "Expected ')' after for clauses.")

	body := p.stmt()

	if post != nil {
		ps := &ExprStmt{X: post}
		ps.pos = post.Pos()
		b := &BlockStmt{Stmts: []Stmt{body, ps}}
		b.pos = body.Pos()
		body = b
	}

	if cond == nil {
		lit := &Literal{Value: value.Bool(true)}
		lit.pos = pos
		cond = lit
	}

	loop := &WhileStmt{Label: label, Cond: cond, Body: body}
	loop.pos = pos

	if init == nil {
		return loop
	}
	b := &BlockStmt{Stmts: []Stmt{init, loop}}
	b.pos = pos
	return b
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
func (p *Parser) expr() Expr {
	return p.assignment()
}

// assignment parses: Name = Value | conditional
//
// The left side is parsed as an ordinary expression and checked
// afterwards, so no separate lvalue grammar is needed.
func (p *Parser) assignment() Expr {
	x := p.conditional()

	if p.tok.Kind != Equal {
		return x
	}
	eq := p.tok
	p.next()
	v := p.assignment()

	name, ok := x.(*Name)
	if !ok {
		p.syntaxErrorAt(eq, "Invalid assignment target.")
		if p.abort {
			panic(bailout{})
		}
		return x
	}
	a := &AssignExpr{Name: name.Tok, Value: v}
	a.pos = x.Pos()
	return a
}

// conditional parses: Cond ? Then : Else
// Then is a full expression; Else recurses, so the operator is right associative.
func (p *Parser) conditional() Expr {
	x := p.logicalOr()

	if p.tok.Kind != Question {
		return x
	}
	c := &CondExpr{Op: p.tok, Cond: x}
	c.pos = x.Pos()
	p.next()

	c.Then = p.expr()
	p.want(Colon, "Expected ':' after then branch of conditional expression.")
	c.Else = p.conditional()
	return c
}

// logicalOr parses: X or Y or ...
func (p *Parser) logicalOr() Expr {
	x := p.logicalAnd()
	for p.tok.Kind == Or {
		l := &LogicalExpr{X: x, Op: p.tok}
		l.pos = x.Pos()
		p.next()
		l.Y = p.logicalAnd()
		x = l
	}
	return x
}

// logicalAnd parses: X and Y and ...
func (p *Parser) logicalAnd() Expr {
	x := p.binaryExpr(0)
	for p.tok.Kind == And {
		l := &LogicalExpr{X: x, Op: p.tok}
		l.pos = x.Pos()
		p.next()
		l.Y = p.binaryExpr(0)
		x = l
	}
	return x
}

// Binary operator tiers, lowest binding first.
var binaryTiers = [][]Kind{
	{BangEqual, EqualEqual},                  // equality
	{Greater, GreaterEqual, Less, LessEqual}, // comparison
	{Minus, Plus},                            // term
	{Slash, Star},                            // factor
}

// tierOf returns the tier index of a binary operator, or -1.
func tierOf(k Kind) int {
	for i, ops := range binaryTiers {
		for _, op := range ops {
			if op == k {
				return i
			}
		}
	}
	return -1
}

// binaryExpr parses the binary operator tier at index tier and every
// tighter tier. Each tier loops, building a left-leaning tree.
func (p *Parser) binaryExpr(tier int) Expr {
	if tier == len(binaryTiers) {
		return p.unaryExpr()
	}

	x := p.binaryExpr(tier + 1)
	for tierOf(p.tok.Kind) == tier {
		b := &BinaryExpr{X: x, Op: p.tok}
		b.pos = x.Pos()
		p.next()
		b.Y = p.binaryExpr(tier + 1)
		x = b
	}
	return x
}

// unaryExpr parses: -X | !X | postfix
func (p *Parser) unaryExpr() Expr {
	switch p.tok.Kind {
	case Minus, Bang:
		u := &UnaryExpr{Op: p.tok}
		u.pos = p.tok.Pos
		p.next()
		u.X = p.unaryExpr()
		return u
	}
	return p.postfixExpr()
}

// postfixExpr parses: Name++ | Name-- | primary
func (p *Parser) postfixExpr() Expr {
	x := p.primaryExpr()

	if p.tok.Kind != PlusPlus && p.tok.Kind != MinusMinus {
		return x
	}
	name, ok := x.(*Name)
	if !ok {
		p.fail(p.tok, "Invalid postfix operand.")
	}
	e := &IncDecExpr{Name: name.Tok, Op: p.tok, Postfix: true}
	e.pos = x.Pos()
	p.next()
	return e
}

// primaryExpr parses literals, names, groupings and prefix ++/--.
func (p *Parser) primaryExpr() Expr {
	tok := p.tok

	switch tok.Kind {
	case NumberLit, StringLit:
		return p.literal(tok.Literal)
	case True:
		return p.literal(value.Bool(true))
	case False:
		return p.literal(value.Bool(false))
	case Nil:
		return p.literal(value.Nil{})

	case Ident:
		n := &Name{Tok: tok}
		n.pos = tok.Pos
		p.next()
		return n

	case LeftParen:
		p.next()
		x := p.expr()
		p.want(RightParen, "Expected ')' after expression.")
		paren := &ParenExpr{X: x}
		paren.pos = tok.Pos
		return paren

	case PlusPlus, MinusMinus:
		p.next()
		name := p.want(Ident, fmt.Sprintf("Expected variable name after '%s'.", tok.Lexeme))
		e := &IncDecExpr{Name: name, Op: tok}
		e.pos = tok.Pos
		return e

	case BangEqual, EqualEqual, Greater, GreaterEqual, Less, LessEqual, Plus, Slash, Star:
		// A binary operator with nothing on its left.
		p.fail(tok, fmt.Sprintf("Expected left hand side of '%s'.", tok.Lexeme))
	}

	p.fail(tok, "Expected expression.")
	return nil
}

// literal consumes the current token and returns a Literal holding v.
func (p *Parser) literal(v value.Value) *Literal {
	lit := &Literal{Value: v}
	lit.pos = p.tok.Pos
	p.next()
	return lit
}
