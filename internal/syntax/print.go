package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/loxi/internal/value"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

// FprintProgram writes every statement of a program with Fprint.
func FprintProgram(w io.Writer, stmts []Stmt) {
	for _, s := range stmts {
		Fprint(w, s)
	}
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints n one level deeper, under an optional heading.
func (p *printer) child(heading string, n Node) {
	if heading != "" {
		p.printf("%s:\n", heading)
	}
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.child("", n.X)

	case *PrintStmt:
		p.printf("PrintStmt %s\n", n.pos)
		p.child("", n.X)

	case *VarStmt:
		p.printf("VarStmt %s %s\n", n.pos, n.Name.Lexeme)
		if n.Init != nil {
			p.indent++
			p.child("Init", n.Init)
			p.indent--
		}

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		if n.Else != nil {
			p.child("Else", n.Else)
		}
		p.indent--

	case *WhileStmt:
		if n.Label != nil {
			p.printf("WhileStmt %s label=%s\n", n.pos, n.Label.Lexeme)
		} else {
			p.printf("WhileStmt %s\n", n.pos)
		}
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Body", n.Body)
		p.indent--

	case *Literal:
		p.printf("Literal %s %s\n", n.pos, literalString(n.Value))

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Tok.Lexeme)

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.child("", n.X)

	case *UnaryExpr:
		p.printf("UnaryExpr %s %s\n", n.pos, n.Op.Kind)
		p.child("", n.X)

	case *BinaryExpr:
		p.printf("BinaryExpr %s %s\n", n.pos, n.Op.Kind)
		p.indent++
		p.child("X", n.X)
		p.child("Y", n.Y)
		p.indent--

	case *LogicalExpr:
		p.printf("LogicalExpr %s %s\n", n.pos, n.Op.Kind)
		p.indent++
		p.child("X", n.X)
		p.child("Y", n.Y)
		p.indent--

	case *CondExpr:
		p.printf("CondExpr %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		p.child("Else", n.Else)
		p.indent--

	case *AssignExpr:
		p.printf("AssignExpr %s %s\n", n.pos, n.Name.Lexeme)
		p.child("", n.Value)

	case *IncDecExpr:
		if n.Postfix {
			p.printf("IncDecExpr %s %s%s\n", n.pos, n.Name.Lexeme, n.Op.Kind)
		} else {
			p.printf("IncDecExpr %s %s%s\n", n.pos, n.Op.Kind, n.Name.Lexeme)
		}

	default:
		panic(fmt.Sprintf("syntax.Fprint: unexpected node type %T", n))
	}
}

// literalString renders a literal value, quoting strings.
func literalString(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return value.Stringify(v)
}

// Sexpr returns a compact parenthesized rendering of node, for example
// (+ 1 (* 2 3)) for 1 + 2 * 3.
func Sexpr(node Node) string {
	var b strings.Builder
	writeSexpr(&b, node)
	return b.String()
}

func writeSexpr(b *strings.Builder, node Node) {
	list := func(name string, nodes ...Node) {
		b.WriteByte('(')
		b.WriteString(name)
		for _, n := range nodes {
			b.WriteByte(' ')
			writeSexpr(b, n)
		}
		b.WriteByte(')')
	}

	switch n := node.(type) {
	case *Literal:
		b.WriteString(literalString(n.Value))
	case *Name:
		b.WriteString(n.Tok.Lexeme)
	case *ParenExpr:
		list("group", n.X)
	case *UnaryExpr:
		list(n.Op.Lexeme, n.X)
	case *BinaryExpr:
		list(n.Op.Lexeme, n.X, n.Y)
	case *LogicalExpr:
		list(n.Op.Lexeme, n.X, n.Y)
	case *CondExpr:
		list("?:", n.Cond, n.Then, n.Else)
	case *AssignExpr:
		list("= "+n.Name.Lexeme, n.Value)
	case *IncDecExpr:
		if n.Postfix {
			list("post"+n.Op.Lexeme+" "+n.Name.Lexeme)
		} else {
			list("pre"+n.Op.Lexeme+" "+n.Name.Lexeme)
		}
	case *ExprStmt:
		list(";", n.X)
	case *PrintStmt:
		list("print", n.X)
	case *VarStmt:
		if n.Init != nil {
			list("let "+n.Name.Lexeme, n.Init)
		} else {
			list("let " + n.Name.Lexeme)
		}
	case *BlockStmt:
		nodes := make([]Node, len(n.Stmts))
		for i, s := range n.Stmts {
			nodes[i] = s
		}
		list("block", nodes...)
	case *IfStmt:
		if n.Else != nil {
			list("if", n.Cond, n.Then, n.Else)
		} else {
			list("if", n.Cond, n.Then)
		}
	case *WhileStmt:
		name := "while"
		if n.Label != nil {
			name += " " + n.Label.Lexeme
		}
		list(name, n.Cond, n.Body)
	default:
		panic(fmt.Sprintf("syntax.Sexpr: unexpected node type %T", n))
	}
}
