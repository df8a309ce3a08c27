package syntax

import "github.com/you-not-fish/loxi/internal/value"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: Expressions and Statements. Both sets are
// closed: the marker methods are unexported, so only this package can add
// node types, and consumers switch over them exhaustively.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Expressions

// Literal represents a literal value: 1, "s", true, false, nil.
type Literal struct {
	expr
	Value value.Value
}

// ParenExpr represents a parenthesized expression: (X)
type ParenExpr struct {
	expr
	X Expr // inner expression
}

// UnaryExpr represents a prefix operation: -X or !X
type UnaryExpr struct {
	expr
	Op Token // Minus or Bang
	X  Expr  // operand
}

// BinaryExpr represents an arithmetic, comparison or equality operation.
type BinaryExpr struct {
	expr
	X  Expr  // left operand
	Op Token // operator token
	Y  Expr  // right operand
}

// LogicalExpr represents a short-circuiting operation: X and Y, X or Y
type LogicalExpr struct {
	expr
	X  Expr  // left operand
	Op Token // And or Or
	Y  Expr  // right operand
}

// CondExpr represents a conditional expression: Cond ? Then : Else
type CondExpr struct {
	expr
	Op   Token // the ? token
	Cond Expr
	Then Expr
	Else Expr
}

// AssignExpr represents an assignment: Name = Value
type AssignExpr struct {
	expr
	Name  Token // target variable
	Value Expr  // assigned value
}

// Name represents a variable reference.
type Name struct {
	expr
	Tok Token // identifier token
}

// IncDecExpr represents ++x, --x, x++ or x--.
type IncDecExpr struct {
	expr
	Name    Token // target variable
	Op      Token // PlusPlus or MinusMinus
	Postfix bool  // x++ rather than ++x
}

// ----------------------------------------------------------------------------
// Statements

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr // expression
}

// PrintStmt represents print(X);
type PrintStmt struct {
	stmt
	X Expr // printed expression
}

// VarStmt represents a variable declaration: let Name = Init;
type VarStmt struct {
	stmt
	Name Token // variable name
	Init Expr  // initializer (nil if none)
}

// BlockStmt represents a block statement: { Stmts... }
type BlockStmt struct {
	stmt
	Stmts []Stmt // statements
}

// IfStmt represents an if statement: if (Cond) Then [else Else]
type IfStmt struct {
	stmt
	Cond Expr // condition expression
	Then Stmt // then branch
	Else Stmt // else branch (nil if none)
}

// WhileStmt represents a while loop. for loops are desugared into
// while loops by the parser.
type WhileStmt struct {
	stmt
	Label *Token // loop label (nil if none); Kind is Label
	Cond  Expr   // condition
	Body  Stmt   // loop body
}
