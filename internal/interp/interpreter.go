// Package interp implements a tree-walking interpreter for loxi programs.
package interp

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/you-not-fish/loxi/internal/syntax"
	"github.com/you-not-fish/loxi/internal/value"
)

// Options configures an Interpreter.
type Options struct {
	// EagerTernary evaluates all three operands of c ? a : b before
	// selecting a result, matching the legacy behaviour. By default only
	// the selected branch is evaluated.
	EagerTernary bool

	// Logger receives debug records for each executed top-level
	// statement. Nil disables them.
	Logger *slog.Logger
}

// Interpreter executes programs against a persistent global scope.
// It is not safe for concurrent use.
type Interpreter struct {
	out     io.Writer
	opts    Options
	globals *Environment
}

// New creates an Interpreter that writes print output to out.
func New(out io.Writer, opts Options) *Interpreter {
	return &Interpreter{
		out:     out,
		opts:    opts,
		globals: NewEnvironment(nil),
	}
}

// Globals returns the global scope. It persists across calls to Interpret.
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Interpret executes stmts in order. The first runtime error stops
// execution and is returned; a *RuntimeError for language errors, or
// the error of the output writer.
func (in *Interpreter) Interpret(stmts []syntax.Stmt) error {
	for _, s := range stmts {
		if in.opts.Logger != nil {
			in.opts.Logger.Debug("exec",
				slog.String("stmt", fmt.Sprintf("%T", s)),
				slog.String("pos", s.Pos().String()))
		}
		if err := in.exec(in.globals, s); err != nil {
			return err
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Statements

// exec executes one statement in env. Postfix updates made by the
// statement's own expressions are applied when it completes.
func (in *Interpreter) exec(env *Environment, s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		var m mutations
		if _, err := in.eval(env, &m, s.X); err != nil {
			return err
		}
		m.flush()
		return nil

	case *syntax.PrintStmt:
		var m mutations
		v, err := in.eval(env, &m, s.X)
		if err != nil {
			return err
		}
		m.flush()
		if _, err := fmt.Fprintln(in.out, value.Stringify(v)); err != nil {
			return fmt.Errorf("print: %w", err)
		}
		return nil

	case *syntax.VarStmt:
		var m mutations
		var v value.Value
		if s.Init != nil {
			var err error
			if v, err = in.eval(env, &m, s.Init); err != nil {
				return err
			}
		}
		if err := env.Define(s.Name, v); err != nil {
			return err
		}
		m.flush()
		return nil

	case *syntax.BlockStmt:
		return in.execBlock(NewEnvironment(env), s.Stmts)

	case *syntax.IfStmt:
		ok, err := in.cond(env, s.Cond)
		if err != nil {
			return err
		}
		if ok {
			return in.exec(env, s.Then)
		}
		if s.Else != nil {
			return in.exec(env, s.Else)
		}
		return nil

	case *syntax.WhileStmt:
		for {
			ok, err := in.cond(env, s.Cond)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := in.exec(env, s.Body); err != nil {
				return err
			}
		}

	default:
		panic(fmt.Sprintf("interp: unexpected statement type %T", s))
	}
}

// execBlock executes stmts in scope, which is discarded when the block
// ends on any path.
func (in *Interpreter) execBlock(scope *Environment, stmts []syntax.Stmt) error {
	for _, s := range stmts {
		if err := in.exec(scope, s); err != nil {
			return err
		}
	}
	return nil
}

// cond evaluates the condition of an if or while statement. Postfix
// updates in the condition are applied before the branch or body runs.
func (in *Interpreter) cond(env *Environment, x syntax.Expr) (bool, error) {
	var m mutations
	v, err := in.eval(env, &m, x)
	if err != nil {
		return false, err
	}
	m.flush()
	return value.Truthy(v), nil
}
