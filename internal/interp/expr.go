package interp

import (
	"fmt"

	"github.com/you-not-fish/loxi/internal/syntax"
	"github.com/you-not-fish/loxi/internal/value"
)

// eval evaluates x in env. Postfix updates are queued on m.
func (in *Interpreter) eval(env *Environment, m *mutations, x syntax.Expr) (value.Value, error) {
	switch x := x.(type) {
	case *syntax.Literal:
		return x.Value, nil

	case *syntax.ParenExpr:
		return in.eval(env, m, x.X)

	case *syntax.Name:
		return env.Get(x.Tok)

	case *syntax.AssignExpr:
		v, err := in.eval(env, m, x.Value)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(x.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *syntax.UnaryExpr:
		return in.unary(env, m, x)

	case *syntax.BinaryExpr:
		return in.binary(env, m, x)

	case *syntax.LogicalExpr:
		left, err := in.eval(env, m, x.X)
		if err != nil {
			return nil, err
		}
		if x.Op.Kind == syntax.Or {
			if value.Truthy(left) {
				return left, nil
			}
		} else if !value.Truthy(left) {
			return left, nil
		}
		return in.eval(env, m, x.Y)

	case *syntax.CondExpr:
		return in.conditional(env, m, x)

	case *syntax.IncDecExpr:
		return in.incDec(env, m, x)

	default:
		panic(fmt.Sprintf("interp: unexpected expression type %T", x))
	}
}

func (in *Interpreter) unary(env *Environment, m *mutations, x *syntax.UnaryExpr) (value.Value, error) {
	operand, err := in.eval(env, m, x.X)
	if err != nil {
		return nil, err
	}

	switch x.Op.Kind {
	case syntax.Bang:
		return value.Bool(!value.Truthy(operand)), nil
	case syntax.Minus:
		n, ok := operand.(value.Number)
		if !ok {
			return nil, errorf(x.Op, "Operand must be a number.")
		}
		return -n, nil
	}
	panic(fmt.Sprintf("interp: unexpected unary operator %s", x.Op.Kind))
}

// binary evaluates both operands left to right before checking their types.
func (in *Interpreter) binary(env *Environment, m *mutations, x *syntax.BinaryExpr) (value.Value, error) {
	left, err := in.eval(env, m, x.X)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(env, m, x.Y)
	if err != nil {
		return nil, err
	}

	switch x.Op.Kind {
	case syntax.EqualEqual:
		return value.Bool(value.Equal(left, right)), nil
	case syntax.BangEqual:
		return value.Bool(!value.Equal(left, right)), nil

	case syntax.Plus:
		ln, lok := left.(value.Number)
		rn, rok := right.(value.Number)
		if lok && rok {
			return ln + rn, nil
		}
		if left.Kind() == value.KindString || right.Kind() == value.KindString {
			return value.String(value.Stringify(left) + value.Stringify(right)), nil
		}
		return nil, errorf(x.Op, "Operands must be two numbers or at least one string.")
	}

	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	if !lok || !rok {
		return nil, errorf(x.Op, "Operands must be numbers.")
	}

	switch x.Op.Kind {
	case syntax.Minus:
		return ln - rn, nil
	case syntax.Star:
		return ln * rn, nil
	case syntax.Slash:
		return ln / rn, nil
	case syntax.Greater:
		return value.Bool(ln > rn), nil
	case syntax.GreaterEqual:
		return value.Bool(ln >= rn), nil
	case syntax.Less:
		return value.Bool(ln < rn), nil
	case syntax.LessEqual:
		return value.Bool(ln <= rn), nil
	}
	panic(fmt.Sprintf("interp: unexpected binary operator %s", x.Op.Kind))
}

// conditional evaluates c ? a : b. With EagerTernary set all three
// operands are evaluated, left to right, before the result is chosen.
func (in *Interpreter) conditional(env *Environment, m *mutations, x *syntax.CondExpr) (value.Value, error) {
	c, err := in.eval(env, m, x.Cond)
	if err != nil {
		return nil, err
	}

	if !in.opts.EagerTernary {
		if value.Truthy(c) {
			return in.eval(env, m, x.Then)
		}
		return in.eval(env, m, x.Else)
	}

	then, err := in.eval(env, m, x.Then)
	if err != nil {
		return nil, err
	}
	els, err := in.eval(env, m, x.Else)
	if err != nil {
		return nil, err
	}
	if value.Truthy(c) {
		return then, nil
	}
	return els, nil
}

// incDec evaluates ++x, --x, x++ and x--. The prefix forms update the
// variable at once and yield the new value. The postfix forms yield the
// current value and queue the update on m.
func (in *Interpreter) incDec(env *Environment, m *mutations, x *syntax.IncDecExpr) (value.Value, error) {
	cur, err := env.Get(x.Name)
	if err != nil {
		return nil, err
	}
	n, ok := cur.(value.Number)
	if !ok {
		return nil, errorf(x.Op, "Operand of '%s' must be a number.", x.Op.Lexeme)
	}

	next := n + 1
	if x.Op.Kind == syntax.MinusMinus {
		next = n - 1
	}

	if x.Postfix {
		m.add(env.resolve(x.Name.Lexeme), x.Name, next)
		return n, nil
	}
	if err := env.Assign(x.Name, next); err != nil {
		return nil, err
	}
	return next, nil
}
