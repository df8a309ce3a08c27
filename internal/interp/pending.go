package interp

import (
	"github.com/you-not-fish/loxi/internal/syntax"
	"github.com/you-not-fish/loxi/internal/value"
)

// mutation is a deferred postfix ++ or -- update.
type mutation struct {
	scope *Environment // scope that declares the variable
	name  syntax.Token
	v     value.Value // value to store
}

// mutations collects the postfix updates made while executing one
// statement. The statement dispatcher applies them in order once the
// statement completes, and drops them if it fails.
type mutations struct {
	list []mutation
}

// add queues an update of name, declared in scope, to v.
func (m *mutations) add(scope *Environment, name syntax.Token, v value.Value) {
	m.list = append(m.list, mutation{scope: scope, name: name, v: v})
}

// flush applies the queued updates in order and empties the list.
func (m *mutations) flush() {
	for _, mu := range m.list {
		mu.scope.vars[mu.name.Lexeme] = mu.v
	}
	m.list = m.list[:0]
}

// pending returns the number of queued updates.
func (m *mutations) pending() int {
	return len(m.list)
}
