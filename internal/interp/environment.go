package interp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/loxi/internal/syntax"
	"github.com/you-not-fish/loxi/internal/value"
)

// Environment is one lexical scope of variables.
// Environments form a chain from the innermost block to the globals.
//
// A variable that is declared but not yet assigned is stored with a nil
// value.Value; reading it is an error.
type Environment struct {
	parent *Environment
	vars   map[string]value.Value
}

// NewEnvironment creates a new scope enclosed by parent.
// A nil parent creates a global scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		vars:   make(map[string]value.Value),
	}
}

// Parent returns the enclosing scope, or nil for the global scope.
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define declares name in this scope with value v (nil for unassigned).
// Declaring a name that already exists in this scope is an error;
// shadowing a name from an enclosing scope is not.
func (e *Environment) Define(name syntax.Token, v value.Value) error {
	if _, ok := e.vars[name.Lexeme]; ok {
		return errorf(name, "Variable redefinition '%s' in current scope.", name.Lexeme)
	}
	e.vars[name.Lexeme] = v
	return nil
}

// Get returns the value of name, searching outward from this scope.
func (e *Environment) Get(name syntax.Token) (value.Value, error) {
	scope := e.resolve(name.Lexeme)
	if scope == nil {
		return nil, errorf(name, "Undefined variable '%s'.", name.Lexeme)
	}
	v := scope.vars[name.Lexeme]
	if v == nil {
		return nil, errorf(name, "Unassigned variable '%s' is used.", name.Lexeme)
	}
	return v, nil
}

// Assign stores v in the innermost scope that declares name.
func (e *Environment) Assign(name syntax.Token, v value.Value) error {
	scope := e.resolve(name.Lexeme)
	if scope == nil {
		return errorf(name, "Undefined variable '%s'.", name.Lexeme)
	}
	scope.vars[name.Lexeme] = v
	return nil
}

// Lookup returns the value of name in this scope only. The boolean
// reports whether the name is declared here; the value is nil when it
// is declared but unassigned.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// resolve returns the innermost scope declaring name, or nil.
func (e *Environment) resolve(name string) *Environment {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.vars[name]; ok {
			return scope
		}
	}
	return nil
}

// Names returns the names declared in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of names declared in this scope.
func (e *Environment) Len() int {
	return len(e.vars)
}

// String returns the variables of this scope, one "name = value" per
// line. Unassigned variables are shown as <unassigned>.
func (e *Environment) String() string {
	var buf strings.Builder
	for _, name := range e.Names() {
		v := e.vars[name]
		if v == nil {
			fmt.Fprintf(&buf, "%s = <unassigned>\n", name)
			continue
		}
		if s, ok := v.(value.String); ok {
			fmt.Fprintf(&buf, "%s = %q\n", name, string(s))
			continue
		}
		fmt.Fprintf(&buf, "%s = %s\n", name, value.Stringify(v))
	}
	return buf.String()
}
