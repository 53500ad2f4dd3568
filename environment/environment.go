// Package environment implements malis's lexical variable bindings: a
// chain of scopes, each a plain map plus a pointer to its enclosing
// scope. Lifetime management is implicit: a scope keeps its parent
// alive via a plain pointer and lets Go's garbage collector reclaim
// whatever becomes unreachable — a closure capturing an environment
// that a stored instance field points back into will simply live for
// the process lifetime, the cheapest of the strategies spec.md §9
// considers.
package environment

import (
	"fmt"

	"github.com/mihaimaganu17/malis/object"
)

// Environment is one lexical scope: its own bindings plus a link to
// the scope it is nested in (nil for the global scope).
type Environment struct {
	bindings  map[string]object.Value
	enclosing *Environment
}

// New creates a top-level (global) environment.
func New() *Environment {
	return &Environment{bindings: make(map[string]object.Value)}
}

// NewChild creates a scope nested inside enclosing, used for block
// bodies, function call frames, and method-binding frames.
func NewChild(enclosing *Environment) *Environment {
	return &Environment{bindings: make(map[string]object.Value), enclosing: enclosing}
}

// Define creates or overwrites a binding in this scope, used for `var`
// declarations, function parameters, and the implicit `self` binding of
// a bound method's frame and `super` binding of a subclass's method scope.
func (e *Environment) Define(name string, value object.Value) {
	e.bindings[name] = value
}

// Get reads name, searching outward through enclosing scopes.
func (e *Environment) Get(name string) (object.Value, error) {
	if v, ok := e.bindings[name]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, fmt.Errorf("undefined variable '%s'", name)
}

// Assign writes to an existing binding named name, searching outward;
// it is an error to assign to a name that was never declared.
func (e *Environment) Assign(name string, value object.Value) error {
	if _, ok := e.bindings[name]; ok {
		e.bindings[name] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return fmt.Errorf("undefined variable '%s'", name)
}

// Ancestor walks distance scopes outward from e. distance is computed
// once by the resolver and trusted here without a not-found check.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name directly from the scope distance levels out,
// bypassing the normal outward search once the resolver has already
// determined exactly where the binding lives.
func (e *Environment) GetAt(distance int, name string) (object.Value, error) {
	env := e.Ancestor(distance)
	if v, ok := env.bindings[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("undefined variable '%s'", name)
}

// AssignAt writes name directly at the scope distance levels out.
func (e *Environment) AssignAt(distance int, name string, value object.Value) {
	env := e.Ancestor(distance)
	env.bindings[name] = value
}
