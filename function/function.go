// Package function is the concrete closure implementation that sits
// above object: it depends on ast (function bodies), environment
// (captured scope), and object (the Function interface it implements).
// The layering is one-directional: object never imports this package.
package function

import (
	"fmt"

	"github.com/mihaimaganu17/malis/ast"
	"github.com/mihaimaganu17/malis/environment"
	"github.com/mihaimaganu17/malis/object"
)

// Call is the signature the interpreter uses to run a UserFn's body.
// It is handed down once, by the interpreter package, to avoid
// function depending on interpreter (which would cycle back through
// ast and environment).
type Call func(closure *environment.Environment, body []ast.Stmt) (object.Value, error)

// UserFn is a function or method declared in malis source: its
// declaration, the environment it closed over at definition time, and
// whether it is a class's `init` method (which always implicitly
// returns `self`, per spec.md §4.4).
type UserFn struct {
	Decl        *ast.FunDeclStmt
	Closure     *environment.Environment
	Initializer bool
	exec        Call
}

// New creates a UserFn. exec is the interpreter's statement-execution
// callback, invoked by Run with a fresh call-frame environment.
func New(decl *ast.FunDeclStmt, closure *environment.Environment, isInitializer bool, exec Call) *UserFn {
	return &UserFn{Decl: decl, Closure: closure, Initializer: isInitializer, exec: exec}
}

func (*UserFn) Type() string { return "function" }
func (f *UserFn) String() string {
	return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme)
}

func (f *UserFn) Name() string        { return f.Decl.Name.Lexeme }
func (f *UserFn) Arity() int          { return len(f.Decl.Params) }
func (f *UserFn) IsInitializer() bool { return f.Initializer }

// Bind returns a new UserFn whose closure is a child scope with
// `self` bound to instance — the mechanism that makes `self` resolve
// correctly inside a method body (spec.md §4.4).
func (f *UserFn) Bind(instance *object.Instance) object.Function {
	env := environment.NewChild(f.Closure)
	env.Define("self", instance)
	return &UserFn{Decl: f.Decl, Closure: env, Initializer: f.Initializer, exec: f.exec}
}

// Run executes the function body in a fresh environment parented on
// the closure, with args bound to the declared parameters in order.
// Arity is assumed already checked by the caller.
func (f *UserFn) Run(args []object.Value) (object.Value, error) {
	callEnv := environment.NewChild(f.Closure)
	for i, param := range f.Decl.Params {
		callEnv.Define(param.Lexeme, args[i])
	}

	result, err := f.exec(callEnv, f.Decl.Body)
	if err != nil {
		return nil, err
	}

	if f.Initializer {
		self, _ := f.Closure.GetAt(0, "self")
		return self, nil
	}
	return result, nil
}
