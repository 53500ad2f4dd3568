// Package object defines the runtime value model malis programs
// operate on. It is deliberately kept free of dependencies on
// environment, function, or ast — instance methods are stored behind
// the Function interface defined here, and the function package
// (which needs ast and environment to build closures) implements it.
// This breaks what would otherwise be an import cycle between the
// value model and the closures that capture it.
package object

import "fmt"

// Value is implemented by every malis runtime value: Number, String,
// Boolean, Nil, *NativeFn, Function implementations, *Class, and
// *Instance.
type Value interface {
	Type() string
	String() string
}

// Number is a malis number, always float64 per spec.md's Open
// Question 1 resolution.
type Number float64

func (Number) Type() string { return "number" }
func (n Number) String() string {
	return trimFloat(float64(n))
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// String is a malis string value.
type String string

func (String) Type() string    { return "string" }
func (s String) String() string { return string(s) }

// Boolean is a malis boolean value.
type Boolean bool

func (Boolean) Type() string    { return "boolean" }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// nilValue is the single malis Nil value.
type nilValue struct{}

func (nilValue) Type() string    { return "nil" }
func (nilValue) String() string { return "nil" }

// Nil is the malis absence-of-value, returned by uninitialized
// variables, bare `return;`, and functions that fall off the end of
// their body without returning.
var Nil Value = nilValue{}

// IsTruthy implements malis's truthiness rule: everything is truthy
// except Nil and the boolean false (spec.md §4.4).
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nilValue:
		return false
	case Boolean:
		return bool(val)
	default:
		return true
	}
}

// Equal implements malis value equality: Nil equals only Nil, numbers/
// strings/booleans compare by Go value equality, everything else (a
// Function, *Class, *Instance) compares by identity.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nilValue:
		_, ok := b.(nilValue)
		return ok
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	default:
		return a == b
	}
}

// NativeFn is a builtin implemented in Go rather than malis source,
// e.g. clock. Fn receives already-evaluated arguments.
type NativeFn struct {
	FnName  string
	FnArity int
	Fn      func(args []Value) (Value, error)
}

func (*NativeFn) Type() string    { return "native function" }
func (n *NativeFn) String() string { return fmt.Sprintf("<native fn %s>", n.FnName) }
func (n *NativeFn) Name() string   { return n.FnName }
func (n *NativeFn) Arity() int     { return n.FnArity }

// Function is implemented by anything callable that was declared in
// malis source: a plain function or a class method. Concrete closures
// live in the function package; Class stores methods behind this
// interface so object never needs to import environment or ast.
type Function interface {
	Value
	Name() string
	Arity() int
	IsInitializer() bool
	Bind(instance *Instance) Function
}

// Callable is implemented by anything the interpreter can invoke with
// Call: NativeFn, Function, and *Class (class construction).
type Callable interface {
	Value
	Arity() int
}
