// Package interpreter walks a resolved AST and executes it: literal
// and arithmetic evaluation, logical short-circuiting, calls (native
// functions, user functions, class construction), block scoping, and
// instance field/method access. It sits at the top of the package
// graph (ast, token, object, environment, and function all sit below
// it) and is the one place allowed to make concrete type
// assertions like callee.(*function.UserFn) — every lower package
// only ever sees the object.Function/object.Callable interfaces.
package interpreter

import (
	"fmt"
	"io"
	"time"

	"github.com/mihaimaganu17/malis/ast"
	"github.com/mihaimaganu17/malis/environment"
	"github.com/mihaimaganu17/malis/function"
	"github.com/mihaimaganu17/malis/object"
	"github.com/mihaimaganu17/malis/token"
)

// RuntimeError is a first-fail runtime problem; evaluation stops the
// moment one occurs (spec.md §7).
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] runtime error: %s", e.Line, e.Message)
}

func runtimeErr(line int, format string, a ...interface{}) error {
	return &RuntimeError{Line: line, Message: fmt.Sprintf(format, a...)}
}

// returnSignal is the internal control-flow value that unwinds a
// `return` statement back to the enclosing call frame. It satisfies
// the error interface only so it can travel through the Stmt visitor's
// error return channel; callFunctionBody always intercepts it and it
// must never reach a caller of Interpret as a user-visible error. This
// is the "explicit Signal" design spec.md §9 offers as an alternative
// to panicking, and the one original_source/'s own interpreter.rs
// converged on (see DESIGN.md).
type returnSignal struct {
	value object.Value
}

func (*returnSignal) Error() string { return "return outside of call (internal signal escaped)" }

// Interpreter holds the running program's global and current
// environments plus the resolver's computed scope distances.
type Interpreter struct {
	globals *environment.Environment
	env     *environment.Environment
	locals  map[interface{}]int
	out     io.Writer
}

// New creates an Interpreter that writes `print` output to out and
// registers the builtins (spec.md's single `clock` function).
func New(out io.Writer) *Interpreter {
	it := &Interpreter{globals: environment.New(), locals: map[interface{}]int{}, out: out}
	it.env = it.globals
	it.defineBuiltins()
	return it
}

// SetLocals installs the resolver's computed variable-distance map.
// Must be called after resolution and before Interpret.
func (it *Interpreter) SetLocals(locals map[interface{}]int) {
	it.locals = locals
}

// Interpret executes every top-level statement in order, stopping at
// the first runtime error.
func (it *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := it.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execute(s ast.Stmt) error {
	return s.Accept(it)
}

// EvaluateExpr evaluates a single expression without requiring it be
// wrapped in a statement, used by the REPL to echo the value of a
// bare expression line.
func (it *Interpreter) EvaluateExpr(e ast.Expr) (object.Value, error) {
	return it.evaluate(e)
}

func (it *Interpreter) evaluate(e ast.Expr) (object.Value, error) {
	v, err := e.Accept(it)
	if err != nil {
		return nil, err
	}
	val, _ := v.(object.Value)
	return val, nil
}

// executeBlock runs stmts in env, always restoring the interpreter's
// previous environment on every exit path (normal completion, a
// runtime error, or a returnSignal unwinding through it) — spec.md
// §4.4's block-scope invariant.
func (it *Interpreter) executeBlock(stmts []ast.Stmt, env *environment.Environment) error {
	previous := it.env
	it.env = env
	defer func() { it.env = previous }()

	for _, s := range stmts {
		if err := it.execute(s); err != nil {
			return err
		}
	}
	return nil
}

// callFunctionBody is handed to function.UserFn as its Call callback,
// letting the closure type stay in the function package while the
// actual statement execution stays here.
func (it *Interpreter) callFunctionBody(closure *environment.Environment, body []ast.Stmt) (object.Value, error) {
	previous := it.env
	it.env = closure
	defer func() { it.env = previous }()

	for _, s := range body {
		if err := it.execute(s); err != nil {
			if rs, ok := err.(*returnSignal); ok {
				return rs.value, nil
			}
			return nil, err
		}
	}
	return object.Nil, nil
}

func (it *Interpreter) lookupVariable(key interface{}, name token.Token) (object.Value, error) {
	if dist, ok := it.locals[key]; ok {
		return it.env.GetAt(dist, name.Lexeme)
	}
	v, err := it.globals.Get(name.Lexeme)
	if err != nil {
		return nil, runtimeErr(name.Line, "%s", err.Error())
	}
	return v, nil
}

func (it *Interpreter) defineBuiltins() {
	it.globals.Define("clock", &object.NativeFn{
		FnName:  "clock",
		FnArity: 0,
		Fn: func(args []object.Value) (object.Value, error) {
			return object.Number(float64(time.Now().UnixNano()) / float64(time.Second)), nil
		},
	})
}

// Stringify renders a Value the way `print` and the REPL do.
func Stringify(v object.Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}

// --- statement visitors ---

func (it *Interpreter) VisitExprStmt(s *ast.ExprStmt) error {
	_, err := it.evaluate(s.Expr)
	return err
}

func (it *Interpreter) VisitPrintStmt(s *ast.PrintStmt) error {
	v, err := it.evaluate(s.Expr)
	if err != nil {
		return err
	}
	fmt.Fprintln(it.out, Stringify(v))
	return nil
}

func (it *Interpreter) VisitVarDeclStmt(s *ast.VarDeclStmt) error {
	value := object.Nil
	if s.Init != nil {
		v, err := it.evaluate(s.Init)
		if err != nil {
			return err
		}
		value = v
	}
	it.env.Define(s.Name.Lexeme, value)
	return nil
}

func (it *Interpreter) VisitBlockStmt(s *ast.BlockStmt) error {
	return it.executeBlock(s.Stmts, environment.NewChild(it.env))
}

func (it *Interpreter) VisitIfStmt(s *ast.IfStmt) error {
	cond, err := it.evaluate(s.Cond)
	if err != nil {
		return err
	}
	if object.IsTruthy(cond) {
		return it.execute(s.Then)
	}
	if s.Else != nil {
		return it.execute(s.Else)
	}
	return nil
}

func (it *Interpreter) VisitWhileStmt(s *ast.WhileStmt) error {
	for {
		cond, err := it.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if !object.IsTruthy(cond) {
			return nil
		}
		if err := it.execute(s.Body); err != nil {
			return err
		}
	}
}

func (it *Interpreter) VisitFunDeclStmt(s *ast.FunDeclStmt) error {
	fn := function.New(s, it.env, false, it.callFunctionBody)
	it.env.Define(s.Name.Lexeme, fn)
	return nil
}

func (it *Interpreter) VisitReturnStmt(s *ast.ReturnStmt) error {
	value := object.Nil
	if s.Value != nil {
		v, err := it.evaluate(s.Value)
		if err != nil {
			return err
		}
		value = v
	}
	return &returnSignal{value: value}
}

func (it *Interpreter) VisitClassDeclStmt(s *ast.ClassDeclStmt) error {
	var superclass *object.Class
	if s.Superclass != nil {
		v, err := it.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*object.Class)
		if !ok {
			return runtimeErr(s.Superclass.Name.Line, "superclass '%s' must be a class", s.Superclass.Name.Lexeme)
		}
		superclass = sc
	}

	methodEnv := it.env
	if superclass != nil {
		methodEnv = environment.NewChild(it.env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]object.Function, len(s.Methods))
	for _, m := range s.Methods {
		isInit := m.Name.Lexeme == "init"
		methods[m.Name.Lexeme] = function.New(m, methodEnv, isInit, it.callFunctionBody)
	}

	it.env.Define(s.Name.Lexeme, &object.Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods})
	return nil
}

// --- expression visitors ---

func (it *Interpreter) VisitLiteralExpr(e *ast.LiteralExpr) (interface{}, error) {
	switch e.Kind {
	case ast.LiteralNumber:
		return object.Number(e.Value.(float64)), nil
	case ast.LiteralString:
		return object.String(e.Value.(string)), nil
	case ast.LiteralTrue:
		return object.Boolean(true), nil
	case ast.LiteralFalse:
		return object.Boolean(false), nil
	default:
		return object.Nil, nil
	}
}

func (it *Interpreter) VisitGroupExpr(e *ast.GroupExpr) (interface{}, error) {
	return it.evaluate(e.Inner)
}

func (it *Interpreter) VisitUnaryExpr(e *ast.UnaryExpr) (interface{}, error) {
	operand, err := it.evaluate(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.Minus:
		n, ok := operand.(object.Number)
		if !ok {
			return nil, runtimeErr(e.Op.Line, "operand of unary '-' must be a number")
		}
		return -n, nil
	case token.Bang, token.Not:
		return object.Boolean(!object.IsTruthy(operand)), nil
	default:
		return nil, runtimeErr(e.Op.Line, "unknown unary operator '%s'", e.Op.Lexeme)
	}
}

func (it *Interpreter) VisitBinaryExpr(e *ast.BinaryExpr) (interface{}, error) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Op.Kind == token.Comma {
		return it.evaluate(e.Right)
	}

	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.EqualEqual:
		return object.Boolean(object.Equal(left, right)), nil
	case token.BangEqual:
		return object.Boolean(!object.Equal(left, right)), nil
	case token.Plus:
		if ln, ok := left.(object.Number); ok {
			if rn, ok := right.(object.Number); ok {
				return ln + rn, nil
			}
			if rs, ok := right.(object.String); ok {
				return object.String(ln.String()) + rs, nil
			}
		}
		if ls, ok := left.(object.String); ok {
			if rs, ok := right.(object.String); ok {
				return ls + rs, nil
			}
			if rn, ok := right.(object.Number); ok {
				return ls + object.String(rn.String()), nil
			}
		}
		return nil, runtimeErr(e.Op.Line, "operands of '+' must be numbers or strings, with at least one string for mixed operands")
	case token.Minus, token.Star, token.Slash, token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		ln, ok := left.(object.Number)
		if !ok {
			return nil, runtimeErr(e.Op.Line, "left operand of '%s' must be a number", e.Op.Lexeme)
		}
		rn, ok := right.(object.Number)
		if !ok {
			return nil, runtimeErr(e.Op.Line, "right operand of '%s' must be a number", e.Op.Lexeme)
		}
		switch e.Op.Kind {
		case token.Minus:
			return ln - rn, nil
		case token.Star:
			return ln * rn, nil
		case token.Slash:
			if rn == 0 {
				return nil, runtimeErr(e.Op.Line, "division by zero")
			}
			return ln / rn, nil
		case token.Greater:
			return object.Boolean(ln > rn), nil
		case token.GreaterEqual:
			return object.Boolean(ln >= rn), nil
		case token.Less:
			return object.Boolean(ln < rn), nil
		default: // LessEqual
			return object.Boolean(ln <= rn), nil
		}
	default:
		return nil, runtimeErr(e.Op.Line, "unknown binary operator '%s'", e.Op.Lexeme)
	}
}

func (it *Interpreter) VisitLogicalExpr(e *ast.LogicalExpr) (interface{}, error) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.Or {
		if object.IsTruthy(left) {
			return left, nil
		}
	} else { // and
		if !object.IsTruthy(left) {
			return left, nil
		}
	}
	return it.evaluate(e.Right)
}

func (it *Interpreter) VisitTernaryExpr(e *ast.TernaryExpr) (interface{}, error) {
	cond, err := it.evaluate(e.Cond)
	if err != nil {
		return nil, err
	}
	if object.IsTruthy(cond) {
		return it.evaluate(e.Then)
	}
	return it.evaluate(e.Else)
}

func (it *Interpreter) VisitVarExpr(e *ast.VarExpr) (interface{}, error) {
	return it.lookupVariable(e, e.Name)
}

func (it *Interpreter) VisitAssignExpr(e *ast.AssignExpr) (interface{}, error) {
	value, err := it.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if dist, ok := it.locals[e]; ok {
		it.env.AssignAt(dist, e.Name.Lexeme, value)
		return value, nil
	}
	if err := it.globals.Assign(e.Name.Lexeme, value); err != nil {
		return nil, runtimeErr(e.Name.Line, "%s", err.Error())
	}
	return value, nil
}

func (it *Interpreter) VisitCallExpr(e *ast.CallExpr) (interface{}, error) {
	callee, err := it.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := it.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *object.NativeFn:
		if len(args) != fn.Arity() {
			return nil, runtimeErr(e.Paren.Line, "expected %d arguments but got %d", fn.Arity(), len(args))
		}
		v, err := fn.Fn(args)
		if err != nil {
			return nil, runtimeErr(e.Paren.Line, "%s", err.Error())
		}
		return v, nil

	case *function.UserFn:
		if len(args) != fn.Arity() {
			return nil, runtimeErr(e.Paren.Line, "expected %d arguments but got %d", fn.Arity(), len(args))
		}
		v, err := fn.Run(args)
		if err != nil {
			return nil, err
		}
		return v, nil

	case *object.Class:
		instance := object.NewInstance(fn)
		if init, ok := fn.FindMethod("init"); ok {
			if len(args) != init.Arity() {
				return nil, runtimeErr(e.Paren.Line, "expected %d arguments but got %d", init.Arity(), len(args))
			}
			bound := init.Bind(instance)
			userFn, ok := bound.(*function.UserFn)
			if !ok {
				return nil, runtimeErr(e.Paren.Line, "initializer is not callable")
			}
			if _, err := userFn.Run(args); err != nil {
				return nil, err
			}
		} else if len(args) != 0 {
			return nil, runtimeErr(e.Paren.Line, "expected 0 arguments but got %d", len(args))
		}
		return instance, nil

	default:
		return nil, runtimeErr(e.Paren.Line, "can only call functions and classes")
	}
}

func (it *Interpreter) VisitGetExpr(e *ast.GetExpr) (interface{}, error) {
	obj, err := it.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return nil, runtimeErr(e.Name.Line, "only instances have properties")
	}
	v, err := instance.Get(e.Name.Lexeme)
	if err != nil {
		return nil, runtimeErr(e.Name.Line, "%s", err.Error())
	}
	return v, nil
}

func (it *Interpreter) VisitSetExpr(e *ast.SetExpr) (interface{}, error) {
	obj, err := it.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return nil, runtimeErr(e.Name.Line, "only instances have fields")
	}
	value, err := it.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name.Lexeme, value)
	return value, nil
}

func (it *Interpreter) VisitSelfExpr(e *ast.SelfExpr) (interface{}, error) {
	return it.lookupVariable(e, e.Keyword)
}

func (it *Interpreter) VisitSuperExpr(e *ast.SuperExpr) (interface{}, error) {
	dist, ok := it.locals[e]
	if !ok {
		return nil, runtimeErr(e.Keyword.Line, "'super' could not be resolved")
	}
	superVal, err := it.env.GetAt(dist, "super")
	if err != nil {
		return nil, runtimeErr(e.Keyword.Line, "%s", err.Error())
	}
	superclass := superVal.(*object.Class)

	selfVal, err := it.env.GetAt(dist-1, "self")
	if err != nil {
		return nil, runtimeErr(e.Keyword.Line, "%s", err.Error())
	}
	instance := selfVal.(*object.Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, runtimeErr(e.Method.Line, "undefined property '%s' on superclass %s", e.Method.Lexeme, superclass.Name)
	}
	return method.Bind(instance), nil
}
