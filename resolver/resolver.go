// Package resolver performs the single static pass between parsing
// and evaluation: it computes, for every variable-reference
// expression, how many enclosing scopes separate it from the scope
// that declares it, and rejects programs with statically detectable
// mistakes (duplicate locals, self-referential initializers,
// misplaced return/self/super, a class inheriting itself). Unused
// locals are collected as non-fatal Warnings rather than rejected —
// see Warnings. The scope-stack bookkeeping — a slice of
// map[string]*binding, pushed/popped around blocks, functions, and class
// bodies — follows the same shape as cbarrick-ripl's recursive-descent
// parser threading explicit precedence state through a stack, adapted
// here to threading lexical scope instead of operator precedence.
package resolver

import (
	"fmt"

	"github.com/mihaimaganu17/malis/ast"
	"github.com/mihaimaganu17/malis/token"
)

// StaticError is a single problem found during resolution. Like a
// ParseError, every StaticError found is collected before the driver
// decides whether to run the program at all (spec.md §7).
type StaticError struct {
	Tok     token.Token
	Message string
}

func (e *StaticError) Error() string {
	return fmt.Sprintf("[line %d] static error at '%s': %s", e.Tok.Line, e.Tok.Lexeme, e.Message)
}

type functionKind int

const (
	funcNone functionKind = iota
	funcFunction
	funcMethod
	funcInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// binding tracks whether a declared local has been read at least once,
// to support unused-local detection.
type binding struct {
	tok   token.Token
	ready bool // true once the declaring statement's initializer has finished
	used  bool
}

// Resolver walks a parsed program once and fills Locals.
type Resolver struct {
	scopes []map[string]*binding

	// Locals maps a variable-reference expression (VarExpr, AssignExpr,
	// SelfExpr, or SuperExpr, by pointer identity) to the number of
	// enclosing scopes between its use site and its declaring scope.
	// Absence means "resolve in the global environment at run time."
	Locals map[interface{}]int

	currentFunction functionKind
	currentClass    classKind

	errors   []*StaticError
	warnings []*StaticError
}

// New creates a Resolver ready to walk a program's statements.
func New() *Resolver {
	return &Resolver{Locals: make(map[interface{}]int)}
}

// Resolve walks every top-level statement and returns the collected
// static errors, if any. A non-empty result means the program must not
// run (spec.md §7); see Warnings for collected-but-non-fatal
// diagnostics that do not block execution.
func (r *Resolver) Resolve(stmts []ast.Stmt) []*StaticError {
	r.resolveStmts(stmts)
	return r.errors
}

// Warnings returns diagnostics collected during Resolve that do not
// prevent the program from running — currently just unused-local
// detection (spec.md §4.3's Open Question: warning, not error, per
// SPEC_FULL.md §5.2, since treating it as fatal would refuse to run
// spec.md §8 scenario 2's shadowing example).
func (r *Resolver) Warnings() []*StaticError {
	return r.warnings
}

func (r *Resolver) addError(tok token.Token, format string, a ...interface{}) {
	r.errors = append(r.errors, &StaticError{Tok: tok, Message: fmt.Sprintf(format, a...)})
}

func (r *Resolver) addWarning(tok token.Token, format string, a ...interface{}) {
	r.warnings = append(r.warnings, &StaticError{Tok: tok, Message: fmt.Sprintf(format, a...)})
}

// --- scope stack ---

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]*binding))
}

func (r *Resolver) endScope() {
	top := r.scopes[len(r.scopes)-1]
	for name, b := range top {
		if !b.used {
			r.addWarning(b.tok, "local variable '%s' is declared but never used", name)
		}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.addError(name, "'%s' is already declared in this scope", name.Lexeme)
	}
	scope[name.Lexeme] = &binding{tok: name, ready: false}
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme].ready = true
}

// resolveLocal walks the scope stack from innermost outward, recording
// the distance at which name is declared, if any.
func (r *Resolver) resolveLocal(exprKey interface{}, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i][name.Lexeme]; ok {
			b.used = true
			r.Locals[exprKey] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any local scope: resolved against globals at run time.
}

// --- statements ---

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	_ = s.Accept(r)
}

func (r *Resolver) VisitExprStmt(s *ast.ExprStmt) error {
	r.resolveExpr(s.Expr)
	return nil
}

func (r *Resolver) VisitPrintStmt(s *ast.PrintStmt) error {
	r.resolveExpr(s.Expr)
	return nil
}

func (r *Resolver) VisitVarDeclStmt(s *ast.VarDeclStmt) error {
	r.declare(s.Name)
	if s.Init != nil {
		r.resolveExpr(s.Init)
	}
	r.define(s.Name)
	return nil
}

func (r *Resolver) VisitBlockStmt(s *ast.BlockStmt) error {
	r.beginScope()
	r.resolveStmts(s.Stmts)
	r.endScope()
	return nil
}

func (r *Resolver) VisitIfStmt(s *ast.IfStmt) error {
	r.resolveExpr(s.Cond)
	r.resolveStmt(s.Then)
	if s.Else != nil {
		r.resolveStmt(s.Else)
	}
	return nil
}

func (r *Resolver) VisitWhileStmt(s *ast.WhileStmt) error {
	r.resolveExpr(s.Cond)
	r.resolveStmt(s.Body)
	return nil
}

func (r *Resolver) VisitFunDeclStmt(s *ast.FunDeclStmt) error {
	r.declare(s.Name)
	r.define(s.Name)
	r.markUsed(s.Name) // functions are exempt from unused-local detection
	r.resolveFunction(s, funcFunction)
	return nil
}

// markUsed exempts a binding in the innermost scope from the
// unused-local check (used for function and class declarations, per
// spec.md's unused-local exemptions).
func (r *Resolver) markUsed(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	if b, ok := r.scopes[len(r.scopes)-1][name.Lexeme]; ok {
		b.used = true
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunDeclStmt, kind functionKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *Resolver) VisitReturnStmt(s *ast.ReturnStmt) error {
	if r.currentFunction == funcNone {
		r.addError(s.Keyword, "cannot return from top-level code")
	}
	if s.Value != nil {
		if r.currentFunction == funcInitializer {
			r.addError(s.Keyword, "cannot return a value from an initializer")
		}
		r.resolveExpr(s.Value)
	}
	return nil
}

func (r *Resolver) VisitClassDeclStmt(s *ast.ClassDeclStmt) error {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)
	r.markUsed(s.Name) // classes are exempt from unused-local detection

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.addError(s.Superclass.Name, "a class cannot inherit from itself")
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = &binding{tok: s.Superclass.Name, ready: true, used: true}
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["self"] = &binding{tok: s.Name, ready: true, used: true}

	for _, m := range s.Methods {
		kind := funcMethod
		if m.Name.Lexeme == "init" {
			kind = funcInitializer
		}
		r.resolveFunction(m, kind)
	}

	r.endScope() // self

	if s.Superclass != nil {
		r.endScope() // super
	}
	return nil
}

// --- expressions ---

func (r *Resolver) resolveExpr(e ast.Expr) {
	_, _ = e.Accept(r)
}

func (r *Resolver) VisitUnaryExpr(e *ast.UnaryExpr) (interface{}, error) {
	r.resolveExpr(e.Operand)
	return nil, nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.BinaryExpr) (interface{}, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.LogicalExpr) (interface{}, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitTernaryExpr(e *ast.TernaryExpr) (interface{}, error) {
	r.resolveExpr(e.Cond)
	r.resolveExpr(e.Then)
	r.resolveExpr(e.Else)
	return nil, nil
}

func (r *Resolver) VisitGroupExpr(e *ast.GroupExpr) (interface{}, error) {
	r.resolveExpr(e.Inner)
	return nil, nil
}

func (r *Resolver) VisitLiteralExpr(e *ast.LiteralExpr) (interface{}, error) {
	return nil, nil
}

func (r *Resolver) VisitVarExpr(e *ast.VarExpr) (interface{}, error) {
	if len(r.scopes) > 0 {
		scope := r.scopes[len(r.scopes)-1]
		if b, ok := scope[e.Name.Lexeme]; ok && !b.ready {
			r.addError(e.Name, "cannot read local variable '%s' in its own initializer", e.Name.Lexeme)
		}
	}
	r.resolveLocal(e, e.Name)
	return nil, nil
}

func (r *Resolver) VisitAssignExpr(e *ast.AssignExpr) (interface{}, error) {
	r.resolveExpr(e.Value)
	r.resolveLocal(e, e.Name)
	return nil, nil
}

func (r *Resolver) VisitCallExpr(e *ast.CallExpr) (interface{}, error) {
	r.resolveExpr(e.Callee)
	for _, a := range e.Args {
		r.resolveExpr(a)
	}
	return nil, nil
}

func (r *Resolver) VisitGetExpr(e *ast.GetExpr) (interface{}, error) {
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitSetExpr(e *ast.SetExpr) (interface{}, error) {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitSelfExpr(e *ast.SelfExpr) (interface{}, error) {
	if r.currentClass == classNone {
		r.addError(e.Keyword, "cannot use 'self' outside of a class method")
		return nil, nil
	}
	r.resolveLocal(e, e.Keyword)
	return nil, nil
}

func (r *Resolver) VisitSuperExpr(e *ast.SuperExpr) (interface{}, error) {
	if r.currentClass == classNone {
		r.addError(e.Keyword, "cannot use 'super' outside of a class method")
	} else if r.currentClass != classSubclass {
		r.addError(e.Keyword, "cannot use 'super' in a class with no superclass")
	}
	r.resolveLocal(e, e.Keyword)
	return nil, nil
}
