package ast

import "github.com/mihaimaganu17/malis/token"

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
	Accept(v StmtVisitor) error
}

// StmtVisitor dispatches on concrete statement node type.
type StmtVisitor interface {
	VisitExprStmt(s *ExprStmt) error
	VisitPrintStmt(s *PrintStmt) error
	VisitVarDeclStmt(s *VarDeclStmt) error
	VisitBlockStmt(s *BlockStmt) error
	VisitIfStmt(s *IfStmt) error
	VisitWhileStmt(s *WhileStmt) error
	VisitFunDeclStmt(s *FunDeclStmt) error
	VisitReturnStmt(s *ReturnStmt) error
	VisitClassDeclStmt(s *ClassDeclStmt) error
}

// ExprStmt evaluates Expr for its side effects and discards the result.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode() {}
func (s *ExprStmt) Accept(v StmtVisitor) error { return v.VisitExprStmt(s) }

// PrintStmt evaluates Expr and writes its textual form to stdout.
type PrintStmt struct {
	Expr Expr
}

func (*PrintStmt) stmtNode() {}
func (s *PrintStmt) Accept(v StmtVisitor) error { return v.VisitPrintStmt(s) }

// VarDeclStmt declares Name, optionally initialized by Init. A nil
// Init binds Name to Nil (spec.md §4.4 / Open Question 5).
type VarDeclStmt struct {
	Name token.Token
	Init Expr // nil if uninitialized
}

func (*VarDeclStmt) stmtNode() {}
func (s *VarDeclStmt) Accept(v StmtVisitor) error { return v.VisitVarDeclStmt(s) }

// BlockStmt introduces a new lexical scope around Stmts.
type BlockStmt struct {
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}
func (s *BlockStmt) Accept(v StmtVisitor) error { return v.VisitBlockStmt(s) }

// IfStmt runs Then when Cond is truthy, otherwise Else (nil if absent).
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else branch
}

func (*IfStmt) stmtNode() {}
func (s *IfStmt) Accept(v StmtVisitor) error { return v.VisitIfStmt(s) }

// WhileStmt runs Body while Cond is truthy. `for` loops desugar into
// this node plus a surrounding BlockStmt during parsing (spec.md
// §4.2), so the interpreter never needs a separate ForStmt node.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmtNode() {}
func (s *WhileStmt) Accept(v StmtVisitor) error { return v.VisitWhileStmt(s) }

// FunDeclStmt declares a named function (or method body, when nested
// inside a ClassDeclStmt.Methods). Params are plain name tokens; the
// 255-parameter cap is enforced by the parser, not this type.
type FunDeclStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (*FunDeclStmt) stmtNode() {}
func (s *FunDeclStmt) Accept(v StmtVisitor) error { return v.VisitFunDeclStmt(s) }

// ReturnStmt unwinds the current call with Value (nil for a bare
// `return;`, which evaluates to Nil).
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr // nil if bare `return;`
}

func (*ReturnStmt) stmtNode() {}
func (s *ReturnStmt) Accept(v StmtVisitor) error { return v.VisitReturnStmt(s) }

// ClassDeclStmt declares a class, its optional Superclass (a VarExpr
// resolved like any other variable reference, per spec.md §4.3), and
// its method bodies.
type ClassDeclStmt struct {
	Name       token.Token
	Superclass *VarExpr // nil if no superclass
	Methods    []*FunDeclStmt
}

func (*ClassDeclStmt) stmtNode() {}
func (s *ClassDeclStmt) Accept(v StmtVisitor) error { return v.VisitClassDeclStmt(s) }
