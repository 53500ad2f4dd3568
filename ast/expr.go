// Package ast defines the tagged-union expression and statement nodes
// produced by the parser and walked by the resolver and interpreter.
//
// Node shape follows a Visitor-pattern AST (one struct and one
// Accept(visitor) method per node kind) generalized to spec.md §3's
// node set. Literal values are stored as plain Go types (float64,
// string, bool, nil) rather than a runtime Value type, so this
// package has no dependency on the object package — the interpreter
// converts at evaluation time. Every expression node is a pointer
// type; resolver.Locals keys off that pointer identity, per spec.md §9's "keying by stable pointer/handle"
// guidance.
package ast

import "github.com/mihaimaganu17/malis/token"

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
	Accept(v ExprVisitor) (interface{}, error)
}

// ExprVisitor dispatches on concrete expression node type. The
// resolver and interpreter both implement it, walking the same tree
// with different side effects.
type ExprVisitor interface {
	VisitUnaryExpr(e *UnaryExpr) (interface{}, error)
	VisitBinaryExpr(e *BinaryExpr) (interface{}, error)
	VisitLogicalExpr(e *LogicalExpr) (interface{}, error)
	VisitTernaryExpr(e *TernaryExpr) (interface{}, error)
	VisitGroupExpr(e *GroupExpr) (interface{}, error)
	VisitLiteralExpr(e *LiteralExpr) (interface{}, error)
	VisitVarExpr(e *VarExpr) (interface{}, error)
	VisitAssignExpr(e *AssignExpr) (interface{}, error)
	VisitCallExpr(e *CallExpr) (interface{}, error)
	VisitGetExpr(e *GetExpr) (interface{}, error)
	VisitSetExpr(e *SetExpr) (interface{}, error)
	VisitSelfExpr(e *SelfExpr) (interface{}, error)
	VisitSuperExpr(e *SuperExpr) (interface{}, error)
}

// UnaryExpr is a prefix operator applied to one operand: -x, !flag.
type UnaryExpr struct {
	Op      token.Token
	Operand Expr
}

func (*UnaryExpr) exprNode() {}
func (e *UnaryExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitUnaryExpr(e) }

// BinaryExpr is an infix arithmetic, comparison, equality, or comma
// operator with strictly evaluated left and right operands.
type BinaryExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (e *BinaryExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitBinaryExpr(e) }

// LogicalExpr is "and"/"or": the right operand is only evaluated when
// the left doesn't already decide the result (spec.md §4.4).
type LogicalExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (*LogicalExpr) exprNode() {}
func (e *LogicalExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitLogicalExpr(e) }

// TernaryExpr is `cond ? then : else`; only the chosen branch is
// evaluated.
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*TernaryExpr) exprNode() {}
func (e *TernaryExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitTernaryExpr(e) }

// GroupExpr is a parenthesized sub-expression, kept as its own node so
// the pretty-printer can round-trip explicit grouping.
type GroupExpr struct {
	Inner Expr
}

func (*GroupExpr) exprNode() {}
func (e *GroupExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitGroupExpr(e) }

// LiteralKind tags which Go type Value holds.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralTrue
	LiteralFalse
	LiteralNil
)

// LiteralExpr is a constant: number, string, true, false, or nil.
type LiteralExpr struct {
	Kind  LiteralKind
	Value interface{} // float64 for LiteralNumber, string for LiteralString, bool for LiteralTrue/LiteralFalse, nil for LiteralNil
}

func (*LiteralExpr) exprNode() {}
func (e *LiteralExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitLiteralExpr(e) }

// VarExpr is a read of a variable, bare identifier use site. Name
// carries the source Token (for the line and lexeme) used both for
// error messages and by the resolver/environment lookup chain.
type VarExpr struct {
	Name token.Token
}

func (*VarExpr) exprNode() {}
func (e *VarExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitVarExpr(e) }

// AssignExpr assigns Value to the variable Name; it is itself an
// expression whose result is the assigned value (chains:
// `a = b = 1`).
type AssignExpr struct {
	Name  token.Token
	Value Expr
}

func (*AssignExpr) exprNode() {}
func (e *AssignExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitAssignExpr(e) }

// CallExpr is `callee(args...)`. Paren is kept for line-accurate
// runtime error messages (arity mismatch, non-callable callee).
type CallExpr struct {
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

func (*CallExpr) exprNode() {}
func (e *CallExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitCallExpr(e) }

// GetExpr reads a property (field or bound method) off an instance.
type GetExpr struct {
	Object Expr
	Name   token.Token
}

func (*GetExpr) exprNode() {}
func (e *GetExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitGetExpr(e) }

// SetExpr writes a field on an instance.
type SetExpr struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (*SetExpr) exprNode() {}
func (e *SetExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitSetExpr(e) }

// SelfExpr is a `self` use site inside a method body.
type SelfExpr struct {
	Keyword token.Token
}

func (*SelfExpr) exprNode() {}
func (e *SelfExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitSelfExpr(e) }

// SuperExpr is `super.method`, valid only inside a subclass method.
type SuperExpr struct {
	Keyword token.Token
	Method  token.Token
}

func (*SuperExpr) exprNode() {}
func (e *SuperExpr) Accept(v ExprVisitor) (interface{}, error) { return v.VisitSuperExpr(e) }
