// Package printer renders an AST as parenthesized prefix text, e.g.
// `(+ 1 (* 2 3));` for `1 + 2 * 3;`. The output is lexable by the
// malis lexer, but it is not malis source: the parser does not accept
// it, and re-lexing it does not reproduce the original token sequence.
// The package follows the separate
// AST-node/printer-visitor split ajsnow-kaleidoscope uses (ast.go
// defines nodes, print.go walks them with its own visitor) rather
// than bolting a String() method onto every ast node.
package printer

import (
	"fmt"
	"strings"

	"github.com/mihaimaganu17/malis/ast"
)

// Printer renders expressions and statements as parenthesized prefix
// text in which every operator's grouping is explicit. It does not
// reproduce the original formatting, and its output does not parse
// back into the original program.
type Printer struct {
	last string
}

// New creates a Printer.
func New() *Printer { return &Printer{} }

// PrintStmts renders a full statement list, one statement per line.
func (p *Printer) PrintStmts(stmts []ast.Stmt) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(p.printStmt(s))
		b.WriteByte('\n')
	}
	return b.String()
}

func (p *Printer) printStmt(s ast.Stmt) string {
	_ = s.Accept(p)
	return p.last
}

func (p *Printer) printExpr(e ast.Expr) string {
	v, _ := e.Accept(p)
	return v.(string)
}

var _ ast.StmtVisitor = (*Printer)(nil)
var _ ast.ExprVisitor = (*Printer)(nil)

// --- statements ---

func (p *Printer) VisitExprStmt(s *ast.ExprStmt) error {
	p.last = p.printExpr(s.Expr) + ";"
	return nil
}

func (p *Printer) VisitPrintStmt(s *ast.PrintStmt) error {
	p.last = "print " + p.printExpr(s.Expr) + ";"
	return nil
}

func (p *Printer) VisitVarDeclStmt(s *ast.VarDeclStmt) error {
	if s.Init == nil {
		p.last = "var " + s.Name.Lexeme + ";"
		return nil
	}
	p.last = "var " + s.Name.Lexeme + " = " + p.printExpr(s.Init) + ";"
	return nil
}

func (p *Printer) VisitBlockStmt(s *ast.BlockStmt) error {
	var b strings.Builder
	b.WriteString("{ ")
	for _, inner := range s.Stmts {
		b.WriteString(p.printStmt(inner))
		b.WriteByte(' ')
	}
	b.WriteString("}")
	p.last = b.String()
	return nil
}

func (p *Printer) VisitIfStmt(s *ast.IfStmt) error {
	out := "if (" + p.printExpr(s.Cond) + ") " + p.printStmt(s.Then)
	if s.Else != nil {
		out += " else " + p.printStmt(s.Else)
	}
	p.last = out
	return nil
}

func (p *Printer) VisitWhileStmt(s *ast.WhileStmt) error {
	p.last = "while (" + p.printExpr(s.Cond) + ") " + p.printStmt(s.Body)
	return nil
}

func (p *Printer) VisitFunDeclStmt(s *ast.FunDeclStmt) error {
	params := make([]string, len(s.Params))
	for i, prm := range s.Params {
		params[i] = prm.Lexeme
	}
	var body strings.Builder
	for _, st := range s.Body {
		body.WriteString(p.printStmt(st))
		body.WriteByte(' ')
	}
	p.last = fmt.Sprintf("fun %s(%s) { %s}", s.Name.Lexeme, strings.Join(params, ", "), body.String())
	return nil
}

func (p *Printer) VisitReturnStmt(s *ast.ReturnStmt) error {
	if s.Value == nil {
		p.last = "return;"
		return nil
	}
	p.last = "return " + p.printExpr(s.Value) + ";"
	return nil
}

func (p *Printer) VisitClassDeclStmt(s *ast.ClassDeclStmt) error {
	header := "class " + s.Name.Lexeme
	if s.Superclass != nil {
		header += " < " + s.Superclass.Name.Lexeme
	}
	var body strings.Builder
	for _, m := range s.Methods {
		p.VisitFunDeclStmt(m)
		body.WriteString(strings.TrimPrefix(p.last, "fun "))
		body.WriteByte(' ')
	}
	p.last = header + " { " + body.String() + "}"
	return nil
}

// --- expressions ---

func (p *Printer) VisitUnaryExpr(e *ast.UnaryExpr) (interface{}, error) {
	return "(" + e.Op.Lexeme + " " + p.printExpr(e.Operand) + ")", nil
}

func (p *Printer) VisitBinaryExpr(e *ast.BinaryExpr) (interface{}, error) {
	return "(" + e.Op.Lexeme + " " + p.printExpr(e.Left) + " " + p.printExpr(e.Right) + ")", nil
}

func (p *Printer) VisitLogicalExpr(e *ast.LogicalExpr) (interface{}, error) {
	return "(" + e.Op.Lexeme + " " + p.printExpr(e.Left) + " " + p.printExpr(e.Right) + ")", nil
}

func (p *Printer) VisitTernaryExpr(e *ast.TernaryExpr) (interface{}, error) {
	return "(? " + p.printExpr(e.Cond) + " " + p.printExpr(e.Then) + " " + p.printExpr(e.Else) + ")", nil
}

func (p *Printer) VisitGroupExpr(e *ast.GroupExpr) (interface{}, error) {
	return "(group " + p.printExpr(e.Inner) + ")", nil
}

func (p *Printer) VisitLiteralExpr(e *ast.LiteralExpr) (interface{}, error) {
	switch e.Kind {
	case ast.LiteralNil:
		return "nil", nil
	case ast.LiteralString:
		return fmt.Sprintf("%q", e.Value), nil
	default:
		return fmt.Sprintf("%v", e.Value), nil
	}
}

func (p *Printer) VisitVarExpr(e *ast.VarExpr) (interface{}, error) {
	return e.Name.Lexeme, nil
}

func (p *Printer) VisitAssignExpr(e *ast.AssignExpr) (interface{}, error) {
	return "(= " + e.Name.Lexeme + " " + p.printExpr(e.Value) + ")", nil
}

func (p *Printer) VisitCallExpr(e *ast.CallExpr) (interface{}, error) {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = p.printExpr(a)
	}
	return "(call " + p.printExpr(e.Callee) + " " + strings.Join(args, " ") + ")", nil
}

func (p *Printer) VisitGetExpr(e *ast.GetExpr) (interface{}, error) {
	return "(get " + p.printExpr(e.Object) + " " + e.Name.Lexeme + ")", nil
}

func (p *Printer) VisitSetExpr(e *ast.SetExpr) (interface{}, error) {
	return "(set " + p.printExpr(e.Object) + " " + e.Name.Lexeme + " " + p.printExpr(e.Value) + ")", nil
}

func (p *Printer) VisitSelfExpr(e *ast.SelfExpr) (interface{}, error) {
	return "self", nil
}

func (p *Printer) VisitSuperExpr(e *ast.SuperExpr) (interface{}, error) {
	return "(super " + e.Method.Lexeme + ")", nil
}
