package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimaganu17/malis/ast"
	"github.com/mihaimaganu17/malis/lexer"
)

func parse(t *testing.T, src string) ([]ast.Stmt, []*ParseError) {
	t.Helper()
	lx := lexer.New(src)
	toks, lexErrs := lx.ScanTokens()
	require.Empty(t, lexErrs)
	return New(toks).Parse()
}

func TestParse_VarDeclAndExprStmt(t *testing.T) {
	stmts, errs := parse(t, `var a = 1 + 2; a;`)
	require.Empty(t, errs)
	require.Len(t, stmts, 2)

	decl, ok := stmts[0].(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "a", decl.Name.Lexeme)
	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", string(bin.Op.Kind))

	_, ok = stmts[1].(*ast.ExprStmt)
	assert.True(t, ok)
}

func TestParse_TernaryAndComma(t *testing.T) {
	stmts, errs := parse(t, `var x = true ? (1, 2) : 3;`)
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	decl := stmts[0].(*ast.VarDeclStmt)
	tern, ok := decl.Init.(*ast.TernaryExpr)
	require.True(t, ok)
	group, ok := tern.Then.(*ast.GroupExpr)
	require.True(t, ok)
	_, ok = group.Inner.(*ast.BinaryExpr)
	assert.True(t, ok, "parenthesized comma inside ternary branch should parse as a sequencing binary expr")
}

func TestParse_CallArgsDoNotConsumeCommaOperator(t *testing.T) {
	stmts, errs := parse(t, `f(1, 2, 3);`)
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	es := stmts[0].(*ast.ExprStmt)
	call := es.Expr.(*ast.CallExpr)
	assert.Len(t, call.Args, 3, "each comma-separated argument parses independently, not as one sequencing expression")
}

func TestParse_ForDesugarsToWhile(t *testing.T) {
	stmts, errs := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	outer, ok := stmts[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, outer.Stmts, 2)
	_, ok = outer.Stmts[0].(*ast.VarDeclStmt)
	assert.True(t, ok)
	loop, ok := outer.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok)
	body, ok := loop.Body.(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Stmts, 2)
}

func TestParse_ClassWithSuperclassAndMethods(t *testing.T) {
	stmts, errs := parse(t, `class Dog < Animal { speak() { print "woof"; } }`)
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	cls, ok := stmts[0].(*ast.ClassDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "Dog", cls.Name.Lexeme)
	require.NotNil(t, cls.Superclass)
	assert.Equal(t, "Animal", cls.Superclass.Name.Lexeme)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "speak", cls.Methods[0].Name.Lexeme)
}

func TestParse_PanicModeRecoversAtNextStatement(t *testing.T) {
	stmts, errs := parse(t, `var a = ; var b = 2;`)
	require.NotEmpty(t, errs)
	require.Len(t, stmts, 1)
	decl, ok := stmts[0].(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "b", decl.Name.Lexeme)
}

func TestParse_InvalidAssignmentTargetIsError(t *testing.T) {
	_, errs := parse(t, `1 + 2 = 3;`)
	require.NotEmpty(t, errs)
}

func TestParse_TooManyArgumentsIsError(t *testing.T) {
	args := ""
	for i := 0; i < 256; i++ {
		if i > 0 {
			args += ", "
		}
		args += "1"
	}
	_, errs := parse(t, "f("+args+");")
	require.NotEmpty(t, errs)
}

func TestParse_SelfAndSuperExpr(t *testing.T) {
	stmts, errs := parse(t, `class A { m() { return self.x; } } class B < A { m() { return super.m(); } }`)
	require.Empty(t, errs)
	require.Len(t, stmts, 2)
	b := stmts[1].(*ast.ClassDeclStmt)
	ret := b.Methods[0].Body[0].(*ast.ReturnStmt)
	call := ret.Value.(*ast.CallExpr)
	_, ok := call.Callee.(*ast.SuperExpr)
	assert.True(t, ok)
}
