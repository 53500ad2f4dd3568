package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimaganu17/malis/ast"
	"github.com/mihaimaganu17/malis/lexer"
	"github.com/mihaimaganu17/malis/parser"
)

func resolve(t *testing.T, src string) ([]ast.Stmt, []*StaticError) {
	t.Helper()
	toks, lexErrs := lexer.New(src).ScanTokens()
	require.Empty(t, lexErrs)
	stmts, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)
	r := New()
	return stmts, r.Resolve(stmts)
}

func TestResolve_LocalDistance(t *testing.T) {
	src := `
	var a = 1;
	{
		var b = 2;
		print a + b;
	}
	`
	toks, _ := lexer.New(src).ScanTokens()
	stmts, _ := parser.New(toks).Parse()
	r := New()
	errs := r.Resolve(stmts)
	require.Empty(t, errs)

	block := stmts[1].(*ast.BlockStmt)
	printStmt := block.Stmts[1].(*ast.PrintStmt)
	bin := printStmt.Expr.(*ast.BinaryExpr)
	aRef := bin.Left.(*ast.VarExpr)
	bRef := bin.Right.(*ast.VarExpr)

	// "a" is global (declared outside any scope the resolver tracked as
	// a block), so it has no Locals entry.
	_, hasA := r.Locals[aRef]
	assert.False(t, hasA)

	dist, hasB := r.Locals[bRef]
	require.True(t, hasB)
	assert.Equal(t, 0, dist)
}

func TestResolve_SelfReferentialInitializerIsError(t *testing.T) {
	_, errs := resolve(t, `{ var a = a; }`)
	require.NotEmpty(t, errs)
}

func TestResolve_DuplicateLocalIsError(t *testing.T) {
	_, errs := resolve(t, `{ var a = 1; var a = 2; }`)
	require.NotEmpty(t, errs)
}

func TestResolve_UnusedLocalIsWarningNotError(t *testing.T) {
	toks, lexErrs := lexer.New(`{ var unused = 1; }`).ScanTokens()
	require.Empty(t, lexErrs)
	stmts, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)

	r := New()
	errs := r.Resolve(stmts)
	require.Empty(t, errs, "unused locals must not block execution")
	require.NotEmpty(t, r.Warnings())
}

func TestResolve_ReturnOutsideFunctionIsError(t *testing.T) {
	_, errs := resolve(t, `return 1;`)
	require.NotEmpty(t, errs)
}

func TestResolve_ReturnValueInInitializerIsError(t *testing.T) {
	_, errs := resolve(t, `class A { init() { return 1; } }`)
	require.NotEmpty(t, errs)
}

func TestResolve_SelfOutsideClassIsError(t *testing.T) {
	_, errs := resolve(t, `print self;`)
	require.NotEmpty(t, errs)
}

func TestResolve_SuperWithoutSuperclassIsError(t *testing.T) {
	_, errs := resolve(t, `class A { m() { return super.m(); } }`)
	require.NotEmpty(t, errs)
}

func TestResolve_ClassInheritingItselfIsError(t *testing.T) {
	_, errs := resolve(t, `class A < A { }`)
	require.NotEmpty(t, errs)
}

func TestResolve_FunctionAndClassDeclsAreExemptFromUnusedCheck(t *testing.T) {
	toks, lexErrs := lexer.New(`{ fun f() { return 1; } class C { } }`).ScanTokens()
	require.Empty(t, lexErrs)
	stmts, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)

	r := New()
	errs := r.Resolve(stmts)
	assert.Empty(t, errs)
	assert.Empty(t, r.Warnings())
}

func TestResolve_ValidClassHierarchyResolvesCleanly(t *testing.T) {
	_, errs := resolve(t, `
	class Animal {
		speak() { print "..."; }
	}
	class Dog < Animal {
		speak() { print super.speak(); }
	}
	var d = Dog();
	print d.speak();
	`)
	assert.Empty(t, errs)
}
