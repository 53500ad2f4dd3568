package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimaganu17/malis/ast"
	"github.com/mihaimaganu17/malis/environment"
	"github.com/mihaimaganu17/malis/object"
	"github.com/mihaimaganu17/malis/token"
)

func echoExec(_ *environment.Environment, _ []ast.Stmt) (object.Value, error) {
	return object.Number(42), nil
}

func TestUserFn_ArityAndName(t *testing.T) {
	decl := &ast.FunDeclStmt{
		Name:   token.New(token.Ident, "add", 1),
		Params: []token.Token{token.New(token.Ident, "a", 1), token.New(token.Ident, "b", 1)},
	}
	fn := New(decl, environment.New(), false, echoExec)
	assert.Equal(t, "add", fn.Name())
	assert.Equal(t, 2, fn.Arity())
	assert.False(t, fn.IsInitializer())
}

func TestUserFn_RunReturnsExecResult(t *testing.T) {
	decl := &ast.FunDeclStmt{Name: token.New(token.Ident, "f", 1)}
	fn := New(decl, environment.New(), false, echoExec)
	v, err := fn.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, object.Number(42), v)
}

func TestUserFn_BindExposesSelfAndForcesInitReturn(t *testing.T) {
	decl := &ast.FunDeclStmt{Name: token.New(token.Ident, "init", 1)}
	fn := New(decl, environment.New(), true, echoExec)

	class := &object.Class{Name: "Point", Methods: map[string]object.Function{}}
	instance := object.NewInstance(class)

	bound := fn.Bind(instance)
	v, err := bound.(*UserFn).Run(nil)
	require.NoError(t, err)
	assert.Same(t, instance, v)
}
