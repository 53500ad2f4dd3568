package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimaganu17/malis/object"
)

func TestEnvironment_DefineAndGet(t *testing.T) {
	env := New()
	env.Define("a", object.Number(1))
	v, err := env.Get("a")
	require.NoError(t, err)
	assert.Equal(t, object.Number(1), v)
}

func TestEnvironment_GetUndefinedIsError(t *testing.T) {
	env := New()
	_, err := env.Get("missing")
	assert.Error(t, err)
}

func TestEnvironment_GetSearchesEnclosing(t *testing.T) {
	global := New()
	global.Define("a", object.Number(1))
	child := NewChild(global)
	v, err := child.Get("a")
	require.NoError(t, err)
	assert.Equal(t, object.Number(1), v)
}

func TestEnvironment_ChildShadowsParent(t *testing.T) {
	global := New()
	global.Define("a", object.Number(1))
	child := NewChild(global)
	child.Define("a", object.Number(2))

	v, err := child.Get("a")
	require.NoError(t, err)
	assert.Equal(t, object.Number(2), v)

	v, err = global.Get("a")
	require.NoError(t, err)
	assert.Equal(t, object.Number(1), v)
}

func TestEnvironment_AssignUndefinedIsError(t *testing.T) {
	env := New()
	err := env.Assign("missing", object.Number(1))
	assert.Error(t, err)
}

func TestEnvironment_AssignWritesThroughToEnclosing(t *testing.T) {
	global := New()
	global.Define("a", object.Number(1))
	child := NewChild(global)

	err := child.Assign("a", object.Number(5))
	require.NoError(t, err)

	v, err := global.Get("a")
	require.NoError(t, err)
	assert.Equal(t, object.Number(5), v)
}

func TestEnvironment_GetAtAndAssignAt(t *testing.T) {
	global := New()
	mid := NewChild(global)
	inner := NewChild(mid)
	mid.Define("x", object.Number(10))

	v, err := inner.GetAt(1, "x")
	require.NoError(t, err)
	assert.Equal(t, object.Number(10), v)

	inner.AssignAt(1, "x", object.Number(20))
	v, err = mid.Get("x")
	require.NoError(t, err)
	assert.Equal(t, object.Number(20), v)
}
