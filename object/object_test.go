package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTruthy(t *testing.T) {
	assert.False(t, IsTruthy(Nil))
	assert.False(t, IsTruthy(Boolean(false)))
	assert.True(t, IsTruthy(Boolean(true)))
	assert.True(t, IsTruthy(Number(0)))
	assert.True(t, IsTruthy(String("")))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Nil, Nil))
	assert.False(t, Equal(Nil, Boolean(false)))
	assert.True(t, Equal(Number(1), Number(1)))
	assert.False(t, Equal(Number(1), Number(2)))
	assert.True(t, Equal(String("a"), String("a")))
	assert.False(t, Equal(String("a"), Number(1)))
}

func TestInstanceGetSetAndMethodLookup(t *testing.T) {
	super := &Class{Name: "Animal", Methods: map[string]Function{}}
	sub := &Class{Name: "Dog", Superclass: super, Methods: map[string]Function{}}
	inst := NewInstance(sub)

	inst.Set("name", String("Rex"))
	v, err := inst.Get("name")
	require.NoError(t, err)
	assert.Equal(t, String("Rex"), v)

	_, err = inst.Get("missing")
	assert.Error(t, err)
}

func TestClassFindMethodWalksSuperclassChain(t *testing.T) {
	base := &Class{Name: "Base", Methods: map[string]Function{"greet": nil}}
	derived := &Class{Name: "Derived", Superclass: base, Methods: map[string]Function{}}

	_, ok := derived.FindMethod("greet")
	assert.True(t, ok)
	_, ok = derived.FindMethod("missing")
	assert.False(t, ok)
}
