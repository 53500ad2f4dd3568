package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimaganu17/malis/lexer"
	"github.com/mihaimaganu17/malis/parser"
	"github.com/mihaimaganu17/malis/resolver"
)

// run tokenizes, parses, resolves, and interprets src, returning
// everything `print` wrote and the first runtime error, if any.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, lexErrs := lexer.New(src).ScanTokens()
	require.Empty(t, lexErrs)

	stmts, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)

	res := resolver.New()
	staticErrs := res.Resolve(stmts)
	require.Empty(t, staticErrs)

	var buf bytes.Buffer
	it := New(&buf)
	it.SetLocals(res.Locals)
	err := it.Interpret(stmts)
	return buf.String(), err
}

func TestInterpret_ArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpret_StringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestInterpret_TernaryAndComma(t *testing.T) {
	out, err := run(t, `print true ? (1, 2) : 3;`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestInterpret_LogicalShortCircuit(t *testing.T) {
	out, err := run(t, `
	fun boom() { print "should not print"; return true; }
	print false and boom();
	print true or boom();
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\ntrue\n", out)
}

func TestInterpret_WhileAndForLoops(t *testing.T) {
	out, err := run(t, `
	var i = 0;
	while (i < 3) { print i; i = i + 1; }
	for (var j = 0; j < 2; j = j + 1) print j;
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n0\n1\n", out)
}

func TestInterpret_ClosuresCaptureByReference(t *testing.T) {
	out, err := run(t, `
	fun makeCounter() {
		var count = 0;
		fun counter() {
			count = count + 1;
			return count;
		}
		return counter;
	}
	var c = makeCounter();
	print c();
	print c();
	print c();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpret_ClassesInstancesAndInit(t *testing.T) {
	out, err := run(t, `
	class Point {
		init(x, y) {
			self.x = x;
			self.y = y;
		}
		sum() {
			return self.x + self.y;
		}
	}
	var p = Point(3, 4);
	print p.sum();
	`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpret_InheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
	class Animal {
		speak() { return "..."; }
	}
	class Dog < Animal {
		speak() { return "woof (" + super.speak() + ")"; }
	}
	print Dog().speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, "woof (...)\n", out)
}

func TestInterpret_RuntimeErrorOnUndefinedProperty(t *testing.T) {
	_, err := run(t, `
	class A {}
	var a = A();
	print a.missing;
	`)
	require.Error(t, err)
}

func TestInterpret_PlusStringifiesMixedNumberAndString(t *testing.T) {
	out, err := run(t, `print "count: " + 5; print 5 + " items";`)
	require.NoError(t, err)
	assert.Equal(t, "count: 5\n5 items\n", out)
}

func TestInterpret_RuntimeErrorOnTypeMismatch(t *testing.T) {
	_, err := run(t, `print 1 + true;`)
	require.Error(t, err)
	var rerr *RuntimeError
	assert.ErrorAs(t, err, &rerr)
}

func TestInterpret_DivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "division by zero"))
}

func TestInterpret_ClockBuiltinReturnsNumber(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestInterpret_UndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
}
