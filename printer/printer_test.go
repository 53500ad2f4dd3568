package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimaganu17/malis/lexer"
	"github.com/mihaimaganu17/malis/parser"
)

func TestPrintExpr_ArithmeticPrecedence(t *testing.T) {
	toks, errs := lexer.New(`1 + 2 * 3;`).ScanTokens()
	require.Empty(t, errs)
	stmts, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)

	out := New().PrintStmts(stmts)
	assert.Equal(t, "(+ 1 (* 2 3));\n", out)
}

// TestRoundTrip_PrinterOutputIsLexable prints a parsed program and
// re-lexes the output, checking only that the printer's output lexes
// without errors and yields tokens. The printer's prefix form does not
// reproduce the input's token sequence, so token kinds are not compared.
func TestRoundTrip_PrinterOutputIsLexable(t *testing.T) {
	src := `
	class Greeter {
		init(name) { self.name = name; }
		greet() { return "hi " + self.name; }
	}
	var g = Greeter("world");
	print g.greet();
	`
	toks, errs := lexer.New(src).ScanTokens()
	require.Empty(t, errs)
	stmts, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)

	printed := New().PrintStmts(stmts)

	reToks, reErrs := lexer.New(printed).ScanTokens()
	require.Empty(t, reErrs, "printer output must remain lexable source text")
	assert.NotEmpty(t, reToks)
}
