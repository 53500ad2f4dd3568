// Package repl implements the interactive Read-Eval-Print Loop for
// malis. A session keeps one resolver/interpreter pair alive across
// lines, so variables, functions, and classes declared on one line
// stay visible to the next.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/mihaimaganu17/malis/ast"
	"github.com/mihaimaganu17/malis/interpreter"
	"github.com/mihaimaganu17/malis/lexer"
	"github.com/mihaimaganu17/malis/parser"
	"github.com/mihaimaganu17/malis/resolver"
)

var (
	blueColor   = color.New(color.FgBlue)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
	yellowColor = color.New(color.FgYellow)
)

// Repl is one interactive malis session.
type Repl struct {
	Banner  string
	Version string
	Prompt  string

	it     *interpreter.Interpreter
	locals map[interface{}]int
}

// NewRepl creates a Repl; Start creates its interpreter. r.locals is
// filled in incrementally as each line is resolved, so scope distances
// computed for earlier lines remain valid for later ones.
func NewRepl(banner, version, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Prompt: prompt, locals: map[interface{}]int{}}
}

// PrintBannerInfo shows the startup banner and basic usage hints.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintln(writer, strings.Repeat("-", 40))
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintln(writer, strings.Repeat("-", 40))
	cyanColor.Fprintln(writer, "malis "+r.Version+" — a tree-walking interpreter")
	cyanColor.Fprintln(writer, "Type an expression or statement and press enter.")
	cyanColor.Fprintln(writer, "Type 'exit', 'quit', or press Ctrl-D to leave.")
}

// Start runs the main loop, reading from readline and writing results
// and errors to writer. Bare expressions (no trailing statement
// keyword) have their value echoed back, matching spec.md §6.
func (r *Repl) Start(writer io.Writer) {
	r.PrintBannerInfo(writer)
	r.it = interpreter.New(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("\n"))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "q" {
			return
		}

		rl.SaveHistory(line)
		r.evalLine(writer, line)
	}
}

func (r *Repl) evalLine(writer io.Writer, line string) {
	src := line
	if !strings.HasSuffix(strings.TrimSpace(line), ";") &&
		!strings.HasSuffix(strings.TrimSpace(line), "}") {
		src = line + ";"
	}

	toks, lexErrs := lexer.New(src).ScanTokens()
	if len(lexErrs) > 0 {
		for _, e := range lexErrs {
			redColor.Fprintf(writer, "%s\n", e)
		}
		return
	}

	stmts, parseErrs := parser.New(toks).Parse()
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			redColor.Fprintf(writer, "%s\n", e)
		}
		return
	}

	res := resolver.New()
	for k, v := range r.locals {
		res.Locals[k] = v
	}
	staticErrs := res.Resolve(stmts)
	if len(staticErrs) > 0 {
		for _, e := range staticErrs {
			redColor.Fprintf(writer, "%s\n", e)
		}
		return
	}
	for _, w := range res.Warnings() {
		yellowColor.Fprintf(writer, "%s\n", w)
	}
	r.locals = res.Locals
	r.it.SetLocals(r.locals)

	// A single bare expression echoes its value back, the way most
	// interactive language shells behave; anything else runs through
	// the ordinary statement pipeline and relies on `print` for output.
	if len(stmts) == 1 {
		if exprStmt, ok := stmts[0].(*ast.ExprStmt); ok {
			v, err := r.it.EvaluateExpr(exprStmt.Expr)
			if err != nil {
				redColor.Fprintf(writer, "%s\n", err)
				return
			}
			greenColor.Fprintf(writer, "%s\n", interpreter.Stringify(v))
			return
		}
	}

	if err := r.it.Interpret(stmts); err != nil {
		redColor.Fprintf(writer, "%s\n", err)
	}
}
