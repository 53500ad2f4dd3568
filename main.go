// malis is a tree-walking interpreter for a small, dynamically-typed,
// class-based scripting language. It runs as an interactive REPL by
// default, executes a source file given as its sole argument, or
// starts a REPL-over-TCP server with `server <port>`.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"

	"github.com/mihaimaganu17/malis/file"
	"github.com/mihaimaganu17/malis/interpreter"
	"github.com/mihaimaganu17/malis/lexer"
	"github.com/mihaimaganu17/malis/parser"
	"github.com/mihaimaganu17/malis/repl"
	"github.com/mihaimaganu17/malis/resolver"
)

// Exit codes follow the conventional sysexits.h subset the original
// Lox tooling uses: 0 success, 65 a static problem (lex/parse/resolve),
// 70 a runtime failure, 74 an I/O failure.
const (
	exitOK       = 0
	exitStatic   = 65
	exitRuntime  = 70
	exitIOError  = 74
)

const version = "v0.1.0"

var banner = `
                    _ _
  _ __ ___   __ _| (_)___
 | '_ ' / _' | | / __|
 | | | | (_| | | \__ \
 |_| |_|\__,_|_|_|___/
`

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

func main() {
	if len(os.Args) > 1 {
		switch arg := os.Args[1]; arg {
		case "--help", "-h":
			showHelp()
			os.Exit(exitOK)
		case "--version", "-v":
			cyanColor.Printf("malis %s\n", version)
			os.Exit(exitOK)
		case "server":
			if len(os.Args) < 3 {
				redColor.Fprintln(os.Stderr, "usage: malis server <port>")
				os.Exit(exitIOError)
			}
			startServer(os.Args[2])
			return
		default:
			os.Exit(runFile(arg))
		}
		return
	}

	repler := repl.NewRepl(banner, version, "malis> ")
	repler.Start(os.Stdout)
}

func showHelp() {
	cyanColor.Println("malis — a tree-walking interpreter")
	cyanColor.Println()
	cyanColor.Println("USAGE:")
	fmt.Println("  malis                  start the interactive REPL")
	fmt.Println("  malis <path>           run a malis source file")
	fmt.Println("  malis server <port>    start a REPL server on <port>")
	fmt.Println("  malis --help           show this help text")
	fmt.Println("  malis --version        show version information")
}

// runFile reads and runs a source file, returning the process exit
// code spec.md §6 assigns to each failure class.
func runFile(path string) int {
	src, err := file.ReadSource(path)
	if err != nil {
		redColor.Fprintf(os.Stderr, "could not read '%s': %v\n", path, err)
		return exitIOError
	}

	toks, lexErrs := lexer.New(src).ScanTokens()
	if len(lexErrs) > 0 {
		for _, e := range lexErrs {
			redColor.Fprintln(os.Stderr, e)
		}
		return exitStatic
	}

	stmts, parseErrs := parser.New(toks).Parse()
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			redColor.Fprintln(os.Stderr, e)
		}
		return exitStatic
	}

	res := resolver.New()
	if staticErrs := res.Resolve(stmts); len(staticErrs) > 0 {
		for _, e := range staticErrs {
			redColor.Fprintln(os.Stderr, e)
		}
		return exitStatic
	}
	for _, w := range res.Warnings() {
		yellowColor.Fprintln(os.Stderr, w)
	}

	it := interpreter.New(os.Stdout)
	it.SetLocals(res.Locals)
	if err := it.Interpret(stmts); err != nil {
		redColor.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	return exitOK
}

// startServer runs a REPL over plain TCP, one goroutine per
// connection, reusing the REPL's writer-based Start — no change to
// the interpreter's own single-threaded-per-session execution model
// (spec.md §5).
func startServer(port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "could not start server on :%s: %v\n", port, err)
		os.Exit(exitIOError)
	}
	cyanColor.Printf("malis REPL server listening on :%s\n", port)
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "accept failed: %v\n", err)
			continue
		}
		go handleClient(conn)
	}
}

func handleClient(conn net.Conn) {
	defer conn.Close()
	cyanColor.Printf("client connected from %s\n", conn.RemoteAddr())
	repler := repl.NewRepl(banner, version, "malis> ")
	repler.Start(conn)
	cyanColor.Printf("client disconnected from %s\n", conn.RemoteAddr())
}
