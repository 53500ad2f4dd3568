// Package parser builds a list of ast.Stmt from a token stream using
// recursive descent: one function per precedence level, matching
// spec.md §4.2's grammar exactly. Error handling follows a
// collect-don't-panic idiom generalized into panic-mode recovery: a
// malformed statement records a *ParseError and calls synchronize to
// resume parsing at the next likely statement boundary, so one
// mistake never hides the rest of the file's errors.
package parser

import (
	"fmt"
	"strconv"

	"github.com/mihaimaganu17/malis/ast"
	"github.com/mihaimaganu17/malis/token"
)

const maxArgs = 255

// ParseError is a single syntax error tied to the offending token.
type ParseError struct {
	Tok     token.Token
	Message string
}

func (e *ParseError) Error() string {
	if e.Tok.Kind == token.Eof {
		return fmt.Sprintf("[line %d] parse error at end: %s", e.Tok.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] parse error at '%s': %s", e.Tok.Line, e.Tok.Lexeme, e.Message)
}

// Parser consumes a flat token slice and produces statements.
type Parser struct {
	tokens  []token.Token
	current int
	errors  []*ParseError
}

// New creates a Parser over tokens, which must end with an Eof token
// (as produced by lexer.ScanTokens).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs the full program grammar, returning every top-level
// statement it could recover along with any errors collected along
// the way. A non-empty error slice means the program must not run
// (spec.md §7).
func (p *Parser) Parse() ([]ast.Stmt, []*ParseError) {
	var stmts []ast.Stmt
	for !p.atEnd() {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errors
}

// --- token stream helpers ---

func (p *Parser) peek() token.Token  { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }
func (p *Parser) atEnd() bool        { return p.peek().Kind == token.Eof }

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.atEnd() {
		return kind == token.Eof
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past an expected token kind and returns it, or
// records a *ParseError carrying message and panics with the
// matching *parseSignal, which declaration() recovers from.
func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.newError(p.peek(), message))
}

func (p *Parser) newError(tok token.Token, message string) *parseSignal {
	err := &ParseError{Tok: tok, Message: message}
	p.errors = append(p.errors, err)
	return &parseSignal{err: err}
}

// parseSignal is the internal panic payload used to unwind out of a
// partially-parsed statement back to declaration(), which recovers
// and calls synchronize. It is never surfaced to callers of Parse.
type parseSignal struct {
	err *ParseError
}

// synchronize discards tokens until it reaches a plausible statement
// boundary: past a semicolon, or just before a keyword that starts a
// new declaration/statement. This bounds the damage of a single
// syntax error to one statement (spec.md §4.2/§7).
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// --- declarations ---

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*parseSignal); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fun):
		return p.funDecl("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Ident, "expected class name")

	var superclass *ast.VarExpr
	if p.match(token.Less) {
		p.consume(token.Ident, "expected superclass name")
		superclass = &ast.VarExpr{Name: p.previous()}
	}

	p.consume(token.LeftBrace, "expected '{' before class body")
	var methods []*ast.FunDeclStmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.funDecl("method"))
	}
	p.consume(token.RightBrace, "expected '}' after class body")

	return &ast.ClassDeclStmt{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) funDecl(kind string) *ast.FunDeclStmt {
	name := p.consume(token.Ident, "expected "+kind+" name")
	p.consume(token.LeftParen, "expected '(' after "+kind+" name")
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.newError(p.peek(), fmt.Sprintf("can't have more than %d parameters", maxArgs))
			}
			params = append(params, p.consume(token.Ident, "expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "expected ')' after parameters")
	p.consume(token.LeftBrace, "expected '{' before "+kind+" body")
	body := p.block()
	return &ast.FunDeclStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Ident, "expected variable name")
	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after variable declaration")
	return &ast.VarDeclStmt{Name: name, Init: init}
}

// --- statements ---

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.LeftBrace):
		return &ast.BlockStmt{Stmts: p.block()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() ast.Stmt {
	value := p.expression()
	p.consume(token.Semicolon, "expected ';' after value")
	return &ast.PrintStmt{Expr: value}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "expected ';' after expression")
	return &ast.ExprStmt{Expr: expr}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "expected '}' after block")
	return stmts
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(token.RightParen, "expected ')' after if condition")
	then := p.statement()
	var els ast.Stmt
	if p.match(token.Else) {
		els = p.statement()
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els}
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(token.RightParen, "expected ')' after while condition")
	body := p.statement()
	return &ast.WhileStmt{Cond: cond, Body: body}
}

// forStmt desugars `for (init; cond; incr) body` into nested block/
// while statements (spec.md §4.2), so the interpreter has no ForStmt
// node to evaluate.
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
		init = nil
	case p.match(token.Var):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after loop condition")

	var incr ast.Expr
	if !p.check(token.RightParen) {
		incr = p.expression()
	}
	p.consume(token.RightParen, "expected ')' after for clauses")

	body := p.statement()

	if incr != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{body, &ast.ExprStmt{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.LiteralExpr{Kind: ast.LiteralTrue, Value: true}
	}
	body = &ast.WhileStmt{Cond: cond, Body: body}
	if init != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{init, body}}
	}
	return body
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after return value")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

// --- expressions, one function per precedence level ---

// expression is the comma/sequencing operator: lowest precedence,
// left-associative, discards the left operand's value.
func (p *Parser) expression() ast.Expr {
	expr := p.assignment()
	for p.match(token.Comma) {
		op := p.previous()
		right := p.assignment()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.VarExpr:
			return &ast.AssignExpr{Name: target.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.newError(equals, "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *Parser) ternary() ast.Expr {
	cond := p.or()
	if p.match(token.Question) {
		then := p.assignment()
		p.consume(token.Colon, "expected ':' in ternary expression")
		els := p.assignment()
		return &ast.TernaryExpr{Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.previous()
		right := p.and()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.term()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right := p.factor()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Star, token.Slash) {
		op := p.previous()
		right := p.unary()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus, token.Not) {
		op := p.previous()
		operand := p.unary()
		return &ast.UnaryExpr{Op: op, Operand: operand}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Ident, "expected property name after '.'")
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

// finishCall parses the argument list. Arguments parse at `assignment`
// precedence, not `separator` (expression), so the comma operator
// cannot silently merge two arguments into one (spec.md §4.2, Open
// Question 3 — decided in SPEC_FULL.md §5.3).
func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.newError(p.peek(), fmt.Sprintf("can't have more than %d arguments", maxArgs))
			}
			args = append(args, p.assignment())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "expected ')' after arguments")
	return &ast.CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return &ast.LiteralExpr{Kind: ast.LiteralFalse, Value: false}
	case p.match(token.True):
		return &ast.LiteralExpr{Kind: ast.LiteralTrue, Value: true}
	case p.match(token.Nil):
		return &ast.LiteralExpr{Kind: ast.LiteralNil, Value: nil}
	case p.match(token.Number):
		return &ast.LiteralExpr{Kind: ast.LiteralNumber, Value: parseFloat(p.previous().Lexeme)}
	case p.match(token.String):
		return &ast.LiteralExpr{Kind: ast.LiteralString, Value: p.previous().Lexeme}
	case p.match(token.Self):
		return &ast.SelfExpr{Keyword: p.previous()}
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "expected '.' after 'super'")
		method := p.consume(token.Ident, "expected superclass method name")
		return &ast.SuperExpr{Keyword: keyword, Method: method}
	case p.match(token.Ident):
		return &ast.VarExpr{Name: p.previous()}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "expected ')' after expression")
		return &ast.GroupExpr{Inner: expr}

	// Error productions: a binary operator with no left operand is a
	// common typo; report it specifically instead of falling through
	// to the generic "expected expression" message. Per spec.md §4.2,
	// the lone right operand is still consumed (and discarded) so the
	// parser doesn't also report a cascade of spurious errors for it,
	// but no bogus left operand is synthesized into the AST.
	case p.match(token.Plus, token.Slash, token.Star, token.BangEqual,
		token.EqualEqual, token.Greater, token.GreaterEqual, token.Less, token.LessEqual):
		op := p.previous()
		sig := p.newError(op, fmt.Sprintf("binary operator '%s' has no left operand", op.Lexeme))
		p.unary()
		panic(sig)

	default:
		panic(p.newError(p.peek(), "expected expression"))
	}
}

func parseFloat(lexeme string) float64 {
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return 0
	}
	return f
}
