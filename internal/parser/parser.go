package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lhaig/sol2clarity/internal/ast"
	"github.com/lhaig/sol2clarity/internal/diagnostic"
	"github.com/lhaig/sol2clarity/internal/lexer"
)

// Parser holds the parser state
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
	logger *slog.Logger
	lexErr *lexer.Error
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger routes parser trace records to logger at Debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a new parser
func New(source string, opts ...Option) *Parser {
	p := &Parser{
		diags:  diagnostic.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	tokens, err := lexer.Tokenize(source)
	p.tokens = tokens
	if err != nil {
		var lexErr *lexer.Error
		if !errors.As(err, &lexErr) {
			lexErr = &lexer.Error{Message: err.Error()}
		}
		p.lexErr = lexErr
	}
	return p
}

// ParseAll parses every contract declared in source.
func ParseAll(source string, opts ...Option) ([]*ast.Contract, error) {
	return New(source, opts...).Parse()
}

// Diagnostics returns the parser's diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse parses the token stream into one Contract per top-level declaration.
// The first error aborts the whole parse and no contracts are returned.
func (p *Parser) Parse() (contracts []*ast.Contract, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			contracts, err = nil, b.err
		}
	}()

	if p.lexErr != nil {
		p.failAt(ErrSyntax, p.lexErr.Line, p.lexErr.Column, "%s", p.lexErr.Message)
	}

	seen := make(map[string]bool)
	for !p.check(lexer.EOF) {
		switch p.current().Type {
		case lexer.PRAGMA:
			p.trace("pragma", p.current())
			p.advance()
		case lexer.IMPORT:
			p.skipImport()
		case lexer.CONTRACT:
			c := p.parseContract()
			if seen[c.Name] {
				p.failAt(ErrSyntax, c.Line, c.Column, "contract %s is declared more than once", c.Name)
			}
			seen[c.Name] = true
			contracts = append(contracts, c)
		default:
			p.fail(ErrSyntax, p.current(), "expected contract declaration, got %s", describe(p.current()))
		}
	}

	if len(contracts) == 0 {
		p.failAt(ErrEmptySource, 0, 0, "no contract declarations found")
	}
	return contracts, nil
}

// skipImport consumes an import directive up to and including its semicolon.
func (p *Parser) skipImport() {
	tok := p.expect(lexer.IMPORT)
	p.trace("import", tok)
	for !p.check(lexer.SEMICOLON) {
		if p.check(lexer.EOF) {
			p.fail(ErrSyntax, p.current(), "unterminated import directive")
		}
		p.advance()
	}
	p.advance()
}

// parseContract parses: contract <name> [is <base>, ...] { <members> }
func (p *Parser) parseContract() *ast.Contract {
	tok := p.expect(lexer.CONTRACT)
	name := p.expectName("contract")
	p.trace("contract", tok, "name", name.Literal)

	c := &ast.Contract{
		Name:   name.Literal,
		Line:   tok.Line,
		Column: tok.Column,
	}

	if p.match(lexer.IS) {
		for {
			base := p.expectName("base contract")
			c.Bases = append(c.Bases, base.Literal)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	p.expect(lexer.LBRACE)
	for !p.check(lexer.RBRACE) {
		switch p.current().Type {
		case lexer.EOF:
			p.fail(ErrSyntax, p.current(), "unterminated contract %s", c.Name)
		case lexer.EVENT:
			c.Events = append(c.Events, p.parseEvent())
		case lexer.FUNCTION:
			c.Functions = append(c.Functions, p.parseFunction())
		case lexer.CONSTRUCTOR:
			if c.Constructor != nil {
				p.fail(ErrSyntax, p.current(), "contract %s declares more than one constructor", c.Name)
			}
			c.Constructor = p.parseConstructor()
		case lexer.MAPPING, lexer.IDENT:
			c.StateVariables = append(c.StateVariables, p.parseStateVariable())
		default:
			p.fail(ErrSyntax, p.current(), "unexpected %s in contract body", describe(p.current()))
		}
	}
	p.expect(lexer.RBRACE)
	p.checkConstructorClash(c)
	return c
}

// checkConstructorClash rejects a function that would share the name the
// constructor is emitted under, or an old-style constructor named after
// the contract next to a real one.
func (p *Parser) checkConstructorClash(c *ast.Contract) {
	if c.Constructor == nil {
		return
	}
	for _, fn := range c.Functions {
		if fn.Name == "init" || fn.Name == c.Name {
			p.failAt(ErrSyntax, fn.Line, fn.Column,
				"function %s in contract %s clashes with its constructor", fn.Name, c.Name)
		}
	}
}

// parseStateVariable parses: <type> [visibility] [constant] <name> [= <expr>];
func (p *Parser) parseStateVariable() *ast.StateVariable {
	tok := p.current()
	sv := &ast.StateVariable{Line: tok.Line, Column: tok.Column}

	if p.check(lexer.MAPPING) {
		m := p.parseMappingType()
		sv.IsMapping = true
		sv.KeyType = m.KeyType
		sv.ValueType = m.ValueType
		sv.Nested = m.Nested
		sv.Type = m.String()
	} else {
		sv.Type = p.parseTypeName()
	}

	for {
		cur := p.current()
		switch {
		case cur.Type.IsVisibility():
			sv.Visibility = p.advance().Literal
			continue
		case cur.Type == lexer.CONSTANT:
			p.advance()
			sv.IsConstant = true
			continue
		}
		break
	}

	name := p.expectName("state variable")
	sv.Name = name.Literal
	p.trace("state variable", tok, "name", sv.Name, "type", sv.Type)

	if p.match(lexer.ASSIGN) {
		sv.InitialValue = p.parseExpression()
	}

	if sv.IsConstant && sv.IsMapping {
		p.fail(ErrSyntax, name, "mapping %s cannot be constant", sv.Name)
	}
	if sv.IsConstant && sv.InitialValue == nil {
		p.fail(ErrMissingSubexpression, name, "constant %s requires an initial value", sv.Name)
	}

	p.expect(lexer.SEMICOLON)
	return sv
}

// parseMappingType parses: mapping(<key> => <value>), recursing when the
// value is itself a mapping.
func (p *Parser) parseMappingType() *ast.MappingType {
	p.expect(lexer.MAPPING)
	p.expect(lexer.LPAREN)

	m := &ast.MappingType{}
	switch p.current().Type {
	case lexer.MAPPING:
		p.fail(ErrSyntax, p.current(), "mapping cannot be used as a mapping key")
	case lexer.IDENT:
		m.KeyType = p.parseTypeName()
	default:
		p.fail(ErrMissingSubexpression, p.current(), "missing mapping key type, got %s", describe(p.current()))
	}

	p.expect(lexer.ARROW)

	switch p.current().Type {
	case lexer.MAPPING:
		m.Nested = p.parseMappingType()
		m.ValueType = m.Nested.String()
	case lexer.IDENT:
		m.ValueType = p.parseTypeName()
	default:
		p.fail(ErrMissingSubexpression, p.current(), "missing mapping value type, got %s", describe(p.current()))
	}

	p.expect(lexer.RPAREN)
	return m
}

// parseTypeName parses an elementary type with optional array suffixes.
// "address payable" collapses to address.
func (p *Parser) parseTypeName() string {
	tok := p.current()
	if tok.Type != lexer.IDENT {
		p.fail(ErrMissingSubexpression, tok, "expected type name, got %s", describe(tok))
	}
	p.advance()

	name := tok.Literal
	if name == "address" {
		p.match(lexer.PAYABLE)
	}
	for p.check(lexer.LBRACKET) {
		p.advance()
		size := ""
		if p.check(lexer.INT_LIT) {
			size = p.advance().Literal
		}
		p.expect(lexer.RBRACKET)
		name += "[" + size + "]"
	}
	return name
}

// parseFunction parses:
// function <name>(<params>) [visibility] [mutability] [returns (<type> [name])] { ... }
func (p *Parser) parseFunction() *ast.Function {
	tok := p.expect(lexer.FUNCTION)
	name := p.expectName("function")
	p.trace("function", tok, "name", name.Literal)

	fn := &ast.Function{
		Name:   name.Literal,
		Params: p.parseParamList(),
		Line:   tok.Line,
		Column: tok.Column,
	}

	for {
		cur := p.current()
		switch {
		case cur.Type.IsVisibility():
			fn.Visibility = p.advance().Literal
			continue
		case cur.Type.IsMutability():
			fn.Mutability = p.advance().Literal
			continue
		case cur.Type == lexer.RETURNS:
			p.advance()
			fn.ReturnType = p.parseReturns()
			continue
		}
		break
	}

	fn.Body = p.parseBlock()
	return fn
}

// parseReturns parses: (<type> [name], ...)
func (p *Parser) parseReturns() string {
	p.expect(lexer.LPAREN)
	var types []string
	for {
		if p.check(lexer.MAPPING) {
			types = append(types, p.parseMappingType().String())
		} else {
			types = append(types, p.parseTypeName())
		}
		p.skipDataLocation()
		p.match(lexer.IDENT)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return strings.Join(types, ", ")
}

// parseConstructor parses: constructor(<params>) [visibility] [payable] { ... }
func (p *Parser) parseConstructor() *ast.Constructor {
	tok := p.expect(lexer.CONSTRUCTOR)
	p.trace("constructor", tok)

	ctor := &ast.Constructor{
		Params: p.parseParamList(),
		Line:   tok.Line,
		Column: tok.Column,
	}
	for {
		cur := p.current()
		if cur.Type.IsVisibility() {
			ctor.Visibility = p.advance().Literal
			continue
		}
		if cur.Type == lexer.PAYABLE {
			p.advance()
			continue
		}
		break
	}

	ctor.Body = p.parseBlock()
	return ctor
}

// parseParamList parses: ( [<type> [location] <name> {, <type> [location] <name>}] )
func (p *Parser) parseParamList() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	if p.match(lexer.RPAREN) {
		return params
	}
	for {
		tok := p.current()
		typ := p.parseTypeName()
		p.skipDataLocation()
		name := p.expectName("parameter")
		params = append(params, &ast.Param{
			Name:   name.Literal,
			Type:   typ,
			Line:   tok.Line,
			Column: tok.Column,
		})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

var dataLocations = map[string]bool{
	"memory":   true,
	"storage":  true,
	"calldata": true,
}

func (p *Parser) skipDataLocation() {
	if p.check(lexer.IDENT) && dataLocations[p.current().Literal] {
		p.advance()
	}
}

// parseEvent parses: event <name>(<type> [indexed] <name>, ...);
func (p *Parser) parseEvent() *ast.Event {
	tok := p.expect(lexer.EVENT)
	name := p.expectName("event")
	p.trace("event", tok, "name", name.Literal)

	ev := &ast.Event{Name: name.Literal, Line: tok.Line, Column: tok.Column}
	p.expect(lexer.LPAREN)
	if !p.check(lexer.RPAREN) {
		for {
			ptok := p.current()
			param := &ast.EventParameter{
				Type:   p.parseTypeName(),
				Line:   ptok.Line,
				Column: ptok.Column,
			}
			param.Indexed = p.match(lexer.INDEXED)
			param.Name = p.expectName("event parameter").Literal
			ev.Params = append(ev.Params, param)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.SEMICOLON)
	return ev
}

// parseBlock parses: { <statements> }
func (p *Parser) parseBlock() []ast.Statement {
	p.expect(lexer.LBRACE)
	var stmts []ast.Statement
	for !p.check(lexer.RBRACE) {
		if p.check(lexer.EOF) {
			p.fail(ErrSyntax, p.current(), "unterminated block")
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(lexer.RBRACE)
	return stmts
}

// parseStatement parses one statement. A bare "return;" yields nil.
func (p *Parser) parseStatement() ast.Statement {
	tok := p.current()
	switch tok.Type {
	case lexer.RETURN:
		p.advance()
		if p.match(lexer.SEMICOLON) {
			return nil
		}
		value := p.parseExpression()
		p.expect(lexer.SEMICOLON)
		return &ast.ReturnStmt{Value: value, Line: tok.Line, Column: tok.Column}
	case lexer.EMIT:
		return p.parseEmit()
	default:
		return p.parseExprStmtOrAssign()
	}
}

// parseEmit parses: emit <Event>[(<args>)];
func (p *Parser) parseEmit() *ast.EmitStmt {
	tok := p.expect(lexer.EMIT)
	name := p.expectName("emitted event")
	stmt := &ast.EmitStmt{Event: name.Literal, Line: tok.Line, Column: tok.Column}
	if p.check(lexer.LPAREN) {
		stmt.Args = p.parseArgList()
	}
	p.expect(lexer.SEMICOLON)
	return stmt
}

// parseExprStmtOrAssign parses an expression and, when an assignment
// operator follows, classifies the parsed expression as its target.
func (p *Parser) parseExprStmtOrAssign() ast.Statement {
	tok := p.current()
	expr := p.parseExpression()

	opTok := p.current()
	compound, isCompound := opTok.Type.CompoundOperator()
	if opTok.Type != lexer.ASSIGN && !isCompound {
		p.expect(lexer.SEMICOLON)
		return &ast.ExprStmt{Expr: expr, Line: tok.Line, Column: tok.Column}
	}
	p.advance()

	value := p.parseExpression()
	if isCompound {
		value = &ast.BinaryExpr{Left: expr, Op: compound, Right: value, Line: opTok.Line, Column: opTok.Column}
	}
	p.expect(lexer.SEMICOLON)

	switch target := expr.(type) {
	case *ast.Identifier:
		return &ast.AssignStmt{Name: target.Name, Value: value, Line: tok.Line, Column: tok.Column}
	case *ast.MapAccessExpr:
		return &ast.MapAssignStmt{Map: target.Map, Key: target.Key, Value: value, Line: tok.Line, Column: tok.Column}
	default:
		p.fail(ErrInvalidAssignmentTarget, tok, "cannot assign to %s", expr)
		return nil
	}
}

// parseExpression folds terms left to right with uniform precedence:
// a + b * c is ((a + b) * c).
func (p *Parser) parseExpression() ast.Expression {
	left := p.parseTerm()
	for p.current().Type.IsBinaryOperator() {
		op := p.advance()
		right := p.parseTerm()
		left = &ast.BinaryExpr{Left: left, Op: op.Literal, Right: right, Line: op.Line, Column: op.Column}
	}
	return left
}

var terminators = map[lexer.TokenType]bool{
	lexer.SEMICOLON: true,
	lexer.RPAREN:    true,
	lexer.RBRACKET:  true,
	lexer.RBRACE:    true,
	lexer.COMMA:     true,
	lexer.EOF:       true,
}

// parseTerm parses a literal, an identifier with its access suffixes,
// a call or a parenthesized expression.
func (p *Parser) parseTerm() ast.Expression {
	tok := p.current()
	var expr ast.Expression
	switch tok.Type {
	case lexer.INT_LIT, lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.Literal{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.STRING_LIT:
		p.advance()
		return &ast.Literal{Value: normalizeQuotes(tok.Literal), Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		expr = p.parseExpression()
		p.expect(lexer.RPAREN)
	case lexer.IDENT:
		p.advance()
		if p.check(lexer.LPAREN) {
			expr = &ast.CallExpr{Function: tok.Literal, Args: p.parseArgList(), Line: tok.Line, Column: tok.Column}
		} else {
			expr = &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
		}
	default:
		if terminators[tok.Type] {
			p.fail(ErrMissingSubexpression, tok, "expected expression, got %s", describe(tok))
		}
		p.fail(ErrSyntax, tok, "unexpected %s in expression", describe(tok))
	}
	return p.parseAccess(expr)
}

// parseAccess applies [key] and .member suffixes to base. A second index
// on a map access folds both keys into one composite "," key.
func (p *Parser) parseAccess(base ast.Expression) ast.Expression {
	for {
		tok := p.current()
		switch tok.Type {
		case lexer.LBRACKET:
			p.advance()
			key := p.parseExpression()
			p.expect(lexer.RBRACKET)
			switch b := base.(type) {
			case *ast.Identifier:
				base = &ast.MapAccessExpr{Map: b.Name, Key: key, Line: b.Line, Column: b.Column}
			case *ast.MapAccessExpr:
				composite := &ast.BinaryExpr{Left: b.Key, Op: ast.CommaOp, Right: key, Line: tok.Line, Column: tok.Column}
				base = &ast.MapAccessExpr{Map: b.Map, Key: composite, Line: b.Line, Column: b.Column}
			default:
				p.fail(ErrSyntax, tok, "invalid nested map access on %s", base)
			}
		case lexer.DOT:
			p.advance()
			member := p.current()
			if member.Type != lexer.IDENT {
				p.fail(ErrMissingName, member, "expected member name after '.', got %s", describe(member))
			}
			p.advance()
			base = &ast.MemberAccessExpr{Object: base, Member: member.Literal, Line: tok.Line, Column: tok.Column}
		default:
			return base
		}
	}
}

// parseArgList parses: ( [<expr> {, <expr>}] )
func (p *Parser) parseArgList() []ast.Expression {
	p.expect(lexer.LPAREN)
	var args []ast.Expression
	if p.match(lexer.RPAREN) {
		return args
	}
	for {
		args = append(args, p.parseExpression())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

// normalizeQuotes rewrites a single-quoted string literal with double quotes.
func normalizeQuotes(lit string) string {
	if len(lit) < 2 || lit[0] != '\'' {
		return lit
	}
	body := lit[1 : len(lit)-1]
	body = strings.ReplaceAll(body, `\'`, `'`)
	body = strings.ReplaceAll(body, `"`, `\"`)
	return `"` + body + `"`
}

// --- token helpers ---

// current returns the current token
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches the expected type,
// otherwise aborts the parse
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		kind := ErrSyntax
		if tt == lexer.IDENT {
			kind = ErrMissingName
		}
		p.fail(kind, tok, "expected %s, got %s", tt, describe(tok))
	}
	return p.advance()
}

// expectName consumes the identifier naming a declaration of the given kind.
func (p *Parser) expectName(what string) lexer.Token {
	tok := p.current()
	if tok.Type != lexer.IDENT {
		p.fail(ErrMissingName, tok, "%s is missing a name, got %s", what, describe(tok))
	}
	return p.advance()
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// match consumes the current token if it matches, returns true if consumed
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) fail(kind error, tok lexer.Token, format string, args ...any) {
	p.failAt(kind, tok.Line, tok.Column, format, args...)
}

// failAt records the error and unwinds to Parse.
func (p *Parser) failAt(kind error, line, col int, format string, args ...any) {
	e := &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line, Column: col}
	p.diags.Errorf(line, col, "%s", e.Message)
	p.logger.Debug("parse failed", "kind", kind.Error(), "line", line, "column", col, "message", e.Message)
	panic(bailout{err: e})
}

func (p *Parser) trace(rule string, tok lexer.Token, attrs ...any) {
	p.logger.Debug("parse", append([]any{"rule", rule, "line", tok.Line}, attrs...)...)
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of input"
	}
	if tok.Literal == "" {
		return tok.Type.String()
	}
	return fmt.Sprintf("'%s'", tok.Literal)
}
