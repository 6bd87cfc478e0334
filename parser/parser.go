package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/podhmo/monkey/ast"
	"github.com/podhmo/monkey/lexer"
	"github.com/podhmo/monkey/token"
)

// Operator precedences, lowest first.
const (
	_ int = iota
	LOWEST
	OR          // || or
	AND         // && and
	EQUALS      // ==
	LESSGREATER // > or <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	DOT         // instance.member
	CALL        // myFunction(X)
	INDEX       // array[index]
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.MODULUS:  PRODUCT,
	token.DOT:      DOT,
	token.LPAREN:   CALL,
	token.LBRACKET: INDEX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser builds an AST from the tokens of a Lexer, collecting diagnostics
// instead of stopping at the first problem.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New creates a parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:              l,
		errors:         []string{},
		prefixParseFns: make(map[token.TokenType]prefixParseFn),
		infixParseFns:  make(map[token.TokenType]infixParseFn),
	}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseHashLiteral)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.WHILE, p.parseWhileExpression)
	p.registerPrefix(token.FOR, p.parseForExpression)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(token.CLASS, p.parseClassLiteral)

	for _, tt := range []token.TokenType{
		token.PLUS, token.MINUS, token.SLASH, token.ASTERISK, token.MODULUS,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.AND, token.OR, token.DOT,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is a shortcut for parsing a complete source text.
func Parse(source string) (*ast.Program, []string) {
	p := New(lexer.New(source))
	program := p.ParseProgram()
	return program, p.Errors()
}

// IsIncomplete reports whether the diagnostics stem from input that ended
// too early, e.g. an unclosed block. Interactive readers use it to ask for
// another line instead of reporting the errors.
func IsIncomplete(errors []string) bool {
	for _, msg := range errors {
		if strings.HasSuffix(msg, "got EOF instead") || strings.HasPrefix(msg, "no prefix parse function for EOF") {
			return true
		}
	}
	return false
}

// Errors returns the diagnostics collected so far.
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseProgram parses statements until the end of input.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}
	for !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances only when the next token has the expected type.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	msg := fmt.Sprintf("no prefix parse function for %s found", t)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) skipOptionalSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// --- Statements ---

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.skipOptionalSemicolon()
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.skipOptionalSemicolon()
		return stmt
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignStatement()
		}
	case token.LBRACE:
		if p.startsBlock() {
			block := p.parseBlockStatement()
			p.skipOptionalSemicolon()
			return block
		}
	}
	return p.parseExpressionStatement()
}

// startsBlock tells a statement-level block apart from a hash literal by
// looking at the token after the opening brace.
func (p *Parser) startsBlock() bool {
	switch p.peekToken.Type {
	case token.LET, token.RETURN, token.BREAK, token.CONTINUE, token.WHILE, token.FOR:
		return true
	case token.IDENT:
		return p.l.Peek().Type == token.ASSIGN
	}
	return false
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	p.skipOptionalSemicolon()
	return stmt
}

func (p *Parser) parseAssignStatement() ast.Statement {
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	stmt := &ast.AssignStatement{Token: p.curToken, Name: name}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	p.skipOptionalSemicolon()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	switch p.peekToken.Type {
	case token.SEMICOLON:
		p.nextToken()
		return stmt
	case token.RBRACE, token.EOF:
		return stmt
	}
	p.nextToken()

	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}
	p.skipOptionalSemicolon()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	p.skipOptionalSemicolon()
	return stmt
}

// parseBlockStatement expects curToken to be the opening brace and leaves
// curToken on the closing one.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errors = append(p.errors, fmt.Sprintf("expected next token to be %s, got %s instead", token.RBRACE, token.EOF))
			return block
		}
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// --- Expressions ---

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		msg := fmt.Sprintf("could not parse %q as integer", p.curToken.Literal)
		p.errors = append(p.errors, msg)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseCondition parses `(expr)` starting with the parenthesis as peekToken.
func (p *Parser) parseCondition() ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	condition := p.parseExpression(LOWEST)
	if condition == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return condition
}

func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken}
	if expression.Condition = p.parseCondition(); expression.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expression.Consequence = p.parseBlockStatement()

	if !p.peekTokenIs(token.ELSE) {
		return expression
	}
	p.nextToken()

	// `else if` is sugar for an else block holding a single if expression.
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		tok := p.curToken
		nested := p.parseIfExpression()
		if nested == nil {
			return nil
		}
		expression.Alternative = &ast.BlockStatement{
			Token:      tok,
			Statements: []ast.Statement{&ast.ExpressionStatement{Token: tok, Expression: nested}},
		}
		return expression
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expression.Alternative = p.parseBlockStatement()
	return expression
}

func (p *Parser) parseWhileExpression() ast.Expression {
	expression := &ast.WhileExpression{Token: p.curToken}
	if expression.Condition = p.parseCondition(); expression.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expression.Body = p.parseBlockStatement()
	return expression
}

func (p *Parser) parseForExpression() ast.Expression {
	expression := &ast.ForExpression{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	// init
	if !p.curTokenIs(token.SEMICOLON) {
		if expression.Init = p.parseForClause(); expression.Init == nil {
			return nil
		}
		if !p.curTokenIs(token.SEMICOLON) && !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}
	p.nextToken()

	// condition
	if !p.curTokenIs(token.SEMICOLON) {
		if expression.Condition = p.parseExpression(LOWEST); expression.Condition == nil {
			return nil
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}
	p.nextToken()

	// update
	if !p.curTokenIs(token.RPAREN) {
		if expression.Update = p.parseForClause(); expression.Update == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expression.Body = p.parseBlockStatement()
	return expression
}

func (p *Parser) parseForClause() ast.Statement {
	switch {
	case p.curTokenIs(token.LET):
		return p.parseLetStatement()
	case p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN):
		return p.parseAssignStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	lit.Parameters = params
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	lit.Body = p.parseBlockStatement()
	return lit
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers, true
	}

	if !p.expectPeek(token.IDENT) {
		return nil, false
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return identifiers, true
}

func (p *Parser) parseClassLiteral() ast.Expression {
	lit := &ast.ClassLiteral{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	lit.Body = p.parseBlockStatement()
	return lit
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	array.Elements = elements
	return array
}

// parseExpressionList parses comma separated expressions up to end.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil, false
	}
	list = append(list, exp)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return nil, false
		}
		list = append(list, exp)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if exp.Index == nil || !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

func (p *Parser) parseHashLiteral() ast.Expression {
	hash := &ast.HashLiteral{Token: p.curToken, Pairs: []ast.HashPair{}}

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if key == nil || !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		hash.Pairs = append(hash.Pairs, ast.HashPair{Key: key, Value: value})

		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return hash
}
