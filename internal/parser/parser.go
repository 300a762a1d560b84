// Package parser implements the RiX Pratt-style expression parser: 13
// precedence levels plus a dozen context-sensitive dispatch rules layered on
// top of ordinary precedence climbing.
package parser

import (
	"fmt"

	"github.com/rixlang/rix/internal/ast"
	"github.com/rixlang/rix/internal/config"
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/pipeline"
	"github.com/rixlang/rix/internal/registry"
	"github.com/rixlang/rix/internal/token"
)

type prefixParseFn func() ast.Expression
type infixParseFn func(left ast.Expression) ast.Expression

// Parser turns a pipeline.TokenStream into one ast.Program. It halts and
// returns the first ParseError encountered; there is no error recovery.
type Parser struct {
	stream pipeline.TokenStream
	reg    *registry.Registry
	pctx   *pipeline.PipelineContext

	cur  token.Token
	peek token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	err *diagnostics.DiagnosticError

	// bracketDepth tracks nesting inside '[ ... ]' so generator-chain
	// operators (|+, |*, ...) are only recognized there.
	bracketDepth int
}

// New constructs a Parser reading from stream, using reg for keyword/system
// name lookups and pctx for cancellation checks.
func New(stream pipeline.TokenStream, reg *registry.Registry, pctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, reg: reg, pctx: pctx}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.infixParseFns = make(map[token.Type]infixParseFn)

	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.INTERP_STRING, p.parseInterpString)
	p.registerPrefix(token.IDENT_UPPER, p.parseIdentifier)
	p.registerPrefix(token.IDENT_LOWER, p.parseIdentifier)
	p.registerPrefix(token.SYSTEM_IDENT, p.parseSystemIdentifier)
	p.registerPrefix(token.PLACEHOLDER, p.parsePlaceholder)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrTuple)
	p.registerPrefix(token.LBRACKET, p.parseBracketLiteral)
	p.registerPrefix(token.MINUS, p.parseUnaryPrefix)
	p.registerPrefix(token.BANG, p.parseUnaryPrefix)
	p.registerPrefix(token.AT, p.parseAtPrefix)
	p.registerPrefix(token.LBRACE, p.parseLegacyBrace)
	p.registerPrefix(token.BRACE_EQ, p.parseMapSigil)
	p.registerPrefix(token.BRACE_COLON, p.parseMapSigil)
	p.registerPrefix(token.BRACE_PIPE, p.parseSetSigil)
	p.registerPrefix(token.BRACE_SEMI, p.parseBlockSigil)
	p.registerPrefix(token.BRACE_Q, p.parseCaseSigil)
	p.registerPrefix(token.BRACE_AT, p.parseLoopSigil)
	p.registerPrefix(token.BRACE_BRACE, p.parseBlockSigil)

	for _, op := range config.BinaryOperators {
		// AND/OR are textual keywords, not punctuation: the lexer always
		// tokenizes them as IDENT_UPPER, so there is no token.Type of their
		// own to key an infixParseFns entry on. Dispatch for them instead
		// goes through isKeywordOperator/keywordInfixFn below, driven by
		// the registry's operator-alias tier rather than the token type.
		if op.Symbol == "AND" || op.Symbol == "OR" {
			continue
		}
		p.registerInfix(token.Type(op.Symbol), p.parseBinaryOperation)
	}
	p.registerInfix(token.ASSIGN, p.parseAssignment)
	p.registerInfix(token.WALRUS, p.parseAssignment)
	p.registerInfix(token.EQUATION, p.parseAssignment)
	p.registerInfix(token.ARROW, p.parseArrowDefinition)
	p.registerInfix(token.QUESTION, p.parseTernaryOrPostfixAsk)
	p.registerInfix(token.COLON, p.parseInterval)
	p.registerInfix(token.LPAREN, p.parseCallArguments)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.DOT, p.parseDotAccess)
	p.registerInfix(token.DOTDOT, p.parseExternalAccess)
	p.registerInfix(token.DOTPIPE, p.parseKeySet)
	p.registerInfix(token.PIPEDOT, p.parseValueSet)
	p.registerInfix(token.BRACE_EQ, p.parseMutation)
	p.registerInfix(token.BRACE_BANG, p.parseMutation)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.stream.Next()
}

// Err returns the first ParseError encountered, or nil.
func (p *Parser) Err() *diagnostics.DiagnosticError { return p.err }

func (p *Parser) fail(err *diagnostics.DiagnosticError) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) pos() diagnostics.Position {
	return diagnostics.Position{Offset: p.cur.Offset, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.fail(diagnostics.NewParseError(diagnostics.PUnexpectedToken, p.pos(), "",
		string(t), string(p.peek.Type)))
	return false
}

func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMI) {
		p.nextToken()
	}
}

// isKeywordOperator reports whether tok is an IDENT_UPPER token whose
// normalized text is registered as a textual operator alias (AND, OR, NOT),
// per the registry's keyword-vs-function dispatch (spec.md §2).
func (p *Parser) isKeywordOperator(tok token.Token) bool {
	return tok.Type == token.IDENT_UPPER && p.reg != nil && p.reg.IsOperatorAlias(tok.Value)
}

// keywordInfixFn returns parseBinaryOperation when tok names a registered
// infix keyword operator (AND, OR), or nil otherwise; NOT has no infix form.
func (p *Parser) keywordInfixFn(tok token.Token) infixParseFn {
	if !p.isKeywordOperator(tok) {
		return nil
	}
	if _, ok := config.LookupOperator(tok.Value); !ok {
		return nil
	}
	return p.parseBinaryOperation
}

// keywordPrefixFn returns the NOT prefix parser when tok is the registered
// NOT keyword alias, or nil otherwise.
func (p *Parser) keywordPrefixFn(tok token.Token) prefixParseFn {
	if p.isKeywordOperator(tok) && tok.Value == "NOT" {
		return p.parseNotPrefix
	}
	return nil
}

func (p *Parser) curPrecedence() int {
	if op, ok := config.LookupOperator(string(p.cur.Type)); ok {
		return op.Precedence
	}
	if p.isKeywordOperator(p.cur) {
		if op, ok := config.LookupOperator(p.cur.Value); ok {
			return op.Precedence
		}
	}
	switch p.cur.Type {
	case token.ASSIGN, token.WALRUS, token.EQUATION, token.ARROW:
		return config.PrecAssignment
	case token.QUESTION:
		return config.PrecTernary
	case token.COLON:
		return config.PrecInterval
	case token.LPAREN, token.LBRACKET, token.DOT, token.DOTDOT, token.DOTPIPE, token.PIPEDOT,
		token.BRACE_EQ, token.BRACE_BANG:
		return config.PrecPostfix
	default:
		return config.PrecLowest
	}
}

func (p *Parser) peekPrecedence() int {
	if op, ok := config.LookupOperator(string(p.peek.Type)); ok {
		return op.Precedence
	}
	if p.isKeywordOperator(p.peek) {
		if op, ok := config.LookupOperator(p.peek.Value); ok {
			return op.Precedence
		}
	}
	switch p.peek.Type {
	case token.ASSIGN, token.WALRUS, token.EQUATION, token.ARROW:
		return config.PrecAssignment
	case token.QUESTION:
		return config.PrecTernary
	case token.COLON:
		return config.PrecInterval
	case token.LPAREN, token.LBRACKET, token.DOT, token.DOTDOT, token.DOTPIPE, token.PIPEDOT,
		token.BRACE_EQ, token.BRACE_BANG:
		return config.PrecPostfix
	default:
		return config.PrecLowest
	}
}

// isRightAssoc reports whether the current token's operator binds right to
// left: the assignment family and '^'/'**' power operators.
func (p *Parser) isRightAssoc(t token.Type) bool {
	switch t {
	case token.ASSIGN, token.WALRUS, token.EQUATION, token.ARROW, token.CARET, token.STARSTAR:
		return true
	default:
		return false
	}
}

// ParseProgram parses the whole token stream into one Program node: a
// BlockContainer of top-level statements separated by newline/';'.
func (p *Parser) ParseProgram() *ast.Program {
	startTok := p.cur
	block := &ast.BlockContainer{Token: startTok}

	p.skipNewlines()
	for !p.curTokenIs(token.EOF) {
		if p.checkCancelled() {
			break
		}
		stmt := p.parseTopLevelStatement()
		if p.err != nil {
			break
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
		p.skipNewlines()
	}

	return &ast.Program{Token: startTok, Body: block}
}

func (p *Parser) checkCancelled() bool {
	if p.pctx == nil || p.pctx.Ctx == nil {
		return false
	}
	select {
	case <-p.pctx.Ctx.Done():
		p.fail(&diagnostics.DiagnosticError{Code: diagnostics.WCancelled, Phase: diagnostics.PhaseParse, Pos: p.pos()})
		return true
	default:
		return false
	}
}

// parseTopLevelStatement handles the statement-initial CommandCall form
// (rule 11) before falling through to ordinary expression parsing.
func (p *Parser) parseTopLevelStatement() ast.Expression {
	if p.curTokenIs(token.SYSTEM_IDENT) && !p.peekIsCallOrTerminator() {
		return p.parseCommandCall()
	}
	return p.parseExpression(config.PrecLowest)
}

func (p *Parser) peekIsCallOrTerminator() bool {
	switch p.peek.Type {
	case token.LPAREN, token.NEWLINE, token.SEMI, token.EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) parseCommandCall() ast.Expression {
	tok := p.cur
	name := p.cur.Value
	var args []ast.Expression
	for !p.peekTokenIs(token.NEWLINE) && !p.peekTokenIs(token.SEMI) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		args = append(args, p.parseExpression(config.PrecPipe+1))
	}
	return &ast.CommandCall{Token: tok, Command: name, Args: args}
}

// parseExpression is the core Pratt loop: a prefix parse followed by zero or
// more infix/postfix applications, climbing while the next operator binds
// at least as tightly as precedence requires.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.keywordPrefixFn(p.cur)
	if prefix == nil {
		prefix = p.prefixParseFns[p.cur.Type]
	}
	if prefix == nil {
		p.fail(diagnostics.NewParseError(diagnostics.PNoPrefixParseFn, p.pos(), "", string(p.cur.Type)))
		return nil
	}
	left := prefix()
	if p.err != nil {
		return left
	}

	for !p.peekTokenIs(token.NEWLINE) && !p.peekTokenIs(token.SEMI) && !p.peekTokenIs(token.EOF) {
		peekPrec := p.peekPrecedence()
		if precedence > peekPrec {
			break
		}
		if precedence == peekPrec && !p.isRightAssoc(p.peek.Type) {
			break
		}
		infix := p.infixParseFns[p.peek.Type]
		if infix == nil {
			infix = p.keywordInfixFn(p.peek)
		}
		if infix == nil {
			break
		}
		p.nextToken()
		left = infix(left)
		if p.err != nil {
			return left
		}
	}
	return left
}

func (p *Parser) unexpected(expected string) {
	p.fail(diagnostics.NewParseError(diagnostics.PUnexpectedToken, p.pos(), "", expected, fmt.Sprintf("%q", p.cur.Lexeme)))
}
