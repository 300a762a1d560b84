package parser

import (
	"strconv"
	"strings"

	"github.com/rixlang/rix/internal/ast"
	"github.com/rixlang/rix/internal/config"
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/token"
)

// ---- Atomic prefix parsers ----

// parseNumber builds a Number literal, stripping the lexer's "0<letter>"
// or "0z[N]" base prefix (if any) so Raw holds only the digit run — e.g.
// "0x1F" lexes as Raw "1F", Base 16; "0z[17]A2" lexes as Raw "A2", Base 17.
func (p *Parser) parseNumber() ast.Expression {
	tok := p.cur
	base, _ := strconv.Atoi(tok.Value)
	raw := tok.Lexeme
	if len(raw) >= 3 && raw[0] == '0' && raw[1] == 'z' && raw[2] == '[' {
		if i := strings.IndexByte(raw, ']'); i >= 0 {
			raw = raw[i+1:]
		}
	} else if len(raw) >= 2 && raw[0] == '0' && isAsciiLetter(raw[1]) {
		raw = raw[2:]
	}
	return &ast.Number{Token: tok, Raw: raw, Base: base}
}

func isAsciiLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *Parser) parseString() ast.Expression {
	tok := p.cur
	width := 1
	for i := 0; i < len(tok.Lexeme) && tok.Lexeme[i] == '"'; i++ {
		width = i + 1
	}
	return &ast.String{Token: tok, Value: tok.Value, DelimiterWidth: width}
}

func (p *Parser) parseInterpString() ast.Expression {
	tok := p.cur
	return &ast.String{Token: tok, Value: tok.Value, DelimiterWidth: 1, Interpolated: true}
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.cur
	return &ast.UserIdentifier{Token: tok, Name: tok.Value, LeadingUpper: tok.LeadingUpper}
}

func (p *Parser) parseSystemIdentifier() ast.Expression {
	tok := p.cur
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // consume '('
		args := p.parseExpressionList(token.RPAREN)
		return &ast.SystemCall{Token: tok, Name: tok.Value, Args: args}
	}
	return &ast.SystemFunctionRef{Token: tok, Name: tok.Value}
}

func (p *Parser) parsePlaceholder() ast.Expression {
	tok := p.cur
	idx, _ := strconv.Atoi(tok.Value)
	return &ast.Placeholder{Token: tok, Index: idx}
}

// ---- Grouping, tuples ----

func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.cur
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleContainer{Token: tok}
	}
	// '(+)', '(*)', ... : an operator symbol referenced as a callable value
	// rather than applied infix (rule 1's final bullet).
	if op, ok := config.LookupOperator(string(p.peek.Type)); ok {
		save := *p
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return &ast.SystemFunctionRef{Token: tok, Name: op.IRName}
		}
		*p = save
	}
	p.nextToken()
	first := p.parseExpression(config.PrecLowest)
	if p.err != nil {
		return first
	}
	if p.peekTokenIs(token.COMMA) {
		elems := []ast.Expression{first}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken() // ','
			if p.peekTokenIs(token.RPAREN) {
				break // trailing comma
			}
			p.nextToken()
			elems = append(elems, p.parseExpression(config.PrecLowest))
			if p.err != nil {
				return nil
			}
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.TupleContainer{Token: tok, Elements: elems}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return first
}

// ---- Unary ----

func (p *Parser) parseUnaryPrefix() ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	p.nextToken()
	operand := p.parseExpression(config.PrecUnary)
	return &ast.UnaryOperation{Token: tok, Op: op, Operand: operand, Postfix: false}
}

// parseNotPrefix handles the textual NOT keyword operator, an IDENT_UPPER
// token the registry marks as an operator alias rather than an ordinary
// identifier (spec.md §2). It binds at the same precedence as '!', the
// operator it is an alias of.
func (p *Parser) parseNotPrefix() ast.Expression {
	tok := p.cur
	p.nextToken()
	operand := p.parseExpression(config.PrecUnary)
	return &ast.UnaryOperation{Token: tok, Op: tok.Value, Operand: operand, Postfix: false}
}

// parseAtPrefix handles '@{' (deferred block) and the general unary '@'
// annotation form (rule 4 plus the UNARY precedence row).
func (p *Parser) parseAtPrefix() ast.Expression {
	tok := p.cur
	switch p.peek.Type {
	case token.LBRACE, token.BRACE_EQ, token.BRACE_Q, token.BRACE_SEMI,
		token.BRACE_PIPE, token.BRACE_COLON, token.BRACE_AT, token.BRACE_BANG, token.BRACE_BRACE:
		p.nextToken()
		body := p.parsePrefixForCurrent()
		return &ast.DeferredBlock{Token: tok, Body: body}
	default:
		p.nextToken()
		val := p.parseExpression(config.PrecUnary)
		return &ast.WithMetadata{Token: tok, Value: val, Properties: nil}
	}
}

// parsePrefixForCurrent dispatches the registered prefix fn for p.cur; used
// where a caller has already advanced onto the token it wants parsed as a
// fresh prefix expression (e.g. immediately after '@').
func (p *Parser) parsePrefixForCurrent() ast.Expression {
	prefix := p.prefixParseFns[p.cur.Type]
	if prefix == nil {
		p.fail(diagnostics.NewParseError(diagnostics.PNoPrefixParseFn, p.pos(), "", string(p.cur.Type)))
		return nil
	}
	return prefix()
}

// ---- Binary / assignment / ternary / interval ----

var pipeKinds = map[token.Type]ast.PipeKind{
	token.PIPE:       ast.PipeFeed,
	token.PIPEMAP:    ast.PipeMap,
	token.PIPEFILTER: ast.PipeFilter,
	token.PIPEREDUCE: ast.PipeReduce,
	token.PIPEEXPL:   ast.PipeExplicit,
}

func (p *Parser) parseBinaryOperation(left ast.Expression) ast.Expression {
	tok := p.cur

	if kind, ok := pipeKinds[tok.Type]; ok {
		p.nextToken()
		target := p.parseExpression(config.PrecPipe)
		return &ast.Pipe{Token: tok, Source: left, Target: target, Kind: kind}
	}

	op := tok.Lexeme
	if p.isKeywordOperator(tok) {
		op = tok.Value
	}
	prec := p.curPrecedence()
	rightPrec := prec
	if p.isRightAssoc(tok.Type) {
		rightPrec = prec - 1
	}
	p.nextToken()
	right := p.parseExpression(rightPrec)
	return &ast.BinaryOperation{Token: tok, Op: op, Left: left, Right: right}
}

// parseAssignment handles '=', ':=', ':=:' uniformly; lowering distinguishes
// plain assignment from function definition from equation by inspecting the
// left operand's shape and the operator spelling (rule 2, rule 12).
func (p *Parser) parseAssignment(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	p.nextToken()
	// Right-associative: parse at the same precedence minus one so a chained
	// "a = b = c" recurses into "a = (b = c)".
	right := p.parseExpression(config.PrecAssignment - 1)
	return &ast.BinaryOperation{Token: tok, Op: op, Left: left, Right: right}
}

// parseArrowDefinition handles '(params) -> body': a named definition when
// the left side is a FunctionCall-shaped parameter list (a lowercase
// identifier's call, steered there by parseCallArguments's definitionLHS
// check), an anonymous FunctionLambda for a bare grouped parameter list
// otherwise.
func (p *Parser) parseArrowDefinition(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	body := p.parseExpression(config.PrecAssignment - 1)
	if p.err != nil {
		return nil
	}

	switch l := left.(type) {
	case *ast.FunctionCall:
		name := ""
		if id, ok := l.Callee.(*ast.UserIdentifier); ok {
			name = id.Name
		}
		return &ast.FunctionDefinition{Token: tok, Name: name, Params: l.Positional, Body: body, Kind: ast.FnArrow}
	case *ast.TupleContainer:
		return &ast.FunctionLambda{Token: tok, Params: l.Elements, Body: body}
	default:
		return &ast.FunctionLambda{Token: tok, Params: []ast.Expression{left}, Body: body}
	}
}

// parseTernaryOrPostfixAsk implements rule 5: '?' immediately followed by
// '(' is the postfix ASK operator (an ordinary unary-postfix node); any
// other '?' is the ternary condition marker.
func (p *Parser) parseTernaryOrPostfixAsk(left ast.Expression) ast.Expression {
	tok := p.cur
	if p.peekTokenIs(token.LPAREN) {
		return &ast.UnaryOperation{Token: tok, Op: "?", Operand: left, Postfix: true}
	}
	p.nextToken()
	// The then-branch is parsed above interval precedence so that its ':'
	// is read as the ternary separator, not as an interval.
	thenExpr := p.parseExpression(config.PrecInterval)
	if p.err != nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	elseExpr := p.parseExpression(config.PrecTernary - 1)
	return &ast.TernaryOperation{Token: tok, Cond: left, Then: thenExpr, Else: elseExpr}
}

// parseInterval implements rule 7: 'a:b' plus an optional stepping suffix.
func (p *Parser) parseInterval(left ast.Expression) ast.Expression {
	tok := p.cur
	var hi ast.Expression
	if !p.peekIsIntervalStepOp() && !p.peekTokenIs(token.NEWLINE) && !p.peekTokenIs(token.SEMI) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		hi = p.parseExpression(config.PrecInterval)
		if p.err != nil {
			return nil
		}
	}
	iv := &ast.Interval{Token: tok, Lo: left, Hi: hi}
	if step := p.tryParseIntervalStep(); step != nil {
		iv.Step = step
	}
	return iv
}

func (p *Parser) peekIsIntervalStepOp() bool {
	switch p.peek.Type {
	case token.COLONPLUS, token.COLONMINUS, token.COLONCOLON, token.COLONCOLONPLUS,
		token.COLONCOLONMINUS, token.COLONSLASH, token.COLONSLASHPLUS, token.COLONPERCENT,
		token.COLONSLASHPERCENT:
		return true
	default:
		return false
	}
}

func (p *Parser) tryParseIntervalStep() *ast.IntervalStepping {
	kinds := map[token.Type]string{
		token.COLONPLUS:         "+",
		token.COLONMINUS:        "-",
		token.COLONCOLON:        "::",
		token.COLONCOLONPLUS:    "::+",
		token.COLONCOLONMINUS:   "::-",
		token.COLONSLASH:        "/",
		token.COLONSLASHPLUS:    "/+",
		token.COLONPERCENT:      "%",
		token.COLONSLASHPERCENT: "/%",
	}
	kind, ok := kinds[p.peek.Type]
	if !ok {
		return nil
	}
	p.nextToken()
	p.nextToken()
	arg := p.parseExpression(config.PrecInterval)
	return &ast.IntervalStepping{Kind: kind, Arg: arg}
}

// ---- Postfix: call, index, dot family ----

// parseCallArguments implements rule 1: the callee's identifier case decides
// FunctionCall vs. ImplicitMultiplication; operator-symbol callees are
// always FunctionCall.
func (p *Parser) parseCallArguments(callee ast.Expression) ast.Expression {
	tok := p.cur
	args := p.parseExpressionList(token.RPAREN)
	if p.err != nil {
		return nil
	}

	if id, ok := callee.(*ast.UserIdentifier); ok {
		// A lowercase `name(...)` immediately followed by an assignment
		// operator is a function-definition parameter list, not a call
		// (rule 1's third bullet): lowering keys off FunctionCall-shaped
		// left-hand sides, so this must stay a FunctionCall rather than
		// fold into ImplicitMultiplication.
		definitionLHS := p.peekTokenIs(token.ASSIGN) || p.peekTokenIs(token.WALRUS) ||
			p.peekTokenIs(token.EQUATION) || p.peekTokenIs(token.ARROW)
		if id.LeadingUpper || definitionLHS {
			return &ast.FunctionCall{Token: tok, Callee: callee, Positional: args}
		}
		var tuple ast.Expression
		if len(args) == 1 {
			tuple = args[0]
		} else {
			tuple = &ast.TupleContainer{Token: tok, Elements: args}
		}
		return &ast.ImplicitMultiplication{Token: tok, Left: callee, Right: tuple}
	}
	return &ast.FunctionCall{Token: tok, Callee: callee, Positional: args}
}

// parseIndex treats postfix 'obj[key]' as sugar over the same GET system
// function that '.key' lowers to.
func (p *Parser) parseIndex(obj ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	key := p.parseExpression(config.PrecLowest)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.SystemCall{Token: tok, Name: "GET", Args: []ast.Expression{obj, key}}
}

func (p *Parser) parseDotAccess(obj ast.Expression) ast.Expression {
	tok := p.cur
	if !p.expectPeek(token.IDENT_LOWER) && !p.curTokenIs(token.IDENT_UPPER) {
		if !p.peekTokenIs(token.IDENT_UPPER) {
			return nil
		}
		p.nextToken()
	}
	return &ast.DotAccess{Token: tok, Object: obj, Key: p.cur.Value}
}

// parseExternalAccess implements rule 10's '..'/'.|'/'|.' trio for '..'.
func (p *Parser) parseExternalAccess(obj ast.Expression) ast.Expression {
	tok := p.cur
	if p.peekTokenIs(token.IDENT_LOWER) || p.peekTokenIs(token.IDENT_UPPER) {
		p.nextToken()
		return &ast.ExternalAccess{Token: tok, Object: obj, Key: p.cur.Value, HasKey: true}
	}
	return &ast.ExternalAccess{Token: tok, Object: obj, HasKey: false}
}

func (p *Parser) parseKeySet(obj ast.Expression) ast.Expression {
	return &ast.KeySet{Token: p.cur, Object: obj}
}

func (p *Parser) parseValueSet(obj ast.Expression) ast.Expression {
	return &ast.ValueSet{Token: p.cur, Object: obj}
}

// parseExpressionList parses a comma-separated expression list up to (and
// consuming) end. Every entry is positional: a `name = expr` argument parses
// as an ordinary BinaryOperation, and no caller moves it into
// FunctionCall.Keyword, so it lowers like any other '=' expression.
func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(config.PrecLowest))
	if p.err != nil {
		return nil
	}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		list = append(list, p.parseExpression(config.PrecLowest))
		if p.err != nil {
			return nil
		}
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}
