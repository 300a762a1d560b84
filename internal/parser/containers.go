package parser

import (
	"github.com/rixlang/rix/internal/ast"
	"github.com/rixlang/rix/internal/config"
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/token"
)

// ---- Bracketed literals: Array / Matrix / Tensor / GeneratorChain ----

var generatorOpTokens = map[token.Type]string{
	token.GENPLUS:  "+",
	token.GENSTAR:  "*",
	token.GENCOLON: ":",
	token.GENPIPE:  "|>",
	token.GENQ:     "?",
	token.GENSEMI:  ";",
	token.GENCARET: "^",
}

// parseBracketLiteral parses '[ ... ]'. A first element followed by a
// generator-chain operator, directly or after a ',', switches into
// GeneratorChain parsing (rule 6);
// otherwise the separator mix (','/';'/';;') decides Array/Matrix/Tensor
// rank (rule 8).
func (p *Parser) parseBracketLiteral() ast.Expression {
	tok := p.cur
	p.bracketDepth++
	defer func() { p.bracketDepth-- }()

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.Array{Token: tok, Meta: ast.ArrayMetadata{Rank: 1}}
	}

	p.nextToken()
	first := p.parseExpression(config.PrecPipe)
	if p.err != nil {
		return nil
	}

	if p.peekStartsGeneratorOp() {
		return p.parseGeneratorChain(tok, first)
	}

	row := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		row = append(row, p.parseExpression(config.PrecPipe))
		if p.err != nil {
			return nil
		}
	}

	if !p.peekTokenIs(token.SEMI) && !p.peekTokenIs(token.DBLSEMI) {
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.Array{Token: tok, Elements: row, Meta: ast.ArrayMetadata{Rank: 1}}
	}

	rows := [][]ast.Expression{row}
	for p.peekTokenIs(token.SEMI) {
		p.nextToken()
		next := p.parseBracketRow()
		if p.err != nil {
			return nil
		}
		if len(next) != len(row) {
			p.fail(diagnostics.NewParseError(diagnostics.PRaggedMatrix, p.pos(), "", len(rows)+1))
			return nil
		}
		rows = append(rows, next)
	}

	if !p.peekTokenIs(token.DBLSEMI) {
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.Matrix{Token: tok, Rows: rows}
	}

	layers := [][][]ast.Expression{rows}
	for p.peekTokenIs(token.DBLSEMI) {
		p.nextToken()
		firstRow := p.parseBracketRow()
		if p.err != nil {
			return nil
		}
		layerRows := [][]ast.Expression{firstRow}
		for p.peekTokenIs(token.SEMI) {
			p.nextToken()
			next := p.parseBracketRow()
			if p.err != nil {
				return nil
			}
			if len(next) != len(firstRow) {
				p.fail(diagnostics.NewParseError(diagnostics.PRaggedMatrix, p.pos(), "", len(layerRows)+1))
				return nil
			}
			layerRows = append(layerRows, next)
		}
		if len(layerRows) != len(rows) {
			p.fail(diagnostics.NewParseError(diagnostics.PRaggedMatrix, p.pos(), "", len(layers)+1))
			return nil
		}
		layers = append(layers, layerRows)
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.Tensor{Token: tok, Layers: layers}
}

func (p *Parser) parseBracketRow() []ast.Expression {
	p.nextToken()
	first := p.parseExpression(config.PrecPipe)
	if p.err != nil {
		return nil
	}
	row := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		row = append(row, p.parseExpression(config.PrecPipe))
		if p.err != nil {
			return nil
		}
	}
	return row
}

// parseGeneratorChain parses the remainder of a '[initial |+ step |; stop]'
// sequence DSL, whose elements may also be separated by ','
// ('[initial, |+ step, |; stop]'). A trailing ';'-tagged ('|;') term records
// the stop bound; its absence marks the chain Lazy (unbounded).
func (p *Parser) parseGeneratorChain(tok token.Token, initial ast.Expression) ast.Expression {
	chain := &ast.GeneratorChain{Token: tok, Initial: initial, Lazy: true}
	for p.peekStartsGeneratorOp() {
		if p.peekTokenIs(token.COMMA) {
			p.nextToken() // consume ','
		}
		sym := generatorOpTokens[p.peek.Type]
		isStop := p.peek.Type == token.GENSEMI
		p.nextToken() // consume operator
		p.nextToken()
		arg := p.parseExpression(config.PrecPipe)
		if p.err != nil {
			return nil
		}
		if isStop {
			chain.Stop = arg
			chain.Lazy = false
			continue
		}
		chain.Ops = append(chain.Ops, ast.GeneratorOp{Op: sym, Arg: arg})
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return chain
}

// peekStartsGeneratorOp reports whether the next token is a generator-chain
// operator, or a ',' directly followed by one.
func (p *Parser) peekStartsGeneratorOp() bool {
	if _, ok := generatorOpTokens[p.peek.Type]; ok {
		return true
	}
	if !p.peekTokenIs(token.COMMA) {
		return false
	}
	next := p.stream.Peek(0)
	if len(next) == 0 {
		return false
	}
	_, ok := generatorOpTokens[next[0].Type]
	return ok
}

// ---- Brace sigils ----

// parseLegacyBrace parses a plain '{...}' with no sigil: all-pair ('k := v')
// contents infer MapContainer, anything else infers SetContainer (rule 3).
func (p *Parser) parseLegacyBrace() ast.Expression {
	tok := p.cur
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.SetContainer{Token: tok}
	}
	p.nextToken()
	first := p.parseExpression(config.PrecLowest)
	if p.err != nil {
		return nil
	}
	if bo, ok := first.(*ast.BinaryOperation); ok && bo.Op == ":=" {
		pairs := []ast.MapPair{{Key: bo.Left, Value: bo.Right}}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACE) {
				break
			}
			p.nextToken()
			next := p.parseExpression(config.PrecLowest)
			if p.err != nil {
				return nil
			}
			nbo, ok := next.(*ast.BinaryOperation)
			if !ok || nbo.Op != ":=" {
				p.unexpected("map pair 'key := value'")
				return nil
			}
			pairs = append(pairs, ast.MapPair{Key: nbo.Left, Value: nbo.Right})
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		return &ast.MapContainer{Token: tok, Pairs: pairs}
	}

	elems := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		elems = append(elems, p.parseExpression(config.PrecPipe))
		if p.err != nil {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.SetContainer{Token: tok, Elements: elems}
}

// parseMapSigil parses '{= k := v, ... }' and its '{: ... }' ordered variant.
func (p *Parser) parseMapSigil() ast.Expression {
	tok := p.cur
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.MapContainer{Token: tok}
	}
	var pairs []ast.MapPair
	for {
		p.nextToken()
		key := p.parseExpression(config.PrecPipe)
		if p.err != nil {
			return nil
		}
		if !p.expectPeek(token.WALRUS) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(config.PrecPipe)
		if p.err != nil {
			return nil
		}
		pairs = append(pairs, ast.MapPair{Key: key, Value: val})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.MapContainer{Token: tok, Pairs: pairs}
}

// parseSetSigil parses '{| a, b, c }'.
func (p *Parser) parseSetSigil() ast.Expression {
	tok := p.cur
	elems := p.parseCommaElementsUntilRBrace()
	if p.err != nil {
		return nil
	}
	return &ast.SetContainer{Token: tok, Elements: elems}
}

func (p *Parser) parseCommaElementsUntilRBrace() []ast.Expression {
	var elems []ast.Expression
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return elems
	}
	for {
		p.nextToken()
		elems = append(elems, p.parseExpression(config.PrecPipe))
		if p.err != nil {
			return nil
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return elems
}

// parseBlockSigil parses '{; s1; s2; ... }'. It is also registered for
// BRACE_BRACE ('{{'), but the lexer's symbol table has no '{{' entry, so two
// adjacent braces reach the parser as two LBRACE tokens instead.
func (p *Parser) parseBlockSigil() ast.Expression {
	tok := p.cur
	block := &ast.BlockContainer{Token: tok}
	p.nextToken()
	p.skipNewlines()
	closer := token.RBRACE
	for !p.curTokenIs(closer) && !p.curTokenIs(token.EOF) {
		stmt := p.parseExpression(config.PrecLowest)
		if p.err != nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
		p.skipNewlines()
	}
	if !p.curTokenIs(closer) {
		p.unexpected("}")
		return nil
	}
	return block
}

// parseCaseSigil parses '{? c1 ? r1; c2 ? r2; default }'; a clause with no
// '?' separator is the trailing default (Cond == nil).
func (p *Parser) parseCaseSigil() ast.Expression {
	tok := p.cur
	container := &ast.CaseContainer{Token: tok}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return container
	}
	for {
		p.nextToken()
		expr := p.parseExpression(config.PrecTernary)
		if p.err != nil {
			return nil
		}
		clause := ast.CaseClause{}
		if p.peekTokenIs(token.QUESTION) {
			p.nextToken()
			p.nextToken()
			result := p.parseExpression(config.PrecTernary)
			if p.err != nil {
				return nil
			}
			clause.Cond = expr
			clause.Result = result
		} else {
			clause.Result = expr
		}
		container.Clauses = append(container.Clauses, clause)
		if !p.peekTokenIs(token.SEMI) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return container
}

// parseLoopSigil parses '{@ init; cond; body; step }'.
func (p *Parser) parseLoopSigil() ast.Expression {
	tok := p.cur
	p.nextToken()
	loop := &ast.LoopContainer{Token: tok}
	loop.Init = p.parseExpression(config.PrecLowest)
	if p.err != nil {
		return nil
	}
	if !p.expectPeek(token.SEMI) {
		return nil
	}
	p.nextToken()
	loop.Cond = p.parseExpression(config.PrecLowest)
	if p.err != nil {
		return nil
	}
	if !p.expectPeek(token.SEMI) {
		return nil
	}
	p.nextToken()
	loop.Body = p.parseExpression(config.PrecLowest)
	if p.err != nil {
		return nil
	}
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
		p.nextToken()
		loop.Step = p.parseExpression(config.PrecLowest)
		if p.err != nil {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return loop
}

// parseMutation implements rule 9's postfix '{= ...}' (copy) / '{! ...}'
// (in place) mutation applied to an already-parsed target expression.
func (p *Parser) parseMutation(target ast.Expression) ast.Expression {
	tok := p.cur
	mut := &ast.Mutation{Token: tok, Target: target, InPlace: tok.Type == token.BRACE_BANG}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return mut
	}
	for {
		op := p.parseMutationOp()
		if p.err != nil {
			return nil
		}
		mut.Ops = append(mut.Ops, op)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return mut
}

func (p *Parser) parseMutationOp() ast.MutationOp {
	if !p.peekTokenIs(token.PLUS) && !p.peekTokenIs(token.MINUS) {
		p.unexpected("'+' or '-'")
		return ast.MutationOp{}
	}
	p.nextToken()
	adding := p.curTokenIs(token.PLUS)

	if p.peekTokenIs(token.DOT) {
		p.nextToken()
	}
	if !p.expectPeek(token.IDENT_LOWER) {
		return ast.MutationOp{}
	}
	key := p.cur.Value

	op := ast.MutationOp{Key: key}
	switch {
	case !adding:
		op.Kind = "remove"
	case p.peekTokenIs(token.ASSIGN):
		p.nextToken()
		p.nextToken()
		op.Value = p.parseExpression(config.PrecPipe)
		op.Kind = "set"
	default:
		op.Kind = "merge"
	}
	return op
}
