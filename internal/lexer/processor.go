package lexer

import (
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/pipeline"
	"github.com/rixlang/rix/internal/token"
)

// lookaheadBufferSize bounds how much consumed lookahead the buffered lexer
// retains before trimming, so that unbounded Peek use doesn't grow forever.
const lookaheadBufferSize = 10

// bufferedLexer adapts a Lexer into pipeline.TokenStream, giving the parser
// Peek(n) lookahead over an otherwise single-pass token sequence.
type bufferedLexer struct {
	l      *Lexer
	buffer []token.Token
	pos    int
}

// NewTokenStream wraps l for pipeline consumption.
func NewTokenStream(l *Lexer) pipeline.TokenStream {
	return &bufferedLexer{l: l}
}

// Errors reports LexErrors accumulated so far by the underlying Lexer.
// Because scanning is pull-based, the result only reflects tokens actually
// consumed through Next/Peek; callers read it after the parser has finished.
func (bl *bufferedLexer) Errors() []*diagnostics.DiagnosticError { return bl.l.Errors() }

func (bl *bufferedLexer) Next() token.Token {
	if bl.pos < len(bl.buffer) {
		tok := bl.buffer[bl.pos]
		bl.pos++
		return tok
	}
	return bl.l.NextToken()
}

func (bl *bufferedLexer) Peek(n int) []token.Token {
	if len(bl.buffer)-bl.pos == 0 {
		bl.buffer = append(bl.buffer, bl.l.NextToken())
	}
	for len(bl.buffer)-bl.pos <= n {
		last := bl.buffer[len(bl.buffer)-1]
		if last.Type == token.EOF {
			break
		}
		bl.buffer = append(bl.buffer, bl.l.NextToken())
	}

	if bl.pos > lookaheadBufferSize {
		bl.buffer = bl.buffer[bl.pos:]
		bl.pos = 0
	}

	end := bl.pos + n + 1
	if end > len(bl.buffer) {
		end = len(bl.buffer)
	}
	return bl.buffer[bl.pos:end]
}

// TokenizerProcessor is the pipeline stage that turns source text into a
// token stream.
type TokenizerProcessor struct{}

func (tp *TokenizerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	ctx.TokenStream = NewTokenStream(l)
	return ctx
}
