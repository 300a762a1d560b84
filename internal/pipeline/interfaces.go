package pipeline

import "github.com/rixlang/rix/internal/token"

// Processor is any stage that can process a PipelineContext and return a
// (possibly the same, mutated) context. Each of Tokenizer, Parser, and
// Lowering is a Processor.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// TokenStream is the contract for a buffered token stream: a cursor with
// bounded lookahead over an otherwise linear sequence.
type TokenStream interface {
	// Next consumes and returns the next token from the stream.
	Next() token.Token

	// Peek returns up to n+1 tokens ahead without consuming them.
	Peek(n int) []token.Token
}
