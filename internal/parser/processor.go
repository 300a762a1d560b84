package parser

import (
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/pipeline"
)

// Processor is the pipeline stage running the Pratt parser over the
// tokenizer's stream, producing ctx.AstRoot.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		ctx.AddError(diagnostics.NewParseError(diagnostics.PUnexpectedToken,
			diagnostics.Position{}, "token stream is nil; tokenizer stage did not run"))
		return ctx
	}

	p := New(ctx.TokenStream, ctx.Registry, ctx)
	ctx.AstRoot = p.ParseProgram()

	// A LexError recorded while the parser pulled tokens is reported in
	// preference to any ParseError.
	if ls, ok := ctx.TokenStream.(interface {
		Errors() []*diagnostics.DiagnosticError
	}); ok && len(ls.Errors()) > 0 {
		ctx.AddError(ls.Errors()[0])
		return ctx
	}

	if err := p.Err(); err != nil {
		ctx.AddError(err)
	}

	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
