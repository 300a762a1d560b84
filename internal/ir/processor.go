package ir

import (
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/pipeline"
)

// Processor is the pipeline's final stage: it lowers ctx.AstRoot into
// ctx.IRRoot. IRRoot is declared interface{} on PipelineContext to avoid an
// import cycle (pipeline cannot import ir, since ir.Processor must satisfy
// pipeline.Processor); this stage is the only place that type-asserts it.
type Processor struct{}

func (lp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		ctx.AddError(diagnostics.NewLowerError(diagnostics.WNoLoweringRule,
			diagnostics.Position{}, "parser stage did not run", "Program"))
		return ctx
	}

	root, err := Lower(ctx.AstRoot, ctx.Registry)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.IRRoot = root
	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
