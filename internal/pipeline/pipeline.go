package pipeline

import "github.com/rixlang/rix/internal/diagnostics"

// Pipeline is the three-stage sequence: Tokenizer, Parser, Lowering. Each
// stage is a pure function over its input; the first stage to record an
// error halts the run, per the propagation policy (first error wins, no
// partial results).
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline from an ordered list of stages.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order over ctx, stopping as soon as any stage
// records a diagnostic.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.HasErrors() {
			break
		}
		select {
		case <-ctx.Ctx.Done():
			ctx.AddError(&diagnostics.DiagnosticError{
				Code:  diagnostics.WCancelled,
				Phase: diagnostics.PhaseParse,
			})
			return ctx
		default:
		}
	}
	return ctx
}
