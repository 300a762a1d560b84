package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/rixlang/rix/internal/ast"
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/registry"
)

// PipelineContext holds everything shared between the tokenizer, parser, and
// lowering stages of a single parse/lower invocation.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	// SessionID correlates this invocation's diagnostics and logs; it has no
	// bearing on parse semantics.
	SessionID uuid.UUID

	// Ctx carries the optional cancellation token checked at statement
	// boundaries during parsing.
	Ctx context.Context

	// Registry is the keyword/system-function table; logically immutable
	// for the duration of one pipeline run.
	Registry *registry.Registry

	TokenStream TokenStream
	AstRoot     *ast.Program

	// IRRoot holds the lowered *ir.Node. Declared as interface{} (the same
	// escape hatch as the TokenStream field, which holds an interface rather
	// than a lexer type) to avoid an import cycle between pipeline and ir, since ir.Processor
	// also implements pipeline.Processor.
	IRRoot interface{}

	Errors []*diagnostics.DiagnosticError
}

// NewPipelineContext creates a context for a fresh parse of source, with a
// new session id and the default (core-tier) registry.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		SessionID:  uuid.New(),
		Ctx:        context.Background(),
		Registry:   registry.New(),
		Errors:     []*diagnostics.DiagnosticError{},
	}
}

// WithRegistry overrides the context's registry handle, e.g. to share one
// snapshot across several concurrent parses.
func (c *PipelineContext) WithRegistry(r *registry.Registry) *PipelineContext {
	c.Registry = r
	return c
}

// AddError appends a diagnostic without halting; the first-error-halts
// policy is enforced by each stage itself (a stage stops calling Process
// once it has recorded an error, and Pipeline.Run checks HasErrors).
func (c *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	c.Errors = append(c.Errors, err)
}

func (c *PipelineContext) HasErrors() bool { return len(c.Errors) > 0 }
